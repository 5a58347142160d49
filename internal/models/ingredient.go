package models

type Ingredient struct {
	ID              uint64 `gorm:"primarykey" json:"id"`
	Name            string `gorm:"type:varchar(254);not null;uniqueIndex:uniq_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(200);not null;uniqueIndex:uniq_ingredient_name_unit" json:"measurement_unit"`
}
