package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/mlebedeva/foodgram-api/internal/errors"
	"github.com/mlebedeva/foodgram-api/internal/repository"
	"gorm.io/gorm"
)

// TagHandler serves the read-only tag reference data
type TagHandler struct {
	catalogRepo repository.CatalogRepository
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(catalogRepo repository.CatalogRepository) *TagHandler {
	return &TagHandler{
		catalogRepo: catalogRepo,
	}
}

// ListTags returns all tags, unpaginated
func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.catalogRepo.ListTags()
	if err != nil {
		apierrors.InternalError(c, "Failed to list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GetTag returns one tag by ID
func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid tag ID")
		return
	}

	tag, err := h.catalogRepo.FindTagByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, "Tag not found")
			return
		}
		apierrors.InternalError(c, "Failed to load tag")
		return
	}

	c.JSON(http.StatusOK, tag)
}
