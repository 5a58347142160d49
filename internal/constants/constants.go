package constants

// Session
const (
	SessionCookieName = "foodgram_session"
	ContextKeyUserID  = "user_id"
)

// Pagination
const (
	MinPage         = 1
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// Auth
const MinPasswordLength = 8

// Shopping list download
const ShoppingCartFilename = "shopping_cart.txt"

// Media storage
const DefaultMediaDir = "media/images"
