package constants

// Context keys
const (
	ContextKeyUser   = "current_user"
	ContextKeyUserID = "user_id"
)

// Auth
const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
	TokenTypeBearer     = "bearer"
	MinPasswordLength   = 8
)

// Pagination
const (
	DefaultSkip  = 0
	DefaultLimit = 10
)
