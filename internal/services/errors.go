package services

import "github.com/yagontorron/needitv1/internal/apperr"

var (
	ErrNotAuthenticated = apperr.Unauthenticated("sign in required")
	ErrForbidden        = apperr.Forbidden("not allowed")
	ErrValidation       = apperr.InvalidArg("title, description and category are required")

	// auth
	ErrEmailTaken         = apperr.AlreadyExists("email already registered")
	ErrInvalidCredentials = apperr.Unauthenticated("invalid email or password")
	ErrUserNotFound       = apperr.NotFound("user not found")
	ErrMissingFields      = apperr.InvalidArg("please fill in all fields")
	ErrPasswordMismatch   = apperr.InvalidArg("passwords do not match")
	ErrWeakPassword       = apperr.InvalidArg("password must be at least 8 characters")
	ErrInvalidEmail       = apperr.InvalidArg("email address is not valid")
	ErrEmptyDisplayName   = apperr.InvalidArg("display name must not be empty")

	// needs
	ErrNeedNotFound     = apperr.NotFound("need not found")
	ErrCategoryNotFound = apperr.NotFound("category not found")
	ErrTooManyImages    = apperr.InvalidArg("a need can have at most 5 images")
	ErrInvalidStatus    = apperr.InvalidArg("status must be active, fulfilled or closed")
	ErrInvalidPrice     = apperr.InvalidArg("price must not be negative")

	// messaging
	ErrConversationNotFound = apperr.NotFound("conversation not found")
	ErrNotMember            = apperr.Forbidden("not a member of this conversation")
	ErrEmptyMessage         = apperr.InvalidArg("message text is empty")
	ErrSelfConversation     = apperr.InvalidArg("you cannot message yourself")
)
