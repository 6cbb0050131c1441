package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session invalid or expired")
	ErrForbidden        = fmt.Errorf("forbidden")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Domain errors
	ErrNotFound          = fmt.Errorf("not found")
	ErrDuplicate         = fmt.Errorf("already exists")
	ErrCatalogUnreadable = fmt.Errorf("festival catalog unreadable")
	ErrSuggestionClosed  = fmt.Errorf("suggestion already resolved")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
