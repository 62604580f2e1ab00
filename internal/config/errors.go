package config

const (
	// Database errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"

	// Draft store errors
	ErrDraftNotFound = "Draft not found"
	ErrSaveDraft     = "Error saving draft"
	ErrDeleteDraft   = "Error deleting draft"
	ErrSearchDrafts  = "Error searching drafts"

	// Composer errors
	ErrSessionRequired = "Composer session required"
	ErrEmptyMessage    = "Message must not be empty"

	// Connection errors
	ErrNotConnected = "Account is not connected"
	ErrEmptyPost    = "Post content must not be empty"

	ErrInternalServerError = "Internal server error"
	ErrBadRequest          = "Bad request"
)
