// Package routes defines HTTP route constants for the application.
package routes

// Pages
const (
	RootPath     = "/"
	ComposerPath = "/composer"
	DraftsPath   = "/drafts"
	SettingsPath = "/settings"
)

// Composer partials
const (
	ComposerMessages       = "/composer/messages"
	ComposerTranscript     = "/composer/transcript"
	ComposerPreview        = "/composer/preview"
	ComposerTitle          = "/composer/title"
	ComposerSave           = "/composer/save"
	ComposerImage          = "/composer/image"
	ComposerPublish        = "/composer/publish"
	ComposerPublishConfirm = "/composer/publish/confirm"
	ComposerNew            = "/composer/new"
)

// Drafts and settings
const (
	DraftEdit          = "/drafts/{id}/edit"
	DraftDelete        = "/drafts/{id}/delete"
	SettingsConnect    = "/settings/connect"
	SettingsDisconnect = "/settings/disconnect"
)

const (
	// Static and assets
	RobotsPath        = "/robots.txt"
	ThemeToggle       = "/theme/toggle"
	ThemeOppositeIcon = "/theme/opposite-icon"
	SyntaxThemeGet    = "/syntax-theme/{theme}"

	// SSE
	SSEPath = "/sse"

	HealthPath = "/healthz"
)

// API
const (
	APIDrafts     = "/api/drafts"
	APIDraft      = "/api/drafts/{id}"
	APIConnection = "/api/connection"
	APIPublish    = "/api/publish"
)

// DraftEditPath returns the edit route of a draft.
func DraftEditPath(id string) string {
	return "/drafts/" + id + "/edit"
}

func DraftDeletePath(id string) string {
	return "/drafts/" + id + "/delete"
}
