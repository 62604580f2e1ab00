package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HHxRedirect   = "HX-Redirect"
	HHxTrigger    = "HX-Trigger"
	HHxRequest    = "HX-Request"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html"
	CTypeJSON = "application/json"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
)

const (
	CookieTheme           = "theme"
	CookieSyntaxTheme     = "syntax-theme"
	CookieComposerSession = "composer-session"
)
