// Package theme handles the light/dark page theme and the syntax CSS used by post previews.
package theme

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/debemdeboas/postcraft/internal/cache"
	"github.com/debemdeboas/postcraft/internal/config"
)

var syntaxCSSCache = cache.NewCache[string, template.CSS]()

// GetThemeFromRequest returns the page theme from the cookie, or cfg's default.
func GetThemeFromRequest(r *http.Request, cfg config.ThemeConfig) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil {
		return config.ThemeName(cookie.Value)
	}
	return config.ThemeName(cfg.Default)
}

// Toggle returns the opposite page theme.
func Toggle(current string) string {
	if config.ThemeName(current) == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

func GetDefaultSyntaxTheme(cfg config.ThemeConfig, theme string) string {
	if config.ThemeName(theme) == config.LightTheme {
		return cfg.SyntaxHighlighting.DefaultLight
	}
	return cfg.SyntaxHighlighting.DefaultDark
}

func GetSyntaxThemeFromRequest(r *http.Request, cfg config.ThemeConfig) string {
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return GetDefaultSyntaxTheme(cfg, GetThemeFromRequest(r, cfg))
}

func GetFormatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WrapLongLines(true),
	)
}

func GenerateSyntaxCSS(theme string) template.CSS {
	if css, ok := syntaxCSSCache.Get(theme); ok {
		return css
	}

	var buf strings.Builder
	formatter := GetFormatter()
	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	bg := style.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Calculate the color of highlighted text given the background color
		// for when the Chroma theme doesn't supply a default
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	if err := formatter.WriteCSS(&buf, style); err != nil {
		return ""
	}
	css := template.CSS(buf.String())
	syntaxCSSCache.Set(theme, css)
	return css
}

func GetThemeIcon(theme string) string {
	if config.ThemeName(theme) == config.LightTheme {
		return config.DarkThemeIcon
	}
	return config.LightThemeIcon
}
