package theme

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debemdeboas/postcraft/internal/config"
)

var defaultThemeConfig = config.Default().Theme

func TestGenerateSyntaxCSS(t *testing.T) {
	testCases := []struct {
		name  string
		theme string
	}{
		{"Valid Theme - Monokai", "monokai"},
		{"Valid Theme - Gruvbox", "gruvbox"},
		{"Non-existent Theme - Fallback", "nonexistent-theme-12345"},
		{"Empty Theme Name", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			css1 := GenerateSyntaxCSS(tc.theme)
			if css1 == "" {
				t.Fatalf("Expected non-empty CSS for theme %q", tc.theme)
			}
			if !strings.Contains(string(css1), ".chroma") {
				t.Errorf("Expected CSS to contain .chroma selectors")
			}

			cached, ok := syntaxCSSCache.Get(tc.theme)
			if !ok {
				t.Fatalf("Expected theme %q to be cached", tc.theme)
			}
			if cached != css1 {
				t.Error("Expected cached CSS to match generated CSS")
			}

			if css2 := GenerateSyntaxCSS(tc.theme); css2 != css1 {
				t.Error("Expected second call to return cached CSS")
			}
		})
	}
}

func TestGetThemeFromRequest(t *testing.T) {
	testCases := []struct {
		name          string
		cookieValue   string
		hasCookie     bool
		expectedTheme string
	}{
		{"No cookie - use default", "", false, config.DarkTheme},
		{"Light theme cookie", "light", true, config.LightTheme},
		{"Dark class cookie", config.DarkTheme, true, config.DarkTheme},
		{"Unknown cookie falls back", "custom", true, config.DefaultTheme},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.hasCookie {
				req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: tc.cookieValue})
			}

			if got := GetThemeFromRequest(req, defaultThemeConfig); got != tc.expectedTheme {
				t.Errorf("Expected theme %s, got %s", tc.expectedTheme, got)
			}
		})
	}
}

func TestGetSyntaxThemeFromRequest(t *testing.T) {
	t.Run("Syntax cookie wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: config.CookieSyntaxTheme, Value: "monokai"})
		if got := GetSyntaxThemeFromRequest(req, defaultThemeConfig); got != "monokai" {
			t.Errorf("Expected monokai, got %s", got)
		}
	})

	t.Run("Light page theme default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: config.LightTheme})
		if got := GetSyntaxThemeFromRequest(req, defaultThemeConfig); got != "catppuccin-latte" {
			t.Errorf("Expected catppuccin-latte, got %s", got)
		}
	})

	t.Run("Dark default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if got := GetSyntaxThemeFromRequest(req, defaultThemeConfig); got != "gruvbox" {
			t.Errorf("Expected gruvbox, got %s", got)
		}
	})

	t.Run("Configured defaults", func(t *testing.T) {
		cfg := config.ThemeConfig{
			Default:            "light",
			SyntaxHighlighting: config.SyntaxConfig{DefaultDark: "dracula", DefaultLight: "github"},
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if got := GetThemeFromRequest(req, cfg); got != config.LightTheme {
			t.Errorf("Expected configured light theme, got %s", got)
		}
		if got := GetSyntaxThemeFromRequest(req, cfg); got != "github" {
			t.Errorf("Expected github, got %s", got)
		}
	})
}

func TestToggle(t *testing.T) {
	if got := Toggle(config.DarkTheme); got != config.LightTheme {
		t.Errorf("Expected light after dark, got %s", got)
	}
	if got := Toggle(config.LightTheme); got != config.DarkTheme {
		t.Errorf("Expected dark after light, got %s", got)
	}
	if got := Toggle("weird"); got != config.LightTheme {
		t.Errorf("Expected unknown theme to be treated as dark, got %s", got)
	}
}

func TestGetThemeIcon(t *testing.T) {
	testCases := []struct {
		name         string
		theme        string
		expectedIcon string
	}{
		{"Light theme returns dark icon", config.LightTheme, config.DarkThemeIcon},
		{"Dark theme returns light icon", config.DarkTheme, config.LightThemeIcon},
		{"Unknown theme returns light icon", "unknown", config.LightThemeIcon},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if icon := GetThemeIcon(tc.theme); icon != tc.expectedIcon {
				t.Errorf("Expected icon %s, got %s", tc.expectedIcon, icon)
			}
		})
	}
}

func BenchmarkGenerateSyntaxCSS(b *testing.B) {
	GenerateSyntaxCSS("monokai")
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		GenerateSyntaxCSS("monokai")
	}
}
