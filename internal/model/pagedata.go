package model

import (
	"html/template"
	"net/http"

	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/theme"
)

// Page identifies one of the navigation targets.
type Page string

const (
	PageHome     Page = "home"
	PageComposer Page = "composer"
	PageDrafts   Page = "drafts"
	PageSettings Page = "settings"
)

type NavItem struct {
	Page  Page
	Label string
	Path  string
}

var Navigation = []NavItem{
	{PageHome, "Home", "/"},
	{PageComposer, "Create Post", "/composer"},
	{PageDrafts, "Drafts", "/drafts"},
	{PageSettings, "Settings", "/settings"},
}

type PageData struct {
	SiteName string
	Tagline  string

	Page    Page
	PageURL string
	Nav     []NavItem

	Theme     string
	SyntaxCSS template.CSS

	Connected bool
}

// NewPageData builds the layout data for page from the request cookies and cfg.
func NewPageData(r *http.Request, cfg *config.Config, page Page, connected bool) *PageData {
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r, cfg.Theme)
	return &PageData{
		SiteName:  cfg.Site.Name,
		Tagline:   cfg.Site.Tagline,
		Page:      page,
		PageURL:   r.URL.Path,
		Nav:       Navigation,
		Theme:     theme.GetThemeFromRequest(r, cfg.Theme),
		SyntaxCSS: theme.GenerateSyntaxCSS(syntaxTheme),
		Connected: connected,
	}
}

func (pd *PageData) IsActive(page Page) bool {
	return pd.Page == page
}
