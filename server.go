package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/debemdeboas/postcraft/internal/app"
	"github.com/debemdeboas/postcraft/internal/cache"
	"github.com/debemdeboas/postcraft/internal/composer"
	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/model"
	"github.com/debemdeboas/postcraft/internal/notify"
	"github.com/debemdeboas/postcraft/internal/render"
	"github.com/debemdeboas/postcraft/internal/routes"
	"github.com/debemdeboas/postcraft/internal/sse"
	"github.com/debemdeboas/postcraft/internal/theme"
	"github.com/debemdeboas/postcraft/internal/util"
)

type server struct {
	app *app.App
	fs  fs.FS
}

func newServer(a *app.App, files fs.FS) *server {
	return &server{app: a, fs: files}
}

// Handler builds the full route table wrapped in the middleware chain.
func (s *server) Handler() http.Handler {
	static, err := fs.Sub(s.fs, config.StaticLocalDir)
	if err != nil {
		panic(err)
	}

	// Calculate the hash of static content
	fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if data, err := fs.ReadFile(static, path); err == nil {
			cache.SetStaticHash(config.StaticUrlPath+path, util.ContentHash(data))
		}
		return nil
	})

	mux := http.NewServeMux()

	mux.HandleFunc("GET "+routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})
	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))

	// Pages
	mux.HandleFunc("GET /{$}", s.serveIndex)
	mux.HandleFunc("GET "+routes.ComposerPath, s.serveComposer)
	mux.HandleFunc("GET "+routes.DraftsPath, s.serveDrafts)
	mux.HandleFunc("GET "+routes.SettingsPath, s.serveSettings)

	// Composer
	mux.HandleFunc("POST "+routes.ComposerMessages, s.serveSubmitMessage)
	mux.HandleFunc("GET "+routes.ComposerTranscript, s.serveTranscript)
	mux.HandleFunc("GET "+routes.ComposerPreview, s.servePreview)
	mux.HandleFunc("POST "+routes.ComposerTitle, s.serveSetTitle)
	mux.HandleFunc("POST "+routes.ComposerSave, s.serveSaveDraft)
	mux.HandleFunc("POST "+routes.ComposerImage, s.serveImage)
	mux.HandleFunc("POST "+routes.ComposerPublish, s.servePublish)
	mux.HandleFunc("POST "+routes.ComposerPublishConfirm, s.servePublishConfirm)
	mux.HandleFunc("GET "+routes.ComposerNew, s.serveNewComposer)

	// Drafts and settings
	mux.HandleFunc("GET "+routes.DraftEdit, s.serveEditDraft)
	mux.HandleFunc("POST "+routes.DraftDelete, s.serveDeleteDraft)
	mux.HandleFunc("POST "+routes.SettingsConnect, s.serveConnect)
	mux.HandleFunc("POST "+routes.SettingsDisconnect, s.serveDisconnect)

	// Theme
	mux.HandleFunc("POST "+routes.ThemeToggle, s.serveThemeToggle)
	mux.HandleFunc("GET "+routes.ThemeOppositeIcon, s.serveThemeOppositeIcon)
	mux.HandleFunc("GET "+routes.SyntaxThemeGet, s.serveSyntaxTheme)

	mux.HandleFunc("GET "+routes.SSEPath, s.serveEvents)

	// API
	mux.HandleFunc("GET "+routes.APIDrafts, s.apiListDrafts)
	mux.HandleFunc("POST "+routes.APIDrafts, s.apiCreateDraft)
	mux.HandleFunc("GET "+routes.APIDraft, s.apiGetDraft)
	mux.HandleFunc("DELETE "+routes.APIDraft, s.apiDeleteDraft)
	mux.HandleFunc("GET "+routes.APIConnection, s.apiGetConnection)
	mux.HandleFunc("PUT "+routes.APIConnection, s.apiConnect)
	mux.HandleFunc("DELETE "+routes.APIConnection, s.apiDisconnect)
	mux.HandleFunc("POST "+routes.APIPublish, s.apiPublish)

	mux.HandleFunc("GET "+routes.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if s.app.Config.Metrics.Enabled {
		mux.Handle("GET "+s.app.Config.Metrics.Path, s.app.Metrics.Handler())
	}

	var h http.Handler = mux
	h = secureHeaders(h)
	h = cacheIt(h)
	h = accessLog(h)
	h = s.app.Metrics.Middleware(h)
	return h
}

var templateFuncs = template.FuncMap{
	"preview": func(d model.Draft, n int) string {
		return d.Preview(n)
	},
	"hashtags": func(d model.Draft) []string {
		return d.Hashtags()
	},
	"date": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
	"clock": func(t time.Time) string {
		return t.Format("15:04")
	},
	"editPath": func(id model.DraftID) string {
		return routes.DraftEditPath(string(id))
	},
	"deletePath": func(id model.DraftID) string {
		return routes.DraftDeletePath(string(id))
	},
}

var partialFiles = []string{config.TemplateTranscript, config.TemplatePreview, config.TemplateDraftList}

func (s *server) parse(files ...string) (*template.Template, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = config.TemplatesLocalDir + "/" + f
	}
	return template.New(files[0]).Funcs(templateFuncs).ParseFS(s.fs, paths...)
}

// renderPage renders page inside the layout, with every partial available.
func (s *server) renderPage(w http.ResponseWriter, page string, data any) {
	files := append([]string{config.TemplateLayout, page}, partialFiles...)
	tmpl, err := s.parse(files...)
	if err != nil {
		s.serverError(w, err)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		mainLogger.Error().Err(err).Str("page", page).Msg("Error executing template")
	}
}

// renderPartial renders the named template from file.
func (s *server) renderPartial(w http.ResponseWriter, status int, file, name string, data any) {
	tmpl, err := s.parse(file)
	if err != nil {
		s.serverError(w, err)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		mainLogger.Error().Err(err).Str("template", name).Msg("Error executing template")
	}
}

func (s *server) serverError(w http.ResponseWriter, err error) {
	mainLogger.Error().Stack().Err(err).Msg("Internal error")
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *server) pageData(r *http.Request, page model.Page) *model.PageData {
	return model.NewPageData(r, s.app.Config, page, s.app.Connection.IsConnected())
}

func isHtmx(r *http.Request) bool {
	return r.Header.Get(config.HHxRequest) != ""
}

// redirect sends htmx clients an HX-Redirect and everyone else a 303.
func redirect(w http.ResponseWriter, r *http.Request, to string) {
	if isHtmx(r) {
		w.Header().Set(config.HHxRedirect, to)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// session returns the composer session of the request, starting one when the cookie is
// missing or stale.
func (s *server) session(w http.ResponseWriter, r *http.Request) *composer.Session {
	var id composer.SessionID
	if cookie, err := r.Cookie(config.CookieComposerSession); err == nil {
		id = composer.SessionID(cookie.Value)
	}

	sess, created := s.app.Sessions.GetOrCreate(id)
	if created {
		setSessionCookie(w, sess.ID())
	}
	return sess
}

func setSessionCookie(w http.ResponseWriter, id composer.SessionID) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieComposerSession,
		Value:    string(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *server) serveIndex(w http.ResponseWriter, r *http.Request) {
	count, err := s.app.Drafts.Count(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	data := struct {
		*model.PageData
		DraftCount int
	}{
		PageData:   s.pageData(r, model.PageHome),
		DraftCount: count,
	}

	w.Header().Set(config.HETag, util.ContentHashString(fmt.Sprintf("%s:%v:%d", data.Theme, data.Connected, count)))
	s.renderPage(w, config.TemplateIndex, data)
}

func (s *server) serveSettings(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, config.TemplateSettings, s.pageData(r, model.PageSettings))
}

type draftsView struct {
	*model.PageData
	Query         string
	Drafts        []model.Draft
	Total         int
	PreviewLength int
}

func (s *server) draftsView(r *http.Request, query string) (*draftsView, error) {
	drafts, err := s.app.SearchDrafts(r.Context(), query)
	if err != nil {
		return nil, err
	}
	total, err := s.app.Drafts.Count(r.Context())
	if err != nil {
		return nil, err
	}

	return &draftsView{
		PageData:      s.pageData(r, model.PageDrafts),
		Query:         query,
		Drafts:        drafts,
		Total:         total,
		PreviewLength: s.app.Config.Content.PreviewLength,
	}, nil
}

func (s *server) serveDrafts(w http.ResponseWriter, r *http.Request) {
	data, err := s.draftsView(r, r.URL.Query().Get("q"))
	if err != nil {
		s.serverError(w, err)
		return
	}

	// Search-as-you-type only needs the list.
	if isHtmx(r) && r.Header.Get("HX-Target") == "draft-list" {
		s.renderPartial(w, http.StatusOK, config.TemplateDraftList, "draft_list", data)
		return
	}
	s.renderPage(w, config.TemplateDrafts, data)
}

func (s *server) serveDeleteDraft(w http.ResponseWriter, r *http.Request) {
	notice, err := s.app.DeleteDraft(r.Context(), model.DraftID(r.PathValue("id")))
	if err != nil {
		s.serverError(w, err)
		return
	}

	data, err := s.draftsView(r, r.FormValue("q"))
	if err != nil {
		s.serverError(w, err)
		return
	}

	notify.Trigger(w, notice)
	s.renderPartial(w, http.StatusOK, config.TemplateDraftList, "draft_list", data)
}

func (s *server) serveEditDraft(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	notice, err := s.app.EditDraft(r.Context(), sess, model.DraftID(r.PathValue("id")))
	if app.IsNotFound(err) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		s.serverError(w, err)
		return
	}

	notify.Trigger(w, notice)
	redirect(w, r, routes.ComposerPath)
}

func (s *server) serveConnect(w http.ResponseWriter, r *http.Request) {
	notice, _ := s.app.Connection.Connect()
	notify.Trigger(w, notice, "connectionChanged")
	s.renderPartial(w, http.StatusOK, config.TemplateSettings, "connection_card", s.pageData(r, model.PageSettings))
}

func (s *server) serveDisconnect(w http.ResponseWriter, r *http.Request) {
	notice, _ := s.app.Connection.Disconnect()
	notify.Trigger(w, notice, "connectionChanged")
	s.renderPartial(w, http.StatusOK, config.TemplateSettings, "connection_card", s.pageData(r, model.PageSettings))
}

func (s *server) serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := theme.Toggle(theme.GetThemeFromRequest(r, s.app.Config.Theme))

	http.SetCookie(w, &http.Cookie{
		Name:  config.CookieTheme,
		Value: newTheme,
		Path:  "/",
	})

	syntaxTheme := theme.GetDefaultSyntaxTheme(s.app.Config.Theme, newTheme)
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil {
		syntaxTheme = cookie.Value
	}

	trigger, err := themeChangedTrigger(newTheme, syntaxTheme)
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set(config.HHxTrigger, trigger)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(newTheme)))
}

// themeChangedTrigger encodes the HX-Trigger payload announcing a theme switch.
func themeChangedTrigger(pageTheme, syntaxTheme string) (string, error) {
	type themeChanged struct {
		Value       string `json:"value"`
		SyntaxTheme string `json:"syntaxTheme"`
	}
	b, err := json.Marshal(map[string]themeChanged{
		"themeChanged": {Value: pageTheme, SyntaxTheme: syntaxTheme},
	})
	return string(b), err
}

func (s *server) serveThemeOppositeIcon(w http.ResponseWriter, r *http.Request) {
	currTheme := r.URL.Query().Get("theme")
	if currTheme == "" {
		http.Error(w, "theme required", http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(theme.GetThemeIcon(currTheme)))
}

func (s *server) serveSyntaxTheme(w http.ResponseWriter, r *http.Request) {
	themeStyle := []byte(theme.GenerateSyntaxCSS(r.PathValue("theme")))

	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ContentHash(themeStyle))
	w.WriteHeader(http.StatusOK)
	w.Write(themeStyle)
}

func (s *server) serveEvents(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if _, ok := s.app.Sessions.Get(composer.SessionID(id)); !ok {
		http.NotFound(w, r)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Registered before the first flush so no reply falls between the two.
	client := sse.NewClient(id, 8)
	clients := s.app.Hub.Clients()
	clients.Add(client)
	mainLogger.Debug().Str("session", id).Msg("New SSE client connected")

	defer func() {
		clients.Delete(client)
		mainLogger.Debug().Str("session", id).Msg("SSE client disconnected")
	}()

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")
	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	done := r.Context().Done()
	for {
		select {
		case ev, open := <-client.Msg:
			if !open {
				return
			}
			if _, err := ev.WriteTo(w); err != nil {
				return
			}
			flusher.Flush()
		case <-done:
			return
		}
	}
}

// previewHTML renders the candidate with the request's syntax theme.
func (s *server) previewHTML(r *http.Request, content string) template.HTML {
	return render.Preview(content, theme.GetSyntaxThemeFromRequest(r, s.app.Config.Theme))
}
