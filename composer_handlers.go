package main

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/debemdeboas/postcraft/internal/composer"
	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/connection"
	"github.com/debemdeboas/postcraft/internal/model"
	"github.com/debemdeboas/postcraft/internal/notify"
	"github.com/debemdeboas/postcraft/internal/routes"
	"github.com/debemdeboas/postcraft/internal/util"
)

var emptyPostNotice = model.Notification{
	Title:       "Nothing to publish",
	Description: "Ask the assistant to write your post first.",
}

type composerView struct {
	*model.PageData
	SessionID string
	State     composer.State
	Preview   template.HTML
}

func (s *server) composerView(r *http.Request, sess *composer.Session) *composerView {
	st := sess.Snapshot()
	return &composerView{
		PageData:  s.pageData(r, model.PageComposer),
		SessionID: string(sess.ID()),
		State:     st,
		Preview:   s.previewHTML(r, st.Candidate.Content),
	}
}

// partialSession is session for htmx fragment requests. A fragment cannot switch the page
// to a new session, so the page is refreshed when one had to be started.
func (s *server) partialSession(w http.ResponseWriter, r *http.Request) *composer.Session {
	var id composer.SessionID
	if cookie, err := r.Cookie(config.CookieComposerSession); err == nil {
		id = composer.SessionID(cookie.Value)
	}

	sess, created := s.app.Sessions.GetOrCreate(id)
	if created {
		setSessionCookie(w, sess.ID())
		if isHtmx(r) {
			w.Header().Set("HX-Refresh", "true")
		}
	}
	return sess
}

func (s *server) serveComposer(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	s.renderPage(w, config.TemplateComposer, s.composerView(r, sess))
}

func (s *server) serveSubmitMessage(w http.ResponseWriter, r *http.Request) {
	sess := s.partialSession(w, r)

	if _, ok := sess.SubmitMessage(util.NormalizeNewlines(r.FormValue("message"))); !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.renderPartial(w, http.StatusOK, config.TemplateTranscript, "transcript", s.composerView(r, sess))
}

func (s *server) serveTranscript(w http.ResponseWriter, r *http.Request) {
	sess := s.partialSession(w, r)
	s.renderPartial(w, http.StatusOK, config.TemplateTranscript, "transcript", s.composerView(r, sess))
}

func (s *server) servePreview(w http.ResponseWriter, r *http.Request) {
	sess := s.partialSession(w, r)
	s.renderPartial(w, http.StatusOK, config.TemplatePreview, "preview", s.composerView(r, sess))
}

func (s *server) serveSetTitle(w http.ResponseWriter, r *http.Request) {
	sess := s.partialSession(w, r)
	sess.SetTitle(util.NormalizeNewlines(r.FormValue("title")))
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) serveSaveDraft(w http.ResponseWriter, r *http.Request) {
	sess := s.partialSession(w, r)

	d, notice, err := s.app.SaveDraft(r.Context(), sess)
	if err != nil {
		s.serverError(w, err)
		return
	}

	mainLogger.Info().Str("draft_id", string(d.ID)).Str("title", d.Title).Msg("Draft saved")
	notify.Trigger(w, notice, "draftsChanged")
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) serveImage(w http.ResponseWriter, r *http.Request) {
	sess := s.partialSession(w, r)

	ref := r.FormValue("image")
	if file, header, err := r.FormFile("image"); err == nil {
		ref = header.Filename
		file.Close()
	}

	notice, err := sess.RequestImageAttachment(ref)
	switch {
	case errors.Is(err, composer.ErrSessionClosed):
		// Discarded while the page was open; reload into a fresh session.
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusConflict)
	case errors.Is(err, composer.ErrImageNotSupported):
		notify.Trigger(w, notice)
		w.WriteHeader(http.StatusNotImplemented)
	default:
		notify.Trigger(w, notice)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *server) servePublish(w http.ResponseWriter, r *http.Request) {
	s.publish(w, r, false)
}

func (s *server) servePublishConfirm(w http.ResponseWriter, r *http.Request) {
	s.publish(w, r, true)
}

// publish answers with an empty dialog on success and with the connect dialog when the
// account must be connected first.
func (s *server) publish(w http.ResponseWriter, r *http.Request, confirmed bool) {
	sess := s.partialSession(w, r)

	notice, err := s.app.Publish(sess, confirmed)
	switch {
	case errors.Is(err, connection.ErrNotConnected):
		s.renderPartial(w, http.StatusOK, config.TemplatePreview, "connect_dialog", s.composerView(r, sess))
	case errors.Is(err, connection.ErrEmptyPost):
		notify.Trigger(w, emptyPostNotice)
		w.WriteHeader(http.StatusBadRequest)
	case err != nil:
		s.serverError(w, err)
	default:
		if confirmed {
			notify.Trigger(w, notice, "connectionChanged")
		} else {
			notify.Trigger(w, notice)
		}
		w.WriteHeader(http.StatusOK)
	}
}

// serveNewComposer discards the current session and starts over.
func (s *server) serveNewComposer(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(config.CookieComposerSession); err == nil {
		s.app.Sessions.Discard(composer.SessionID(cookie.Value))
	}

	sess := s.app.Sessions.Create()
	setSessionCookie(w, sess.ID())
	redirect(w, r, routes.ComposerPath)
}
