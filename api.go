package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/debemdeboas/postcraft/internal/app"
	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/connection"
	"github.com/debemdeboas/postcraft/internal/model"
)

const maxBodyBytes = 1 << 20

type draftJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Preview   string    `json:"preview"`
	Hashtags  []string  `json:"hashtags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	HasImage  bool      `json:"has_image"`
	ImageURL  string    `json:"image_url,omitempty"`
}

func (s *server) toJSON(d model.Draft) draftJSON {
	out := draftJSON{
		ID:        string(d.ID),
		Title:     d.Title,
		Content:   d.Content,
		Preview:   d.Preview(s.app.Config.Content.PreviewLength),
		Hashtags:  d.Hashtags(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if url, ok := d.Image(); ok {
		out.HasImage = true
		out.ImageURL = url
	}
	return out
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type notificationResponse struct {
	Notification model.Notification `json:"notification"`
}

type connectionResponse struct {
	Connected    bool                `json:"connected"`
	Changed      bool                `json:"changed,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		mainLogger.Error().Err(err).Msg("Error encoding JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, apiError{Error: err.Error(), Code: code})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *server) apiListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.app.SearchDrafts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	out := make([]draftJSON, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, s.toJSON(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"drafts": out})
}

type createDraftRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

func (s *server) apiCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err)
		return
	}

	d, err := s.app.Drafts.SaveDraft(r.Context(), model.Candidate{
		Title:    req.Title,
		Content:  req.Content,
		HasImage: req.ImageURL != "",
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"draft":        s.toJSON(d),
		"notification": app.DraftSavedNotice,
	})
}

func (s *server) apiGetDraft(w http.ResponseWriter, r *http.Request) {
	d, err := s.app.Drafts.GetDraft(r.Context(), model.DraftID(r.PathValue("id")))
	if app.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", err)
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": s.toJSON(d)})
}

func (s *server) apiDeleteDraft(w http.ResponseWriter, r *http.Request) {
	notice, err := s.app.DeleteDraft(r.Context(), model.DraftID(r.PathValue("id")))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err)
		return
	}
	writeJSON(w, http.StatusOK, notificationResponse{Notification: notice})
}

func (s *server) apiGetConnection(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, connectionResponse{Connected: s.app.Connection.IsConnected()})
}

func (s *server) apiConnect(w http.ResponseWriter, r *http.Request) {
	notice, changed := s.app.Connection.Connect()
	writeJSON(w, http.StatusOK, connectionResponse{Connected: true, Changed: changed, Notification: &notice})
}

func (s *server) apiDisconnect(w http.ResponseWriter, r *http.Request) {
	notice, changed := s.app.Connection.Disconnect()
	writeJSON(w, http.StatusOK, connectionResponse{Connected: false, Changed: changed, Notification: &notice})
}

type publishRequest struct {
	Content string `json:"content"`
	// Confirm connects the account first when it is disconnected.
	Confirm bool `json:"confirm"`
}

func (s *server) apiPublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", err)
		return
	}

	var (
		notice model.Notification
		err    error
	)
	if req.Confirm {
		notice, err = s.app.Connection.ConnectAndPublish(req.Content)
	} else {
		notice, err = s.app.Connection.Publish(req.Content)
	}

	switch {
	case errors.Is(err, connection.ErrNotConnected):
		writeError(w, http.StatusConflict, "NOT_CONNECTED", err)
	case errors.Is(err, connection.ErrEmptyPost):
		writeError(w, http.StatusBadRequest, "EMPTY_POST", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err)
	default:
		writeJSON(w, http.StatusOK, notificationResponse{Notification: notice})
	}
}
