// Package client talks to the postcraft JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/debemdeboas/postcraft/internal/model"
	"github.com/debemdeboas/postcraft/internal/routes"
)

// Draft is a draft as returned by the API.
type Draft struct {
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

type Connection struct {
	Connected    bool                `json:"connected"`
	Changed      bool                `json:"changed,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string `json:"code"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// APIClient wraps an http.Client bound to one server.
type APIClient struct {
	http   *http.Client
	server string
}

// NewAPIClient creates a client for server. A missing scheme defaults to http.
func NewAPIClient(server string) (*APIClient, error) {
	normalized, err := normalizeServerURL(server)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	return &APIClient{
		http:   &http.Client{Timeout: 30 * time.Second},
		server: normalized,
	}, nil
}

func normalizeServerURL(server string) (string, error) {
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	u, err := url.Parse(server)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q", server)
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.server+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(data, apiErr)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// ListDrafts returns the drafts matching term in store order. An empty term lists all.
func (c *APIClient) ListDrafts(ctx context.Context, term string) ([]Draft, error) {
	path := routes.APIDrafts
	if term != "" {
		path += "?q=" + url.QueryEscape(term)
	}

	var out struct {
		Drafts []Draft `json:"drafts"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Drafts, nil
}

func (c *APIClient) GetDraft(ctx context.Context, id string) (Draft, error) {
	var out struct {
		Draft Draft `json:"draft"`
	}
	err := c.do(ctx, http.MethodGet, routes.APIDrafts+"/"+url.PathEscape(id), nil, &out)
	return out.Draft, err
}

// CreateDraft stores a new draft. An empty imageURL means no image.
func (c *APIClient) CreateDraft(ctx context.Context, title, content, imageURL string) (Draft, model.Notification, error) {
	req := map[string]string{"title": title, "content": content}
	if imageURL != "" {
		req["image_url"] = imageURL
	}

	var out struct {
		Draft        Draft              `json:"draft"`
		Notification model.Notification `json:"notification"`
	}
	err := c.do(ctx, http.MethodPost, routes.APIDrafts, req, &out)
	return out.Draft, out.Notification, err
}

func (c *APIClient) DeleteDraft(ctx context.Context, id string) (model.Notification, error) {
	var out struct {
		Notification model.Notification `json:"notification"`
	}
	err := c.do(ctx, http.MethodDelete, routes.APIDrafts+"/"+url.PathEscape(id), nil, &out)
	return out.Notification, err
}

func (c *APIClient) Connection(ctx context.Context) (Connection, error) {
	var out Connection
	err := c.do(ctx, http.MethodGet, routes.APIConnection, nil, &out)
	return out, err
}

func (c *APIClient) Connect(ctx context.Context) (Connection, error) {
	var out Connection
	err := c.do(ctx, http.MethodPut, routes.APIConnection, nil, &out)
	return out, err
}

func (c *APIClient) Disconnect(ctx context.Context) (Connection, error) {
	var out Connection
	err := c.do(ctx, http.MethodDelete, routes.APIConnection, nil, &out)
	return out, err
}

// Publish publishes content. With confirm set a disconnected account is connected first.
func (c *APIClient) Publish(ctx context.Context, content string, confirm bool) (model.Notification, error) {
	req := struct {
		Content string `json:"content"`
		Confirm bool   `json:"confirm"`
	}{content, confirm}

	var out struct {
		Notification model.Notification `json:"notification"`
	}
	err := c.do(ctx, http.MethodPost, routes.APIPublish, req, &out)
	return out.Notification, err
}
