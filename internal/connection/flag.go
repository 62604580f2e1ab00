// Package connection holds the mocked account connection that gates publishing.
package connection

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postcraft/internal/metrics"
	"github.com/debemdeboas/postcraft/internal/model"
)

var (
	ErrNotConnected = errors.New("account not connected")
	ErrEmptyPost    = errors.New("post content is empty")
)

var (
	ConnectedNotice = model.Notification{
		Title:       "LinkedIn connected successfully!",
		Description: "You can now publish posts directly to your LinkedIn profile.",
	}
	DisconnectedNotice = model.Notification{
		Title:       "LinkedIn disconnected",
		Description: "Your LinkedIn account has been disconnected.",
	}
	PublishedNotice = model.Notification{
		Title:       "Post published successfully!",
		Description: "Your LinkedIn post has been shared with your network.",
	}
)

var connLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	connLogger = l
}

// Flag is the process-wide connection state. It starts disconnected.
type Flag struct {
	mu        sync.Mutex
	connected bool

	metrics *metrics.Metrics
}

func NewFlag(m *metrics.Metrics) *Flag {
	f := &Flag{metrics: m}
	f.gauge()
	return f
}

func (f *Flag) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// Connect marks the account connected. changed is false when it already was.
func (f *Flag) Connect() (n model.Notification, changed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return ConnectedNotice, f.set(true)
}

// Disconnect marks the account disconnected. changed is false when it already was.
func (f *Flag) Disconnect() (n model.Notification, changed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return DisconnectedNotice, f.set(false)
}

// Publish pretends to share content. It fails with ErrNotConnected while disconnected and
// never touches stored drafts.
func (f *Flag) Publish(content string) (model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.publish(content)
}

// ConnectAndPublish is the confirmed path: connect first, then publish.
func (f *Flag) ConnectAndPublish(content string) (model.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(content) == "" {
		f.record(ErrEmptyPost)
		return model.Notification{}, ErrEmptyPost
	}
	f.set(true)
	return f.publish(content)
}

func (f *Flag) publish(content string) (model.Notification, error) {
	var err error
	switch {
	case strings.TrimSpace(content) == "":
		err = ErrEmptyPost
	case !f.connected:
		err = ErrNotConnected
	}
	f.record(err)
	if err != nil {
		connLogger.Debug().Err(err).Msg("Publish rejected")
		return model.Notification{}, err
	}

	connLogger.Info().Int("length", len(content)).Msg("Post published")
	return PublishedNotice, nil
}

// set changes the state and reports whether it changed. Callers hold the lock.
func (f *Flag) set(connected bool) bool {
	if f.connected == connected {
		return false
	}
	f.connected = connected
	f.gauge()
	connLogger.Info().Bool("connected", connected).Msg("Connection changed")
	return true
}

func (f *Flag) gauge() {
	if f.metrics != nil {
		f.metrics.SetConnected(f.connected)
	}
}

func (f *Flag) record(err error) {
	if f.metrics != nil {
		f.metrics.RecordPublish(err)
	}
}
