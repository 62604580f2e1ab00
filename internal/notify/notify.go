// Package notify delivers {title, description} notifications to the browser, either as an
// htmx HX-Trigger header on the response or as an SSE event for deferred composer replies.
package notify

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/postcraft/internal/composer"
	"github.com/debemdeboas/postcraft/internal/config"
	"github.com/debemdeboas/postcraft/internal/model"
	"github.com/debemdeboas/postcraft/internal/sse"
)

const (
	TriggerNotify = "notify"
	EventReply    = "reply"
)

var notifyLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	notifyLogger = l
}

// Trigger sets the HX-Trigger header so the page shows n. Extra events are merged in.
func Trigger(w http.ResponseWriter, n model.Notification, extra ...string) {
	events := map[string]any{}
	if !n.IsZero() {
		events[TriggerNotify] = n
	}
	for _, name := range extra {
		events[name] = true
	}
	if len(events) == 0 {
		return
	}

	b, err := json.Marshal(events)
	if err != nil {
		notifyLogger.Error().Err(err).Msg("Error encoding HX-Trigger")
		return
	}
	w.Header().Set(config.HHxTrigger, string(b))
}

type replyPayload struct {
	Outcome      string              `json:"outcome"`
	Message      string              `json:"message"`
	Notification *model.Notification `json:"notification,omitempty"`
}

// Hub forwards composer replies to the SSE clients watching the session.
type Hub struct {
	clients *sse.SSEClients
}

func NewHub(clients *sse.SSEClients) *Hub {
	return &Hub{clients: clients}
}

func (h *Hub) Clients() *sse.SSEClients {
	return h.clients
}

func (h *Hub) OnReply(ev composer.ReplyEvent) {
	p := replyPayload{
		Outcome: ev.Outcome.String(),
		Message: ev.Message.Content,
	}
	if !ev.Notification.IsZero() {
		p.Notification = &ev.Notification
	}

	b, err := json.Marshal(p)
	if err != nil {
		notifyLogger.Error().Err(err).Msg("Error encoding reply event")
		return
	}

	sent := h.clients.Broadcast(string(ev.Session), sse.Event{Name: EventReply, Data: string(b)})
	notifyLogger.Debug().Str("session", string(ev.Session)).Int("clients", sent).Msg("Reply broadcast")
}
