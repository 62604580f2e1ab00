// Package sse provides Server-Sent Events client management for real-time communication.
package sse

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Event is one SSE message. Data may span several lines.
type Event struct {
	Name string
	Data string
}

// WriteTo writes the event in text/event-stream framing.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	if e.Name != "" {
		fmt.Fprintf(&b, "event: %s\n", e.Name)
	}
	for _, line := range strings.Split(e.Data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

type Client struct {
	Msg   chan Event
	Topic string
}

func NewClient(topic string, buffer int) *Client {
	return &Client{
		Msg:   make(chan Event, buffer),
		Topic: topic,
	}
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends ev to every client subscribed to topic and returns how many received it.
// Slow clients miss the event rather than block the sender.
func (s *SSEClients) Broadcast(topic string, ev Event) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sent := 0
	for client := range s.clients {
		if client.Topic != topic {
			continue
		}
		select {
		case client.Msg <- ev:
			sent++
		default:
		}
	}
	return sent
}
