package sse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastByTopic(t *testing.T) {
	clients := NewSSEClients()
	a := NewClient("a", 1)
	b := NewClient("b", 1)
	clients.Add(a)
	clients.Add(b)

	sent := clients.Broadcast("a", Event{Name: "reply", Data: "hi"})
	assert.Equal(t, 1, sent)

	require.Len(t, a.Msg, 1)
	assert.Equal(t, "hi", (<-a.Msg).Data)
	assert.Empty(t, b.Msg)
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	clients := NewSSEClients()
	c := NewClient("a", 1)
	clients.Add(c)

	assert.Equal(t, 1, clients.Broadcast("a", Event{Data: "1"}))
	assert.Equal(t, 0, clients.Broadcast("a", Event{Data: "2"}))
}

func TestDeleteClosesOnce(t *testing.T) {
	clients := NewSSEClients()
	c := NewClient("a", 0)
	clients.Add(c)

	clients.Delete(c)
	clients.Delete(c)

	_, open := <-c.Msg
	assert.False(t, open)
	assert.Zero(t, clients.Len())
}

func TestEventWriteTo(t *testing.T) {
	var b strings.Builder
	_, err := Event{Name: "reply", Data: "line one\nline two"}.WriteTo(&b)
	require.NoError(t, err)

	assert.Equal(t, "event: reply\ndata: line one\ndata: line two\n\n", b.String())
}
