package model

import "time"

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

type MessageID string

// ChatMessage is one entry of a composer transcript. Transcripts are append-only.
type ChatMessage struct {
	ID        MessageID
	Sender    Sender
	Content   string
	Timestamp time.Time
}

func (m ChatMessage) FromUser() bool {
	return m.Sender == SenderUser
}

// Notification is a transient {title, description} message shown to the user.
type Notification struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (n Notification) IsZero() bool {
	return n.Title == "" && n.Description == ""
}
