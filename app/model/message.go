package model

import (
	"strings"
	"time"
)

// StatusBroadcast is the pseudo-chat WhatsApp uses for status updates.
const StatusBroadcast = "status@broadcast"

type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Author    string    `json:"author,omitempty"`
	Body      string    `json:"body"`
	Type      string    `json:"type"`
	IsGroup   bool      `json:"is_group"`
	HasMedia  bool      `json:"has_media"`
	FromMe    bool      `json:"from_me"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationID names the chat the message belongs to. Messages typed from
// the bot's own account are addressed to the customer, so the chat is the recipient.
func (m Message) ConversationID() string {
	if m.FromMe {
		return m.To
	}

	return m.From
}

// AuthorID falls back to the sender for one-to-one chats, where no author is set.
func (m Message) AuthorID() string {
	if m.Author != "" {
		return m.Author
	}

	return m.From
}

type Media struct {
	MimeType string `json:"mimetype"`
	Data     string `json:"data"`
}

func (m *Media) IsImage() bool {
	return m != nil && strings.Contains(strings.ToLower(m.MimeType), "image")
}
