package whatsapp

import (
	"conectin/app/model"
	"time"
)

// Frame types exchanged with the whatsapp-web.js bridge.
const (
	frameMessage       = "message"
	frameQR            = "qr"
	frameReady         = "ready"
	frameAuthenticated = "authenticated"
	frameAuthFailure   = "auth_failure"
	frameDisconnected  = "disconnected"
	frameState         = "state"
	frameSend          = "send"
	frameDownload      = "download"
	frameAck           = "ack"
	frameMedia         = "media"
	frameError         = "error"
)

type frame struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`

	Message *bridgeMessage `json:"message,omitempty"`

	To        string `json:"to,omitempty"`
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`

	ID    string       `json:"id,omitempty"`
	Media *model.Media `json:"media,omitempty"`
	Error string       `json:"error,omitempty"`

	Code   string `json:"code,omitempty"`
	State  string `json:"state,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type bridgeMessage struct {
	ID        string `json:"id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Author    string `json:"author,omitempty"`
	Body      string `json:"body"`
	Type      string `json:"type"`
	IsGroup   bool   `json:"is_group"`
	HasMedia  bool   `json:"has_media"`
	FromMe    bool   `json:"from_me"`
	Timestamp int64  `json:"timestamp"`
}

func (m *bridgeMessage) toModel() model.Message {
	ts := time.Now()
	if m.Timestamp > 0 {
		ts = time.Unix(m.Timestamp, 0)
	}

	return model.Message{
		ID:        m.ID,
		From:      m.From,
		To:        m.To,
		Author:    m.Author,
		Body:      m.Body,
		Type:      m.Type,
		IsGroup:   m.IsGroup,
		HasMedia:  m.HasMedia,
		FromMe:    m.FromMe,
		Timestamp: ts,
	}
}
