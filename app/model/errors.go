package model

import "errors"

var (
	// ErrTransport wraps failures at the chat-transport boundary.
	ErrTransport = errors.New("transport error")
	// ErrExternalService wraps failures of the generative backend.
	ErrExternalService = errors.New("external service error")
)
