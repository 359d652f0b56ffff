package conversation

// TrackOutgoing registers a text that is about to be sent to chatID, so that
// its echo is recognised even if it arrives before the transport returns the
// message id. The returned function must be called once the send finished,
// with the assigned id or an empty string on failure.
func (s *Store) TrackOutgoing(chatID, text string) func(id string) {
	s.mu.Lock()
	s.outgoing[chatID] = append(s.outgoing[chatID], text)
	s.mu.Unlock()

	return func(id string) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if id != "" {
			s.botMessages[id] = struct{}{}
		}
		s.dropOutgoingLocked(chatID, text)
	}
}

// IsBotEcho reports whether a message sent from the bot's own account was
// produced by the bot rather than typed by an operator.
func (s *Store) IsBotEcho(chatID, id, body string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.botMessages[id]; ok && id != "" {
		return true
	}

	for _, text := range s.outgoing[chatID] {
		if text == body {
			return true
		}
	}

	return false
}

func (s *Store) dropOutgoingLocked(chatID, text string) {
	pending := s.outgoing[chatID]
	for i, candidate := range pending {
		if candidate == text {
			pending = append(pending[:i], pending[i+1:]...)
			break
		}
	}

	if len(pending) == 0 {
		delete(s.outgoing, chatID)
		return
	}

	s.outgoing[chatID] = pending
}
