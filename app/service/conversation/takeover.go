package conversation

import (
	"time"

	"github.com/elliotchance/pie/v2"
)

// takeover is the Active state of a conversation. Its timer belongs to this
// instance only: expiry is honoured only while the instance is still installed.
type takeover struct {
	since     time.Time
	expiresAt time.Time
	timer     *time.Timer
}

type Handoff struct {
	ChatID    string    `json:"chat_id"`
	Since     time.Time `json:"since"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MarkHuman puts the conversation in human-handled mode and (re)starts the
// inactivity timer. It reports whether the conversation was previously bot-handled.
func (s *Store) MarkHuman(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.markHumanLocked(chatID, s.recordLocked(chatID))
}

// Rearm restarts the inactivity timer of an active handoff; it is a no-op otherwise.
func (s *Store) Rearm(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.conversations[chatID]
	if !ok || rec.takeover == nil {
		return false
	}

	s.markHumanLocked(chatID, rec)
	return true
}

func (s *Store) IsHuman(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.conversations[chatID]
	return ok && rec.takeover != nil
}

// ClearHuman returns the conversation to the bot and reports whether a handoff was active.
func (s *Store) ClearHuman(chatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.conversations[chatID]
	if !ok || rec.takeover == nil {
		return false
	}

	rec.takeover.timer.Stop()
	rec.takeover = nil

	return true
}

// Handoffs lists the active handoffs ordered by chat id.
func (s *Store) Handoffs() []Handoff {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]Handoff, 0)
	for chatID, rec := range s.conversations {
		if rec.takeover == nil {
			continue
		}

		result = append(result, Handoff{
			ChatID:    chatID,
			Since:     rec.takeover.since,
			ExpiresAt: rec.takeover.expiresAt,
		})
	}

	return pie.SortUsing(result, func(a, b Handoff) bool {
		return a.ChatID < b.ChatID
	})
}

func (s *Store) markHumanLocked(chatID string, rec *record) bool {
	now := time.Now()
	wasBot := rec.takeover == nil

	since := now
	if !wasBot {
		since = rec.takeover.since
		rec.takeover.timer.Stop()
	}

	t := &takeover{
		since:     since,
		expiresAt: now.Add(s.opts.TakeoverTimeout),
	}
	// The callback cannot observe t before it is installed: it needs s.mu, held here.
	t.timer = time.AfterFunc(s.opts.TakeoverTimeout, func() {
		s.expire(chatID, t)
	})
	rec.takeover = t

	return wasBot
}

func (s *Store) expire(chatID string, t *takeover) {
	s.mu.Lock()

	rec, ok := s.conversations[chatID]
	if !ok || rec.takeover != t {
		s.mu.Unlock()
		return
	}

	rec.takeover = nil
	handler := s.onExpire
	s.mu.Unlock()

	if handler != nil {
		handler(chatID)
	}
}
