package conversation

import "time"

// Allow reports whether a message arriving at now may be processed. A rejected
// message leaves the stored timestamp untouched.
func (s *Store) Allow(chatID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.recordLocked(chatID)
	if !rec.lastAccepted.IsZero() && now.Sub(rec.lastAccepted) < s.opts.DebounceInterval {
		return false
	}

	rec.lastAccepted = now
	return true
}
