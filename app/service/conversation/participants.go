package conversation

// participantSet keeps authors in the order they were first seen.
type participantSet struct {
	order []string
	seen  map[string]struct{}
}

func (p *participantSet) has(author string) bool {
	_, ok := p.seen[author]
	return ok
}

func (p *participantSet) add(author string) {
	if p.seen == nil {
		p.seen = make(map[string]struct{})
	}

	p.seen[author] = struct{}{}
	p.order = append(p.order, author)
}

func (p *participantSet) list() []string {
	return append([]string(nil), p.order...)
}

// ObserveAuthor records the author of an inbound message. The first author is
// the baseline; any later distinct author is a third party, which puts the
// conversation in human-handled mode. It returns true only for that new author.
func (s *Store) ObserveAuthor(chatID, author string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.recordLocked(chatID)
	if rec.participants.has(author) {
		return false
	}

	first := len(rec.participants.order) == 0
	rec.participants.add(author)

	if first {
		return false
	}

	s.markHumanLocked(chatID, rec)
	return true
}
