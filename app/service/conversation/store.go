package conversation

import (
	"conectin/app/config"
	"sync"
	"time"

	"github.com/samber/do"
)

type Options struct {
	DebounceInterval time.Duration
	TakeoverTimeout  time.Duration
}

// ExpiryHandler is called, outside of any store lock, when a handoff ends by inactivity.
type ExpiryHandler func(chatID string)

// Store owns every piece of per-conversation state. All of it lives in memory
// for the lifetime of the process.
type Store struct {
	opts Options

	mu            sync.Mutex
	conversations map[string]*record
	botMessages   map[string]struct{}
	outgoing      map[string][]string
	onExpire      ExpiryHandler
}

type record struct {
	processing sync.Mutex

	lastAccepted time.Time
	takeover     *takeover
	participants participantSet
	technical    TechnicalContext
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewStore(Options{
		DebounceInterval: cfg.Bot.DebounceInterval,
		TakeoverTimeout:  cfg.Bot.TakeoverTimeout,
	}), nil
}

func NewStore(opts Options) *Store {
	return &Store{
		opts:          opts,
		conversations: make(map[string]*record),
		botMessages:   make(map[string]struct{}),
		outgoing:      make(map[string][]string),
	}
}

func (s *Store) SetExpiryHandler(handler ExpiryHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onExpire = handler
}

// Lock serializes processing of one conversation and returns the matching unlock.
func (s *Store) Lock(chatID string) func() {
	s.mu.Lock()
	rec := s.recordLocked(chatID)
	s.mu.Unlock()

	rec.processing.Lock()
	return rec.processing.Unlock
}

type Status struct {
	ChatID       string    `json:"chat_id"`
	Human        bool      `json:"human"`
	HumanSince   time.Time `json:"human_since,omitzero"`
	ExpiresAt    time.Time `json:"expires_at,omitzero"`
	Participants []string  `json:"participants"`
	IssueCounter int       `json:"issue_counter"`
	LastIssue    Issue     `json:"last_issue"`
}

func (s *Store) Status(chatID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		ChatID:    chatID,
		LastIssue: IssueNone,
	}

	rec, ok := s.conversations[chatID]
	if !ok {
		return status
	}

	status.Participants = rec.participants.list()
	status.IssueCounter = rec.technical.IssueCounter
	status.LastIssue = rec.technical.LastIssue

	if rec.takeover != nil {
		status.Human = true
		status.HumanSince = rec.takeover.since
		status.ExpiresAt = rec.takeover.expiresAt
	}

	return status
}

func (s *Store) recordLocked(chatID string) *record {
	rec, ok := s.conversations[chatID]
	if !ok {
		rec = &record{}
		s.conversations[chatID] = rec
	}

	return rec
}
