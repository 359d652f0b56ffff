package queue

import (
	"conectin/app/config"
	"conectin/app/model"
	"log/slog"
	"sync"

	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

// Service buffers inbound messages between the transport and the workers.
type Service struct {
	mu     sync.RWMutex
	closed bool
	queue  chan model.Message
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(cfg.Bot.QueueSize), nil
}

func NewService(size int) *Service {
	return &Service{
		queue: make(chan model.Message, size),
	}
}

// Add enqueues msg without blocking; the message is dropped when the queue is full or closed.
func (s *Service) Add(msg model.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return
	}

	select {
	case s.queue <- msg:
	default:
		slog.Warn("Message queue is full, dropping message",
			slog.String("chat_id", msg.ConversationID()),
			slog.String("message_id", msg.ID))
	}
}

func (s *Service) Channel() <-chan model.Message {
	return s.queue
}

func (s *Service) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.queue)
	}

	return nil
}
