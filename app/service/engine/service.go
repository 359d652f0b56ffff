package engine

import (
	"conectin/app/client/whatsapp"
	"conectin/app/config"
	"conectin/app/model"
	"conectin/app/service/queue"
	"conectin/app/service/router"
	"context"
	"errors"
	"fmt"

	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

type Transport interface {
	SetListener(listener whatsapp.MessageHandler)
	Run(ctx context.Context) error
}

type Handler interface {
	Handle(ctx context.Context, msg model.Message)
}

// Service connects the transport to the router: inbound messages go through
// the queue and are handled by a bounded pool of workers.
type Service struct {
	transport Transport
	handler   Handler
	queueSvc  *queue.Service
	workers   int
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		do.MustInvoke[*whatsapp.Client](di),
		do.MustInvoke[*router.Router](di),
		do.MustInvoke[*queue.Service](di),
		cfg.Bot.Workers,
	), nil
}

func NewService(transport Transport, handler Handler, queueSvc *queue.Service, workers int) *Service {
	return &Service{
		transport: transport,
		handler:   handler,
		queueSvc:  queueSvc,
		workers:   workers,
	}
}

// Run blocks until ctx is done or the queue is closed.
func (s *Service) Run(ctx context.Context) error {
	s.transport.SetListener(s.queueSvc.Add)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := s.transport.Run(groupCtx); err != nil {
			return fmt.Errorf("transport: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		return s.dispatch(groupCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (s *Service) dispatch(ctx context.Context) error {
	var workers errgroup.Group
	workers.SetLimit(s.workers)
	defer func() {
		_ = workers.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-s.queueSvc.Channel():
			if !ok {
				return context.Canceled
			}

			workers.Go(func() error {
				s.handler.Handle(ctx, msg)
				return nil
			})
		}
	}
}
