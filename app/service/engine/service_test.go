package engine

import (
	"conectin/app/client/whatsapp"
	"conectin/app/model"
	"conectin/app/service/queue"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	mu       sync.Mutex
	listener whatsapp.MessageHandler
	started  chan struct{}
}

func (f *fakeTransport) SetListener(listener whatsapp.MessageHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listener = listener
}

func (f *fakeTransport) Run(ctx context.Context) error {
	close(f.started)
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeTransport) deliver(msg model.Message) {
	f.mu.Lock()
	listener := f.listener
	f.mu.Unlock()

	listener(msg)
}

type fakeHandler struct {
	mu       sync.Mutex
	handled  []string
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (f *fakeHandler) Handle(_ context.Context, msg model.Message) {
	current := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		peak := f.peak.Load()
		if current <= peak || f.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.handled = append(f.handled, msg.ID)
}

func (f *fakeHandler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.handled)
}

func TestRunDispatchesInboundMessages(t *testing.T) {
	transport := &fakeTransport{started: make(chan struct{})}
	handler := &fakeHandler{delay: 20 * time.Millisecond}
	svc := NewService(transport, handler, queue.NewService(16), 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx)
	}()

	<-transport.started
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		transport.deliver(model.Message{ID: id, From: "A"})
	}

	require.Eventually(t, func() bool {
		return handler.count() == 5
	}, 2*time.Second, 10*time.Millisecond)
	assert.LessOrEqual(t, handler.peak.Load(), int32(2))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestRunStopsWhenQueueCloses(t *testing.T) {
	transport := &fakeTransport{started: make(chan struct{})}
	q := queue.NewService(1)
	svc := NewService(transport, &fakeHandler{}, q, 1)

	done := make(chan error, 1)
	go func() {
		done <- svc.Run(context.Background())
	}()

	<-transport.started
	require.NoError(t, q.Shutdown())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}
