package whatsapp

import (
	"conectin/app/model"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBridge is an in-process stand-in for the whatsapp-web.js bridge.
type fakeBridge struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	conn     *websocket.Conn
	received []frame
	respond  func(req frame) *frame
}

func newFakeBridge(t *testing.T, respond func(req frame) *frame) *fakeBridge {
	b := &fakeBridge{t: t, respond: respond}

	upgrader := websocket.Upgrader{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		b.mu.Lock()
		b.conn = conn
		b.mu.Unlock()

		for {
			var req frame
			if err := conn.ReadJSON(&req); err != nil {
				return
			}

			b.mu.Lock()
			b.received = append(b.received, req)
			b.mu.Unlock()

			if resp := b.respond(req); resp != nil {
				b.push(*resp)
			}
		}
	}))
	t.Cleanup(b.server.Close)

	return b
}

func (b *fakeBridge) url() string {
	return "ws" + strings.TrimPrefix(b.server.URL, "http")
}

func (b *fakeBridge) push(f frame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		b.t.Error("bridge has no client connection")
		return
	}

	assert.NoError(b.t, b.conn.WriteJSON(f))
}

func (b *fakeBridge) connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.conn != nil
}

func startClient(t *testing.T, b *fakeBridge) *Client {
	client := NewBridgeClient(b.url(), time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		_ = client.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return client.Connected() && b.connected()
	}, 2*time.Second, 10*time.Millisecond)

	return client
}

func TestSendReturnsBridgeMessageID(t *testing.T) {
	bridge := newFakeBridge(t, func(req frame) *frame {
		return &frame{Type: frameAck, RequestID: req.RequestID, ID: "true_502555@c.us_3EB0"}
	})
	client := startClient(t, bridge)

	id, err := client.Send(context.Background(), "502555@c.us", "¡Hola!")
	require.NoError(t, err)
	assert.Equal(t, "true_502555@c.us_3EB0", id)

	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	require.Len(t, bridge.received, 1)
	assert.Equal(t, frameSend, bridge.received[0].Type)
	assert.Equal(t, "502555@c.us", bridge.received[0].To)
	assert.Equal(t, "¡Hola!", bridge.received[0].Content)
}

func TestSendBridgeErrorIsTransportError(t *testing.T) {
	bridge := newFakeBridge(t, func(req frame) *frame {
		return &frame{Type: frameError, RequestID: req.RequestID, Error: "chat not found"}
	})
	client := startClient(t, bridge)

	_, err := client.Send(context.Background(), "nobody@c.us", "hola")
	require.ErrorIs(t, err, model.ErrTransport)
}

func TestSendTimesOutWithoutAck(t *testing.T) {
	bridge := newFakeBridge(t, func(req frame) *frame { return nil })
	client := startClient(t, bridge)
	client.requestTimeout = 50 * time.Millisecond

	_, err := client.Send(context.Background(), "502555@c.us", "hola")
	require.ErrorIs(t, err, model.ErrTransport)
}

func TestSendWithoutConnection(t *testing.T) {
	client := NewBridgeClient("ws://127.0.0.1:1/ws", time.Second)

	_, err := client.Send(context.Background(), "502555@c.us", "hola")
	require.ErrorIs(t, err, model.ErrTransport)
}

func TestDownload(t *testing.T) {
	bridge := newFakeBridge(t, func(req frame) *frame {
		return &frame{
			Type:      frameMedia,
			RequestID: req.RequestID,
			Media:     &model.Media{MimeType: "image/jpeg", Data: "aGVsbG8="},
		}
	})
	client := startClient(t, bridge)

	media, err := client.Download(context.Background(), model.Message{ID: "msg-1"})
	require.NoError(t, err)
	assert.True(t, media.IsImage())

	bridge.mu.Lock()
	defer bridge.mu.Unlock()
	assert.Equal(t, "msg-1", bridge.received[0].MessageID)
}

func TestInboundMessagesReachListener(t *testing.T) {
	bridge := newFakeBridge(t, func(req frame) *frame { return nil })

	received := make(chan model.Message, 1)
	client := NewBridgeClient(bridge.url(), time.Second)
	client.SetListener(func(msg model.Message) {
		received <- msg
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		_ = client.Run(ctx)
	}()

	require.Eventually(t, bridge.connected, 2*time.Second, 10*time.Millisecond)

	bridge.push(frame{
		Type: frameMessage,
		Message: &bridgeMessage{
			ID:        "msg-7",
			From:      "502555@c.us",
			To:        "502000@c.us",
			Body:      "hola",
			Type:      "chat",
			Timestamp: 1767261600,
		},
	})

	select {
	case msg := <-received:
		assert.Equal(t, "msg-7", msg.ID)
		assert.Equal(t, "502555@c.us", msg.ConversationID())
		assert.Equal(t, "hola", msg.Body)
		assert.Equal(t, int64(1767261600), msg.Timestamp.Unix())
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}
}

func TestQRAndReadyFrames(t *testing.T) {
	bridge := newFakeBridge(t, func(req frame) *frame { return nil })
	client := startClient(t, bridge)

	bridge.push(frame{Type: frameQR, Code: "2@abc,def"})
	require.Eventually(t, func() bool {
		code, _ := client.QR()
		return code == "2@abc,def"
	}, time.Second, 10*time.Millisecond)
	assert.False(t, client.Ready())

	bridge.push(frame{Type: frameReady})
	require.Eventually(t, client.Ready, time.Second, 10*time.Millisecond)

	code, _ := client.QR()
	assert.Empty(t, code)
}
