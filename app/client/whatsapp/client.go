package whatsapp

import (
	"conectin/app/config"
	"conectin/app/model"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	handshakeTimeout = 10 * time.Second
	maxBackoff       = 30 * time.Second
)

type MessageHandler func(msg model.Message)

// Client talks to a whatsapp-web.js bridge over a WebSocket. The bridge owns
// the WhatsApp session (QR pairing, media storage); this client only
// exchanges JSON frames with it.
type Client struct {
	bridgeURL      string
	requestTimeout time.Duration

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool

	pendingMu sync.Mutex
	pending   map[string]chan frame

	handlerMu      sync.RWMutex
	messageHandler MessageHandler

	qrMu   sync.RWMutex
	qrCode string
	qrTime time.Time
	ready  bool
}

func NewClient(di *do.Injector) (*Client, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewBridgeClient(cfg.WhatsApp.BridgeURL, cfg.WhatsApp.RequestTimeout), nil
}

func NewBridgeClient(bridgeURL string, requestTimeout time.Duration) *Client {
	return &Client{
		bridgeURL:      bridgeURL,
		requestTimeout: requestTimeout,
		pending:        make(map[string]chan frame),
	}
}

func (c *Client) SetListener(listener MessageHandler) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()

	c.messageHandler = listener
}

// Run keeps a bridge connection open until ctx is done, reconnecting with
// exponential back-off.
func (c *Client) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		c.closeConn()
	}()

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()

		if conn == nil {
			if err := c.connect(ctx); err != nil {
				slog.Warn("WhatsApp bridge connection failed", "error", err, "backoff", backoff)

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(backoff):
				}

				backoff = min(backoff*2, maxBackoff)
				continue
			}

			backoff = time.Second
			continue
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("WhatsApp bridge read error, will reconnect", "error", err)
			}
			c.closeConn()
			continue
		}

		var f frame
		if err = json.Unmarshal(data, &f); err != nil {
			slog.Warn("Invalid bridge frame", "error", err)
			continue
		}

		c.handleFrame(f)
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connected
}

// QR returns the last pairing code pushed by the bridge.
func (c *Client) QR() (string, time.Time) {
	c.qrMu.RLock()
	defer c.qrMu.RUnlock()

	return c.qrCode, c.qrTime
}

// Ready reports whether the bridge session is authenticated.
func (c *Client) Ready() bool {
	c.qrMu.RLock()
	defer c.qrMu.RUnlock()

	return c.ready
}

// Send delivers text to a chat and returns the id WhatsApp assigned to it.
func (c *Client) Send(ctx context.Context, chatID, text string) (string, error) {
	resp, err := c.request(ctx, frame{
		Type:    frameSend,
		To:      chatID,
		Content: text,
	})
	if err != nil {
		return "", oops.In("whatsapp").With("chat_id", chatID).Wrapf(err, "send message")
	}

	return resp.ID, nil
}

// Download fetches the media attached to a message.
func (c *Client) Download(ctx context.Context, msg model.Message) (*model.Media, error) {
	resp, err := c.request(ctx, frame{
		Type:      frameDownload,
		MessageID: msg.ID,
	})
	if err != nil {
		return nil, oops.In("whatsapp").With("message_id", msg.ID).Wrapf(err, "download media")
	}

	if resp.Media == nil {
		return nil, fmt.Errorf("%w: bridge returned no media for %s", model.ErrTransport, msg.ID)
	}

	return resp.Media, nil
}

func (c *Client) connect(ctx context.Context) error {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = handshakeTimeout

	conn, _, err := dialer.DialContext(ctx, c.bridgeURL, nil)
	if err != nil {
		return fmt.Errorf("dial whatsapp bridge %s: %w", c.bridgeURL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	slog.Info("Connected to WhatsApp bridge", "url", c.bridgeURL)

	return nil
}

func (c *Client) closeConn() {
	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.connected = false
	c.mu.Unlock()

	c.qrMu.Lock()
	c.ready = false
	c.qrMu.Unlock()
}

func (c *Client) request(ctx context.Context, req frame) (frame, error) {
	req.RequestID = uuid.NewString()

	respCh := make(chan frame, 1)

	c.pendingMu.Lock()
	c.pending[req.RequestID] = respCh
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, req.RequestID)
		c.pendingMu.Unlock()
	}()

	if err := c.write(req); err != nil {
		return frame{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	select {
	case <-ctx.Done():
		return frame{}, fmt.Errorf("%w: waiting for %s response: %w", model.ErrTransport, req.Type, ctx.Err())
	case resp := <-respCh:
		if resp.Type == frameError {
			return frame{}, fmt.Errorf("%w: bridge: %s", model.ErrTransport, resp.Error)
		}

		return resp, nil
	}
}

func (c *Client) write(f frame) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", f.Type, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return fmt.Errorf("%w: whatsapp bridge not connected", model.ErrTransport)
	}

	if err = c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("%w: write %s frame: %w", model.ErrTransport, f.Type, err)
	}

	return nil
}

func (c *Client) handleFrame(f frame) {
	switch f.Type {
	case frameMessage:
		if f.Message == nil {
			return
		}

		c.handlerMu.RLock()
		handler := c.messageHandler
		c.handlerMu.RUnlock()

		if handler == nil {
			return
		}

		handler(f.Message.toModel())

	case frameAck, frameMedia, frameError:
		c.pendingMu.Lock()
		respCh, ok := c.pending[f.RequestID]
		c.pendingMu.Unlock()

		if !ok {
			if f.Type == frameError {
				slog.Warn("WhatsApp bridge error", "error", f.Error)
			}
			return
		}

		select {
		case respCh <- f:
		default:
		}

	case frameQR:
		c.qrMu.Lock()
		c.qrCode = f.Code
		c.qrTime = time.Now()
		c.qrMu.Unlock()

		slog.Info("New WhatsApp pairing QR available", "telegram", true)

	case frameReady, frameAuthenticated:
		c.qrMu.Lock()
		c.ready = true
		c.qrCode = ""
		c.qrMu.Unlock()

		slog.Info("WhatsApp session ready", "event", f.Type)

	case frameAuthFailure:
		slog.Error("WhatsApp authentication failure", "reason", f.Reason)

	case frameDisconnected:
		c.qrMu.Lock()
		c.ready = false
		c.qrMu.Unlock()

		slog.Warn("WhatsApp session disconnected", "reason", f.Reason)

	case frameState:
		slog.Info("WhatsApp state changed", "state", f.State)

	default:
		slog.Debug("Unhandled bridge frame", "type", f.Type)
	}
}
