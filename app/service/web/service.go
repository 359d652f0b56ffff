package web

import (
	"bytes"
	"conectin/app/client/whatsapp"
	"conectin/app/config"
	"conectin/app/service/conversation"
	"conectin/app/service/operator"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/samber/do"
)

const qrUnavailableText = "QR no disponible aún. Por favor espere..."

var _ do.Shutdownable = (*Service)(nil)

type Pairing interface {
	QR() (string, time.Time)
	Connected() bool
	Ready() bool
}

type HandoffLister interface {
	Handoffs() []conversation.Handoff
}

type Health struct {
	Connected bool `json:"connected"`
	Ready     bool `json:"ready"`
	Handoffs  int  `json:"handoffs"`
}

var qrPage = template.Must(template.New("qr").Parse(`<html>
	<body style="display: flex; flex-direction: column; justify-content: center; align-items: center; height: 100vh; margin: 0;">
		{{- if .Image}}
		<img src="{{.Image}}" alt="QR Code" style="max-width: 80%;">
		{{- else}}
		<pre style="max-width: 80%; white-space: pre-wrap; word-break: break-all;">{{.Code}}</pre>
		{{- end}}
		<p>Generado {{.Generated.Format "2006-01-02 15:04:05"}}</p>
	</body>
</html>
`))

// Service is the HTTP surface of the bot: the QR pairing page, health and the operator MCP endpoint.
type Service struct {
	listen string
	app    *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewService(
		cfg.HTTP.Listen,
		do.MustInvoke[*whatsapp.Client](di),
		do.MustInvoke[*conversation.Store](di),
		do.MustInvoke[*operator.Service](di).Handler(),
	), nil
}

func NewService(listen string, pairing Pairing, handoffs HandoffLister, mcpHandler http.Handler) *Service {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/qr", func(c *fiber.Ctx) error {
		code, generated := pairing.QR()
		if code == "" {
			return c.SendString(qrUnavailableText)
		}

		// The bridge may push a rendered data URL instead of the raw pairing code.
		var image template.URL
		if strings.HasPrefix(code, "data:image/") {
			image = template.URL(code)
		}

		var buf bytes.Buffer
		if err := qrPage.Execute(&buf, map[string]any{
			"Code":      code,
			"Image":     image,
			"Generated": generated,
		}); err != nil {
			return err
		}

		c.Type("html", "utf-8")
		return c.Send(buf.Bytes())
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		health := Health{
			Connected: pairing.Connected(),
			Ready:     pairing.Ready(),
			Handoffs:  len(handoffs.Handoffs()),
		}

		status := fiber.StatusOK
		if !health.Connected {
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(health)
	})

	if mcpHandler != nil {
		app.All("/mcp", adaptor.HTTPHandler(mcpHandler))
	}

	return &Service{
		listen: listen,
		app:    app,
	}
}

// Run serves HTTP until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			slog.Warn("HTTP shutdown failed", "error", err)
		}
	}()

	slog.Info("HTTP server listening", "listen", s.listen)

	return s.app.Listen(s.listen)
}

func (s *Service) Shutdown() error {
	return s.app.Shutdown()
}
