package intent

import (
	"conectin/app/client/llm"
	"context"

	"github.com/samber/do"
)

// Backend is the generative model behind every prompted decision.
type Backend interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

// Service wraps the backend with the three fixed prompts: intent
// classification, escalation detection and the persona fallback.
type Service struct {
	backend Backend
}

func New(di *do.Injector) (*Service, error) {
	return NewService(do.MustInvoke[*llm.Client](di)), nil
}

func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}
