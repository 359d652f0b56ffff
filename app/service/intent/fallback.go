package intent

import (
	"conectin/app/model"
	"context"
	"fmt"

	_ "embed"
)

//go:embed persona_prompt.txt
var personaPrompt string

const personaTemperature = 0.8

// Complete answers free text in the assistant's persona. No history is kept:
// the user's message is the only turn.
func (s *Service) Complete(ctx context.Context, text string) (string, error) {
	reply, err := s.backend.Complete(ctx, personaPrompt, text, personaTemperature)
	if err != nil {
		return "", fmt.Errorf("persona completion: %w", err)
	}

	if reply == "" {
		return "", fmt.Errorf("%w: empty completion", model.ErrExternalService)
	}

	return reply, nil
}
