package intent

import (
	"context"
	"fmt"
	"strings"

	_ "embed"
)

//go:embed escalation_prompt.txt
var escalationPrompt string

const escalationTemperature = 0.1

// NeedsHuman asks the backend whether the message should go to a person.
// Only an exact "true" counts; any other answer is treated as false.
func (s *Service) NeedsHuman(ctx context.Context, text string) (bool, error) {
	raw, err := s.backend.Complete(ctx, escalationPrompt, text, escalationTemperature)
	if err != nil {
		return false, fmt.Errorf("escalation check: %w", err)
	}

	return strings.EqualFold(strings.TrimSpace(raw), "true"), nil
}
