package intent

import (
	"conectin/app/model"
	"context"
	"fmt"
	"log/slog"
	"strings"

	_ "embed"
)

//go:embed classify_prompt.txt
var classifyPrompt string

const classifyTemperature = 0

// Classify maps free text onto one of the fixed categories. Tokens outside the
// set fall back to the unclassified category; an empty answer is a backend failure.
func (s *Service) Classify(ctx context.Context, text string) (model.Category, error) {
	raw, err := s.backend.Complete(ctx, classifyPrompt, text, classifyTemperature)
	if err != nil {
		return "", fmt.Errorf("classify: %w", err)
	}

	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty classification", model.ErrExternalService)
	}

	category, ok := model.ParseCategory(raw)
	if !ok {
		slog.WarnContext(ctx, "Unknown intent category",
			"raw", raw,
			"fallback", category,
		)
	}

	return category, nil
}
