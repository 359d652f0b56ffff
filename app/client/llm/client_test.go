package llm

import (
	"conectin/app/model"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}

	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestCompleteSendsSystemAndUserTurn(t *testing.T) {
	fake := &fakeModel{
		resp: &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "  problema_tecnico \n"}},
		},
	}

	got, err := NewWithModel(fake).Complete(context.Background(), "classify", "no tengo internet", 0.1)
	require.NoError(t, err)
	assert.Equal(t, "problema_tecnico", got)

	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
	assert.Equal(t, llms.TextContent{Text: "no tengo internet"}, fake.messages[1].Parts[0])
	assert.InDelta(t, 0.1, fake.opts.Temperature, 1e-9)
}

func TestCompleteWrapsBackendFailures(t *testing.T) {
	fake := &fakeModel{err: errors.New("connection refused")}

	_, err := NewWithModel(fake).Complete(context.Background(), "s", "u", 0)
	require.ErrorIs(t, err, model.ErrExternalService)

	empty := &fakeModel{resp: &llms.ContentResponse{}}
	_, err = NewWithModel(empty).Complete(context.Background(), "s", "u", 0)
	require.ErrorIs(t, err, model.ErrExternalService)
}
