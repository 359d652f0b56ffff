package intent

import (
	"conectin/app/model"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	answer string
	err    error

	system      string
	user        string
	temperature float64
}

func (f *fakeBackend) Complete(_ context.Context, system, user string, temperature float64) (string, error) {
	f.system = system
	f.user = user
	f.temperature = temperature

	return f.answer, f.err
}

func TestClassify(t *testing.T) {
	tests := []struct {
		answer string
		want   model.Category
	}{
		{"problema_tecnico", model.CategoryTechnicalIssue},
		{"Pago_Recibido", model.CategoryPaymentReceived},
		{"nuevo_cliente\n", model.CategoryNewClient},
		{"no sé qué es esto", model.CategoryUnclassified},
	}

	for _, tt := range tests {
		backend := &fakeBackend{answer: tt.answer}

		got, err := NewService(backend).Classify(context.Background(), "hola, pagué ayer")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.answer)
		assert.Equal(t, classifyPrompt, backend.system)
		assert.Equal(t, "hola, pagué ayer", backend.user)
	}
}

func TestClassifyFailures(t *testing.T) {
	backendErr := fmt.Errorf("%w: timeout", model.ErrExternalService)

	_, err := NewService(&fakeBackend{err: backendErr}).Classify(context.Background(), "x")
	require.ErrorIs(t, err, model.ErrExternalService)

	_, err = NewService(&fakeBackend{answer: "   "}).Classify(context.Background(), "x")
	require.ErrorIs(t, err, model.ErrExternalService)
}

func TestNeedsHuman(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"true", true},
		{" TRUE\n", true},
		{"false", false},
		{"true, definitely", false},
		{"", false},
	}

	for _, tt := range tests {
		backend := &fakeBackend{answer: tt.answer}

		got, err := NewService(backend).NeedsHuman(context.Background(), "ya me cansé")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.answer)
		assert.InDelta(t, escalationTemperature, backend.temperature, 1e-9)
	}

	_, err := NewService(&fakeBackend{err: errors.New("boom")}).NeedsHuman(context.Background(), "x")
	require.Error(t, err)
}

func TestComplete(t *testing.T) {
	backend := &fakeBackend{answer: "¡Claro! Con gusto te ayudo 😊"}

	got, err := NewService(backend).Complete(context.Background(), "¿tienen fibra?")
	require.NoError(t, err)
	assert.Equal(t, "¡Claro! Con gusto te ayudo 😊", got)
	assert.Contains(t, backend.system, "1️⃣ Planes y precios disponibles")
	assert.Equal(t, "¿tienen fibra?", backend.user)

	_, err = NewService(&fakeBackend{}).Complete(context.Background(), "x")
	require.ErrorIs(t, err, model.ErrExternalService)
}
