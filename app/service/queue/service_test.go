package queue

import (
	"conectin/app/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDropsWhenFull(t *testing.T) {
	s := NewService(2)

	s.Add(model.Message{ID: "1"})
	s.Add(model.Message{ID: "2"})
	s.Add(model.Message{ID: "3"})

	assert.Equal(t, "1", (<-s.Channel()).ID)
	assert.Equal(t, "2", (<-s.Channel()).ID)
	assert.Empty(t, s.Channel())
}

func TestShutdownClosesChannel(t *testing.T) {
	s := NewService(1)

	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())

	assert.NotPanics(t, func() {
		s.Add(model.Message{ID: "late"})
	})

	_, ok := <-s.Channel()
	assert.False(t, ok)
}
