package handlers

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordering/eventing"
	"ordering/logging"
)

type snapshot struct{ id uuid.UUID }

func (s snapshot) GetID() uuid.UUID      { return s.id }
func (s snapshot) ToMap() map[string]any { return map[string]any{"id": s.id.String()} }

func TestLogEventHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	h := NewLogEventHandler(logger)

	evt := eventing.NewDomainEvent("CustomerCreatedEvent", snapshot{id: uuid.New()})
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Contains(t, buf.String(), "event_type=CustomerCreatedEvent")
	assert.Contains(t, buf.String(), evt.GetEventID().String())
}

func TestLogEventHandler_SubscribesOnce(t *testing.T) {
	p := eventing.NewDomainEventPublisher(logging.NewNoopLogger())
	assert.True(t, p.Subscribe("E", NewLogEventHandler(logging.NewNoopLogger())))
	assert.False(t, p.Subscribe("E", NewLogEventHandler(logging.NewNoopLogger())))
	assert.Equal(t, 1, p.HandlerCount("E"))
}
