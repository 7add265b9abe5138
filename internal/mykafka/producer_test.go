package mykafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPublishEventRejectsUnencodableEvent(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"})
	t.Cleanup(func() { _ = p.Close() })

	err := p.PublishEvent(context.Background(), "product_events", "1", map[string]any{"bad": make(chan int)})
	require.ErrorContains(t, err, "json.Marshal failed")
}

func TestPublishEventUnreachableBroker(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"})
	t.Cleanup(func() { _ = p.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err := p.PublishEvent(ctx, "product_events", "1", map[string]any{"type": "product_created"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "product_events")
}

func TestNewProducerFlushesSingleMessages(t *testing.T) {
	p := NewProducer([]string{"127.0.0.1:1"})
	t.Cleanup(func() { _ = p.Close() })

	require.False(t, p.writer.Async)
	require.Equal(t, 1, p.writer.BatchSize)
	require.Positive(t, p.writer.BatchTimeout)
	require.LessOrEqual(t, p.writer.BatchTimeout, 10*time.Millisecond)
}
