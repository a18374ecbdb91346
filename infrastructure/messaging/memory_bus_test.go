package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/events"
)

func TestMemoryBus_DispatchesByType(t *testing.T) {
	bus := NewMemoryBus(-1, zaptest.NewLogger(t))
	now := time.Now()

	var applied, all []string
	require.NoError(t, bus.Subscribe(events.TypeProposalApplied, HandlerFunc{
		Fn: func(ctx context.Context, e events.DomainEvent) error {
			applied = append(applied, e.GetAggregateID())
			return nil
		},
	}))
	require.NoError(t, bus.Subscribe("*", HandlerFunc{
		Fn: func(ctx context.Context, e events.DomainEvent) error {
			all = append(all, e.GetEventType())
			return nil
		},
	}))

	err := bus.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewProposalApplied("p1", "addNode", "agent", "s1", 1, now),
		events.NewSnapshotCreated("s1", 4, 3, "abc", now),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"p1"}, applied)
	assert.Equal(t, []string{events.TypeProposalApplied, events.TypeSnapshotCreated}, all)
	assert.Len(t, bus.Published(), 2)
}

func TestMemoryBus_HandlerFailureDoesNotStopOthers(t *testing.T) {
	bus := NewMemoryBus(0, nil)
	calls := 0
	require.NoError(t, bus.Subscribe(events.TypeProposalRejected, HandlerFunc{
		Fn: func(ctx context.Context, e events.DomainEvent) error { return errors.New("down") },
	}))
	require.NoError(t, bus.Subscribe(events.TypeProposalRejected, HandlerFunc{
		Fn: func(ctx context.Context, e events.DomainEvent) error { calls++; return nil },
	}))

	err := bus.Publish(context.Background(), events.NewProposalRejected("p1", "addNode", nil, nil, time.Now()))
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, bus.Published())
}

func TestMemoryBus_RetainCap(t *testing.T) {
	bus := NewMemoryBus(2, nil)
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, bus.Publish(context.Background(), events.NewSnapshotCreated(id, 0, 0, "", time.Now())))
	}
	published := bus.Published()
	require.Len(t, published, 2)
	assert.Equal(t, "b", published[0].GetAggregateID())
	assert.Equal(t, "c", published[1].GetAggregateID())

	assert.Error(t, bus.Subscribe("x", nil))
	assert.False(t, HandlerFunc{Types: []string{"x"}}.CanHandle("y"))
}
