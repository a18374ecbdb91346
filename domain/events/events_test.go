package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvents(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		event     DomainEvent
		aggregate string
		eventType string
	}{
		{"validated", NewProposalValidated("p1", "addNode", nil, now), "p1", TypeProposalValidated},
		{"rejected", NewProposalRejected("p1", "addNode", []string{"DUPLICATE_NODE_ID"}, []string{"exists"}, now), "p1", TypeProposalRejected},
		{"applied", NewProposalApplied("p1", "addNode", "human", "s2", 1, now), "p1", TypeProposalApplied},
		{"snapshot", NewSnapshotCreated("s2", 3, 2, "abc", now), "s2", TypeSnapshotCreated},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.aggregate, tt.event.GetAggregateID())
			assert.Equal(t, tt.eventType, tt.event.GetEventType())
			assert.Equal(t, now, tt.event.GetTimestamp())
			assert.Equal(t, 1, tt.event.GetVersion())
			assert.NotEmpty(t, tt.event.GetEventID())
			assert.False(t, seen[tt.event.GetEventID()])
			seen[tt.event.GetEventID()] = true
		})
	}
}
