package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeProposalValidated = "proposal.validated"
	TypeProposalRejected  = "proposal.rejected"
	TypeProposalApplied   = "proposal.applied"
	TypeSnapshotCreated   = "snapshot.created"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func newBase(aggregateID, eventType string, timestamp time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.New().String(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   timestamp,
		Version:     1,
	}
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Proposal Events

// ProposalValidated is raised when a proposal passes every validation gate
type ProposalValidated struct {
	BaseEvent
	MutationType string   `json:"mutation_type"`
	Warnings     []string `json:"warnings,omitempty"`
}

// NewProposalValidated creates a ProposalValidated event
func NewProposalValidated(proposalID, mutationType string, warnings []string, timestamp time.Time) ProposalValidated {
	return ProposalValidated{
		BaseEvent:    newBase(proposalID, TypeProposalValidated, timestamp),
		MutationType: mutationType,
		Warnings:     warnings,
	}
}

// ProposalRejected is raised when a proposal fails validation
type ProposalRejected struct {
	BaseEvent
	MutationType string   `json:"mutation_type"`
	Codes        []string `json:"codes"`
	Reasons      []string `json:"reasons"`
}

// NewProposalRejected creates a ProposalRejected event
func NewProposalRejected(proposalID, mutationType string, codes, reasons []string, timestamp time.Time) ProposalRejected {
	return ProposalRejected{
		BaseEvent:    newBase(proposalID, TypeProposalRejected, timestamp),
		MutationType: mutationType,
		Codes:        codes,
		Reasons:      reasons,
	}
}

// ProposalApplied is raised after a proposal is committed to the live graph
type ProposalApplied struct {
	BaseEvent
	MutationType string `json:"mutation_type"`
	Author       string `json:"author"`
	SnapshotID   string `json:"snapshot_id"`
	TotalChanges int    `json:"total_changes"`
}

// NewProposalApplied creates a ProposalApplied event
func NewProposalApplied(proposalID, mutationType, author, snapshotID string, totalChanges int, timestamp time.Time) ProposalApplied {
	return ProposalApplied{
		BaseEvent:    newBase(proposalID, TypeProposalApplied, timestamp),
		MutationType: mutationType,
		Author:       author,
		SnapshotID:   snapshotID,
		TotalChanges: totalChanges,
	}
}

// Snapshot Events

// SnapshotCreated is raised when a snapshot is appended to the history
type SnapshotCreated struct {
	BaseEvent
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
	Checksum  string `json:"checksum"`
}

// NewSnapshotCreated creates a SnapshotCreated event
func NewSnapshotCreated(snapshotID string, nodeCount, edgeCount int, checksum string, timestamp time.Time) SnapshotCreated {
	return SnapshotCreated{
		BaseEvent: newBase(snapshotID, TypeSnapshotCreated, timestamp),
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
		Checksum:  checksum,
	}
}
