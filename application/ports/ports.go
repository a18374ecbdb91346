package ports

import (
	"context"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/events"
)

// GraphReader is the read-only query surface consumed by rendering, search
// and export adapters. Both the protocol and snapshots implement it.
type GraphReader interface {
	// Nodes returns copies of all nodes
	Nodes() []entities.Node

	// Edges returns copies of all edges
	Edges() []entities.Edge

	// Node looks up a node by id
	Node(id string) (entities.Node, bool)

	// Neighbors returns the distinct neighbor ids of a node
	Neighbors(id string) []string

	// NodesByType returns the nodes of one type
	NodesByType(nodeType string) []entities.Node

	// TypeIDs returns the distinct node types present
	TypeIDs() []string
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// EventBus defines the interface for publishing and subscribing to domain events
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for an event type
	Subscribe(eventType string, handler EventHandler) error
}

// EventHandler defines the interface for handling domain events
type EventHandler interface {
	// Handle processes an event
	Handle(ctx context.Context, event events.DomainEvent) error

	// CanHandle checks if this handler can process the event
	CanHandle(eventType string) bool
}
