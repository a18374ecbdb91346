package versioning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
)

// Metadata is free-form provenance attached to a snapshot
type Metadata struct {
	Description string   `json:"description,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (m Metadata) clone() Metadata {
	m.Tags = append([]string(nil), m.Tags...)
	return m
}

// Options configures a new snapshot. Zero values get generated defaults.
type Options struct {
	ID            string
	SchemaVersion string
	Metadata      Metadata
	CreatedAt     time.Time
}

// Snapshot is an immutable point-in-time copy of a graph. Every accessor
// returns copies, so a snapshot can be shared between goroutines freely.
type Snapshot struct {
	id            string
	createdAt     time.Time
	schemaVersion string
	metadata      Metadata
	graph         *aggregates.Graph
	checksum      string
}

// NewSnapshot deep-copies the graph and indexes it
func NewSnapshot(g *aggregates.Graph, opts Options) *Snapshot {
	if g == nil {
		g = aggregates.NewEmptyGraph()
	}
	s := &Snapshot{
		id:            opts.ID,
		createdAt:     opts.CreatedAt,
		schemaVersion: opts.SchemaVersion,
		metadata:      opts.Metadata.clone(),
		graph:         g.Clone(),
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}
	if s.createdAt.IsZero() {
		s.createdAt = time.Now().UTC()
	}
	s.checksum = checksum(s.graph)
	return s
}

// checksum hashes the canonical JSON of the document. encoding/json sorts
// map keys, so equal documents hash equally.
func checksum(g *aggregates.Graph) string {
	data, err := json.Marshal(g.Document())
	if err != nil {
		// Fields that cannot be marshaled fall back to their Go representation.
		data = []byte(fmt.Sprintf("%#v", g.Document()))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ID returns the snapshot id
func (s *Snapshot) ID() string { return s.id }

// CreatedAt returns the capture time
func (s *Snapshot) CreatedAt() time.Time { return s.createdAt }

// SchemaVersion returns the schema version the snapshot was taken under
func (s *Snapshot) SchemaVersion() string { return s.schemaVersion }

// Metadata returns a copy of the snapshot metadata
func (s *Snapshot) Metadata() Metadata { return s.metadata.clone() }

// Checksum returns the content hash of nodes and edges
func (s *Snapshot) Checksum() string { return s.checksum }

// SameContent reports structural equality of the captured documents
func (s *Snapshot) SameContent(other *Snapshot) bool {
	return other != nil && s.checksum == other.checksum
}

// Graph returns a mutable deep copy of the captured graph
func (s *Snapshot) Graph() *aggregates.Graph { return s.graph.Clone() }

// Document returns the captured graph in wire shape
func (s *Snapshot) Document() aggregates.Document { return s.graph.Document() }

// NodeCount returns the number of nodes
func (s *Snapshot) NodeCount() int { return s.graph.NodeCount() }

// EdgeCount returns the number of edges
func (s *Snapshot) EdgeCount() int { return s.graph.EdgeCount() }

// Nodes returns copies of all nodes
func (s *Snapshot) Nodes() []entities.Node { return s.graph.Nodes() }

// Edges returns copies of all edges
func (s *Snapshot) Edges() []entities.Edge { return s.graph.Edges() }

// Node looks up a node by id
func (s *Snapshot) Node(id string) (entities.Node, bool) { return s.graph.Node(id) }

// Edge looks up an edge by id
func (s *Snapshot) Edge(id string) (entities.Edge, bool) { return s.graph.Edge(id) }

// HasNode checks whether a node id exists
func (s *Snapshot) HasNode(id string) bool { return s.graph.HasNode(id) }

// NodeType resolves the type of a node
func (s *Snapshot) NodeType(id string) (string, bool) { return s.graph.NodeType(id) }

// Neighbors returns ids adjacent to a node
func (s *Snapshot) Neighbors(id string) []string { return s.graph.Neighbors(id) }

// NodesByType returns the nodes of one type
func (s *Snapshot) NodesByType(nodeType string) []entities.Node { return s.graph.NodesByType(nodeType) }

// TypeIDs returns the distinct node types present
func (s *Snapshot) TypeIDs() []string { return s.graph.TypeIDs() }

type snapshotJSON struct {
	ID            string              `json:"id"`
	CreatedAt     time.Time           `json:"created_at"`
	SchemaVersion string              `json:"schema_version,omitempty"`
	Metadata      Metadata            `json:"metadata"`
	Checksum      string              `json:"checksum"`
	Graph         aggregates.Document `json:"graph"`
}

// MarshalJSON serializes the snapshot with its document
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		ID:            s.id,
		CreatedAt:     s.createdAt,
		SchemaVersion: s.schemaVersion,
		Metadata:      s.metadata,
		Checksum:      s.checksum,
		Graph:         s.graph.Document(),
	})
}

// SnapshotFromJSON rebuilds a snapshot serialized by MarshalJSON. The
// checksum is recomputed and must match the stored one when present.
func SnapshotFromJSON(data []byte) (*Snapshot, error) {
	var raw snapshotJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	s := NewSnapshot(aggregates.FromDocument(raw.Graph), Options{
		ID:            raw.ID,
		SchemaVersion: raw.SchemaVersion,
		Metadata:      raw.Metadata,
		CreatedAt:     raw.CreatedAt,
	})
	if raw.Checksum != "" && raw.Checksum != s.checksum {
		return nil, fmt.Errorf("snapshot %s checksum mismatch", raw.ID)
	}
	return s, nil
}
