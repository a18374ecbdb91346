package protocol

import (
	"time"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/invariants"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/mutations"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/versioning"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// ValidationResult is the outcome of the four validation gates. A result
// with errors is never valid; warnings never block.
type ValidationResult struct {
	Valid      bool                     `json:"valid"`
	Errors     []*pkgerrors.DomainError `json:"errors,omitempty"`
	Warnings   []*pkgerrors.DomainError `json:"warnings,omitempty"`
	Invariants *invariants.Report       `json:"invariants,omitempty"`
	Touched    mutations.Touched        `json:"touched"`
}

// SimulationResult is a dry run of a proposal against the live graph
type SimulationResult struct {
	ProposalID     string                   `json:"proposal_id"`
	Valid          bool                     `json:"valid"`
	SimulatedGraph *aggregates.Graph        `json:"simulated_graph,omitempty"`
	Diff           *versioning.Diff         `json:"diff,omitempty"`
	Errors         []*pkgerrors.DomainError `json:"errors,omitempty"`
	Warnings       []*pkgerrors.DomainError `json:"warnings,omitempty"`
	Invariants     *invariants.Report       `json:"invariants,omitempty"`
}

// ApplyOptions tunes a single apply
type ApplyOptions struct {
	// SkipValidation bypasses schema and invariant gates. The mutation is
	// still simulated, so semantic failures still reject.
	SkipValidation bool
}

// ApplyResult reports whether a proposal was committed
type ApplyResult struct {
	Applied    bool                     `json:"applied"`
	SnapshotID string                   `json:"snapshot_id,omitempty"`
	Diff       *versioning.Diff         `json:"diff,omitempty"`
	Errors     []*pkgerrors.DomainError `json:"errors,omitempty"`
	Warnings   []*pkgerrors.DomainError `json:"warnings,omitempty"`
}

// HistoryEntry is the audit record of one applied proposal
type HistoryEntry struct {
	Proposal   *mutations.Proposal `json:"proposal"`
	Diff       *versioning.Diff    `json:"diff"`
	SnapshotID string              `json:"snapshot_id"`
	AppliedAt  time.Time           `json:"applied_at"`
}

// HistoryRecord is the flattened form of a HistoryEntry used in exports
type HistoryRecord struct {
	ProposalID    string                  `json:"proposalId"`
	Type          mutations.Kind          `json:"type"`
	Author        valueobjects.AuthorKind `json:"author"`
	Rationale     string                  `json:"rationale,omitempty"`
	AppliedAt     time.Time               `json:"appliedAt"`
	SnapshotID    string                  `json:"snapshotId"`
	ChangeSummary versioning.Summary      `json:"changeSummary"`
}

// Stats summarizes the protocol state
type Stats struct {
	Nodes         int                     `json:"nodes"`
	Edges         int                     `json:"edges"`
	HistoryLength int                     `json:"historyLength"`
	SnapshotCount int                     `json:"snapshotCount"`
	LastChange    *time.Time              `json:"lastChange,omitempty"`
	Strictness    valueobjects.Strictness `json:"strictness"`
}

// HistoryExport is the audit export of the protocol
type HistoryExport struct {
	Graph   aggregates.Document `json:"graph"`
	History []HistoryRecord     `json:"history"`
	Stats   Stats               `json:"stats"`
}
