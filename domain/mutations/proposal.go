package mutations

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// Proposal is a requested mutation with provenance. The caller owns it;
// the protocol only stamps its status and timestamps. Rejected proposals
// keep their errors for the audit trail.
type Proposal struct {
	mu sync.RWMutex

	id        string
	mutation  Mutation
	rationale string
	author    valueobjects.AuthorKind
	createdAt time.Time

	status    valueobjects.ProposalStatus
	appliedAt *time.Time
	errors    []*pkgerrors.DomainError
}

// NewProposal wraps a mutation. A nil mutation or an unknown author kind is
// a programming error.
func NewProposal(m Mutation, rationale string, author valueobjects.AuthorKind, now time.Time) (*Proposal, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: mutation is required", pkgerrors.ErrInvalidProposal)
	}
	if !author.IsValid() {
		return nil, fmt.Errorf("%w: unknown author kind %q", pkgerrors.ErrInvalidProposal, author)
	}
	if now.IsZero() {
		now = time.Now()
	}
	return &Proposal{
		id:        uuid.New().String(),
		mutation:  Clone(m),
		rationale: rationale,
		author:    author,
		createdAt: now.UTC(),
		status:    valueobjects.ProposalPending,
	}, nil
}

// ID returns the proposal id
func (p *Proposal) ID() string { return p.id }

// Kind returns the mutation kind
func (p *Proposal) Kind() Kind { return p.mutation.Kind() }

// Mutation returns a copy of the requested mutation
func (p *Proposal) Mutation() Mutation { return Clone(p.mutation) }

// Rationale returns the author's stated reason
func (p *Proposal) Rationale() string { return p.rationale }

// Author returns who produced the proposal
func (p *Proposal) Author() valueobjects.AuthorKind { return p.author }

// CreatedAt returns the construction time
func (p *Proposal) CreatedAt() time.Time { return p.createdAt }

// Status returns the current lifecycle state
func (p *Proposal) Status() valueobjects.ProposalStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// AppliedAt returns the apply time, if the proposal was applied
func (p *Proposal) AppliedAt() (time.Time, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.appliedAt == nil {
		return time.Time{}, false
	}
	return *p.appliedAt, true
}

// Errors returns the errors recorded on rejection
func (p *Proposal) Errors() []*pkgerrors.DomainError {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*pkgerrors.DomainError(nil), p.errors...)
}

// Transition moves the proposal to next, stamping the apply time when next
// is APPLIED.
func (p *Proposal) Transition(next valueobjects.ProposalStatus, at time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.transitionLocked(next, at)
}

// Reject moves the proposal to REJECTED and records why
func (p *Proposal) Reject(errs []*pkgerrors.DomainError) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.transitionLocked(valueobjects.ProposalRejected, time.Time{}); err != nil {
		return err
	}
	p.errors = append([]*pkgerrors.DomainError(nil), errs...)
	return nil
}

func (p *Proposal) transitionLocked(next valueobjects.ProposalStatus, at time.Time) error {
	if !p.status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", pkgerrors.ErrInvalidTransition, p.status, next)
	}
	p.status = next
	if next == valueobjects.ProposalApplied {
		stamp := at.UTC()
		p.appliedAt = &stamp
	}
	return nil
}

type proposalJSON struct {
	ID        string                      `json:"id"`
	Type      Kind                        `json:"type"`
	Payload   interface{}                 `json:"payload"`
	Rationale string                      `json:"rationale,omitempty"`
	Author    valueobjects.AuthorKind     `json:"author"`
	Status    valueobjects.ProposalStatus `json:"status"`
	CreatedAt time.Time                   `json:"created_at"`
	AppliedAt *time.Time                  `json:"applied_at,omitempty"`
	Errors    []*pkgerrors.DomainError    `json:"errors,omitempty"`
}

// MarshalJSON writes the proposal for audit exports
func (p *Proposal) MarshalJSON() ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return json.Marshal(proposalJSON{
		ID:        p.id,
		Type:      p.mutation.Kind(),
		Payload:   Payload(p.mutation),
		Rationale: p.rationale,
		Author:    p.author,
		Status:    p.status,
		CreatedAt: p.createdAt,
		AppliedAt: p.appliedAt,
		Errors:    p.errors,
	})
}
