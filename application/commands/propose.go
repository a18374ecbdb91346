// Package commands builds mutation proposals for agents and tools and
// carries them to the protocol through the command bus.
package commands

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/mutations"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/utils"
)

// MaxRationaleLength bounds the free-text rationale of a proposal
const MaxRationaleLength = 2000

// Clock stamps new proposals. Tests replace it.
var Clock = time.Now

// ProposalRequest is the wire form of a proposal as produced by an agent:
// a mutation envelope plus provenance.
type ProposalRequest struct {
	Type      string          `json:"type" validate:"required"`
	Payload   json.RawMessage `json:"payload" validate:"required"`
	Rationale string          `json:"rationale" validate:"max=2000"`
	Author    string          `json:"author" validate:"required,oneof=human agent system"`
}

// Validate checks the request fields
func (r ProposalRequest) Validate() error {
	return utils.ValidateStruct(r)
}

// ToProposal decodes the mutation and wraps it in a pending proposal
func (r ProposalRequest) ToProposal() (*mutations.Proposal, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidProposal, err)
	}
	envelope, err := json.Marshal(struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}{r.Type, r.Payload})
	if err != nil {
		return nil, err
	}
	m, err := mutations.Decode(envelope)
	if err != nil {
		return nil, err
	}
	return propose(fillEdgeIDs(m), r.Rationale, valueobjects.AuthorKind(r.Author))
}

// ParseProposalRequests decodes a JSON array of proposal requests
func ParseProposalRequests(data []byte) ([]ProposalRequest, error) {
	var requests []ProposalRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidProposal, err)
	}
	return requests, nil
}

type provenance struct {
	Rationale string `validate:"max=2000"`
	Author    string `validate:"required,oneof=human agent system"`
}

func propose(m mutations.Mutation, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	if err := utils.ValidateStruct(provenance{Rationale: rationale, Author: string(author)}); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrInvalidProposal, err)
	}
	return mutations.NewProposal(m, rationale, author, Clock())
}

// ProposeAddNode proposes inserting a node
func ProposeAddNode(node entities.Node, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	return propose(mutations.AddNode{Node: node}, rationale, author)
}

// ProposeRemoveNode proposes deleting a node and its incident edges
func ProposeRemoveNode(id string, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	return propose(mutations.RemoveNode{ID: id}, rationale, author)
}

// ProposeUpdateNode proposes merging changes into a node
func ProposeUpdateNode(id string, changes map[string]interface{}, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	return propose(mutations.UpdateNode{ID: id, Changes: changes}, rationale, author)
}

// ProposeAddEdge proposes inserting an edge. An edge without id gets a
// generated one here, so simulation and apply see the same id.
func ProposeAddEdge(edge entities.Edge, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	return propose(fillEdgeIDs(mutations.AddEdge{Edge: edge}), rationale, author)
}

// ProposeRemoveEdge proposes deleting an edge
func ProposeRemoveEdge(id string, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	return propose(mutations.RemoveEdge{ID: id}, rationale, author)
}

// ProposeUpdateEdge proposes merging changes into an edge
func ProposeUpdateEdge(id string, changes map[string]interface{}, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	return propose(mutations.UpdateEdge{ID: id, Changes: changes}, rationale, author)
}

// ProposeBatch proposes applying several mutations atomically
func ProposeBatch(items []mutations.Mutation, rationale string, author valueobjects.AuthorKind) (*mutations.Proposal, error) {
	return propose(fillEdgeIDs(mutations.Batch{Mutations: items}), rationale, author)
}

// fillEdgeIDs assigns ids to new edges that arrive without one
func fillEdgeIDs(m mutations.Mutation) mutations.Mutation {
	switch v := m.(type) {
	case mutations.AddEdge:
		if v.Edge.ID == "" {
			v.Edge.ID = uuid.New().String()
		}
		return v
	case mutations.Batch:
		items := make([]mutations.Mutation, len(v.Mutations))
		for i, item := range v.Mutations {
			if item != nil {
				item = fillEdgeIDs(item)
			}
			items[i] = item
		}
		return mutations.Batch{Mutations: items}
	default:
		return m
	}
}
