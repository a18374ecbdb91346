package commands

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/mutations"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

func TestProposeConstructors(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	Clock = func() time.Time { return fixed }
	defer func() { Clock = time.Now }()

	tests := []struct {
		name    string
		propose func() (*mutations.Proposal, error)
		kind    mutations.Kind
	}{
		{"add node", func() (*mutations.Proposal, error) {
			return ProposeAddNode(entities.NewNode("d1", "domain", nil), "new domain", valueobjects.AuthorAgent)
		}, mutations.KindAddNode},
		{"remove node", func() (*mutations.Proposal, error) {
			return ProposeRemoveNode("d1", "", valueobjects.AuthorHuman)
		}, mutations.KindRemoveNode},
		{"update node", func() (*mutations.Proposal, error) {
			return ProposeUpdateNode("vova", map[string]interface{}{"label": "V"}, "", valueobjects.AuthorSystem)
		}, mutations.KindUpdateNode},
		{"add edge", func() (*mutations.Proposal, error) {
			return ProposeAddEdge(entities.NewEdge("e9", "a", "b", "relates", nil), "", valueobjects.AuthorAgent)
		}, mutations.KindAddEdge},
		{"remove edge", func() (*mutations.Proposal, error) {
			return ProposeRemoveEdge("e9", "", valueobjects.AuthorAgent)
		}, mutations.KindRemoveEdge},
		{"update edge", func() (*mutations.Proposal, error) {
			return ProposeUpdateEdge("e9", map[string]interface{}{"weight": 1}, "", valueobjects.AuthorAgent)
		}, mutations.KindUpdateEdge},
		{"batch", func() (*mutations.Proposal, error) {
			return ProposeBatch([]mutations.Mutation{mutations.RemoveNode{ID: "x"}}, "", valueobjects.AuthorAgent)
		}, mutations.KindBatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.propose()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, valueobjects.ProposalPending, p.Status())
			assert.Equal(t, fixed, p.CreatedAt())
			assert.NotEmpty(t, p.ID())
		})
	}
}

func TestPropose_InvalidProvenance(t *testing.T) {
	_, err := ProposeRemoveNode("x", "", valueobjects.AuthorKind("robot"))
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)

	long := make([]byte, MaxRationaleLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = ProposeRemoveNode("x", string(long), valueobjects.AuthorHuman)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)
}

func TestProposeAddEdge_FillsMissingID(t *testing.T) {
	p, err := ProposeAddEdge(entities.NewEdge("", "a", "b", "relates", nil), "", valueobjects.AuthorAgent)
	require.NoError(t, err)
	edge := p.Mutation().(mutations.AddEdge).Edge
	assert.NotEmpty(t, edge.ID)

	// the id is fixed at construction
	assert.Equal(t, edge.ID, p.Mutation().(mutations.AddEdge).Edge.ID)

	batch, err := ProposeBatch([]mutations.Mutation{
		mutations.AddEdge{Edge: entities.NewEdge("", "a", "b", "relates", nil)},
		mutations.AddEdge{Edge: entities.NewEdge("keep", "a", "b", "relates", nil)},
	}, "", valueobjects.AuthorAgent)
	require.NoError(t, err)
	items := batch.Mutation().(mutations.Batch).Mutations
	assert.NotEmpty(t, items[0].(mutations.AddEdge).Edge.ID)
	assert.Equal(t, "keep", items[1].(mutations.AddEdge).Edge.ID)
}

func TestProposalRequest_ToProposal(t *testing.T) {
	data := []byte(`[
		{"type": "addNode", "payload": {"id": "d1", "type": "domain", "label": "Music"}, "rationale": "grow", "author": "agent"},
		{"type": "addEdge", "payload": {"source": "root", "target": "d1", "type": "contains"}, "author": "human"},
		{"type": "teleport", "payload": {"id": "x"}, "author": "agent"},
		{"type": "removeNode", "payload": {"id": "x"}, "author": "robot"}
	]`)

	requests, err := ParseProposalRequests(data)
	require.NoError(t, err)
	require.Len(t, requests, 4)

	p, err := requests[0].ToProposal()
	require.NoError(t, err)
	node := p.Mutation().(mutations.AddNode).Node
	assert.Equal(t, "Music", node.Label())
	assert.Equal(t, "grow", p.Rationale())

	p, err = requests[1].ToProposal()
	require.NoError(t, err)
	assert.NotEmpty(t, p.Mutation().(mutations.AddEdge).Edge.ID)
	assert.Equal(t, valueobjects.AuthorHuman, p.Author())

	_, err = requests[2].ToProposal()
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)

	_, err = requests[3].ToProposal()
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)

	_, err = ParseProposalRequests([]byte(`{"not": "an array"}`))
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)
}

func TestCommands_Validate(t *testing.T) {
	assert.Error(t, ApplyProposalCommand{}.Validate())
	assert.Error(t, ValidateProposalCommand{}.Validate())
	assert.Error(t, SimulateProposalCommand{}.Validate())

	p, err := ProposeRemoveNode("x", "", valueobjects.AuthorAgent)
	require.NoError(t, err)
	assert.NoError(t, ApplyProposalCommand{Proposal: p}.Validate())
}
