package mutations

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

func fixtureGraph() *aggregates.Graph {
	return aggregates.NewGraph(
		[]entities.Node{
			entities.NewNode("root", "root", map[string]interface{}{"label": "Vova i Petrova"}),
			entities.NewNode("characters", "hub", map[string]interface{}{"label": "Characters"}),
			entities.NewNode("vova", "character", map[string]interface{}{"label": "Vova"}),
			entities.NewNode("petrova", "character", map[string]interface{}{"label": "Petrova"}),
		},
		[]entities.Edge{
			entities.NewEdge("e1", "root", "characters", "contains", nil),
			entities.NewEdge("e2", "characters", "vova", "contains", nil),
			entities.NewEdge("e3", "characters", "petrova", "contains", nil),
		},
	)
}

func TestCheckShape(t *testing.T) {
	tests := []struct {
		name       string
		mutation   Mutation
		wantFields []string
	}{
		{
			name:     "complete add node",
			mutation: AddNode{Node: entities.NewNode("d1", "domain", nil)},
		},
		{
			name:       "add node without type",
			mutation:   AddNode{Node: entities.NewNode("d1", "", nil)},
			wantFields: []string{"type"},
		},
		{
			name:       "add edge without endpoints",
			mutation:   AddEdge{Edge: entities.NewEdge("e9", "", "", "relates", nil)},
			wantFields: []string{"source", "target"},
		},
		{
			name:       "update node without changes",
			mutation:   UpdateNode{ID: "vova", Changes: map[string]interface{}{}},
			wantFields: []string{"changes"},
		},
		{
			name:       "remove edge without id",
			mutation:   RemoveEdge{},
			wantFields: []string{"id"},
		},
		{
			name:       "empty batch",
			mutation:   Batch{},
			wantFields: []string{"mutations"},
		},
		{
			name: "batch items are checked with their index",
			mutation: Batch{Mutations: []Mutation{
				RemoveNode{ID: "vova"},
				UpdateEdge{Changes: map[string]interface{}{"weight": 1.0}},
				nil,
			}},
			wantFields: []string{"mutations[1].id", "mutations[2]"},
		},
		{
			name:       "nil mutation",
			mutation:   nil,
			wantFields: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := CheckShape(tt.mutation)
			fields := make([]string, 0, len(errs))
			for _, e := range errs {
				assert.Equal(t, pkgerrors.CodeInvalidPayload, e.Code)
				fields = append(fields, e.Details["field"].(string))
			}
			assert.ElementsMatch(t, tt.wantFields, fields)
		})
	}
}

func TestCheckShape_MessageNamesKindAndField(t *testing.T) {
	errs := CheckShape(AddEdge{Edge: entities.NewEdge("e9", "root", "", "relates", nil)})
	require.Len(t, errs, 1)
	assert.Equal(t, "addEdge requires target", errs[0].Message)
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name      string
		mutation  Mutation
		wantCode  string
		wantNodes int
		wantEdges int
		touched   Touched
	}{
		{
			name:      "add node",
			mutation:  AddNode{Node: entities.NewNode("d1", "domain", map[string]interface{}{"label": "D1"})},
			wantNodes: 5,
			wantEdges: 3,
			touched:   Touched{Nodes: []string{"d1"}},
		},
		{
			name:     "duplicate node",
			mutation: AddNode{Node: entities.NewNode("vova", "character", nil)},
			wantCode: pkgerrors.CodeDuplicateNodeID,
		},
		{
			name:      "remove node cascades",
			mutation:  RemoveNode{ID: "characters"},
			wantNodes: 3,
			wantEdges: 0,
			touched:   Touched{RemovedNodes: []string{"characters"}, RemovedEdges: []string{"e1", "e2", "e3"}},
		},
		{
			name:     "remove missing node",
			mutation: RemoveNode{ID: "ghost"},
			wantCode: pkgerrors.CodeNodeNotFound,
		},
		{
			name:     "update missing node",
			mutation: UpdateNode{ID: "ghost", Changes: map[string]interface{}{"label": "x"}},
			wantCode: pkgerrors.CodeNodeNotFound,
		},
		{
			name:     "edge to unknown node",
			mutation: AddEdge{Edge: entities.NewEdge("e9", "root", "ghost", "relates", nil)},
			wantCode: pkgerrors.CodeUnresolvedEndpoint,
		},
		{
			name:      "update edge",
			mutation:  UpdateEdge{ID: "e2", Changes: map[string]interface{}{"weight": 2.0}},
			wantNodes: 4,
			wantEdges: 3,
			touched:   Touched{Edges: []string{"e2"}},
		},
		{
			name: "batch accumulates",
			mutation: Batch{Mutations: []Mutation{
				AddNode{Node: entities.NewNode("d1", "domain", nil)},
				AddNode{Node: entities.NewNode("d2", "domain", nil)},
				AddEdge{Edge: entities.NewEdge("e9", "root", "d1", "contains", nil)},
			}},
			wantNodes: 6,
			wantEdges: 4,
			touched:   Touched{Nodes: []string{"d1", "d2"}, Edges: []string{"e9"}},
		},
		{
			name: "batch fails on first bad item",
			mutation: Batch{Mutations: []Mutation{
				AddNode{Node: entities.NewNode("d1", "domain", nil)},
				AddNode{Node: entities.NewNode("d1", "domain", nil)},
				AddEdge{Edge: entities.NewEdge("e9", "root", "ghost", "contains", nil)},
			}},
			wantCode: pkgerrors.CodeBatchItemFailed,
		},
		{
			name: "add then remove in one batch",
			mutation: Batch{Mutations: []Mutation{
				AddNode{Node: entities.NewNode("tmp", "concept", nil)},
				RemoveNode{ID: "tmp"},
			}},
			wantNodes: 4,
			wantEdges: 3,
			touched:   Touched{RemovedNodes: []string{"tmp"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := fixtureGraph()
			before := base.Document()

			out, err := Simulate(base, tt.mutation)
			assert.Equal(t, before, base.Document(), "base graph must not change")

			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, pkgerrors.HasCode(err, tt.wantCode))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNodes, out.Graph.NodeCount())
			assert.Equal(t, tt.wantEdges, out.Graph.EdgeCount())
			assert.Equal(t, tt.touched, out.Touched)
		})
	}
}

func TestSimulate_BatchErrorCarriesSubError(t *testing.T) {
	_, err := Simulate(fixtureGraph(), Batch{Mutations: []Mutation{
		AddNode{Node: entities.NewNode("d1", "domain", nil)},
		AddNode{Node: entities.NewNode("vova", "character", nil)},
	}})
	require.Error(t, err)

	chain := pkgerrors.Chain(err)
	require.Len(t, chain, 2)
	assert.Equal(t, pkgerrors.CodeBatchItemFailed, chain[0].Code)
	assert.Equal(t, 1, chain[0].Details["index"])
	assert.Equal(t, pkgerrors.CodeDuplicateNodeID, chain[1].Code)
	assert.Contains(t, chain[0].Message, "already exists")
}

func TestCodec_RoundTrip(t *testing.T) {
	original := Batch{Mutations: []Mutation{
		AddNode{Node: entities.NewNode("d1", "domain", map[string]interface{}{"label": "D1"})},
		RemoveNode{ID: "vova"},
		UpdateNode{ID: "petrova", Changes: map[string]interface{}{"status": "active"}},
		AddEdge{Edge: entities.NewEdge("e9", "root", "d1", "contains", nil)},
		RemoveEdge{ID: "e2"},
		UpdateEdge{ID: "e3", Changes: map[string]interface{}{"weight": 0.5}},
	}}

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown type", `{"type":"renameNode","payload":{"id":"x"}}`},
		{"missing payload", `{"type":"addNode"}`},
		{"null payload", `{"type":"removeNode","payload":null}`},
		{"bad batch item", `{"type":"batch","payload":{"mutations":[{"type":"nope","payload":{}}]}}`},
		{"not json", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.doc))
			assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)
		})
	}
}

func TestProposal_Lifecycle(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	changes := map[string]interface{}{"label": "Vova!"}

	p, err := NewProposal(UpdateNode{ID: "vova", Changes: changes}, "rename", valueobjects.AuthorAgent, now)
	require.NoError(t, err)
	changes["label"] = "mutated by caller"

	assert.NotEmpty(t, p.ID())
	assert.Equal(t, KindUpdateNode, p.Kind())
	assert.Equal(t, "Vova!", p.Mutation().(UpdateNode).Changes["label"])
	assert.Equal(t, valueobjects.ProposalPending, p.Status())

	assert.ErrorIs(t, p.Transition(valueobjects.ProposalApplied, now), pkgerrors.ErrInvalidTransition)
	require.NoError(t, p.Transition(valueobjects.ProposalValidated, now))
	require.NoError(t, p.Transition(valueobjects.ProposalSimulated, now))
	require.NoError(t, p.Transition(valueobjects.ProposalSimulated, now))

	_, applied := p.AppliedAt()
	assert.False(t, applied)

	require.NoError(t, p.Transition(valueobjects.ProposalApplied, now.Add(time.Minute)))
	at, applied := p.AppliedAt()
	require.True(t, applied)
	assert.Equal(t, now.Add(time.Minute), at)

	assert.ErrorIs(t, p.Reject(nil), pkgerrors.ErrInvalidTransition)
}

func TestProposal_RejectKeepsErrors(t *testing.T) {
	p, err := NewProposal(RemoveNode{ID: "ghost"}, "", valueobjects.AuthorHuman, time.Time{})
	require.NoError(t, err)

	reason := pkgerrors.NewDomainError(pkgerrors.DomainNotFoundError, pkgerrors.CodeNodeNotFound, "node \"ghost\" does not exist")
	require.NoError(t, p.Reject([]*pkgerrors.DomainError{reason}))
	assert.Equal(t, valueobjects.ProposalRejected, p.Status())
	assert.Len(t, p.Errors(), 1)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "REJECTED", out["status"])
	assert.Equal(t, "removeNode", out["type"])
	assert.Equal(t, map[string]interface{}{"id": "ghost"}, out["payload"])
}

func TestNewProposal_ProgrammerErrors(t *testing.T) {
	_, err := NewProposal(nil, "", valueobjects.AuthorHuman, time.Time{})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)

	_, err = NewProposal(RemoveNode{ID: "x"}, "", valueobjects.AuthorKind("robot"), time.Time{})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidProposal)
}
