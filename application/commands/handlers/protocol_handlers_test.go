package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/utemix-lab/vovaipetrova-sub000/application/commands"
	"github.com/utemix-lab/vovaipetrova-sub000/application/commands/bus"
	"github.com/utemix-lab/vovaipetrova-sub000/application/protocol"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
)

func setup(t *testing.T) (*bus.CommandBus, *protocol.MutationProtocol) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	g := aggregates.NewGraph(
		[]entities.Node{
			entities.NewNode("root", "root", map[string]interface{}{"label": "Root"}),
			entities.NewNode("vova", "character", map[string]interface{}{"label": "Vova"}),
		},
		[]entities.Edge{entities.NewEdge("e1", "root", "vova", "contains", nil)},
	)
	p, err := protocol.New(g, protocol.Options{Logger: logger})
	require.NoError(t, err)

	b := bus.NewCommandBus(bus.LoggingMiddleware(logger), bus.RecoveryMiddleware())
	require.NoError(t, NewProposalHandler(p, logger).Register(b))
	return b, p
}

func TestProposalHandler_Lifecycle(t *testing.T) {
	b, p := setup(t)
	ctx := context.Background()

	pr, err := commands.ProposeAddNode(entities.NewNode("d1", "domain", nil), "", valueobjects.AuthorAgent)
	require.NoError(t, err)

	out, err := b.Send(ctx, commands.ValidateProposalCommand{Proposal: pr})
	require.NoError(t, err)
	assert.True(t, out.(protocol.ValidationResult).Valid)

	out, err = b.Send(ctx, commands.SimulateProposalCommand{Proposal: pr})
	require.NoError(t, err)
	assert.Equal(t, 3, out.(protocol.SimulationResult).SimulatedGraph.NodeCount())

	out, err = b.Send(ctx, commands.ApplyProposalCommand{Proposal: pr})
	require.NoError(t, err)
	assert.True(t, out.(protocol.ApplyResult).Applied)
	assert.Len(t, p.Nodes(), 3)

	_, err = b.Send(ctx, commands.ApplyProposalCommand{Proposal: pr})
	assert.ErrorIs(t, err, bus.ErrExecutionFailed)
}

func TestProposalHandler_RejectedApplyIsNotAnError(t *testing.T) {
	b, p := setup(t)

	pr, err := commands.ProposeRemoveNode("ghost", "", valueobjects.AuthorAgent)
	require.NoError(t, err)

	out, err := b.Send(context.Background(), commands.ApplyProposalCommand{Proposal: pr})
	require.NoError(t, err)
	result := out.(protocol.ApplyResult)
	assert.False(t, result.Applied)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, valueobjects.ProposalRejected, pr.Status())
	assert.Len(t, p.History(), 0)

	_, err = b.Send(context.Background(), commands.ApplyProposalCommand{})
	assert.ErrorIs(t, err, bus.ErrValidationFailed)
}

func TestProposalHandler_Unsupported(t *testing.T) {
	h := NewProposalHandler(nil, nil)
	_, err := h.Handle(context.Background(), commands.ProposalRequest{})
	assert.Error(t, err)

	var _ Protocol = (*protocol.MutationProtocol)(nil)
}
