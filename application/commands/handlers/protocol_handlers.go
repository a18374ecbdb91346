package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/application/commands"
	"github.com/utemix-lab/vovaipetrova-sub000/application/commands/bus"
	"github.com/utemix-lab/vovaipetrova-sub000/application/protocol"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/mutations"
)

// Protocol is the part of the mutation protocol the handlers drive
type Protocol interface {
	Validate(ctx context.Context, p *mutations.Proposal) (protocol.ValidationResult, error)
	Simulate(ctx context.Context, p *mutations.Proposal) (protocol.SimulationResult, error)
	Apply(ctx context.Context, p *mutations.Proposal, opts protocol.ApplyOptions) (protocol.ApplyResult, error)
}

// ProposalHandler routes proposal commands to the protocol
type ProposalHandler struct {
	protocol Protocol
	logger   *zap.Logger
}

// NewProposalHandler creates a new proposal handler
func NewProposalHandler(p Protocol, logger *zap.Logger) *ProposalHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProposalHandler{
		protocol: p,
		logger:   logger,
	}
}

// Register binds the handler to every proposal command on the bus
func (h *ProposalHandler) Register(b *bus.CommandBus) error {
	for _, cmd := range []bus.Command{
		commands.ValidateProposalCommand{},
		commands.SimulateProposalCommand{},
		commands.ApplyProposalCommand{},
	} {
		if err := b.Register(cmd, h); err != nil {
			return err
		}
	}
	return nil
}

// Handle executes a proposal command
func (h *ProposalHandler) Handle(ctx context.Context, cmd bus.Command) (interface{}, error) {
	switch c := cmd.(type) {
	case commands.ValidateProposalCommand:
		return h.protocol.Validate(ctx, c.Proposal)
	case commands.SimulateProposalCommand:
		return h.protocol.Simulate(ctx, c.Proposal)
	case commands.ApplyProposalCommand:
		result, err := h.protocol.Apply(ctx, c.Proposal, protocol.ApplyOptions{SkipValidation: c.SkipValidation})
		if err != nil {
			return nil, err
		}
		if !result.Applied {
			h.logger.Debug("Apply command produced no change",
				zap.String("proposal_id", c.Proposal.ID()),
				zap.Int("errors", len(result.Errors)))
		}
		return result, nil
	default:
		return nil, fmt.Errorf("unsupported command %T", cmd)
	}
}
