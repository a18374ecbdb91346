package commands

import (
	"github.com/utemix-lab/vovaipetrova-sub000/domain/mutations"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/utils"
)

// ValidateProposalCommand asks the protocol to validate a proposal
type ValidateProposalCommand struct {
	Proposal *mutations.Proposal `validate:"required"`
}

// Validate checks the command
func (c ValidateProposalCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// SimulateProposalCommand asks the protocol for a dry run of a proposal
type SimulateProposalCommand struct {
	Proposal *mutations.Proposal `validate:"required"`
}

// Validate checks the command
func (c SimulateProposalCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// ApplyProposalCommand asks the protocol to commit a proposal
type ApplyProposalCommand struct {
	Proposal       *mutations.Proposal `validate:"required"`
	SkipValidation bool
}

// Validate checks the command
func (c ApplyProposalCommand) Validate() error {
	return utils.ValidateStruct(c)
}
