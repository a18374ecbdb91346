package valueobjects

// ProposalStatus is the lifecycle state of a mutation proposal
type ProposalStatus string

const (
	ProposalPending   ProposalStatus = "PENDING"
	ProposalValidated ProposalStatus = "VALIDATED"
	ProposalRejected  ProposalStatus = "REJECTED"
	ProposalSimulated ProposalStatus = "SIMULATED"
	ProposalApplied   ProposalStatus = "APPLIED"
)

var proposalTransitions = map[ProposalStatus][]ProposalStatus{
	ProposalPending:   {ProposalValidated, ProposalRejected},
	ProposalValidated: {ProposalValidated, ProposalSimulated, ProposalRejected, ProposalApplied},
	ProposalSimulated: {ProposalValidated, ProposalSimulated, ProposalRejected, ProposalApplied},
	ProposalRejected:  {},
	ProposalApplied:   {},
}

// CanTransitionTo reports whether moving from s to next is allowed.
// REJECTED and APPLIED are terminal.
func (s ProposalStatus) CanTransitionTo(next ProposalStatus) bool {
	for _, allowed := range proposalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalRejected || s == ProposalApplied
}

// AuthorKind identifies who produced a proposal
type AuthorKind string

const (
	AuthorHuman  AuthorKind = "human"
	AuthorAgent  AuthorKind = "agent"
	AuthorSystem AuthorKind = "system"
)

// IsValid checks the author kind is known
func (a AuthorKind) IsValid() bool {
	switch a {
	case AuthorHuman, AuthorAgent, AuthorSystem:
		return true
	}
	return false
}
