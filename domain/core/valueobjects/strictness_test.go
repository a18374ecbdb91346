package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrictness(t *testing.T) {
	tests := []struct {
		in      string
		want    Strictness
		wantErr bool
	}{
		{"MINIMAL", StrictnessMinimal, false},
		{"standard", StrictnessStandard, false},
		{" Strict ", StrictnessStrict, false},
		{"paranoid", StrictnessMinimal, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrictness(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrictness_Includes(t *testing.T) {
	assert.True(t, StrictnessStrict.Includes(StrictnessStandard))
	assert.True(t, StrictnessStandard.Includes(StrictnessMinimal))
	assert.False(t, StrictnessMinimal.Includes(StrictnessStrict))
	assert.Equal(t, "STANDARD", StrictnessStandard.String())
	assert.False(t, Strictness(9).IsValid())
}

func TestStrictness_Text(t *testing.T) {
	var s Strictness
	require.NoError(t, s.UnmarshalText([]byte("strict")))
	assert.Equal(t, StrictnessStrict, s)

	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "STRICT", string(text))
}

func TestProposalStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to ProposalStatus
		allowed  bool
	}{
		{ProposalPending, ProposalValidated, true},
		{ProposalPending, ProposalRejected, true},
		{ProposalPending, ProposalApplied, false},
		{ProposalValidated, ProposalSimulated, true},
		{ProposalSimulated, ProposalSimulated, true},
		{ProposalValidated, ProposalApplied, true},
		{ProposalApplied, ProposalValidated, false},
		{ProposalRejected, ProposalValidated, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}

	assert.True(t, ProposalApplied.IsTerminal())
	assert.False(t, ProposalSimulated.IsTerminal())
	assert.True(t, AuthorAgent.IsValid())
	assert.False(t, AuthorKind("robot").IsValid())
}
