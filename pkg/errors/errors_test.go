package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Is(t *testing.T) {
	err := Newf(DomainConflictError, CodeDuplicateNodeID, "node %q already exists", "vova").
		WithDetail("id", "vova")

	wrapped := fmt.Errorf("simulate: %w", err)

	assert.True(t, errors.Is(wrapped, NewDomainError(DomainConflictError, CodeDuplicateNodeID, "")))
	assert.False(t, errors.Is(wrapped, NewDomainError(DomainNotFoundError, CodeNodeNotFound, "")))
	assert.True(t, HasCode(wrapped, CodeDuplicateNodeID))
	assert.Equal(t, "vova", GetDomainError(wrapped).Details["id"])
	assert.Contains(t, err.Error(), "already exists")
}

func TestDomainError_WithCause(t *testing.T) {
	cause := errors.New("boom")
	err := NewDomainError(DomainBusinessRuleError, CodeHookRejected, "hook vetoed").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	require.False(t, v.HasErrors())
	assert.Empty(t, v.Error())

	v.Add("source", "source is required")
	v.Add("source", "source must not be blank")
	v.AddError(NewDomainError(DomainValidationError, CodeInvalidPayload, "changes is required"))

	require.True(t, v.HasErrors())
	m := v.ToMap()
	assert.Len(t, m["source"], 2)
	assert.Equal(t, []string{"changes is required"}, m["general"])
	assert.Contains(t, v.Error(), "source is required")
}

func TestContainsCode(t *testing.T) {
	errs := []*DomainError{
		NewDomainError(DomainNotFoundError, CodeNodeNotFound, "missing"),
		nil,
	}
	assert.True(t, ContainsCode(errs, CodeNodeNotFound))
	assert.False(t, ContainsCode(errs, CodeEdgeNotFound))
	assert.Equal(t, []string{"missing"}, Messages(errs[:1]))
}

func TestChain(t *testing.T) {
	inner := Newf(DomainConflictError, CodeDuplicateNodeID, "node %q already exists", "d1")
	outer := NewDomainError(DomainValidationError, CodeBatchItemFailed, "batch item 0 failed").WithCause(inner)

	chain := Chain(outer)
	require.Len(t, chain, 2)
	assert.Equal(t, CodeBatchItemFailed, chain[0].Code)
	assert.Equal(t, CodeDuplicateNodeID, chain[1].Code)

	assert.Empty(t, Chain(nil))
	assert.Empty(t, Chain(errors.New("plain")))
}
