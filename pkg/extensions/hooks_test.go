package extensions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookManager_ExecuteStopsAtFirstError(t *testing.T) {
	m := NewHookManager()
	veto := errors.New("frozen")
	var calls []int

	m.Register(HookBeforeApply, func(ctx context.Context, data interface{}) error {
		calls = append(calls, 0)
		return nil
	})
	m.Register(HookBeforeApply, func(ctx context.Context, data interface{}) error {
		calls = append(calls, 1)
		return veto
	})
	m.Register(HookBeforeApply, func(ctx context.Context, data interface{}) error {
		calls = append(calls, 2)
		return nil
	})

	err := m.Execute(context.Background(), HookBeforeApply, HookData{ProposalID: "p1"})
	assert.ErrorIs(t, err, veto)
	assert.Equal(t, []int{0, 1}, calls)
	assert.Equal(t, 3, m.Count(HookBeforeApply))
}

func TestHookManager_ExecuteAllRunsEveryHook(t *testing.T) {
	m := NewHookManager()
	count := 0
	for i := 0; i < 3; i++ {
		m.Register(HookAfterApply, func(ctx context.Context, data interface{}) error {
			count++
			return errors.New("observer failed")
		})
	}

	errs := m.ExecuteAll(context.Background(), HookAfterApply, nil)
	assert.Len(t, errs, 3)
	assert.Equal(t, 3, count)
}

func TestHookManager_Clear(t *testing.T) {
	m := NewHookManager()
	m.Register(HookSnapshotCreated, func(ctx context.Context, data interface{}) error { return nil })
	m.Register(HookProposalRejected, func(ctx context.Context, data interface{}) error { return nil })

	m.Clear(HookSnapshotCreated)
	assert.Equal(t, 0, m.Count(HookSnapshotCreated))
	assert.Equal(t, 1, m.Count(HookProposalRejected))

	m.ClearAll()
	assert.Equal(t, 0, m.Count(HookProposalRejected))

	var nilManager *HookManager
	assert.NoError(t, nilManager.Execute(context.Background(), HookBeforeApply, nil))
}
