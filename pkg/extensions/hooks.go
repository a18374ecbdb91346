package extensions

import (
	"context"
	"fmt"
	"sync"
)

// HookPoint represents a point in the mutation pipeline where hooks can be registered
type HookPoint string

const (
	// Apply hooks. A before_apply hook error vetoes the apply.
	HookBeforeApply HookPoint = "before_apply"
	HookAfterApply  HookPoint = "after_apply"

	// Validation hooks
	HookProposalRejected HookPoint = "proposal_rejected"

	// Versioning hooks
	HookSnapshotCreated HookPoint = "snapshot_created"
)

// Hook represents a function that can be executed at a hook point
type Hook func(ctx context.Context, data interface{}) error

// HookManager manages hooks for extension points
type HookManager struct {
	hooks map[HookPoint][]Hook
	mu    sync.RWMutex
}

// NewHookManager creates a new hook manager
func NewHookManager() *HookManager {
	return &HookManager{
		hooks: make(map[HookPoint][]Hook),
	}
}

// Register registers a hook for a specific hook point
func (m *HookManager) Register(point HookPoint, hook Hook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks[point] = append(m.hooks[point], hook)
}

// Execute runs the hooks of a point in registration order and stops at the
// first error.
func (m *HookManager) Execute(ctx context.Context, point HookPoint, data interface{}) error {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	hooks := append([]Hook(nil), m.hooks[point]...)
	m.mu.RUnlock()

	for i, hook := range hooks {
		if err := hook(ctx, data); err != nil {
			return fmt.Errorf("hook %d at %s failed: %w", i, point, err)
		}
	}

	return nil
}

// ExecuteAll runs every hook of a point and returns the errors. Used for
// observational points where one failing hook must not skip the others.
func (m *HookManager) ExecuteAll(ctx context.Context, point HookPoint, data interface{}) []error {
	if m == nil {
		return nil
	}
	m.mu.RLock()
	hooks := append([]Hook(nil), m.hooks[point]...)
	m.mu.RUnlock()

	var errs []error
	for i, hook := range hooks {
		if err := hook(ctx, data); err != nil {
			errs = append(errs, fmt.Errorf("hook %d at %s failed: %w", i, point, err))
		}
	}
	return errs
}

// Count returns the number of hooks registered at a point
func (m *HookManager) Count(point HookPoint) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks[point])
}

// Clear removes all hooks for a specific hook point
func (m *HookManager) Clear(point HookPoint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.hooks, point)
}

// ClearAll removes all registered hooks
func (m *HookManager) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hooks = make(map[HookPoint][]Hook)
}

// HookData represents data passed to hooks
type HookData struct {
	ProposalID   string                 `json:"proposal_id"`
	MutationType string                 `json:"mutation_type"`
	Author       string                 `json:"author"`
	SnapshotID   string                 `json:"snapshot_id,omitempty"`
	Before       interface{}            `json:"before,omitempty"`
	After        interface{}            `json:"after,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}
