package versioning

import (
	"fmt"
	"sync"

	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// SnapshotHistory is an append-only, ordered list of snapshots keyed by id.
// It is safe for concurrent use.
type SnapshotHistory struct {
	mu        sync.RWMutex
	snapshots []*Snapshot
	index     map[string]int
}

// NewSnapshotHistory creates an empty history
func NewSnapshotHistory() *SnapshotHistory {
	return &SnapshotHistory{index: make(map[string]int)}
}

// Add appends a snapshot; a repeated id is rejected
func (h *SnapshotHistory) Add(s *Snapshot) error {
	if s == nil {
		return fmt.Errorf("%w: nil snapshot", pkgerrors.ErrInvalidArgument)
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.index[s.ID()]; exists {
		return fmt.Errorf("%w: %s", pkgerrors.ErrDuplicateSnapshot, s.ID())
	}
	h.index[s.ID()] = len(h.snapshots)
	h.snapshots = append(h.snapshots, s)
	return nil
}

// Len returns the number of snapshots
func (h *SnapshotHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.snapshots)
}

// Get looks up a snapshot by id
func (h *SnapshotHistory) Get(id string) (*Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	i, ok := h.index[id]
	if !ok {
		return nil, false
	}
	return h.snapshots[i], true
}

// At returns the snapshot at a position
func (h *SnapshotHistory) At(i int) (*Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i < 0 || i >= len(h.snapshots) {
		return nil, false
	}
	return h.snapshots[i], true
}

// First returns the oldest snapshot
func (h *SnapshotHistory) First() (*Snapshot, bool) {
	return h.At(0)
}

// Latest returns the newest snapshot
func (h *SnapshotHistory) Latest() (*Snapshot, bool) {
	h.mu.RLock()
	n := len(h.snapshots)
	h.mu.RUnlock()
	return h.At(n - 1)
}

// All returns the snapshots in order
func (h *SnapshotHistory) All() []*Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]*Snapshot(nil), h.snapshots...)
}

// Diff compares two stored snapshots by id
func (h *SnapshotHistory) Diff(fromID, toID string) (*Diff, error) {
	from, ok := h.Get(fromID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrSnapshotNotFound, fromID)
	}
	to, ok := h.Get(toID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", pkgerrors.ErrSnapshotNotFound, toID)
	}
	return Compare(from, to), nil
}

// SequentialDiffs diffs each consecutive pair of snapshots in positions
// [from, to]. The result has to-from entries.
func (h *SnapshotHistory) SequentialDiffs(from, to int) ([]*Diff, error) {
	snaps := h.All()
	if from < 0 || to >= len(snaps) || from > to {
		return nil, fmt.Errorf("%w: range [%d, %d] outside history of %d", pkgerrors.ErrInvalidArgument, from, to, len(snaps))
	}
	diffs := make([]*Diff, 0, to-from)
	for i := from; i < to; i++ {
		diffs = append(diffs, Compare(snaps[i], snaps[i+1]))
	}
	return diffs, nil
}

// FullEvolution diffs the first snapshot against the latest
func (h *SnapshotHistory) FullEvolution() (*Diff, error) {
	first, ok := h.First()
	if !ok {
		return nil, fmt.Errorf("%w: history is empty", pkgerrors.ErrSnapshotNotFound)
	}
	latest, _ := h.Latest()
	return Compare(first, latest), nil
}
