// Package protocol mediates every change to the live graph through
// validate, simulate and apply. An invalid graph is never committed.
package protocol

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/utemix-lab/vovaipetrova-sub000/application/ports"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/validators"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/events"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/invariants"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/mutations"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/schema"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/versioning"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/extensions"
	"github.com/utemix-lab/vovaipetrova-sub000/pkg/observability"
)

// Options configures a MutationProtocol. Zero values get working defaults.
type Options struct {
	Catalog           *schema.Catalog
	Checker           *invariants.Checker
	Strictness        valueobjects.Strictness
	SchemaVersion     string
	MaxHistoryEntries int

	Logger    *zap.Logger
	Metrics   *observability.Collector
	Tracer    *observability.Tracer
	Publisher ports.EventPublisher
	Hooks     *extensions.HookManager
	Clock     func() time.Time
}

// MutationProtocol owns the live graph. Reads go through immutable
// snapshots; Apply is serialized per instance. The live graph is replaced
// on apply, never modified in place, so a reference taken under the read
// lock stays a stable base for simulation.
type MutationProtocol struct {
	mu      sync.RWMutex
	applyMu sync.Mutex

	live       *aggregates.Graph
	current    *versioning.Snapshot
	snapshots  *versioning.SnapshotHistory
	history    []HistoryEntry
	strictness valueobjects.Strictness

	catalog       *schema.Catalog
	validator     *validators.SchemaValidator
	checker       *invariants.Checker
	schemaVersion string
	maxHistory    int

	logger    *zap.Logger
	metrics   *observability.Collector
	tracer    *observability.Tracer
	publisher ports.EventPublisher
	hooks     *extensions.HookManager
	clock     func() time.Time
}

// New creates a protocol over a copy of the initial graph and records the
// initial snapshot.
func New(initial *aggregates.Graph, opts Options) (*MutationProtocol, error) {
	if !opts.Strictness.IsValid() {
		return nil, fmt.Errorf("%w: strictness %d", pkgerrors.ErrInvalidArgument, opts.Strictness)
	}
	if opts.MaxHistoryEntries < 0 {
		return nil, fmt.Errorf("%w: negative history cap", pkgerrors.ErrInvalidArgument)
	}
	if opts.Catalog == nil {
		if opts.Checker != nil {
			opts.Catalog = opts.Checker.Catalog()
		} else {
			opts.Catalog = schema.DefaultCatalog()
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Checker == nil {
		opts.Checker = invariants.NewChecker(opts.Catalog, opts.Logger)
	}
	if opts.SchemaVersion == "" {
		opts.SchemaVersion = opts.Catalog.Version()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if initial == nil {
		initial = aggregates.NewEmptyGraph()
	}

	p := &MutationProtocol{
		live:          initial.Clone(),
		snapshots:     versioning.NewSnapshotHistory(),
		strictness:    opts.Strictness,
		catalog:       opts.Catalog,
		validator:     validators.NewSchemaValidator(opts.Catalog),
		checker:       opts.Checker,
		schemaVersion: opts.SchemaVersion,
		maxHistory:    opts.MaxHistoryEntries,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		tracer:        opts.Tracer,
		publisher:     opts.Publisher,
		hooks:         opts.Hooks,
		clock:         opts.Clock,
	}

	p.current = p.snapshot(p.live, versioning.Metadata{Description: "initial", Author: string(valueobjects.AuthorSystem)})
	if err := p.snapshots.Add(p.current); err != nil {
		return nil, err
	}
	p.metrics.SetGraphSize(p.live.NodeCount(), p.live.EdgeCount(), 1)

	p.logger.Info("Mutation protocol initialized",
		zap.Int("nodes", p.live.NodeCount()),
		zap.Int("edges", p.live.EdgeCount()),
		zap.String("strictness", p.strictness.String()),
		zap.String("snapshot_id", p.current.ID()))
	return p, nil
}

func (p *MutationProtocol) snapshot(g *aggregates.Graph, meta versioning.Metadata) *versioning.Snapshot {
	return versioning.NewSnapshot(g, versioning.Options{
		SchemaVersion: p.schemaVersion,
		Metadata:      meta,
		CreatedAt:     p.clock().UTC(),
	})
}

// base returns the live graph and its snapshot as one consistent pair
func (p *MutationProtocol) base() (*aggregates.Graph, *versioning.Snapshot) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.live, p.current
}

// evaluation is the internal result of running the gates on a base graph
type evaluation struct {
	result ValidationResult
	graph  *aggregates.Graph
}

// evaluate runs the four gates: payload shape, simulation, schema
// re-validation of touched entities and invariants at the configured
// strictness. Only a programmer error is returned as error.
func (p *MutationProtocol) evaluate(ctx context.Context, base *aggregates.Graph, m mutations.Mutation, strictness valueobjects.Strictness) (evaluation, error) {
	_, span := p.tracer.StartSpan(ctx, "protocol.evaluate",
		attribute.String("mutation.type", string(m.Kind())))
	defer span.End()

	ev := evaluation{result: ValidationResult{Valid: true}}

	if errs := mutations.CheckShape(m); len(errs) > 0 {
		ev.result.Valid = false
		ev.result.Errors = errs
		return ev, nil
	}

	out, err := mutations.Simulate(base, m)
	if err != nil {
		chain := pkgerrors.Chain(err)
		if len(chain) == 0 {
			observability.RecordError(span, err)
			return ev, err
		}
		ev.result.Valid = false
		ev.result.Errors = chain
		return ev, nil
	}
	ev.graph = out.Graph
	ev.result.Touched = out.Touched

	schemaResult := p.validateTouched(out.Graph, out.Touched)
	ev.result.Errors = append(ev.result.Errors, schemaResult.Errors...)
	ev.result.Warnings = append(ev.result.Warnings, schemaResult.Warnings...)

	report := p.checker.CheckAll(out.Graph, strictness)
	ev.result.Invariants = &report
	for _, f := range report.Failures {
		p.metrics.RecordInvariantFailure(string(f.Name))
		ev.result.Errors = append(ev.result.Errors,
			pkgerrors.Newf(pkgerrors.DomainBusinessRuleError, pkgerrors.CodeInvariantViolation,
				"invariant %s violated: %s", f.Name, f.Message).
				WithDetail("invariant", string(f.Name)).
				WithDetail("violations", f.Violations))
	}

	ev.result.Valid = len(ev.result.Errors) == 0
	span.SetAttributes(attribute.Bool("valid", ev.result.Valid), attribute.Int("errors", len(ev.result.Errors)))
	return ev, nil
}

func (p *MutationProtocol) validateTouched(g *aggregates.Graph, touched mutations.Touched) validators.Result {
	r := validators.Result{Valid: true}
	for _, id := range touched.Nodes {
		if n, ok := g.Node(id); ok {
			r.Merge(p.validator.ValidateNode(n))
		}
	}
	for _, id := range touched.Edges {
		if e, ok := g.Edge(id); ok {
			r.Merge(p.validator.ValidateEdge(e, g))
		}
	}
	return r
}

func checkProposal(pr *mutations.Proposal) error {
	if pr == nil {
		return fmt.Errorf("%w: nil proposal", pkgerrors.ErrInvalidProposal)
	}
	if s := pr.Status(); s.IsTerminal() {
		return fmt.Errorf("%w: proposal %s is already %s", pkgerrors.ErrInvalidTransition, pr.ID(), s)
	}
	return nil
}

// Validate runs the validation gates against the live graph and stamps the
// proposal VALIDATED or REJECTED. The live graph is never touched.
func (p *MutationProtocol) Validate(ctx context.Context, pr *mutations.Proposal) (ValidationResult, error) {
	if err := checkProposal(pr); err != nil {
		return ValidationResult{}, err
	}
	ctx, span := p.tracer.StartSpan(ctx, "protocol.validate",
		attribute.String("proposal.id", pr.ID()),
		attribute.String("mutation.type", string(pr.Kind())))
	defer span.End()

	base, _ := p.base()
	ev, err := p.evaluate(ctx, base, pr.Mutation(), p.Strictness())
	if err != nil {
		return ValidationResult{}, err
	}
	if err := p.stamp(ctx, pr, ev.result, valueobjects.ProposalValidated); err != nil {
		return ev.result, err
	}
	return ev.result, nil
}

// Simulate is a dry run: it reports the hypothetical graph and its diff
// against the live graph and stamps SIMULATED or REJECTED.
func (p *MutationProtocol) Simulate(ctx context.Context, pr *mutations.Proposal) (SimulationResult, error) {
	if err := checkProposal(pr); err != nil {
		return SimulationResult{}, err
	}
	base, snap := p.base()
	return p.simulateOn(ctx, base, snap, p.Strictness(), pr)
}

// SimulateAll evaluates several candidate proposals concurrently against
// the same base snapshot. Nothing is applied.
func (p *MutationProtocol) SimulateAll(ctx context.Context, proposals []*mutations.Proposal) ([]SimulationResult, error) {
	for _, pr := range proposals {
		if err := checkProposal(pr); err != nil {
			return nil, err
		}
	}
	base, snap := p.base()
	strictness := p.Strictness()
	results := make([]SimulationResult, len(proposals))

	g, gctx := errgroup.WithContext(ctx)
	for i, pr := range proposals {
		i, pr := i, pr
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := p.simulateOn(gctx, base, snap, strictness, pr)
			if err != nil {
				return fmt.Errorf("proposal %s: %w", pr.ID(), err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *MutationProtocol) simulateOn(ctx context.Context, base *aggregates.Graph, snap *versioning.Snapshot, strictness valueobjects.Strictness, pr *mutations.Proposal) (SimulationResult, error) {
	ctx, span := p.tracer.StartSpan(ctx, "protocol.simulate",
		attribute.String("proposal.id", pr.ID()),
		attribute.String("mutation.type", string(pr.Kind())))
	defer span.End()

	ev, err := p.evaluate(ctx, base, pr.Mutation(), strictness)
	if err != nil {
		return SimulationResult{}, err
	}
	result := SimulationResult{
		ProposalID: pr.ID(),
		Valid:      ev.result.Valid,
		Errors:     ev.result.Errors,
		Warnings:   ev.result.Warnings,
		Invariants: ev.result.Invariants,
	}
	if ev.result.Valid {
		result.SimulatedGraph = ev.graph
		result.Diff = versioning.CompareGraphs(base, ev.graph)
		result.Diff.FromID = snap.ID()
	}
	if err := p.stamp(ctx, pr, ev.result, valueobjects.ProposalSimulated); err != nil {
		return result, err
	}
	return result, nil
}

// stamp records the outcome of a validation on the proposal. A valid
// proposal moves to success; PENDING passes through VALIDATED first.
func (p *MutationProtocol) stamp(ctx context.Context, pr *mutations.Proposal, r ValidationResult, success valueobjects.ProposalStatus) error {
	now := p.clock()
	kind := string(pr.Kind())

	if !r.Valid {
		if err := pr.Reject(r.Errors); err != nil {
			return err
		}
		p.metrics.RecordProposal(kind, observability.OutcomeRejected)
		p.logger.Info("Proposal rejected",
			zap.String("proposal_id", pr.ID()),
			zap.String("mutation_type", kind),
			zap.Strings("errors", pkgerrors.Messages(r.Errors)))
		codes := make([]string, 0, len(r.Errors))
		for _, e := range r.Errors {
			codes = append(codes, e.Code)
		}
		p.publish(ctx, events.NewProposalRejected(pr.ID(), kind, codes, pkgerrors.Messages(r.Errors), now))
		for _, err := range p.hooks.ExecuteAll(ctx, extensions.HookProposalRejected, p.hookData(pr, "", nil, r.Errors)) {
			p.logger.Warn("Rejection hook failed", zap.String("proposal_id", pr.ID()), zap.Error(err))
		}
		return nil
	}

	if pr.Status() == valueobjects.ProposalPending || success == valueobjects.ProposalValidated {
		if err := pr.Transition(valueobjects.ProposalValidated, now); err != nil {
			return err
		}
	}
	if success != valueobjects.ProposalValidated {
		if err := pr.Transition(success, now); err != nil {
			return err
		}
	}

	outcome := observability.OutcomeValidated
	if success == valueobjects.ProposalSimulated {
		outcome = observability.OutcomeSimulated
	}
	p.metrics.RecordProposal(kind, outcome)
	for _, w := range r.Warnings {
		p.logger.Warn("Schema warning",
			zap.String("proposal_id", pr.ID()),
			zap.String("code", w.Code),
			zap.String("message", w.Message))
	}
	p.logger.Debug("Proposal validated",
		zap.String("proposal_id", pr.ID()),
		zap.String("mutation_type", kind),
		zap.String("status", string(pr.Status())))
	if success == valueobjects.ProposalValidated {
		p.publish(ctx, events.NewProposalValidated(pr.ID(), kind, pkgerrors.Messages(r.Warnings), now))
	}
	return nil
}

// Apply commits a proposal: it re-validates (unless skipped), swaps the
// live graph for the simulated one, appends a snapshot and an audit entry.
// Data-validity failures come back in the result with the proposal
// REJECTED; the error return is reserved for misuse.
func (p *MutationProtocol) Apply(ctx context.Context, pr *mutations.Proposal, opts ApplyOptions) (ApplyResult, error) {
	if err := checkProposal(pr); err != nil {
		return ApplyResult{}, err
	}
	ctx, span := p.tracer.StartSpan(ctx, "protocol.apply",
		attribute.String("proposal.id", pr.ID()),
		attribute.String("mutation.type", string(pr.Kind())),
		attribute.Bool("skip_validation", opts.SkipValidation))
	defer span.End()

	p.applyMu.Lock()
	defer p.applyMu.Unlock()

	started := time.Now()
	base, prev := p.base()
	kind := string(pr.Kind())

	var simulated *aggregates.Graph
	var warnings []*pkgerrors.DomainError
	if opts.SkipValidation {
		out, err := mutations.Simulate(base, pr.Mutation())
		if err != nil {
			chain := pkgerrors.Chain(err)
			if len(chain) == 0 {
				observability.RecordError(span, err)
				return ApplyResult{}, err
			}
			return p.rejectApply(ctx, pr, ValidationResult{Errors: chain})
		}
		simulated = out.Graph
	} else {
		ev, err := p.evaluate(ctx, base, pr.Mutation(), p.Strictness())
		if err != nil {
			observability.RecordError(span, err)
			return ApplyResult{}, err
		}
		if !ev.result.Valid {
			return p.rejectApply(ctx, pr, ev.result)
		}
		simulated = ev.graph
		warnings = ev.result.Warnings
	}

	next := p.snapshot(simulated, versioning.Metadata{
		Description: pr.Rationale(),
		Author:      string(pr.Author()),
		Tags:        []string{kind},
	})
	diff := versioning.Compare(prev, next)

	if err := p.hooks.Execute(ctx, extensions.HookBeforeApply, p.hookData(pr, next.ID(), prev, next)); err != nil {
		veto := pkgerrors.NewDomainError(pkgerrors.DomainBusinessRuleError, pkgerrors.CodeHookRejected,
			"apply vetoed by before_apply hook").WithCause(err)
		return p.rejectApply(ctx, pr, ValidationResult{Errors: []*pkgerrors.DomainError{veto}})
	}

	now := p.clock()
	if pr.Status() == valueobjects.ProposalPending {
		if err := pr.Transition(valueobjects.ProposalValidated, now); err != nil {
			return ApplyResult{}, err
		}
	}
	if err := pr.Transition(valueobjects.ProposalApplied, now); err != nil {
		return ApplyResult{}, err
	}
	appliedAt, _ := pr.AppliedAt()

	p.mu.Lock()
	if err := p.snapshots.Add(next); err != nil {
		p.mu.Unlock()
		return ApplyResult{}, err
	}
	p.live = simulated
	p.current = next
	p.history = append(p.history, HistoryEntry{
		Proposal:   pr,
		Diff:       diff,
		SnapshotID: next.ID(),
		AppliedAt:  appliedAt,
	})
	if p.maxHistory > 0 && len(p.history) > p.maxHistory {
		p.history = append([]HistoryEntry(nil), p.history[len(p.history)-p.maxHistory:]...)
	}
	snapshotCount := p.snapshots.Len()
	p.mu.Unlock()

	p.metrics.RecordProposal(kind, observability.OutcomeApplied)
	p.metrics.RecordApply(time.Since(started))
	p.metrics.SetGraphSize(next.NodeCount(), next.EdgeCount(), snapshotCount)

	p.logger.Info("Proposal applied",
		zap.String("proposal_id", pr.ID()),
		zap.String("mutation_type", kind),
		zap.String("snapshot_id", next.ID()),
		zap.Int("changes", diff.Summary.TotalChanges),
		zap.Int("nodes", next.NodeCount()),
		zap.Int("edges", next.EdgeCount()))

	p.publish(ctx,
		events.NewProposalApplied(pr.ID(), kind, string(pr.Author()), next.ID(), diff.Summary.TotalChanges, now),
		events.NewSnapshotCreated(next.ID(), next.NodeCount(), next.EdgeCount(), next.Checksum(), now))

	data := p.hookData(pr, next.ID(), prev, next)
	for _, point := range []extensions.HookPoint{extensions.HookAfterApply, extensions.HookSnapshotCreated} {
		for _, err := range p.hooks.ExecuteAll(ctx, point, data) {
			p.logger.Warn("Hook failed", zap.String("hook", string(point)), zap.Error(err))
		}
	}

	return ApplyResult{
		Applied:    true,
		SnapshotID: next.ID(),
		Diff:       diff,
		Warnings:   warnings,
	}, nil
}

func (p *MutationProtocol) rejectApply(ctx context.Context, pr *mutations.Proposal, r ValidationResult) (ApplyResult, error) {
	r.Valid = false
	if err := p.stamp(ctx, pr, r, valueobjects.ProposalApplied); err != nil {
		return ApplyResult{}, err
	}
	return ApplyResult{Errors: r.Errors, Warnings: r.Warnings}, nil
}

func (p *MutationProtocol) hookData(pr *mutations.Proposal, snapshotID string, before, after interface{}) extensions.HookData {
	return extensions.HookData{
		ProposalID:   pr.ID(),
		MutationType: string(pr.Kind()),
		Author:       string(pr.Author()),
		SnapshotID:   snapshotID,
		Before:       before,
		After:        after,
	}
}

func (p *MutationProtocol) publish(ctx context.Context, evts ...events.DomainEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishBatch(ctx, evts); err != nil {
		p.logger.Warn("Failed to publish events", zap.Int("count", len(evts)), zap.Error(err))
	}
}

// Strictness returns the strictness gating validation
func (p *MutationProtocol) Strictness() valueobjects.Strictness {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.strictness
}

// SetStrictness changes the strictness for subsequent validations
func (p *MutationProtocol) SetStrictness(s valueobjects.Strictness) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: strictness %d", pkgerrors.ErrInvalidArgument, s)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.strictness = s
	return nil
}

// Catalog returns the schema catalog
func (p *MutationProtocol) Catalog() *schema.Catalog { return p.catalog }

// CheckInvariants runs the checker on the live graph
func (p *MutationProtocol) CheckInvariants(strictness valueobjects.Strictness) invariants.Report {
	_, snap := p.base()
	return p.checker.CheckAll(snap.Graph(), strictness)
}

// CurrentSnapshot returns the snapshot of the live graph
func (p *MutationProtocol) CurrentSnapshot() *versioning.Snapshot {
	_, snap := p.base()
	return snap
}

// Snapshots returns every snapshot, oldest first
func (p *MutationProtocol) Snapshots() []*versioning.Snapshot {
	return p.snapshots.All()
}

// DiffSnapshots compares two stored snapshots by id
func (p *MutationProtocol) DiffSnapshots(fromID, toID string) (*versioning.Diff, error) {
	return p.snapshots.Diff(fromID, toID)
}

// Evolution diffs the initial snapshot against the current one
func (p *MutationProtocol) Evolution() (*versioning.Diff, error) {
	return p.snapshots.FullEvolution()
}

// History returns the audit entries, oldest first
func (p *MutationProtocol) History() []HistoryEntry {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]HistoryEntry(nil), p.history...)
}

// GetStats summarizes the live graph and the histories
func (p *MutationProtocol) GetStats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s := Stats{
		Nodes:         p.live.NodeCount(),
		Edges:         p.live.EdgeCount(),
		HistoryLength: len(p.history),
		SnapshotCount: p.snapshots.Len(),
		Strictness:    p.strictness,
	}
	if n := len(p.history); n > 0 {
		last := p.history[n-1].AppliedAt
		s.LastChange = &last
	}
	return s
}

// ExportHistory returns the live graph, the audit trail and the stats
func (p *MutationProtocol) ExportHistory() HistoryExport {
	entries := p.History()
	records := make([]HistoryRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, HistoryRecord{
			ProposalID:    e.Proposal.ID(),
			Type:          e.Proposal.Kind(),
			Author:        e.Proposal.Author(),
			Rationale:     e.Proposal.Rationale(),
			AppliedAt:     e.AppliedAt,
			SnapshotID:    e.SnapshotID,
			ChangeSummary: e.Diff.Summary,
		})
	}
	return HistoryExport{
		Graph:   p.CurrentSnapshot().Document(),
		History: records,
		Stats:   p.GetStats(),
	}
}

// Query surface, served from the current snapshot

var _ ports.GraphReader = (*MutationProtocol)(nil)

// Nodes returns copies of all nodes
func (p *MutationProtocol) Nodes() []entities.Node { return p.CurrentSnapshot().Nodes() }

// Edges returns copies of all edges
func (p *MutationProtocol) Edges() []entities.Edge { return p.CurrentSnapshot().Edges() }

// Node looks up a node by id
func (p *MutationProtocol) Node(id string) (entities.Node, bool) {
	return p.CurrentSnapshot().Node(id)
}

// Neighbors returns the distinct neighbor ids of a node
func (p *MutationProtocol) Neighbors(id string) []string {
	return p.CurrentSnapshot().Neighbors(id)
}

// NodesByType returns the nodes of one type
func (p *MutationProtocol) NodesByType(nodeType string) []entities.Node {
	return p.CurrentSnapshot().NodesByType(nodeType)
}

// TypeIDs returns the distinct node types present
func (p *MutationProtocol) TypeIDs() []string { return p.CurrentSnapshot().TypeIDs() }
