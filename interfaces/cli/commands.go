package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/application/commands"
	"github.com/utemix-lab/vovaipetrova-sub000/application/protocol"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/validators"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/invariants"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/versioning"
	"github.com/utemix-lab/vovaipetrova-sub000/infrastructure/config"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate DOCUMENT",
		Short: "Validate every node and edge against the schema catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			result := validators.NewSchemaValidator(a.container.Catalog).ValidateGraph(g)
			if err := a.print(result); err != nil {
				return err
			}
			if !result.Valid {
				return &ExitError{Code: 1, Reason: fmt.Sprintf("%d schema errors", len(result.Errors))}
			}
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	var strictness string
	cmd := &cobra.Command{
		Use:   "check DOCUMENT",
		Short: "Run the structural invariants selected by a strictness level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := a.strictness(strictness)
			if err != nil {
				return err
			}
			report, err := a.check(args[0], level)
			if err != nil {
				return err
			}
			if err := a.print(report); err != nil {
				return err
			}
			return reportExit(report)
		},
	}
	cmd.Flags().StringVar(&strictness, "strictness", "", "MINIMAL, STANDARD or STRICT (default: configured)")
	return cmd
}

func (a *app) diffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff BEFORE AFTER",
		Short: "Show the structural diff between two documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			before, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			after, err := loadGraph(args[1])
			if err != nil {
				return err
			}
			return a.print(versioning.CompareGraphs(before, after))
		},
	}
}

func (a *app) analyzeCmd() *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "analyze DOCUMENT",
		Short: "Report density, centrality, components, bridges and dependency cycles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("top") {
				top = a.container.Domain.CentralityTopN
			}
			if top < 0 {
				return fmt.Errorf("--top must not be negative, got %d", top)
			}
			report := a.container.NewAnalyzer(g).Analyze(cmd.Context(), top, a.container.Domain.OwnershipEdgeTypes...)
			return a.print(report)
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "number of nodes in the centrality ranking (default: configured)")
	return cmd
}

func (a *app) applyCmd() *cobra.Command {
	var skipValidation bool
	cmd := &cobra.Command{
		Use:   "apply DOCUMENT PROPOSALS",
		Short: "Apply a JSON array of proposals in order and print the audit history",
		Long: `Each proposal is {"type": "addNode", "payload": {...}, "rationale": "...", "author": "human"}.
Types: addNode, removeNode, updateNode, addEdge, removeEdge, updateEdge, batch.
Rejected proposals are reported on the log and leave the document untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			data, err := readFile(args[1])
			if err != nil {
				return err
			}
			requests, err := commands.ParseProposalRequests(data)
			if err != nil {
				return err
			}

			session, err := a.container.NewSession(g)
			if err != nil {
				return err
			}

			rejected := 0
			for i, req := range requests {
				pr, err := req.ToProposal()
				if err != nil {
					return fmt.Errorf("proposal %d: %w", i, err)
				}
				out, err := session.CommandBus.Send(cmd.Context(), commands.ApplyProposalCommand{
					Proposal:       pr,
					SkipValidation: skipValidation,
				})
				if err != nil {
					return fmt.Errorf("proposal %d: %w", i, err)
				}
				result, err := asApplyResult(out)
				if err != nil {
					return fmt.Errorf("proposal %d: %w", i, err)
				}
				if !result.Applied {
					rejected++
					for _, e := range result.Errors {
						a.logger().Warn("Proposal rejected",
							zap.Int("index", i),
							zap.String("proposal_id", pr.ID()),
							zap.String("code", e.Code),
							zap.String("message", e.Message))
					}
				}
			}

			if err := a.print(session.Protocol.ExportHistory()); err != nil {
				return err
			}
			if rejected > 0 {
				return &ExitError{Code: 1, Reason: fmt.Sprintf("%d of %d proposals rejected", rejected, len(requests))}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipValidation, "skip-validation", false, "bypass schema and invariant gates")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var (
		strictness string
		debounce   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch DOCUMENT",
		Short: "Re-check a document every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := a.strictness(strictness)
			if err != nil {
				return err
			}
			path := args[0]
			recheck := func(string) {
				report, err := a.check(path, level)
				if err != nil {
					a.logger().Error("Check failed", zap.String("path", path), zap.Error(err))
					return
				}
				if err := a.print(report); err != nil {
					a.logger().Error("Failed to write report", zap.Error(err))
				}
			}

			w, err := config.NewWatcher(path, debounce, recheck, a.logger())
			if err != nil {
				return err
			}
			defer w.Stop()

			recheck(path)
			w.Start(cmd.Context())
			<-w.Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&strictness, "strictness", "", "MINIMAL, STANDARD or STRICT (default: configured)")
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before a change is re-checked")
	return cmd
}

func (a *app) strictness(flag string) (valueobjects.Strictness, error) {
	if flag == "" {
		return a.container.Domain.Strictness, nil
	}
	return valueobjects.ParseStrictness(flag)
}

func (a *app) check(path string, level valueobjects.Strictness) (invariants.Report, error) {
	g, err := loadGraph(path)
	if err != nil {
		return invariants.Report{}, err
	}
	return a.container.Checker.CheckAll(g, level), nil
}

func reportExit(report invariants.Report) error {
	if report.Valid {
		return nil
	}
	return &ExitError{Code: 1, Reason: fmt.Sprintf("%d of %d invariants failed", report.Failed, report.Total)}
}

func asApplyResult(out interface{}) (protocol.ApplyResult, error) {
	result, ok := out.(protocol.ApplyResult)
	if !ok {
		return protocol.ApplyResult{}, fmt.Errorf("unexpected command result %T", out)
	}
	return result, nil
}
