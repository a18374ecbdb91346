package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/infrastructure/config"
	"github.com/utemix-lab/vovaipetrova-sub000/infrastructure/di"
)

// ExitError carries a process exit code out of a command. Commands return
// it when they ran fine but the document did not pass.
type ExitError struct {
	Code   int
	Reason string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// app holds the state shared by every subcommand of one invocation
type app struct {
	out io.Writer

	configPath  string
	logLevel    string
	catalogPath string

	container *di.Container
}

// NewRootCommand builds the graphctl command tree writing results to out
func NewRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:   "graphctl",
		Short: "Validate, check, diff and mutate typed graph documents",
		Long: `graphctl works on JSON graph documents of the form {"nodes": [...], "edges": [...]}.
Edges may also be given under "links".

Examples:
  graphctl validate graph.json
  graphctl check graph.json --strictness STRICT
  graphctl diff before.json after.json
  graphctl analyze graph.json --top 5
  graphctl apply graph.json proposals.json
  graphctl watch graph.json
  graphctl query nodes graph.json --type character`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", os.Getenv("CONFIG_FILE"), "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override the configured log level")
	root.PersistentFlags().StringVar(&a.catalogPath, "catalog", "", "YAML schema catalog replacing the built-in one")

	root.AddCommand(
		a.validateCmd(),
		a.checkCmd(),
		a.diffCmd(),
		a.analyzeCmd(),
		a.applyCmd(),
		a.watchCmd(),
		a.queryCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfigFile(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.catalogPath != "" {
		cfg.SchemaCatalogPath = a.catalogPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	c, err := di.InitializeContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	a.container = c
	a.container.Logger.Debug("graphctl initialized",
		zap.String("command", cmd.Name()),
		zap.String("environment", cfg.Environment),
		zap.String("schema_version", c.Catalog.Version()))
	return nil
}

func (a *app) logger() *zap.Logger {
	if a.container == nil {
		return zap.NewNop()
	}
	return a.container.Logger
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func loadGraph(path string) (*aggregates.Graph, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	g, err := aggregates.ParseGraph(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return g, nil
}

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
