package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utemix-lab/vovaipetrova-sub000/application/commands"
	"github.com/utemix-lab/vovaipetrova-sub000/application/protocol"
	"github.com/utemix-lab/vovaipetrova-sub000/application/queries"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/aggregates"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/entities"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/events"
	"github.com/utemix-lab/vovaipetrova-sub000/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfigFile("")
	require.NoError(t, err)
	cfg.LogLevel = "error"
	cfg.EnableMetrics = true
	return cfg
}

func TestInitializeContainer(t *testing.T) {
	c, err := InitializeContainer(testConfig(t))
	require.NoError(t, err)

	assert.NotNil(t, c.Logger)
	assert.NotNil(t, c.Metrics)
	assert.Nil(t, c.Tracer)
	assert.Equal(t, c.Catalog, c.Checker.Catalog())
	assert.Equal(t, valueobjects.StrictnessMinimal, c.ProtocolOptions.Strictness)
	assert.Same(t, c.Hooks, c.ProtocolOptions.Hooks)
}

func TestContainer_SessionAppliesThroughCommandBus(t *testing.T) {
	c, err := InitializeContainer(testConfig(t))
	require.NoError(t, err)

	g := aggregates.NewGraph(
		[]entities.Node{entities.NewNode("root", "root", map[string]interface{}{"label": "Root"})},
		nil,
	)
	s, err := c.NewSession(g)
	require.NoError(t, err)

	pr, err := commands.ProposeAddNode(entities.NewNode("d1", "domain", nil), "seed", valueobjects.AuthorHuman)
	require.NoError(t, err)
	out, err := s.CommandBus.Send(context.Background(), commands.ApplyProposalCommand{Proposal: pr})
	require.NoError(t, err)
	assert.True(t, out.(protocol.ApplyResult).Applied)
	assert.Len(t, s.Protocol.Nodes(), 2)

	var types []string
	for _, e := range c.EventBus.Published() {
		types = append(types, e.GetEventType())
	}
	assert.Contains(t, types, events.TypeProposalApplied)

	node, err := s.QueryBus.Ask(context.Background(), queries.GetNodeQuery{NodeID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, "domain", node.(*queries.GetNodeResult).Node.Type)

	report := c.NewAnalyzer(s.Protocol.CurrentSnapshot().Graph()).Stats()
	assert.Equal(t, 2, report.Nodes)
}

func TestInitializeContainer_CatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "2.0.0"
node_types:
  - id: planet
    root: true
edge_types:
  - id: orbits
`), 0o600))

	cfg := testConfig(t)
	cfg.SchemaCatalogPath = path
	c, err := InitializeContainer(cfg)
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", c.Catalog.Version())
	assert.True(t, c.Catalog.HasNodeType("planet"))

	cfg.SchemaCatalogPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = InitializeContainer(cfg)
	assert.Error(t, err)
}
