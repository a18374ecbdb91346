package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	assert.Equal(t, DefaultVersion, c.Version())
	assert.True(t, c.HasNodeType("character"))
	assert.False(t, c.HasNodeType("spaceship"))
	assert.Equal(t, []string{"root"}, c.RootTypes())
	assert.Equal(t, []string{"contains"}, c.HierarchyEdgeTypes())
	assert.False(t, c.AllowsSelfLoop("relates"))
	assert.True(t, c.IsKnownVisibility("public"))
	assert.False(t, c.IsKnownStatus("published"))
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	c := DefaultCatalog()

	d, ok := c.EdgeType("contains")
	require.True(t, ok)
	d.AllowedSources[0] = "character"

	again, _ := c.EdgeType("contains")
	assert.Equal(t, "root", again.AllowedSources[0])

	ids := c.NodeTypeIDs()
	ids[0] = "mutated"
	assert.Equal(t, "root", c.NodeTypeIDs()[0])
}

func TestNewCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec CatalogSpec
	}{
		{"empty node id", CatalogSpec{NodeTypes: []NodeTypeDescriptor{{ID: ""}}}},
		{"duplicate node type", CatalogSpec{NodeTypes: []NodeTypeDescriptor{{ID: "a"}, {ID: "a"}}}},
		{"duplicate edge type", CatalogSpec{EdgeTypes: []EdgeTypeDescriptor{{ID: "x"}, {ID: "x"}}}},
		{"unknown endpoint type", CatalogSpec{EdgeTypes: []EdgeTypeDescriptor{{ID: "x", AllowedSources: []string{"ghost"}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog_YAMLRoundTrip(t *testing.T) {
	data, err := yaml.Marshal(DefaultCatalog().Spec())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog().Spec(), loaded.Spec())
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(nil, "anything"))
	assert.True(t, Allows([]string{"a", "b"}, "b"))
	assert.False(t, Allows([]string{"a"}, "b"))
}
