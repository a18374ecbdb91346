package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
)

func TestLoadConfigFile_Defaults(t *testing.T) {
	cfg, err := LoadConfigFile("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "graph", cfg.MetricsNamespace)
	assert.True(t, cfg.IsDevelopment())

	d := cfg.Domain()
	assert.Equal(t, valueobjects.StrictnessMinimal, d.Strictness)
	assert.Equal(t, 0, d.MaxHistoryEntries)
}

func TestLoadConfigFile_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
log_level: warn
strictness: STRICT
max_history_entries: 50
metrics_namespace: universe
enable_metrics: true
`), 0o600))

	t.Setenv("GRAPH_STRICTNESS", "minimal")
	t.Setenv("MAX_HISTORY_ENTRIES", "5")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "universe", cfg.MetricsNamespace)
	assert.True(t, cfg.EnableMetrics)

	d := cfg.Domain()
	assert.Equal(t, valueobjects.StrictnessMinimal, d.Strictness)
	assert.Equal(t, 5, d.MaxHistoryEntries)
}

func TestLoadConfigFile_ProductionProfile(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	cfg, err := LoadConfigFile("")
	require.NoError(t, err)
	assert.Equal(t, valueobjects.StrictnessStandard, cfg.Domain().Strictness)
}

func TestConfig_Validate(t *testing.T) {
	negative := -1
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown strictness", func(c *Config) { c.Strictness = "LAX" }, true},
		{"negative history", func(c *Config) { c.MaxHistoryEntries = &negative }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, true},
		{"metrics without namespace", func(c *Config) { c.EnableMetrics = true; c.MetricsNamespace = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strictness: [unclosed"), 0o600))
	_, err = LoadConfigFile(path)
	assert.Error(t, err)
}

func TestConfig_NewLogger(t *testing.T) {
	cfg := defaults()
	cfg.LogLevel = "debug"
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[]}`), 0o600))

	changed := make(chan string, 4)
	w, err := NewWatcher(path, 10*time.Millisecond, func(p string) { changed <- p }, zaptest.NewLogger(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(path, []byte(`{"nodes":[{"id":"a"}]}`), 0o600))

	select {
	case p := <-changed:
		assert.Equal(t, path, p)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	require.NoError(t, w.Stop())
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}
