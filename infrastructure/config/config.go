package config

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	domainconfig "github.com/utemix-lab/vovaipetrova-sub000/domain/config"
	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
)

// Config holds all application configuration
type Config struct {
	Environment string `yaml:"environment"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Graph validation. An empty strictness or a nil history cap falls back
	// to the environment's domain profile.
	Strictness        string `yaml:"strictness"`
	MaxHistoryEntries *int   `yaml:"max_history_entries"`

	// Schema
	SchemaVersion     string `yaml:"schema_version"`
	SchemaCatalogPath string `yaml:"schema_catalog_path"`

	// Observability
	MetricsNamespace string `yaml:"metrics_namespace"`
	EnableMetrics    bool   `yaml:"enable_metrics"`
	EnableTracing    bool   `yaml:"enable_tracing"`
}

// defaults returns the configuration used when neither file nor
// environment sets a value
func defaults() *Config {
	return &Config{
		Environment:      "development",
		LogLevel:         "info",
		MetricsNamespace: "graph",
	}
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	return LoadConfigFile(os.Getenv("CONFIG_FILE"))
}

// LoadConfigFile overlays an optional YAML file on the defaults, then the
// environment on top. An empty path skips the file.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Strictness = getEnv("GRAPH_STRICTNESS", cfg.Strictness)
	cfg.SchemaVersion = getEnv("SCHEMA_VERSION", cfg.SchemaVersion)
	cfg.SchemaCatalogPath = getEnv("SCHEMA_CATALOG_PATH", cfg.SchemaCatalogPath)
	cfg.MetricsNamespace = getEnv("METRICS_NAMESPACE", cfg.MetricsNamespace)
	cfg.EnableMetrics = getEnvBool("ENABLE_METRICS", cfg.EnableMetrics)
	cfg.EnableTracing = getEnvBool("ENABLE_TRACING", cfg.EnableTracing)
	if v, ok := lookupEnvInt("MAX_HISTORY_ENTRIES"); ok {
		cfg.MaxHistoryEntries = &v
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Strictness != "" {
		if _, err := valueobjects.ParseStrictness(c.Strictness); err != nil {
			return fmt.Errorf("GRAPH_STRICTNESS: %w", err)
		}
	}
	if c.MaxHistoryEntries != nil && *c.MaxHistoryEntries < 0 {
		return fmt.Errorf("MAX_HISTORY_ENTRIES must not be negative, got %d", *c.MaxHistoryEntries)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.EnableMetrics && c.MetricsNamespace == "" {
		return fmt.Errorf("METRICS_NAMESPACE is required when metrics are enabled")
	}
	return nil
}

// Domain resolves the domain profile of the environment and applies the
// explicit overrides of this configuration
func (c *Config) Domain() *domainconfig.DomainConfig {
	d := domainconfig.LoadDomainConfig(c.Environment)
	if c.Strictness != "" {
		if s, err := valueobjects.ParseStrictness(c.Strictness); err == nil {
			d.Strictness = s
		}
	}
	if c.MaxHistoryEntries != nil {
		d.MaxHistoryEntries = *c.MaxHistoryEntries
	}
	if c.SchemaVersion != "" {
		d.SchemaVersion = c.SchemaVersion
	}
	return d
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// NewLogger builds the zap logger for this configuration
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}

	zc := zap.NewDevelopmentConfig()
	if c.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	zc.Level = level
	return zc.Build()
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// lookupEnvInt reads an integer environment variable. Unparseable values
// are treated as unset.
func lookupEnvInt(key string) (int, bool) {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal, true
		}
	}
	return 0, false
}
