package config

import (
	"fmt"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

// DomainConfig holds the rules the protocol and analyzer run with
type DomainConfig struct {
	// Validation settings. An empty schema version means the catalog's.
	Strictness    valueobjects.Strictness
	SchemaVersion string

	// History settings. Zero keeps every audit entry.
	MaxHistoryEntries int

	// Analysis settings
	CentralityTopN     int
	OwnershipEdgeTypes []string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		// Validation settings
		Strictness: valueobjects.StrictnessMinimal,

		// History settings
		MaxHistoryEntries: 0,

		// Analysis settings
		CentralityTopN:     10,
		OwnershipEdgeTypes: []string{"owns", "depends_on"},
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Stricter validation, bounded audit memory
	config.Strictness = valueobjects.StrictnessStandard
	config.MaxHistoryEntries = 10000

	return config
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	config.Strictness = valueobjects.StrictnessMinimal
	config.CentralityTopN = 25

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if !c.Strictness.IsValid() {
		return fmt.Errorf("%w: strictness %d", pkgerrors.ErrInvalidArgument, c.Strictness)
	}
	if c.MaxHistoryEntries < 0 {
		return fmt.Errorf("%w: max history entries must not be negative", pkgerrors.ErrInvalidArgument)
	}
	if c.CentralityTopN < 0 {
		return fmt.Errorf("%w: centrality top N must not be negative", pkgerrors.ErrInvalidArgument)
	}
	return nil
}
