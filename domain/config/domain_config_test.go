package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utemix-lab/vovaipetrova-sub000/domain/core/valueobjects"
	pkgerrors "github.com/utemix-lab/vovaipetrova-sub000/pkg/errors"
)

func TestLoadDomainConfig(t *testing.T) {
	tests := []struct {
		env        string
		strictness valueobjects.Strictness
		maxHistory int
	}{
		{"production", valueobjects.StrictnessStandard, 10000},
		{"development", valueobjects.StrictnessMinimal, 0},
		{"", valueobjects.StrictnessMinimal, 0},
		{"staging", valueobjects.StrictnessMinimal, 0},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			c := LoadDomainConfig(tt.env)
			assert.Equal(t, tt.strictness, c.Strictness)
			assert.Equal(t, tt.maxHistory, c.MaxHistoryEntries)
			assert.NoError(t, c.Validate())
		})
	}
}

func TestDomainConfig_Validate(t *testing.T) {
	c := DefaultDomainConfig()
	c.Strictness = valueobjects.Strictness(7)
	assert.ErrorIs(t, c.Validate(), pkgerrors.ErrInvalidArgument)

	c = DefaultDomainConfig()
	c.MaxHistoryEntries = -1
	assert.ErrorIs(t, c.Validate(), pkgerrors.ErrInvalidArgument)
}
