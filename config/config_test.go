package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_defaults(t *testing.T) {
	viper.Reset()
	SetDefaults()

	c, err := New()
	require.NoError(t, err)

	assert.Equal(t, 0.6, c.Validate.ClashCoeff)
	assert.Equal(t, 1.0, c.Validate.BondMin)
	assert.Equal(t, 2.0, c.Validate.BondMax)
	assert.Equal(t, 1000.0, c.Validate.CoordBound)

	assert.Equal(t, -10000.0, c.Energy.ClampMin)
	assert.Equal(t, 10000.0, c.Energy.ClampMax)

	assert.Equal(t, "relax", c.Refine.Strategy)
	assert.Equal(t, 200, c.Refine.MaxIterations)
	assert.Equal(t, int64(1637), c.Refine.Seed)

	assert.Equal(t, 5, c.Pipeline.ClashCeiling)
	assert.Equal(t, 100.0, c.Pipeline.ClashPenalty)
	assert.Equal(t, 0, c.Pipeline.Workers)
	assert.Equal(t, 20, c.Pipeline.EnsembleSize)
}

func TestNew_overrides(t *testing.T) {
	viper.Reset()
	SetDefaults()

	// simulate a settings file or flag binding taking precedence
	viper.Set("refine.strategy", "anneal")
	viper.Set("pipeline.clash-ceiling", 3)

	c, err := New()
	require.NoError(t, err)

	assert.Equal(t, "anneal", c.Refine.Strategy)
	assert.Equal(t, 3, c.Pipeline.ClashCeiling)

	// untouched settings keep their defaults
	assert.Equal(t, 0.6, c.Validate.ClashCoeff)
}
