// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// ValidateConfig is settings for the structural validator
type ValidateConfig struct {
	// the fraction of summed van der Waals radii below which two
	// non-bonded atoms count as a steric clash
	ClashCoeff float64 `mapstructure:"clash-coeff"`

	// the acceptable range for the bond length between the last
	// backbone atom of one residue and the first of the next
	BondMin float64 `mapstructure:"bond-min"`
	BondMax float64 `mapstructure:"bond-max"`

	// the maximum distance any atom may sit from the chain centroid
	// before the structure is treated as numerically blown up
	CoordBound float64 `mapstructure:"coord-bound"`
}

// EnergyConfig is settings for the energy evaluator
type EnergyConfig struct {
	// hard saturation band for the aggregate energy
	ClampMin float64 `mapstructure:"clamp-min"`
	ClampMax float64 `mapstructure:"clamp-max"`
}

// RefineConfig is settings shared by the refinement strategies
type RefineConfig struct {
	// which strategy to run: relax, lbfgs, anneal or project
	Strategy string `mapstructure:"strategy"`

	// iteration/step budget; every strategy terminates
	// deterministically once this is spent
	MaxIterations int `mapstructure:"max-iterations"`

	// initial step size for the gradient-following strategies and
	// the perturbation scale for annealing
	StepSize float64 `mapstructure:"step-size"`

	// per-step cap on how far a single atom may move
	MaxDisplacement float64 `mapstructure:"max-displacement"`

	// convergence thresholds
	EnergyTol   float64 `mapstructure:"energy-tolerance"`
	GradientTol float64 `mapstructure:"gradient-tolerance"`

	// annealing schedule
	StartTemperature float64 `mapstructure:"start-temperature"`
	CoolingRate      float64 `mapstructure:"cooling-rate"`

	// weight of the bond-length projection in the constraint strategy
	ConstraintWeight float64 `mapstructure:"constraint-weight"`

	// seed for the annealing move generator, fixed for repeatability
	Seed int64 `mapstructure:"seed"`
}

// PipelineConfig is settings for the phase orchestrator
type PipelineConfig struct {
	// candidates with more clashes than this are rejected before
	// and after refinement
	ClashCeiling int `mapstructure:"clash-ceiling"`

	// energy-units added to the selection score per residual clash
	ClashPenalty float64 `mapstructure:"clash-penalty"`

	// number of concurrent refinement workers; 0 means one per CPU
	Workers int `mapstructure:"workers"`

	// how many candidates to request from the producer
	EnsembleSize int `mapstructure:"ensemble-size"`
}

// Config is the root-level settings struct and is a mix of settings
// available in settings.yaml and those available from the command line
type Config struct {
	Validate ValidateConfig `mapstructure:"validate"`
	Energy   EnergyConfig   `mapstructure:"energy"`
	Refine   RefineConfig   `mapstructure:"refine"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
}

// SetDefaults installs the default for every setting into Viper.
// Called before flags and the settings file are bound so both can
// override any of them
func SetDefaults() {
	viper.SetDefault("validate.clash-coeff", 0.6)
	viper.SetDefault("validate.bond-min", 1.0)
	viper.SetDefault("validate.bond-max", 2.0)
	viper.SetDefault("validate.coord-bound", 1000.0)

	viper.SetDefault("energy.clamp-min", -10000.0)
	viper.SetDefault("energy.clamp-max", 10000.0)

	viper.SetDefault("refine.strategy", "relax")
	viper.SetDefault("refine.max-iterations", 200)
	viper.SetDefault("refine.step-size", 0.01)
	viper.SetDefault("refine.max-displacement", 0.5)
	viper.SetDefault("refine.energy-tolerance", 1e-6)
	viper.SetDefault("refine.gradient-tolerance", 1e-4)
	viper.SetDefault("refine.start-temperature", 10.0)
	viper.SetDefault("refine.cooling-rate", 0.95)
	viper.SetDefault("refine.constraint-weight", 0.5)
	viper.SetDefault("refine.seed", 1637)

	viper.SetDefault("pipeline.clash-ceiling", 5)
	viper.SetDefault("pipeline.clash-penalty", 100.0)
	viper.SetDefault("pipeline.workers", 0)
	viper.SetDefault("pipeline.ensemble-size", 20)
}

// New returns a new Config struct populated by Viper settings
// (either from the local settings.yaml) and/or command line arguments
func New() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode settings into struct: %w", err)
	}
	return c, nil
}
