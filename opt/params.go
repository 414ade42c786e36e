package opt

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default parameter values.
const (
	DefaultOutPath               = "./"
	DefaultTolerance             = 0.01
	DefaultNeighborsNum          = 1500
	DefaultGranularNeighbors     = 25
	DefaultCacheSize             = 50
	DefaultRouteminIterations    = 1000
	DefaultCoreOptIterations     = 100000
	DefaultGammaBase             = 0.25
	DefaultDelta                 = 0.50
	DefaultShakingLowerBound     = 0.375
	DefaultShakingUpperBound     = 0.85
	DefaultSeed                  = 0
	DefaultSAInitialFactor       = 0.1
	DefaultSAFinalFactor         = 0.01
	DefaultClarkeWrightLambda    = 1.0
	DefaultClarkeWrightNeighbors = 100
)

// Parameters collects every tunable of a solver run. Zero values are not
// meaningful: construct with DefaultParameters and override.
type Parameters struct {
	InstancePath string `yaml:"-" json:"-"`
	OutPath      string `yaml:"outpath" json:"outpath"`

	Tolerance float64 `yaml:"tolerance" json:"tolerance"`

	// NeighborsNum is the size of the precomputed neighbor list per vertex;
	// GranularNeighbors the k used for move-generator construction.
	NeighborsNum      int `yaml:"neighbors-num" json:"neighbors_num"`
	GranularNeighbors int `yaml:"granular-neighbors" json:"granular_neighbors"`

	// CacheSize bounds the SVC.
	CacheSize int `yaml:"cache" json:"cache"`

	RouteminIterations int `yaml:"routemin-iterations" json:"routemin_iterations"`
	CoreOptIterations  int `yaml:"coreopt-iterations" json:"coreopt_iterations"`

	GammaBase float64 `yaml:"granular-gamma-base" json:"granular_gamma_base"`
	Delta     float64 `yaml:"granular-delta" json:"granular_delta"`

	ShakingLowerBound float64 `yaml:"shaking-lower-bound" json:"shaking_lower_bound"`
	ShakingUpperBound float64 `yaml:"shaking-upper-bound" json:"shaking_upper_bound"`

	Seed int `yaml:"seed" json:"seed"`

	SAInitialFactor float64 `yaml:"sa-initial-factor" json:"sa_initial_factor"`
	SAFinalFactor   float64 `yaml:"sa-final-factor" json:"sa_final_factor"`

	// Clarke & Wright knobs, reachable through the parameter file only.
	CWLambda    float64 `yaml:"cw-lambda" json:"cw_lambda"`
	CWNeighbors int     `yaml:"cw-neighbors" json:"cw_neighbors"`
}

// DefaultParameters returns the documented defaults.
func DefaultParameters() Parameters {
	return Parameters{
		OutPath:            DefaultOutPath,
		Tolerance:          DefaultTolerance,
		NeighborsNum:       DefaultNeighborsNum,
		GranularNeighbors:  DefaultGranularNeighbors,
		CacheSize:          DefaultCacheSize,
		RouteminIterations: DefaultRouteminIterations,
		CoreOptIterations:  DefaultCoreOptIterations,
		GammaBase:          DefaultGammaBase,
		Delta:              DefaultDelta,
		ShakingLowerBound:  DefaultShakingLowerBound,
		ShakingUpperBound:  DefaultShakingUpperBound,
		Seed:               DefaultSeed,
		SAInitialFactor:    DefaultSAInitialFactor,
		SAFinalFactor:      DefaultSAFinalFactor,
		CWLambda:           DefaultClarkeWrightLambda,
		CWNeighbors:        DefaultClarkeWrightNeighbors,
	}
}

// LoadParametersFile overlays the yaml file at path onto p. Unknown keys are
// rejected so typos surface early.
func (p *Parameters) LoadParametersFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("opt: cannot read parameters file: %w", err)
	}

	decoder := yaml.NewDecoder(strings.NewReader(string(content)))
	decoder.KnownFields(true)
	if err := decoder.Decode(p); err != nil {
		return fmt.Errorf("opt: malformed parameters file %s: %w", path, err)
	}

	return p.normalize()
}

// normalize fixes derived fields, currently only the trailing separator of
// OutPath.
func (p *Parameters) normalize() error {
	if p.OutPath != "" && !strings.HasSuffix(p.OutPath, string(os.PathSeparator)) {
		p.OutPath += string(os.PathSeparator)
	}

	return nil
}

// Normalize applies the same fixes as the file loader for parameters built
// from flags.
func (p *Parameters) Normalize() {
	_ = p.normalize()
}
