// Package config loads sigfit run settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/selection"
	"github.com/katalvlaran/sigfit/signature"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure reported by Validate.
var ErrInvalid = signature.NewClassed(signature.ErrValidation, "config: invalid configuration")

// Config holds the settings of a refitting run.
type Config struct {
	Solver          SolverConfig          `yaml:"solver"`
	Bootstrap       BootstrapConfig       `yaml:"bootstrap"`
	CrossValidation CrossValidationConfig `yaml:"cross_validation"`
	Selection       SelectionConfig       `yaml:"selection"`
	Runtime         RuntimeConfig         `yaml:"runtime"`
	Logging         LoggingConfig         `yaml:"logging"`
}

// SolverConfig holds QP decomposer settings.
type SolverConfig struct {
	Name          string  `yaml:"name"` // qp (default) or reference
	MaxIterations int     `yaml:"max_iterations"`
	WarnTolerance float64 `yaml:"warn_tolerance"`
	Strict        bool    `yaml:"strict"`
}

// BootstrapConfig holds bootstrap resampling settings.
type BootstrapConfig struct {
	Replicates int `yaml:"replicates"`
	EventCount int `yaml:"event_count"` // 0 = infer from whole-number counts
}

// CrossValidationConfig holds fold settings.
type CrossValidationConfig struct {
	FoldWidth int  `yaml:"fold_width"`
	FoldCount int  `yaml:"fold_count"`
	Shuffle   bool `yaml:"shuffle"`
}

// SelectionConfig holds stepwise selection settings.
type SelectionConfig struct {
	Method            string   `yaml:"method"`    // bootstrap (default) or cross_validation
	Direction         string   `yaml:"direction"` // backward (default) or forward
	Threshold         *float64 `yaml:"threshold"` // nil = 0.01; 0 is a valid threshold
	SignificanceLevel *float64 `yaml:"significance_level"`
	MinSignatures     int      `yaml:"min_signatures"`
	MaxRounds         int      `yaml:"max_rounds"`
}

// RuntimeConfig holds execution settings.
type RuntimeConfig struct {
	Workers int    `yaml:"workers"` // 0 = GOMAXPROCS
	Seed    uint64 `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // prod, local, dev, test (default: local)
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads, expands, defaults and validates the YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Default returns the configuration produced by an empty file.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Solver.Name == "" {
		c.Solver.Name = decompose.SolverQP
	}
	if c.Solver.WarnTolerance <= 0 {
		c.Solver.WarnTolerance = decompose.DefaultWarnTolerance
	}
	if c.Bootstrap.Replicates <= 0 {
		c.Bootstrap.Replicates = selection.DefaultReplicates
	}
	if c.Selection.Method == "" {
		c.Selection.Method = selection.Bootstrap.String()
	}
	if c.Selection.Direction == "" {
		c.Selection.Direction = selection.DirectionBackward.String()
	}
	if c.Selection.Threshold == nil {
		tau := selection.DefaultOptions().Threshold
		c.Selection.Threshold = &tau
	}
	if c.Selection.SignificanceLevel == nil {
		alpha := selection.DefaultSignificanceLevel
		c.Selection.SignificanceLevel = &alpha
	}
	if c.Selection.MinSignatures <= 0 {
		c.Selection.MinSignatures = selection.DefaultMinSignatures
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "local"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	var errs []error
	switch c.Solver.Name {
	case decompose.SolverQP, decompose.SolverReference:
	default:
		errs = append(errs, fmt.Errorf("solver.name must be %q or %q, got %q",
			decompose.SolverQP, decompose.SolverReference, c.Solver.Name))
	}
	if c.Solver.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("solver.max_iterations must be >= 0, got %d", c.Solver.MaxIterations))
	}
	if c.Bootstrap.EventCount < 0 {
		errs = append(errs, fmt.Errorf("bootstrap.event_count must be >= 0, got %d", c.Bootstrap.EventCount))
	}
	if c.CrossValidation.FoldWidth < 0 || c.CrossValidation.FoldCount < 0 {
		errs = append(errs, errors.New("cross_validation.fold_width and fold_count must be >= 0"))
	}
	if c.CrossValidation.FoldWidth > 0 && c.CrossValidation.FoldCount > 0 {
		errs = append(errs, errors.New("cross_validation: set fold_width or fold_count, not both"))
	}
	method, err := selection.ParseMethod(c.Selection.Method)
	if err != nil {
		errs = append(errs, fmt.Errorf("selection.method: %q", c.Selection.Method))
	}
	if err == nil && method == selection.CrossValidation &&
		c.CrossValidation.FoldWidth == 0 && c.CrossValidation.FoldCount == 0 {
		errs = append(errs, errors.New("selection.method cross_validation needs cross_validation.fold_width or fold_count"))
	}
	if _, err := selection.ParseDirection(c.Selection.Direction); err != nil {
		errs = append(errs, fmt.Errorf("selection.direction: %q", c.Selection.Direction))
	}
	if t := c.Selection.Threshold; t != nil && !(*t >= 0 && *t < 1) {
		errs = append(errs, fmt.Errorf("selection.threshold must be in [0,1), got %g", *t))
	}
	if a := c.Selection.SignificanceLevel; a != nil && !(*a >= 0 && *a <= 1) {
		errs = append(errs, fmt.Errorf("selection.significance_level must be in [0,1], got %g", *a))
	}
	if c.Selection.MaxRounds < 0 {
		errs = append(errs, fmt.Errorf("selection.max_rounds must be >= 0, got %d", c.Selection.MaxRounds))
	}
	switch c.Logging.Env {
	case "prod", "local", "dev", "test":
	default:
		errs = append(errs, fmt.Errorf("logging.env must be prod, local, dev or test, got %q", c.Logging.Env))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}

	return nil
}

// QP returns the QP decomposer options described by c.
func (c Config) QP() decompose.QPOptions {
	return decompose.QPOptions{
		MaxIterations: c.Solver.MaxIterations,
		WarnTolerance: c.Solver.WarnTolerance,
		Strict:        c.Solver.Strict,
	}
}

// Decomposer builds the configured decomposition strategy, wiring in the
// optional observer (metrics) and logger from base.
func (c Config) Decomposer(base decompose.QPOptions) decompose.Decomposer {
	if c.Solver.Name == decompose.SolverReference {
		return decompose.NewReference(decompose.ReferenceOptions{
			WarnTolerance: c.Solver.WarnTolerance,
			Logger:        base.Logger,
			Observer:      base.Observer,
		})
	}
	opts := c.QP()
	opts.Logger, opts.Observer = base.Logger, base.Observer

	return decompose.NewQP(opts)
}

// Direction returns the configured selection direction.
func (c Config) Direction() (selection.Direction, error) {
	return selection.ParseDirection(c.Selection.Direction)
}

// SelectionOptions returns selection options for c. The decomposer follows
// solver settings; logger and metrics are left for the caller.
func (c Config) SelectionOptions() (selection.Options, error) {
	method, err := selection.ParseMethod(c.Selection.Method)
	if err != nil {
		return selection.Options{}, err
	}
	opts := selection.DefaultOptions()
	opts.Method = method
	opts.Replicates = c.Bootstrap.Replicates
	opts.EventCount = c.Bootstrap.EventCount
	opts.FoldWidth = c.CrossValidation.FoldWidth
	opts.FoldCount = c.CrossValidation.FoldCount
	opts.Shuffle = c.CrossValidation.Shuffle
	if c.Selection.Threshold != nil {
		opts.Threshold = *c.Selection.Threshold
	}
	if c.Selection.SignificanceLevel != nil {
		opts.SignificanceLevel = *c.Selection.SignificanceLevel
	}
	opts.MinSignatures = c.Selection.MinSignatures
	opts.MaxRounds = c.Selection.MaxRounds
	opts.Seed = c.Runtime.Seed
	opts.Workers = c.Runtime.Workers
	opts.Decomposer = c.Decomposer(decompose.QPOptions{})

	return opts, nil
}

// envVarRegex matches ${VAR} and ${VAR:-default}.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
