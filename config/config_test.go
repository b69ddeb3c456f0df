package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/sigfit/config"
	"github.com/katalvlaran/sigfit/decompose"
	"github.com/katalvlaran/sigfit/selection"
	"github.com/katalvlaran/sigfit/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := config.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	assert.Equal(t, "qp", cfg.Solver.Name)
	assert.Equal(t, decompose.DefaultWarnTolerance, cfg.Solver.WarnTolerance)
	assert.Equal(t, 100, cfg.Bootstrap.Replicates)
	assert.Equal(t, "bootstrap", cfg.Selection.Method)
	assert.Equal(t, "backward", cfg.Selection.Direction)
	assert.Equal(t, 0.01, *cfg.Selection.Threshold)
	assert.Equal(t, 0.05, *cfg.Selection.SignificanceLevel)
	assert.Equal(t, 2, cfg.Selection.MinSignatures)
	assert.Equal(t, "local", cfg.Logging.Env)
}

func TestLoadFileWithEnv(t *testing.T) {
	t.Setenv("SIGFIT_SEED", "42")
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
solver:
  max_iterations: 400
  strict: true
bootstrap:
  replicates: 250
  event_count: ${SIGFIT_EVENTS:-2000}
cross_validation:
  fold_count: 8
  shuffle: true
selection:
  method: cross_validation
  direction: forward
  threshold: 0
  significance_level: 0.01
runtime:
  workers: 4
  seed: ${SIGFIT_SEED}
logging:
  env: prod
  level: warn
`), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Solver.MaxIterations)
	assert.True(t, cfg.Solver.Strict)
	assert.Equal(t, 2000, cfg.Bootstrap.EventCount)
	assert.Equal(t, uint64(42), cfg.Runtime.Seed)
	assert.Equal(t, 0.0, *cfg.Selection.Threshold, "explicit zero threshold survives defaults")

	opts, err := cfg.SelectionOptions()
	require.NoError(t, err)
	assert.Equal(t, selection.CrossValidation, opts.Method)
	assert.Equal(t, 8, opts.FoldCount)
	assert.True(t, opts.Shuffle)
	assert.Equal(t, 250, opts.Replicates)
	assert.Equal(t, 0.01, opts.SignificanceLevel)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, uint64(42), opts.Seed)
	require.NoError(t, decompose.Validate(opts.Decomposer))

	dir, err := cfg.Direction()
	require.NoError(t, err)
	assert.Equal(t, selection.DirectionForward, dir)

	qp := cfg.QP()
	assert.Equal(t, 400, qp.MaxIterations)
	assert.True(t, qp.Strict)
}

func TestDecomposerChoice(t *testing.T) {
	cfg := config.Default()
	_, ok := cfg.Decomposer(decompose.QPOptions{}).(*decompose.QP)
	assert.True(t, ok)

	cfg.Solver.Name = decompose.SolverReference
	_, ok = cfg.Decomposer(decompose.QPOptions{}).(*decompose.Reference)
	assert.True(t, ok)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"solver name", "solver: {name: simplex}"},
		{"negative iterations", "solver: {max_iterations: -1}"},
		{"negative events", "bootstrap: {event_count: -5}"},
		{"both fold settings", "cross_validation: {fold_width: 4, fold_count: 4}"},
		{"cv without folds", "selection: {method: cv}"},
		{"method", "selection: {method: jackknife}"},
		{"direction", "selection: {direction: sideways}"},
		{"threshold", "selection: {threshold: 1}"},
		{"alpha", "selection: {significance_level: -0.1}"},
		{"max rounds", "selection: {max_rounds: -2}"},
		{"env", "logging: {env: staging}"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.Parse([]byte(tc.yaml))
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.True(t, signature.IsValidation(err))
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, err := config.Parse([]byte("solver: [unterminated"))
	require.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
