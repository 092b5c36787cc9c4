package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqshao/screener/sim"
)

func TestDefaultIsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())

	p, err := cfg.Exit.Build()
	require.NoError(t, err)
	assert.Equal(t, sim.FixedHorizon{Days: 10}, p)

	pred, err := cfg.Strategy.Predicate()
	require.NoError(t, err)
	assert.Equal(t, "oversold-reversal", pred.Name())
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "screener.yaml")
	body := `
data:
  dir: /tmp/bars
strategy:
  name: breakout-volume
  params:
    breakout_n: 30
exit:
  policy: stop_target
  stop_pct: 0.05
  target_pct: 0.12
  max_days: 15
universe:
  min_close: 3
  max_close: 50
  exclude_st: true
runner:
  workers: 4
journal:
  type: csv
  trades_file: trades.csv
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "breakout-volume", cfg.Strategy.Name)
	assert.Equal(t, 30, cfg.Strategy.Params.BreakoutN)
	assert.Equal(t, 4, cfg.Runner.Workers)
	assert.Equal(t, 3.0, cfg.Universe.MinClose)

	p, err := cfg.Exit.Build()
	require.NoError(t, err)
	assert.Equal(t, sim.StopLossTakeProfit{StopPct: 0.05, TargetPct: 0.12, MaxDays: 15}, p)
}

func TestLoadRejectsBadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for name, body := range map[string]string{
		"strategy.yaml": "data:\n  dir: /tmp\nstrategy:\n  name: no-such\nexit:\n  policy: fixed_horizon\n  days: 5\n",
		"exit.yaml":     "data:\n  dir: /tmp\nstrategy:\n  name: breakout-volume\nexit:\n  policy: fixed_horizon\n  days: 0\n",
		"journal.yaml":  "data:\n  dir: /tmp\nstrategy:\n  name: breakout-volume\nexit:\n  policy: fixed_horizon\n  days: 5\njournal:\n  type: carrier-pigeon\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
		_, err := LoadFromFile(path)
		assert.Error(t, err, name)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Strategy.Name = "rising-three-methods"
	cfg.Exit = ExitConfig{Policy: "trend_break", MAPeriod: 20}

	for _, name := range []string{"cfg.yaml", "cfg.json"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, cfg.SaveToFile(path))
		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, cfg.Strategy.Name, got.Strategy.Name)
		assert.Equal(t, cfg.Exit, got.Exit)
	}
}
