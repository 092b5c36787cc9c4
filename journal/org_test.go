package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrg(t *testing.T) {
	t.Parallel()

	run, _, _ := testRun()
	out, err := run.RenderOrg()
	require.NoError(t, err)

	assert.Contains(t, out, "* BACKTEST: breakout-volume / fixed_horizon")
	assert.Contains(t, out, ":RUN_ID:      "+run.ID)
	assert.Contains(t, out, ":TRADES:      2")
	assert.Contains(t, out, ":WIN_RATE:    50.00")
	assert.Contains(t, out, `"strategy":{"name":"breakout-volume"}`)
	assert.Contains(t, out, "| Winners | 1 |")
}

func TestWriteOrg(t *testing.T) {
	t.Parallel()

	run, _, _ := testRun()
	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, run.WriteOrg(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), run.ID)
}
