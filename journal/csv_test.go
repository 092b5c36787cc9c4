package journal

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqshao/screener/portfolio"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVRecordRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	run, sigs, trades := testRun()
	curve := []portfolio.EquityPoint{
		{Date: time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), Equity: 1.08},
		{Date: time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), Equity: 1.0476},
	}

	j := NewCSV(tradesPath, equityPath)
	require.NoError(t, j.RecordRun(context.Background(), run, sigs, trades, curve))
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 3)
	assert.Equal(t, "instrument", rows[0][0])
	assert.Equal(t, "600000", rows[1][0])
	assert.Equal(t, "2024-06-03", rows[1][2])
	assert.Equal(t, "horizon", rows[1][6])
	assert.Equal(t, "stop_loss", rows[2][6])

	eq := readCSV(t, equityPath)
	require.Len(t, eq, 3)
	assert.Equal(t, []string{"date", "equity"}, eq[0])
	assert.Equal(t, "2024-06-03", eq[1][0])
	assert.Equal(t, "1.080000", eq[1][1])
}

func TestCSVSkipsEquityWhenUnset(t *testing.T) {
	t.Parallel()

	tradesPath := filepath.Join(t.TempDir(), "trades.csv")
	run, sigs, trades := testRun()

	j := NewCSV(tradesPath, "")
	require.NoError(t, j.RecordRun(context.Background(), run, sigs, trades, nil))

	_, err := os.Stat(tradesPath)
	assert.NoError(t, err)
}

func TestExportTradesCSVOpenTrade(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "trades.csv")
	_, _, trades := testRun()
	trades[1].ExitDate = time.Time{} // open trade has no exit date

	require.NoError(t, ExportTradesCSV(path, trades))
	rows := readCSV(t, path)
	assert.Equal(t, "", rows[2][4])
}
