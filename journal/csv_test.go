package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestCSVJournalHeaders(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sessionsPath := filepath.Join(dir, "sessions.csv")
	txPath := filepath.Join(dir, "transactions.csv")

	j, err := NewCSV(sessionsPath, txPath)
	require.NoError(t, err)
	require.NoError(t, j.Close())

	assert.Equal(t, [][]string{sessionHeader}, readCSV(t, sessionsPath))
	assert.Equal(t, [][]string{transactionHeader}, readCSV(t, txPath))
}

func TestCSVJournalRecordOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sessionsPath := filepath.Join(dir, "sessions.csv")
	txPath := filepath.Join(dir, "transactions.csv")

	j, err := NewCSV(sessionsPath, txPath)
	require.NoError(t, err)
	out := sampleOutput(t)
	require.NoError(t, RecordOutput(j, out))
	require.NoError(t, j.Close())

	sessions := readCSV(t, sessionsPath)
	require.Len(t, sessions, 3)
	long := sessions[1]
	assert.Equal(t, "RUN1", long[0])
	assert.Equal(t, out.Sessions[0].ID, long[1])
	assert.Equal(t, "long", long[3])
	assert.Equal(t, "2023-11-14T22:13:20Z", long[4])
	assert.Equal(t, "2023-11-14T22:14:20Z", long[5])
	assert.Equal(t, "4", long[7])
	assert.Equal(t, "", long[8])
	assert.Equal(t, "2", long[10])

	short := sessions[2]
	assert.Equal(t, "", short[5])
	assert.Equal(t, "11", short[8])
	assert.Equal(t, "12.6", short[9])

	txs := readCSV(t, txPath)
	require.Len(t, txs, 4)
	assert.Equal(t, []string{"RUN1", out.Sessions[0].ID, "0", "2023-11-14T22:13:20Z", "2", "-20", "10"}, txs[1])
	assert.Equal(t, "1", txs[2][2])
}

func TestNewCSVBadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewCSV(filepath.Join(dir, "missing", "s.csv"), filepath.Join(dir, "t.csv"))
	assert.Error(t, err)
}

func TestCSVJournalCloseClosesBothFiles(t *testing.T) {
	dir := t.TempDir()
	j, err := NewCSV(filepath.Join(dir, "sessions.csv"), filepath.Join(dir, "transactions.csv"))
	require.NoError(t, err)

	require.NoError(t, j.sf.Close())
	err = j.Close()
	assert.ErrorIs(t, err, os.ErrClosed)
	assert.ErrorIs(t, j.tf.Close(), os.ErrClosed, "transactions file left open")
}
