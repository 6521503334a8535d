package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenAppliesPragmas(t *testing.T) {
	database, err := Open(context.Background(), filepath.Join(t.TempDir(), "open-test.db"), zap.NewNop())
	require.NoError(t, err)
	defer database.Close()

	var foreignKeys int
	require.NoError(t, database.QueryRow(`PRAGMA foreign_keys`).Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)

	var journalMode string
	require.NoError(t, database.QueryRow(`PRAGMA journal_mode`).Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)
}

func TestOpenMemoryKeepsSingleConnection(t *testing.T) {
	database, err := Open(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`CREATE TABLE probe (id INTEGER)`)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM probe`).Scan(&count))
	assert.Zero(t, count)
	assert.Equal(t, 1, database.Stats().MaxOpenConnections)
}

func TestOpenStopsRetryingWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, filepath.Join(t.TempDir(), "canceled.db"), zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
