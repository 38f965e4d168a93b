package repository

import (
	"context"
	"ctchen222/tictactoe/internal/db"
	"ctchen222/tictactoe/internal/game"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T, path string) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	conn, err := db.LocalConnect(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.InitializeDB(ctx, conn))
	return conn
}

func TestSQLiteHistoryRepository(t *testing.T) {
	testHistoryRepository(t, func(t *testing.T, limit int) HistoryRepository {
		conn := openTestSQLite(t, filepath.Join(t.TempDir(), "history.db"))
		return NewSQLiteHistoryRepository(conn, limit)
	})
}

func TestSQLiteHistoryRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	// Given: a draw recorded through a first connection
	first := openTestSQLite(t, path)
	require.NoError(t, NewSQLiteHistoryRepository(first, 0).Record(ctx, game.NewDrawRecord(alice, bot, epoch)))
	require.NoError(t, first.Close())

	// When: the same file is opened again and the schema re-applied
	second := openTestSQLite(t, path)
	history, err := NewSQLiteHistoryRepository(second, 0).Load(ctx)

	// Then: the record and the counters are still there
	require.NoError(t, err)
	require.Len(t, history.Records, 1)
	assert.Nil(t, history.Records[0].WinnerName)
	assert.Equal(t, game.Stats{TotalGames: 1, TotalDraws: 1}, history.Stats)
}
