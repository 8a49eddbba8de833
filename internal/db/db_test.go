package db_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/neurorecall/internal/db"
)

func TestOpen_AppliesMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recall.db")

	first, err := db.Open(path)
	require.NoError(t, err)

	var applied int
	require.NoError(t, first.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 2, applied)
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 2, applied, "reopening does not reapply")

	var seedPlan string
	_, err = second.Exec(`INSERT INTO decks (name) VALUES ('go')`)
	require.NoError(t, err)
	_, err = second.Exec(`INSERT INTO cards (deck_id, front, back) VALUES (1, 'q', 'a')`)
	require.NoError(t, err)
	require.NoError(t, second.QueryRow(`SELECT seed_plan FROM cards WHERE id = 1`).Scan(&seedPlan))
	assert.Equal(t, "", seedPlan)
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = sqlDB.Exec(`INSERT INTO cards (deck_id, front, back) VALUES (42, 'q', 'a')`)
	assert.Error(t, err)
}

func TestTx_RollsBackOnError(t *testing.T) {
	sqlDB, err := db.Open(filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	boom := errors.New("boom")
	err = db.Tx(context.Background(), sqlDB, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT INTO decks (name) VALUES ('rolled back')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM decks`).Scan(&n))
	assert.Zero(t, n)
}

func TestOpen_KeepsQueryParametersInPath(t *testing.T) {
	path := "file:" + filepath.Join(t.TempDir(), "shared.db") + "?cache=shared"

	sqlDB, err := db.Open(path)
	require.NoError(t, err)
	defer sqlDB.Close()

	var timeout, foreignKeys int
	require.NoError(t, sqlDB.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout))
	require.NoError(t, sqlDB.QueryRow(`PRAGMA foreign_keys`).Scan(&foreignKeys))
	assert.Equal(t, 5000, timeout)
	assert.Equal(t, 1, foreignKeys)
}
