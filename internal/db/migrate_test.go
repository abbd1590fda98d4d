package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunMigrations_CreatesSchema(t *testing.T) {
	writeDB, readDB := OpenTestSQLite(t)

	for _, table := range []string{"accounts", "posts"} {
		var name string
		err := readDB.QueryRow(
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	// Running again must be a no-op.
	require.NoError(t, RunMigrations(writeDB))
}

func TestMigrations_LoginNameUnique(t *testing.T) {
	writeDB, _ := OpenTestSQLite(t)

	_, err := writeDB.Exec(
		`INSERT INTO accounts (login_name, display_name, role) VALUES ('alice', 'Alice', 'USER')`)
	require.NoError(t, err)

	_, err = writeDB.Exec(
		`INSERT INTO accounts (login_name, display_name, role) VALUES ('alice', 'Other Alice', 'USER')`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")
}
