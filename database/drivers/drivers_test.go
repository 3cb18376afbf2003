package drivers

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbo/newton/database"
)

func TestMain(m *testing.M) {
	database.MigrationDir = filepath.Join("..", "migrations")
	os.Exit(m.Run())
}

func TestConnect(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, err := Connect(ctx, nil, "")
	assert.ErrorIs(t, err, database.ErrDatabaseSupportDisabled)
	_, err = Connect(ctx, &database.Config{Driver: database.DBSQLite3}, "")
	assert.ErrorIs(t, err, database.ErrDatabaseSupportDisabled)
	_, err = Connect(ctx, &database.Config{Enabled: true, Driver: "mysql"}, "")
	assert.ErrorIs(t, err, database.ErrFailedToConnect)

	dir := t.TempDir()
	cfg := &database.Config{Enabled: true, Driver: database.DBSQLite3, ConnectionDetails: database.ConnectionDetails{Database: "migrate.db"}}
	inst, err := Connect(ctx, cfg, dir)
	require.NoError(t, err)
	for _, table := range []string{"candle", "evaluation"} {
		var count int
		require.NoError(t, inst.SQL.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count), table)
		assert.Zero(t, count, table)
	}
	var version int64
	require.NoError(t, inst.SQL.QueryRowContext(ctx, "SELECT MAX(version_id) FROM goose_db_version").Scan(&version))
	assert.Equal(t, int64(20210101000001), version)
	require.NoError(t, inst.CloseConnection())

	inst, err = Connect(ctx, cfg, dir)
	require.NoError(t, err, "reconnecting to a migrated database must not reapply migrations")
	assert.NoError(t, inst.CloseConnection())
}
