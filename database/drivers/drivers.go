package drivers

import (
	"context"
	"fmt"

	"github.com/thrasher-corp/goose"
	"github.com/turbo/newton/database"
	"github.com/turbo/newton/database/drivers/postgres"
	sqlite "github.com/turbo/newton/database/drivers/sqlite3"
	"github.com/turbo/newton/log"
)

// Open connects to the configured database without touching its schema
func Open(ctx context.Context, cfg *database.Config, dataDir string) (*database.Instance, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, database.ErrDatabaseSupportDisabled
	}
	switch database.DialectFromDriver(cfg.Driver) {
	case database.DBSQLite3:
		return sqlite.Connect(cfg, dataDir)
	case database.DBPostgreSQL:
		return postgres.Connect(ctx, cfg)
	}
	return nil, fmt.Errorf("%w: %q", database.ErrFailedToConnect, cfg.Driver)
}

// Connect opens the configured database and migrates it to the latest
// version found in database.MigrationDir
func Connect(ctx context.Context, cfg *database.Config, dataDir string) (*database.Instance, error) {
	inst, err := Open(ctx, cfg, dataDir)
	if err != nil {
		return nil, err
	}
	if err := goose.Run("up", inst.SQL, inst.Dialect(), database.MigrationDir, ""); err != nil {
		if closeErr := inst.CloseConnection(); closeErr != nil {
			log.Errorln(log.DatabaseMgr, closeErr)
		}
		return nil, fmt.Errorf("%w: %w", database.ErrFailedToConnect, err)
	}
	log.Debugf(log.DatabaseMgr, "Database connection established using %s", cfg.Driver)
	return inst, nil
}
