package postgres

import (
	"context"
	"database/sql"
	"fmt"

	// import postgres driver
	_ "github.com/lib/pq"
	"github.com/turbo/newton/database"
)

// DSN returns the lib/pq connection string for the config
func DSN(cfg *database.Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		sslMode)
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, cfg *database.Config) (*database.Instance, error) {
	if cfg == nil || cfg.Database == "" {
		return nil, database.ErrNoDatabaseProvided
	}
	dbConn, err := sql.Open("postgres", DSN(cfg))
	if err != nil {
		return nil, err
	}
	inst := &database.Instance{}
	if err := inst.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err := inst.SetPostgresConnection(ctx, dbConn); err != nil {
		return nil, err
	}
	inst.SetConnected(true)
	return inst, nil
}
