package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/turbo/newton/log"
)

// SetConfig safely sets the instance's config
func (i *Instance) SetConfig(cfg *Config) error {
	if i == nil {
		return ErrNilInstance
	}
	if cfg == nil {
		return errNilConfig
	}
	i.m.Lock()
	i.config = cfg
	i.m.Unlock()
	return nil
}

// GetConfig safely returns a copy of the config
func (i *Instance) GetConfig() *Config {
	if i == nil {
		return nil
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.config == nil {
		return nil
	}
	cpy := *i.config
	return &cpy
}

// SetSQLiteConnection safely sets the instance's connection to use SQLite
func (i *Instance) SetSQLiteConnection(con *sql.DB) error {
	if i == nil {
		return ErrNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(1)
	return nil
}

// SetPostgresConnection safely sets the instance's connection to use Postgres
func (i *Instance) SetPostgresConnection(ctx context.Context, con *sql.DB) error {
	if i == nil {
		return ErrNilInstance
	}
	if con == nil {
		return errNilSQL
	}
	if err := con.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToConnect, err)
	}
	i.m.Lock()
	defer i.m.Unlock()
	i.SQL = con
	i.SQL.SetMaxOpenConns(2)
	i.SQL.SetMaxIdleConns(1)
	i.SQL.SetConnMaxLifetime(time.Hour)
	return nil
}

// SetConnected safely sets the instance's connected status
func (i *Instance) SetConnected(v bool) {
	i.m.Lock()
	i.connected = v
	i.m.Unlock()
}

// IsConnected safely checks the SQL connection status
func (i *Instance) IsConnected() bool {
	if i == nil {
		return false
	}
	i.m.RLock()
	defer i.m.RUnlock()
	return i.connected
}

// CloseConnection safely disconnects the instance
func (i *Instance) CloseConnection() error {
	if i == nil {
		return ErrNilInstance
	}
	i.m.Lock()
	defer i.m.Unlock()
	if i.SQL == nil {
		return errNilSQL
	}
	i.connected = false
	return i.SQL.Close()
}

// Ping pings the database
func (i *Instance) Ping(ctx context.Context) error {
	if i == nil {
		return ErrNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if i.SQL == nil {
		return errNilSQL
	}
	return i.SQL.PingContext(ctx)
}

// GetSQL returns the connection when connected
func (i *Instance) GetSQL() (*sql.DB, error) {
	if i == nil {
		return nil, ErrNilInstance
	}
	i.m.RLock()
	defer i.m.RUnlock()
	if !i.connected || i.SQL == nil {
		return nil, ErrDatabaseSupportDisabled
	}
	return i.SQL, nil
}

// Dialect returns the SQL dialect of the configured driver
func (i *Instance) Dialect() string {
	cfg := i.GetConfig()
	if cfg == nil {
		return DBInvalidDriver
	}
	return DialectFromDriver(cfg.Driver)
}

// DialectFromDriver maps a configured driver name to its SQL dialect
func DialectFromDriver(driver string) string {
	switch strings.ToLower(driver) {
	case DBSQLite, DBSQLite3:
		return DBSQLite3
	case DBPostgreSQL, "postgresql", "psql":
		return DBPostgreSQL
	default:
		return DBInvalidDriver
	}
}

// LogQuery writes the query to the database sub logger when verbose
func (i *Instance) LogQuery(query string, args ...any) {
	cfg := i.GetConfig()
	if cfg == nil || !cfg.Verbose {
		return
	}
	log.Debugf(log.DatabaseMgr, "SQL: %s %v", strings.Join(strings.Fields(query), " "), args)
}
