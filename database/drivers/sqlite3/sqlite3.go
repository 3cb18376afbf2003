package sqlite

import (
	"database/sql"
	"path/filepath"

	// import sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/turbo/newton/common"
	"github.com/turbo/newton/database"
)

const memory = ":memory:"

// Connect opens a connection to a sqlite database file in dataDir
func Connect(cfg *database.Config, dataDir string) (*database.Instance, error) {
	if cfg == nil || cfg.Database == "" {
		return nil, database.ErrNoDatabaseProvided
	}
	location := cfg.Database
	if location != memory && !filepath.IsAbs(location) {
		location = filepath.Join(dataDir, location)
	}
	if location != memory {
		if err := common.CreateDir(filepath.Dir(location)); err != nil {
			return nil, err
		}
	}
	dbConn, err := sql.Open("sqlite3", location)
	if err != nil {
		return nil, err
	}
	inst := &database.Instance{DataPath: dataDir}
	if err := inst.SetConfig(cfg); err != nil {
		return nil, err
	}
	if err := inst.SetSQLiteConnection(dbConn); err != nil {
		return nil, err
	}
	inst.SetConnected(true)
	return inst, nil
}
