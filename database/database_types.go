package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
)

// Supported database drivers and dialects
const (
	DBSQLite        = "sqlite"
	DBSQLite3       = "sqlite3"
	DBPostgreSQL    = "postgres"
	DBInvalidDriver = "invalid driver"
)

var (
	// MigrationDir holds the goose migrations, one folder per version with a
	// file per dialect
	MigrationDir = filepath.Join("database", "migrations")
	// ErrDatabaseSupportDisabled is returned when the database is used while
	// disabled or not connected
	ErrDatabaseSupportDisabled = errors.New("database support disabled")
	// ErrNoDatabaseProvided is returned when no database name is configured
	ErrNoDatabaseProvided = errors.New("no database provided")
	// ErrFailedToConnect is returned when the database cannot be reached
	ErrFailedToConnect = errors.New("database failed to connect")
	// ErrNilInstance is returned when a nil instance is used
	ErrNilInstance = errors.New("database instance is nil")
	errNilConfig   = errors.New("received nil config")
	errNilSQL      = errors.New("database SQL connection is nil")
)

// Instance holds a database connection and its settings
type Instance struct {
	SQL       *sql.DB
	DataPath  string
	config    *Config
	connected bool
	m         sync.RWMutex
}

// Config holds all database configurable options including enable/disabled & DSN settings
type Config struct {
	Enabled           bool   `json:"enabled" mapstructure:"enabled"`
	Verbose           bool   `json:"verbose" mapstructure:"verbose"`
	Driver            string `json:"driver" mapstructure:"driver"`
	ConnectionDetails `mapstructure:",squash"`
}

// ConnectionDetails holds DSN information
type ConnectionDetails struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     uint16 `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}
