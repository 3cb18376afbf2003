package config

import (
	"errors"
	"path/filepath"

	gctcommon "github.com/turbo/newton/common"
	"github.com/turbo/newton/database"
	"github.com/turbo/newton/log"
)

// Candle sources a config can read from
const (
	SourceCSV      = "csv"
	SourceJSON     = "json"
	SourceDatabase = "database"
)

// EnvPrefix prefixes environment variables overriding config values, eg
// NEWTON_DATABASE_PASSWORD
const EnvPrefix = "NEWTON"

var (
	// DefaultBTDir is the default backtester data directory
	DefaultBTDir = filepath.Join(gctcommon.DefaultDataDir(), "backtester")
	// DefaultBTConfigDir is the default backtester config file
	DefaultBTConfigDir = filepath.Join(DefaultBTDir, "config.json")

	// ErrFileNotFound is returned when the config file does not exist
	ErrFileNotFound = errors.New("config file not found")

	errNoStrategies      = errors.New("no strategies configured")
	errFileExists        = errors.New("config file already exists")
	errInvalidDate       = errors.New("invalid date")
	errInvalidDuration   = errors.New("invalid duration")
	errInvalidAmount     = errors.New("invalid amount")
	errUnknownSource     = errors.New("unknown candle source")
	errNoDataDirectory   = errors.New("candle source requires a data directory")
	errDatabaseDisabled  = errors.New("database must be enabled")
	errInvalidBatchSize  = errors.New("batch size cannot be negative")
	errInvalidTermCount  = errors.New("strategies take exactly three terms")
	errNoListenAddress   = errors.New("server enabled without a listen address")
	errInvalidConcurrent = errors.New("max concurrent tasks cannot be negative")
)

// Config is the backtester run configuration
type Config struct {
	Nickname     string             `json:"nickname" mapstructure:"nickname"`
	DataDir      string             `json:"dataDir" mapstructure:"dataDir"`
	Scheduler    SchedulerSettings  `json:"scheduler" mapstructure:"scheduler"`
	DataSettings DataSettings       `json:"dataSettings" mapstructure:"dataSettings"`
	Strategies   []StrategySettings `json:"strategies" mapstructure:"strategies"`
	Output       OutputSettings     `json:"output" mapstructure:"output"`
	Database     database.Config    `json:"database" mapstructure:"database"`
	Logging      log.Config         `json:"logging" mapstructure:"logging"`
	Server       ServerSettings     `json:"server" mapstructure:"server"`
}

// SchedulerSettings configures the shared event manager
type SchedulerSettings struct {
	// StepDuration is a Go duration string, empty runs ticks back to back
	StepDuration       string `json:"stepDuration" mapstructure:"stepDuration"`
	MaxConcurrentTasks int    `json:"maxConcurrentTasks" mapstructure:"maxConcurrentTasks"`
}

// DataSettings selects where candles are read from
type DataSettings struct {
	Source    string `json:"source" mapstructure:"source"`
	Directory string `json:"directory" mapstructure:"directory"`
}

// OutputSettings selects where evaluation snapshots are written
type OutputSettings struct {
	LogEvaluations     bool `json:"logEvaluations" mapstructure:"logEvaluations"`
	PersistEvaluations bool `json:"persistEvaluations" mapstructure:"persistEvaluations"`
	BatchSize          int  `json:"batchSize" mapstructure:"batchSize"`
}

// ServerSettings configures the status API
type ServerSettings struct {
	Enabled       bool   `json:"enabled" mapstructure:"enabled"`
	ListenAddress string `json:"listenAddress" mapstructure:"listenAddress"`
}

// StrategySettings configures one backtest. Dates are RFC3339, intervals are
// exchange codes or Go duration strings and amounts are decimal strings
type StrategySettings struct {
	Symbol           string         `json:"symbol" mapstructure:"symbol"`
	Start            string         `json:"start" mapstructure:"start"`
	End              string         `json:"end" mapstructure:"end"`
	Lookback         string         `json:"lookback,omitempty" mapstructure:"lookback"`
	Interval         string         `json:"interval,omitempty" mapstructure:"interval"`
	TradingStep      string         `json:"tradingStep,omitempty" mapstructure:"tradingStep"`
	EvaluationPeriod string         `json:"evaluationPeriod,omitempty" mapstructure:"evaluationPeriod"`
	RebookDelay      string         `json:"rebookDelay,omitempty" mapstructure:"rebookDelay"`
	SeedQuoteValue   string         `json:"seedQuoteValue,omitempty" mapstructure:"seedQuoteValue"`
	Indicator        string         `json:"indicator,omitempty" mapstructure:"indicator"`
	CandleLimit      int            `json:"candleLimit,omitempty" mapstructure:"candleLimit"`
	FillMissingData  bool           `json:"fillMissingData,omitempty" mapstructure:"fillMissingData"`
	Terms            []TermSettings `json:"terms,omitempty" mapstructure:"terms"`
}

// TermSettings configures the indicator at one timeframe
type TermSettings struct {
	Duration  string `json:"duration" mapstructure:"duration"`
	BarCount  int    `json:"barCount,omitempty" mapstructure:"barCount"`
	Smoothing int    `json:"smoothing,omitempty" mapstructure:"smoothing"`
	Low       string `json:"low,omitempty" mapstructure:"low"`
	High      string `json:"high,omitempty" mapstructure:"high"`
}
