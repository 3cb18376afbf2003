package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/turbo/newton/backtester/eventmanager"
	"github.com/turbo/newton/backtester/strategy"
	gctcommon "github.com/turbo/newton/common"
	"github.com/turbo/newton/database"
	"github.com/turbo/newton/exchanges/kline"
	"github.com/turbo/newton/log"
)

// ReadConfigFromFile reads a JSON or YAML config, applying environment
// overrides
func ReadConfigFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	log.Debugf(log.ConfigMgr, "Read config %s", v.ConfigFileUsed())
	return unmarshal(v)
}

// LoadConfig reads config data in the format, eg "json" or "yaml", applying
// environment overrides
func LoadConfig(data []byte, format string) (*Config, error) {
	v := newViper()
	v.SetConfigType(format)
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	defaults := GenerateDefaultConfig()
	// keys must be known to viper for environment overrides to apply
	v.SetDefault("nickname", defaults.Nickname)
	v.SetDefault("dataDir", defaults.DataDir)
	v.SetDefault("scheduler.stepDuration", defaults.Scheduler.StepDuration)
	v.SetDefault("scheduler.maxConcurrentTasks", defaults.Scheduler.MaxConcurrentTasks)
	v.SetDefault("dataSettings.source", defaults.DataSettings.Source)
	v.SetDefault("dataSettings.directory", defaults.DataSettings.Directory)
	v.SetDefault("output.logEvaluations", defaults.Output.LogEvaluations)
	v.SetDefault("output.persistEvaluations", defaults.Output.PersistEvaluations)
	v.SetDefault("output.batchSize", defaults.Output.BatchSize)
	v.SetDefault("database.enabled", defaults.Database.Enabled)
	v.SetDefault("database.verbose", defaults.Database.Verbose)
	v.SetDefault("database.driver", defaults.Database.Driver)
	v.SetDefault("database.host", defaults.Database.Host)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.username", defaults.Database.Username)
	v.SetDefault("database.password", defaults.Database.Password)
	v.SetDefault("database.database", defaults.Database.Database)
	v.SetDefault("database.sslmode", defaults.Database.SSLMode)
	v.SetDefault("server.enabled", defaults.Server.Enabled)
	v.SetDefault("server.listenAddress", defaults.Server.ListenAddress)
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Logging.Enabled == nil {
		cfg.Logging = log.GenDefaultSettings()
	}
	return cfg, nil
}

// GenerateDefaultConfig returns a config reading CSV candles from the default
// data directory and logging evaluations
func GenerateDefaultConfig() *Config {
	return &Config{
		Nickname: "newton",
		DataDir:  DefaultBTDir,
		DataSettings: DataSettings{
			Source: SourceCSV,
		},
		Output: OutputSettings{
			LogEvaluations: true,
			BatchSize:      500,
		},
		Database: database.Config{
			Driver:            database.DBSQLite3,
			ConnectionDetails: database.ConnectionDetails{Database: "newton.db"},
		},
		Logging: log.GenDefaultSettings(),
		Server: ServerSettings{
			ListenAddress: "localhost:9053",
		},
	}
}

// ExampleStrategy returns a strategy replaying BTCUSDT over January 2024 with
// default settings
func ExampleStrategy() StrategySettings {
	return StrategySettings{
		Symbol: "BTCUSDT",
		Start:  "2024-01-01T00:00:00Z",
		End:    "2024-02-01T00:00:00Z",
	}
}

// SaveConfig writes the config as indented JSON, creating the directory when
// needed. An existing file is only replaced when overwrite is set
func (c *Config) SaveConfig(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", errFileExists, path)
		}
	}
	payload, err := json.MarshalIndent(c, "", " ")
	if err != nil {
		return err
	}
	if err := gctcommon.CreateDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

// Validate checks all config settings
func (c *Config) Validate() error {
	if len(c.Strategies) == 0 {
		return errNoStrategies
	}
	if _, err := c.EventManagerSettings(); err != nil {
		return err
	}
	switch strings.ToLower(c.DataSettings.Source) {
	case SourceCSV, SourceJSON:
		if c.DataSettings.Directory == "" {
			return fmt.Errorf("%w: %s", errNoDataDirectory, c.DataSettings.Source)
		}
	case SourceDatabase:
		if !c.Database.Enabled {
			return fmt.Errorf("%w for candle source %s", errDatabaseDisabled, SourceDatabase)
		}
	default:
		return fmt.Errorf("%w: %q", errUnknownSource, c.DataSettings.Source)
	}
	if c.Output.BatchSize < 0 {
		return fmt.Errorf("%w: %d", errInvalidBatchSize, c.Output.BatchSize)
	}
	if c.Output.PersistEvaluations && !c.Database.Enabled {
		return fmt.Errorf("%w to persist evaluations", errDatabaseDisabled)
	}
	if c.Server.Enabled && c.Server.ListenAddress == "" {
		return errNoListenAddress
	}
	for i := range c.Strategies {
		s, err := c.Strategies[i].ToStrategySettings()
		if err != nil {
			return fmt.Errorf("strategy %d %s: %w", i, c.Strategies[i].Symbol, err)
		}
		s = s.WithDefaults()
		if err := s.Validate(); err != nil {
			return fmt.Errorf("strategy %d %s: %w", i, c.Strategies[i].Symbol, err)
		}
	}
	return nil
}

// EventManagerSettings returns the scheduler settings
func (c *Config) EventManagerSettings() (eventmanager.Settings, error) {
	var resp eventmanager.Settings
	if c.Scheduler.MaxConcurrentTasks < 0 {
		return resp, fmt.Errorf("%w: %d", errInvalidConcurrent, c.Scheduler.MaxConcurrentTasks)
	}
	resp.MaxConcurrentTasks = c.Scheduler.MaxConcurrentTasks
	step, err := parseDuration(c.Scheduler.StepDuration)
	if err != nil {
		return resp, fmt.Errorf("scheduler step: %w", err)
	}
	resp.StepDuration = step
	return resp, nil
}

// ToStrategySettings parses the strategy config. Unset values are left zero
// and take the strategy defaults
func (s *StrategySettings) ToStrategySettings() (strategy.Settings, error) {
	resp := strategy.Settings{
		Symbol:          s.Symbol,
		Indicator:       s.Indicator,
		CandleLimit:     s.CandleLimit,
		FillMissingData: s.FillMissingData,
	}
	var err error
	if resp.Start, err = parseDate(s.Start); err != nil {
		return resp, fmt.Errorf("start: %w", err)
	}
	if resp.End, err = parseDate(s.End); err != nil {
		return resp, fmt.Errorf("end: %w", err)
	}
	if resp.Lookback, err = parseDuration(s.Lookback); err != nil {
		return resp, fmt.Errorf("lookback: %w", err)
	}
	if resp.RebookDelay, err = parseDuration(s.RebookDelay); err != nil {
		return resp, fmt.Errorf("rebook delay: %w", err)
	}
	if resp.Interval, err = parseInterval(s.Interval); err != nil {
		return resp, fmt.Errorf("interval: %w", err)
	}
	if resp.TradingStep, err = parseInterval(s.TradingStep); err != nil {
		return resp, fmt.Errorf("trading step: %w", err)
	}
	if resp.EvaluationPeriod, err = parseInterval(s.EvaluationPeriod); err != nil {
		return resp, fmt.Errorf("evaluation period: %w", err)
	}
	if resp.SeedQuoteValue, err = parseAmount(s.SeedQuoteValue); err != nil {
		return resp, fmt.Errorf("seed quote value: %w", err)
	}
	if len(s.Terms) == 0 {
		return resp, nil
	}
	if len(s.Terms) != len(resp.Terms) {
		return resp, fmt.Errorf("%w: got %d", errInvalidTermCount, len(s.Terms))
	}
	for i := range s.Terms {
		t := &resp.Terms[i]
		if t.Duration, err = parseInterval(s.Terms[i].Duration); err != nil {
			return resp, fmt.Errorf("term %d duration: %w", i, err)
		}
		if t.Low, err = parseAmount(s.Terms[i].Low); err != nil {
			return resp, fmt.Errorf("term %d low: %w", i, err)
		}
		if t.High, err = parseAmount(s.Terms[i].High); err != nil {
			return resp, fmt.Errorf("term %d high: %w", i, err)
		}
		t.BarCount = s.Terms[i].BarCount
		t.Smoothing = s.Terms[i].Smoothing
	}
	return resp, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", errInvalidDate, s, err)
	}
	return t.UTC(), nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", errInvalidDuration, s, err)
	}
	return d, nil
}

func parseInterval(s string) (kline.Interval, error) {
	if s == "" {
		return 0, nil
	}
	return kline.ParseInterval(s)
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %w", errInvalidAmount, s, err)
	}
	return d, nil
}
