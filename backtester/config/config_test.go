package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/exchanges/kline"
)

func testConfig() *Config {
	cfg := GenerateDefaultConfig()
	cfg.DataSettings.Directory = "testdata"
	cfg.Strategies = []StrategySettings{{
		Symbol:           "BTCUSDT",
		Start:            "2021-01-01T00:00:00Z",
		End:              "2021-02-01T00:00:00Z",
		Lookback:         "72h",
		Interval:         "1m",
		TradingStep:      "5m",
		EvaluationPeriod: "1h",
		SeedQuoteValue:   "2500.5",
		Terms: []TermSettings{
			{Duration: "5m", BarCount: 7, Smoothing: 2, Low: "20", High: "80"},
			{Duration: "1h"},
			{Duration: "4h", Low: "25", High: "75"},
		},
	}}
	return cfg
}

func TestReadConfigFromFile(t *testing.T) {
	t.Parallel()
	raw, err := json.Marshal(testConfig())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	cfg, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "newton", cfg.Nickname)
	assert.Equal(t, SourceCSV, cfg.DataSettings.Source)
	require.Len(t, cfg.Strategies, 1)
	assert.Equal(t, "2500.5", cfg.Strategies[0].SeedQuoteValue)
	require.Len(t, cfg.Strategies[0].Terms, 3)
	assert.Equal(t, 7, cfg.Strategies[0].Terms[0].BarCount)
	require.NotNil(t, cfg.Logging.Enabled)

	_, err = ReadConfigFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLoadConfigYAML(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig([]byte(`
nickname: yaml
scheduler:
  stepDuration: 10ms
  maxConcurrentTasks: 4
dataSettings:
  source: database
database:
  enabled: true
  driver: sqlite3
  database: candles.db
strategies:
  - symbol: ethusdt
    start: "2022-03-01T00:00:00Z"
    end: "2022-03-02T00:00:00Z"
    indicator: rsi
`), "yaml")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "yaml", cfg.Nickname)
	assert.Equal(t, "candles.db", cfg.Database.Database)
	assert.True(t, cfg.Output.LogEvaluations, "unset values keep their defaults")

	em, err := cfg.EventManagerSettings()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, em.StepDuration)
	assert.Equal(t, 4, em.MaxConcurrentTasks)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("NEWTON_DATABASE_PASSWORD", "hunter2")
	t.Setenv("NEWTON_NICKNAME", "from-env")
	cfg, err := LoadConfig([]byte(`{"nickname": "from-file"}`), "json")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "from-env", cfg.Nickname)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	for name, tc := range map[string]struct {
		mutate func(*Config)
		err    error
	}{
		"no strategies":      {func(c *Config) { c.Strategies = nil }, errNoStrategies},
		"bad step":           {func(c *Config) { c.Scheduler.StepDuration = "soon" }, errInvalidDuration},
		"negative tasks":     {func(c *Config) { c.Scheduler.MaxConcurrentTasks = -1 }, errInvalidConcurrent},
		"unknown source":     {func(c *Config) { c.DataSettings.Source = "ftp" }, errUnknownSource},
		"no directory":       {func(c *Config) { c.DataSettings.Directory = "" }, errNoDataDirectory},
		"database disabled":  {func(c *Config) { c.DataSettings.Source = SourceDatabase }, errDatabaseDisabled},
		"persist disabled":   {func(c *Config) { c.Output.PersistEvaluations = true }, errDatabaseDisabled},
		"negative batch":     {func(c *Config) { c.Output.BatchSize = -1 }, errInvalidBatchSize},
		"no listen address":  {func(c *Config) { c.Server.Enabled = true; c.Server.ListenAddress = "" }, errNoListenAddress},
		"bad date":           {func(c *Config) { c.Strategies[0].Start = "yesterday" }, errInvalidDate},
		"bad amount":         {func(c *Config) { c.Strategies[0].SeedQuoteValue = "lots" }, errInvalidAmount},
		"bad interval":       {func(c *Config) { c.Strategies[0].Interval = "fortnightly" }, kline.ErrUnsupportedInterval},
		"two terms":          {func(c *Config) { c.Strategies[0].Terms = c.Strategies[0].Terms[:2] }, errInvalidTermCount},
		"inverted window":    {func(c *Config) { c.Strategies[0].End = "2020-01-01T00:00:00Z" }, data.ErrInvalidRange},
		"uneven step":        {func(c *Config) { c.Strategies[0].TradingStep = "7m"; c.Strategies[0].Interval = "5m" }, kline.ErrNotMultiple},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.err)
		})
	}
}

func TestToStrategySettings(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	s, err := cfg.Strategies[0].ToStrategySettings()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), s.Start)
	assert.Equal(t, 72*time.Hour, s.Lookback)
	assert.Equal(t, kline.OneMin, s.Interval)
	assert.Equal(t, kline.FiveMin, s.TradingStep)
	assert.Equal(t, kline.OneHour, s.EvaluationPeriod)
	assert.True(t, s.SeedQuoteValue.Equal(decimal.RequireFromString("2500.5")))
	assert.Equal(t, kline.FiveMin, s.Terms[0].Duration)
	assert.Equal(t, 7, s.Terms[0].BarCount)
	assert.Equal(t, 2, s.Terms[0].Smoothing)
	assert.True(t, s.Terms[0].High.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, kline.FourHour, s.Terms[2].Duration)
	assert.True(t, s.Terms[1].Low.IsZero(), "unset thresholds take the strategy defaults")

	bare := StrategySettings{Symbol: "X", Start: "2021-01-01T00:00:00Z", End: "2021-01-02T00:00:00Z"}
	s, err = bare.ToStrategySettings()
	require.NoError(t, err)
	assert.Zero(t, s.Interval)
	assert.Zero(t, s.Terms[0].Duration)
}

func TestSaveConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := GenerateDefaultConfig()
	cfg.DataSettings.Directory = "testdata"
	cfg.Strategies = []StrategySettings{ExampleStrategy()}
	require.NoError(t, cfg.SaveConfig(path, false))
	assert.ErrorIs(t, cfg.SaveConfig(path, false), errFileExists)
	require.NoError(t, cfg.SaveConfig(path, true))

	loaded, err := ReadConfigFromFile(path)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	require.Len(t, loaded.Strategies, 1)
	settings, err := loaded.Strategies[0].ToStrategySettings()
	require.NoError(t, err)
	assert.Equal(t, "BTCUSDT", settings.Symbol)
	assert.True(t, settings.End.After(settings.Start))
}
