package data

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/common/cache"
	"github.com/turbo/newton/exchanges/kline"
)

var start = time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

func minute(i int) chart.Candle {
	open := start.Add(time.Duration(i) * time.Minute)
	return chart.Candle{OpenTime: open, CloseTime: open.Add(time.Minute), Close: decimal.NewFromInt(int64(i))}
}

func TestCheckRequest(t *testing.T) {
	t.Parallel()
	assert.NoError(t, CheckRequest("BTCUSDT", kline.OneMin, 0, time.Time{}, time.Time{}))
	assert.ErrorIs(t, CheckRequest("", kline.OneMin, 0, time.Time{}, time.Time{}), ErrInvalidSymbol)
	assert.ErrorIs(t, CheckRequest("BTCUSDT", 0, 0, time.Time{}, time.Time{}), kline.ErrInvalidInterval)
	assert.ErrorIs(t, CheckRequest("BTCUSDT", kline.OneMin, -1, time.Time{}, time.Time{}), ErrInvalidRange)
	assert.ErrorIs(t, CheckRequest("BTCUSDT", kline.OneMin, 0, start, start.Add(-time.Minute)), ErrInvalidRange)
	assert.NoError(t, CheckRequest("BTCUSDT", kline.OneMin, 0, start, start))
}

func TestFilter(t *testing.T) {
	t.Parallel()
	candles := []chart.Candle{minute(4), minute(0), minute(2), minute(1), minute(3)}
	resp := Filter(candles, start.Add(time.Minute), start.Add(4*time.Minute), 0)
	if assert.Len(t, resp, 3) {
		assert.True(t, resp[0].OpenTime.Equal(start.Add(time.Minute)))
		assert.True(t, resp[2].OpenTime.Equal(start.Add(3*time.Minute)))
	}
	assert.Len(t, Filter(candles, time.Time{}, time.Time{}, 2), 2)
	assert.Len(t, Filter(candles, time.Time{}, time.Time{}, 0), 5)
}

func TestNormaliseCloseTime(t *testing.T) {
	t.Parallel()
	inclusive := start.Add(time.Minute - time.Millisecond)
	assert.True(t, NormaliseCloseTime(start, inclusive, kline.OneMin).Equal(start.Add(time.Minute)))
	exclusive := start.Add(time.Minute)
	assert.True(t, NormaliseCloseTime(start, exclusive, kline.OneMin).Equal(exclusive))
	odd := start.Add(30 * time.Second)
	assert.True(t, NormaliseCloseTime(start, odd, kline.OneMin).Equal(odd))
}

func TestFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "BTCUSDT_1m.csv", FileName("btcusdt", kline.OneMin, ".csv"))
	assert.Equal(t, "ETHBTC_1h.json", FileName("ETHBTC", kline.OneHour, "json"))
	assert.Equal(t, "ETHBTC_1h30m.json", FileName("ETHBTC", kline.Interval(90*time.Minute), "json"))
}

func TestUpstream(t *testing.T) {
	t.Parallel()
	cause := errors.New("connection refused")
	err := Upstream("test", cause)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestReadCached(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "BTCUSDT_1m.csv")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))
	var parses int
	parse := func(string) ([]chart.Candle, error) {
		parses++
		return []chart.Candle{minute(parses)}, nil
	}
	c := cache.NewLRUCache(DefaultFileCacheSize)
	for range 3 {
		candles, err := ReadCached(c, path, parse)
		require.NoError(t, err)
		require.Len(t, candles, 1)
	}
	assert.Equal(t, 1, parses, "unchanged file must be parsed once")

	require.NoError(t, os.WriteFile(path, []byte("ab"), 0o600))
	candles, err := ReadCached(c, path, parse)
	require.NoError(t, err)
	assert.Equal(t, 2, parses, "changed file must be parsed again")
	assert.True(t, candles[0].Close.Equal(decimal.NewFromInt(2)))

	_, err = ReadCached(nil, path, parse)
	require.NoError(t, err)
	assert.Equal(t, 3, parses)

	_, err = ReadCached(c, filepath.Join(t.TempDir(), "missing.csv"), parse)
	assert.ErrorIs(t, err, os.ErrNotExist)

	errParse := errors.New("bad file")
	_, err = ReadCached(cache.NewLRUCache(1), path, func(string) ([]chart.Candle, error) { return nil, errParse })
	assert.ErrorIs(t, err, errParse)
}
