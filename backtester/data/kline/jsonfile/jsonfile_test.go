package jsonfile

import (
	"context"
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

const testKlines = `[
  [1499040000000, "0.01634790", "0.80000000", "0.01575800", "0.01577100", "148976.11427815", 1499043599999, "2434.19055334", 308, "1756.87402397", "28.46694368", "17928899.62484339"],
  [1499043600000, "0.01577100", "0.01600000", "0.01570000", "0.01590000", "1000.00000000", 1499047199999, "15.90000000", 12, "500.00000000", "7.95000000", "0"]
]`

func TestParseKlines(t *testing.T) {
	t.Parallel()
	candles, err := ParseKlines([]byte(testKlines), kline.OneHour)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	first := candles[0]
	assert.True(t, first.OpenTime.Equal(time.UnixMilli(1499040000000)))
	assert.True(t, first.CloseTime.Equal(time.UnixMilli(1499043600000)))
	assert.True(t, first.High.Equal(decimal.RequireFromString("0.8")))
	assert.Equal(t, int64(308), first.Trades)
	assert.True(t, candles[1].OpenTime.Equal(first.CloseTime))
}

func TestParseKlinesErrors(t *testing.T) {
	t.Parallel()
	_, err := ParseKlines([]byte(`{"code":-1121,"msg":"Invalid symbol."}`), kline.OneHour)
	assert.ErrorIs(t, err, errNotArray)

	_, err = ParseKlines([]byte(`[[1499040000000, "1", "1"]]`), kline.OneHour)
	assert.ErrorIs(t, err, errInvalidKline)

	_, err = ParseKlines([]byte(`["nope"]`), kline.OneHour)
	assert.ErrorIs(t, err, errInvalidKline)

	_, err = ParseKlines([]byte(`[[1499040000000, "x", "1", "1", "1", "1", 1499043599999, "1", 1, "1", "1"]]`), kline.OneHour)
	assert.Error(t, err)

	candles, err := ParseKlines([]byte(`[]`), kline.OneHour)
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestGetCandles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ETHBTC_1h.json"), []byte(testKlines), 0o600))
	s := New(dir)
	candles, err := s.GetCandles(context.Background(), "ETHBTC", kline.OneHour, 1, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, candles, 1)

	_, err = s.GetCandles(context.Background(), "ETHBTC", kline.OneMin, 0, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, data.ErrUpstreamUnavailable)
}
