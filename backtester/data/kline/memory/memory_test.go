package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/exchanges/kline"
)

func TestGetCandles(t *testing.T) {
	t.Parallel()
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New()
	for i := range 10 {
		open := start.Add(time.Duration(i) * time.Minute)
		s.Add("btcusdt", kline.OneMin, chart.Candle{OpenTime: open, CloseTime: open.Add(time.Minute), Close: decimal.NewFromInt(int64(i))})
	}

	resp, err := s.GetCandles(context.Background(), "BTCUSDT", kline.OneMin, 0, start.Add(2*time.Minute), start.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Len(t, resp, 3)

	resp, err = s.GetCandles(context.Background(), "BTCUSDT", kline.OneMin, 4, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, resp, 4)

	resp, err = s.GetCandles(context.Background(), "BTCUSDT", kline.OneHour, 0, time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, resp)

	_, err = s.GetCandles(context.Background(), "BTCUSDT", kline.OneMin, 0, start, start.Add(-time.Hour))
	assert.ErrorIs(t, err, data.ErrInvalidRange)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.GetCandles(ctx, "BTCUSDT", kline.OneMin, 0, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, data.ErrUpstreamUnavailable)
}
