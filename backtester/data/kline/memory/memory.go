package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/exchanges/kline"
)

type key struct {
	symbol   string
	interval kline.Interval
}

// Source serves candles held in memory
type Source struct {
	m      sync.RWMutex
	series map[key][]chart.Candle
}

// New returns an empty in memory candle source
func New() *Source {
	return &Source{series: make(map[key][]chart.Candle)}
}

// Add stores candles for the symbol and interval
func (s *Source) Add(symbol string, interval kline.Interval, candles ...chart.Candle) {
	k := key{symbol: strings.ToUpper(symbol), interval: interval}
	s.m.Lock()
	s.series[k] = append(s.series[k], candles...)
	s.m.Unlock()
}

// GetCandles implements data.CandleSource
func (s *Source) GetCandles(ctx context.Context, symbol string, interval kline.Interval, limit int, start, end time.Time) ([]chart.Candle, error) {
	if err := data.CheckRequest(symbol, interval, limit, start, end); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, data.Upstream("memory", err)
	}
	s.m.RLock()
	candles := slices.Clone(s.series[key{symbol: strings.ToUpper(symbol), interval: interval}])
	s.m.RUnlock()
	return data.Filter(candles, start, end, limit), nil
}
