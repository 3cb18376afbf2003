package database

import (
	"context"
	"errors"
	"time"

	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data"
	gctdatabase "github.com/turbo/newton/database"
	"github.com/turbo/newton/database/repository/candle"
	"github.com/turbo/newton/exchanges/kline"
)

// Source serves candles stored in the candle table
type Source struct {
	db *gctdatabase.Instance
}

// New returns a candle source backed by the database instance
func New(db *gctdatabase.Instance) (*Source, error) {
	if db == nil {
		return nil, gctdatabase.ErrNilInstance
	}
	return &Source{db: db}, nil
}

// GetCandles implements data.CandleSource
func (s *Source) GetCandles(ctx context.Context, symbol string, interval kline.Interval, limit int, start, end time.Time) ([]chart.Candle, error) {
	if err := data.CheckRequest(symbol, interval, limit, start, end); err != nil {
		return nil, err
	}
	item, err := candle.Series(ctx, s.db, symbol, interval, start, end, limit)
	if err != nil {
		if errors.Is(err, candle.ErrNoCandleDataFound) {
			return []chart.Candle{}, nil
		}
		return nil, data.Upstream("database", err)
	}
	return item.Candles, nil
}
