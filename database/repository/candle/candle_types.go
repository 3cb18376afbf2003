package candle

import (
	"errors"

	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/exchanges/kline"
)

var (
	errInvalidInput = errors.New("symbol and interval cannot be empty")
	errNoCandleData = errors.New("no candle data provided")
	// ErrNoCandleDataFound returns when no candle data is found
	ErrNoCandleDataFound = errors.New("no candle data found")
)

// Item holds a series of candles for one symbol and interval. Source records
// where the candles were imported from and may be empty
type Item struct {
	Symbol   string
	Interval kline.Interval
	Source   string
	Candles  []chart.Candle
}
