package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/common"
	"github.com/turbo/newton/common/cache"
	"github.com/turbo/newton/common/convert"
	"github.com/turbo/newton/exchanges/kline"
)

const minFields = 11

var (
	errNotArray     = errors.New("kline data is not an array")
	errInvalidKline = errors.New("invalid kline entry")
)

// Source reads exchange kline REST responses saved as SYMBOL_interval.json in
// a directory. Each file holds an array of kline arrays:
// [openTime, "open", "high", "low", "close", "volume", closeTime,
// "quoteVolume", trades, "takerBase", "takerQuote", "ignore"]
type Source struct {
	directory string
	files     *cache.LRU
}

// New returns a json kline source reading from the directory
func New(directory string) *Source {
	return &Source{
		directory: directory,
		files:     cache.NewLRUCache(data.DefaultFileCacheSize),
	}
}

// GetCandles implements data.CandleSource
func (s *Source) GetCandles(ctx context.Context, symbol string, interval kline.Interval, limit int, start, end time.Time) ([]chart.Candle, error) {
	if err := data.CheckRequest(symbol, interval, limit, start, end); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, data.Upstream("json", err)
	}
	path := filepath.Join(s.directory, data.FileName(symbol, interval, "json"))
	candles, err := data.ReadCached(s.files, path, func(p string) ([]chart.Candle, error) {
		raw, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		return ParseKlines(raw, interval)
	})
	if err != nil {
		return nil, data.Upstream("json", err)
	}
	return data.Filter(candles, start, end, limit), nil
}

// ParseKlines parses a json array of klines
func ParseKlines(raw []byte, interval kline.Interval) ([]chart.Candle, error) {
	value, dataType, _, err := jsonparser.Get(raw)
	if err != nil {
		return nil, err
	}
	if dataType != jsonparser.Array {
		return nil, errNotArray
	}
	var resp []chart.Candle
	var errs error
	_, err = jsonparser.ArrayEach(value, func(entry []byte, entryType jsonparser.ValueType, _ int, _ error) {
		if errs != nil {
			return
		}
		if entryType != jsonparser.Array {
			errs = fmt.Errorf("%w: entry %d is %s", errInvalidKline, len(resp), entryType)
			return
		}
		c, err := parseKline(entry, interval)
		if err != nil {
			errs = fmt.Errorf("entry %d: %w", len(resp), err)
			return
		}
		resp = append(resp, c)
	})
	if err != nil {
		return nil, common.AppendError(errs, err)
	}
	if errs != nil {
		return nil, errs
	}
	return resp, nil
}

func parseKline(entry []byte, interval kline.Interval) (chart.Candle, error) {
	fields := make([][]byte, 0, 12)
	_, err := jsonparser.ArrayEach(entry, func(v []byte, _ jsonparser.ValueType, _ int, _ error) {
		fields = append(fields, v)
	})
	if err != nil {
		return chart.Candle{}, err
	}
	if len(fields) < minFields {
		return chart.Candle{}, fmt.Errorf("%w: %d fields, expected at least %d", errInvalidKline, len(fields), minFields)
	}
	var c chart.Candle
	openMs, err := jsonparser.ParseInt(fields[0])
	if err != nil {
		return c, fmt.Errorf("open time: %w", err)
	}
	closeMs, err := jsonparser.ParseInt(fields[6])
	if err != nil {
		return c, fmt.Errorf("close time: %w", err)
	}
	if c.Trades, err = jsonparser.ParseInt(fields[8]); err != nil {
		return c, fmt.Errorf("trades: %w", err)
	}
	c.OpenTime = convert.TimeFromUnixMillis(openMs)
	c.CloseTime = data.NormaliseCloseTime(c.OpenTime, convert.TimeFromUnixMillis(closeMs), interval)
	for _, field := range []struct {
		index int
		dst   *decimal.Decimal
	}{
		{1, &c.Open},
		{2, &c.High},
		{3, &c.Low},
		{4, &c.Close},
		{5, &c.Volume},
		{7, &c.QuoteVolume},
		{9, &c.TakerBuyBaseVolume},
		{10, &c.TakerBuyQuoteVolume},
	} {
		if *field.dst, err = convert.DecimalFromString(string(fields[field.index])); err != nil {
			return c, err
		}
	}
	return c, nil
}
