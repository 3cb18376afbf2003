package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/common/cache"
	"github.com/turbo/newton/common/convert"
	"github.com/turbo/newton/exchanges/kline"
	"github.com/turbo/newton/log"
)

const minColumns = 11

var errInvalidRow = errors.New("invalid csv row")

// Source reads candles from csv files named SYMBOL_interval.csv in a directory
type Source struct {
	directory string
	files     *cache.LRU
}

// New returns a csv source reading from the directory
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
		return nil, data.Upstream("csv", err)
	}
	path := filepath.Join(s.directory, data.FileName(symbol, interval, "csv"))
	candles, err := data.ReadCached(s.files, path, func(p string) ([]chart.Candle, error) {
		return ReadFile(p, interval)
	})
	if err != nil {
		return nil, data.Upstream("csv", err)
	}
	return data.Filter(candles, start, end, limit), nil
}

// ReadFile reads every candle in the csv file
func ReadFile(path string, interval kline.Interval) ([]chart.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Errorln(log.DataHistory, err)
		}
	}()
	return ReadCandles(f, interval)
}

// ReadCandles parses kline rows laid out as
// open_time_ms,open,high,low,close,volume,close_time_ms,quote_volume,trades,taker_base,taker_quote
// Extra trailing columns are ignored and a non numeric first row is treated
// as a header
func ReadCandles(r io.Reader, interval kline.Interval) ([]chart.Candle, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true
	var resp []chart.Candle
	for row := 1; ; row++ {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			return resp, nil
		}
		if err != nil {
			return nil, err
		}
		if row == 1 && isHeader(record) {
			continue
		}
		c, err := parseRecord(record, interval)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		resp = append(resp, c)
	}
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := convert.Int64FromString(strings.TrimSpace(record[0]))
	return err != nil
}

func parseRecord(record []string, interval kline.Interval) (chart.Candle, error) {
	if len(record) < minColumns {
		return chart.Candle{}, fmt.Errorf("%w: %d columns, expected at least %d", errInvalidRow, len(record), minColumns)
	}
	var c chart.Candle
	var err error
	if c.OpenTime, err = convert.TimeFromUnixMillisString(record[0]); err != nil {
		return c, err
	}
	closeTime, err := convert.TimeFromUnixMillisString(record[6])
	if err != nil {
		return c, err
	}
	c.CloseTime = data.NormaliseCloseTime(c.OpenTime, closeTime, interval)
	if c.Trades, err = convert.Int64FromString(record[8]); err != nil {
		return c, err
	}
	for _, field := range []struct {
		column int
		dst    *decimal.Decimal
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
		if *field.dst, err = convert.DecimalFromString(strings.TrimSpace(record[field.column])); err != nil {
			return c, err
		}
	}
	return c, nil
}
