package candle

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data/kline/csv"
	"github.com/turbo/newton/database"
	"github.com/turbo/newton/database/repository"
	"github.com/turbo/newton/exchanges/kline"
	"github.com/turbo/newton/log"
	"github.com/volatiletech/null"
)

const columns = `open_time, close_time, open, high, low, close, volume, quote_volume,
	trades, taker_buy_base_volume, taker_buy_quote_volume, source`

const upsert = `INSERT INTO candle (id, symbol, interval_seconds, ` + columns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (symbol, interval_seconds, open_time) DO UPDATE SET
		close_time = excluded.close_time,
		open = excluded.open,
		high = excluded.high,
		low = excluded.low,
		close = excluded.close,
		volume = excluded.volume,
		quote_volume = excluded.quote_volume,
		trades = excluded.trades,
		taker_buy_base_volume = excluded.taker_buy_base_volume,
		taker_buy_quote_volume = excluded.taker_buy_quote_volume,
		source = excluded.source`

// Series returns the candles for the symbol and interval opening within
// [start, end). Zero times are unbounded and a zero limit is unlimited
func Series(ctx context.Context, db *database.Instance, symbol string, interval kline.Interval, start, end time.Time, limit int) (Item, error) {
	out := Item{Symbol: strings.ToUpper(symbol), Interval: interval}
	if symbol == "" || interval <= 0 {
		return out, errInvalidInput
	}
	conn, err := db.GetSQL()
	if err != nil {
		return out, err
	}
	var query strings.Builder
	query.WriteString("SELECT " + columns + " FROM candle WHERE symbol = ? AND interval_seconds = ?")
	args := []any{out.Symbol, intervalSeconds(interval)}
	if !start.IsZero() {
		query.WriteString(" AND open_time >= ?")
		args = append(args, start.UnixMilli())
	}
	if !end.IsZero() {
		query.WriteString(" AND open_time < ?")
		args = append(args, end.UnixMilli())
	}
	query.WriteString(" ORDER BY open_time")
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	q := repository.Rebind(db.Dialect(), query.String())
	db.LogQuery(q, args...)
	rows, err := conn.QueryContext(ctx, q, args...)
	if err != nil {
		return out, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Errorln(log.DatabaseMgr, err)
		}
	}()
	for rows.Next() {
		var c chart.Candle
		var openMs, closeMs int64
		var source null.String
		if err := rows.Scan(&openMs, &closeMs, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.QuoteVolume,
			&c.Trades, &c.TakerBuyBaseVolume, &c.TakerBuyQuoteVolume, &source); err != nil {
			return out, err
		}
		c.OpenTime = time.UnixMilli(openMs).UTC()
		c.CloseTime = time.UnixMilli(closeMs).UTC()
		if out.Source == "" && source.Valid {
			out.Source = source.String
		}
		out.Candles = append(out.Candles, c)
	}
	if err := rows.Err(); err != nil {
		return out, err
	}
	if len(out.Candles) == 0 {
		return out, fmt.Errorf("%w: %s %s", ErrNoCandleDataFound, out.Symbol, interval.Short())
	}
	return out, nil
}

// Insert upserts a series of candles in one transaction
func Insert(ctx context.Context, db *database.Instance, in *Item) (uint64, error) {
	if in == nil || len(in.Candles) == 0 {
		return 0, errNoCandleData
	}
	if in.Symbol == "" || in.Interval <= 0 {
		return 0, errInvalidInput
	}
	conn, err := db.GetSQL()
	if err != nil {
		return 0, err
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	totalInserted, err := insert(ctx, db, tx, in)
	if err != nil {
		if errRB := tx.Rollback(); errRB != nil {
			log.Errorln(log.DatabaseMgr, errRB)
		}
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return totalInserted, nil
}

func insert(ctx context.Context, db *database.Instance, tx *sql.Tx, in *Item) (uint64, error) {
	q := repository.Rebind(db.Dialect(), upsert)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Errorln(log.DatabaseMgr, err)
		}
	}()
	source := null.String{String: in.Source, Valid: in.Source != ""}
	symbol := strings.ToUpper(in.Symbol)
	var totalInserted uint64
	for x := range in.Candles {
		c := &in.Candles[x]
		id, err := uuid.NewV4()
		if err != nil {
			return 0, err
		}
		args := []any{
			id.String(), symbol, intervalSeconds(in.Interval),
			c.OpenTime.UnixMilli(), c.CloseTime.UnixMilli(),
			c.Open, c.High, c.Low, c.Close, c.Volume, c.QuoteVolume,
			c.Trades, c.TakerBuyBaseVolume, c.TakerBuyQuoteVolume, source,
		}
		db.LogQuery(q, args...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, err
		}
		if totalInserted < math.MaxUint64 {
			totalInserted++
		}
	}
	return totalInserted, nil
}

// InsertFromCSV loads a csv file of candles and upserts them
func InsertFromCSV(ctx context.Context, db *database.Instance, symbol string, interval kline.Interval, source, file string) (uint64, error) {
	candles, err := csv.ReadFile(file, interval)
	if err != nil {
		return 0, err
	}
	return Insert(ctx, db, &Item{
		Symbol:   symbol,
		Interval: interval,
		Source:   source,
		Candles:  candles,
	})
}

func intervalSeconds(i kline.Interval) int64 {
	return int64(i.Duration() / time.Second)
}
