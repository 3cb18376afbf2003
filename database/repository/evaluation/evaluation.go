package evaluation

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/gofrs/uuid"
	"github.com/turbo/newton/backtester/evaluation"
	"github.com/turbo/newton/database"
	"github.com/turbo/newton/database/repository"
	"github.com/turbo/newton/log"
)

const insertQuery = `INSERT INTO evaluation (id, test_id, open_time, close_time, price, strategy_return,
	market_return, total_balance, base_position, quote_position, base_balance, quote_balance, inserted_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const selectQuery = `SELECT test_id, open_time, close_time, price, strategy_return, market_return,
	total_balance, base_position, quote_position, base_balance, quote_balance
	FROM evaluation WHERE test_id = ? ORDER BY open_time`

// Insert writes the snapshots in one transaction
func Insert(ctx context.Context, db *database.Instance, snapshots []evaluation.Snapshot) (uint64, error) {
	if len(snapshots) == 0 {
		return 0, errNoSnapshots
	}
	conn, err := db.GetSQL()
	if err != nil {
		return 0, err
	}
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	totalInserted, err := insert(ctx, db, tx, snapshots)
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

func insert(ctx context.Context, db *database.Instance, tx *sql.Tx, snapshots []evaluation.Snapshot) (uint64, error) {
	q := repository.Rebind(db.Dialect(), insertQuery)
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Errorln(log.DatabaseMgr, err)
		}
	}()
	insertedAt := time.Now().UnixMilli()
	var totalInserted uint64
	for x := range snapshots {
		s := &snapshots[x]
		id, err := uuid.NewV4()
		if err != nil {
			return 0, err
		}
		args := []any{
			id.String(), s.TestID.String(),
			s.OpenTime.UnixMilli(), s.CloseTime.UnixMilli(),
			s.Price, s.StrategyReturn, s.MarketReturn, s.TotalBalance,
			s.BasePosition, s.QuotePosition, s.BaseBalance, s.QuoteBalance,
			insertedAt,
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

// ByTestID returns every snapshot of the test ordered by open time
func ByTestID(ctx context.Context, db *database.Instance, testID uuid.UUID) ([]evaluation.Snapshot, error) {
	conn, err := db.GetSQL()
	if err != nil {
		return nil, err
	}
	q := repository.Rebind(db.Dialect(), selectQuery)
	db.LogQuery(q, testID)
	rows, err := conn.QueryContext(ctx, q, testID.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Errorln(log.DatabaseMgr, err)
		}
	}()
	var resp []evaluation.Snapshot
	for rows.Next() {
		var s evaluation.Snapshot
		var id string
		var openMs, closeMs int64
		if err := rows.Scan(&id, &openMs, &closeMs, &s.Price, &s.StrategyReturn, &s.MarketReturn,
			&s.TotalBalance, &s.BasePosition, &s.QuotePosition, &s.BaseBalance, &s.QuoteBalance); err != nil {
			return nil, err
		}
		if s.TestID, err = uuid.FromString(id); err != nil {
			return nil, err
		}
		s.OpenTime = time.UnixMilli(openMs).UTC()
		s.CloseTime = time.UnixMilli(closeMs).UTC()
		resp = append(resp, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(resp) == 0 {
		return nil, ErrNoEvaluationsFound
	}
	return resp, nil
}

// NewSink returns a sink writing batches of batchSize snapshots
func NewSink(db *database.Instance, batchSize int) (*Sink, error) {
	if db == nil {
		return nil, database.ErrNilInstance
	}
	if batchSize <= 0 {
		return nil, errInvalidBatch
	}
	return &Sink{db: db, batchSize: batchSize}, nil
}

// Record implements evaluation.Sink, writing once a full batch is buffered
func (s *Sink) Record(ctx context.Context, snapshot evaluation.Snapshot) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.buffer = append(s.buffer, snapshot)
	if len(s.buffer) < s.batchSize {
		return nil
	}
	return s.flush(ctx)
}

// Flush implements evaluation.Flusher, writing every buffered snapshot
func (s *Sink) Flush(ctx context.Context) error {
	s.m.Lock()
	defer s.m.Unlock()
	return s.flush(ctx)
}

// Written returns the number of snapshots stored so far
func (s *Sink) Written() uint64 {
	s.m.Lock()
	defer s.m.Unlock()
	return s.written
}

func (s *Sink) flush(ctx context.Context) error {
	if len(s.buffer) == 0 {
		return nil
	}
	n, err := Insert(ctx, s.db, s.buffer)
	if err != nil {
		return err
	}
	s.written += n
	s.buffer = s.buffer[:0]
	return nil
}
