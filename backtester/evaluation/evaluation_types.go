package evaluation

import (
	"context"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

// Snapshot is the periodic record of a backtest's performance
type Snapshot struct {
	TestID         uuid.UUID       `json:"testID"`
	OpenTime       time.Time       `json:"openTime"`
	CloseTime      time.Time       `json:"closeTime"`
	Price          decimal.Decimal `json:"price"`
	StrategyReturn decimal.Decimal `json:"strategyReturn"`
	MarketReturn   decimal.Decimal `json:"marketReturn"`
	TotalBalance   decimal.Decimal `json:"totalBalance"`
	BasePosition   int64           `json:"basePosition"`
	QuotePosition  int64           `json:"quotePosition"`
	BaseBalance    decimal.Decimal `json:"baseBalance"`
	QuoteBalance   decimal.Decimal `json:"quoteBalance"`
}

// Sink receives snapshots
type Sink interface {
	Record(ctx context.Context, s Snapshot) error
}

// Flusher is implemented by sinks which buffer snapshots
type Flusher interface {
	Flush(ctx context.Context) error
}

// LogSink writes each snapshot to the backtester logger
type LogSink struct{}

// Recorder keeps every snapshot in memory
type Recorder struct {
	m         sync.Mutex
	snapshots []Snapshot
}

// multi fans snapshots out to several sinks
type multi []Sink
