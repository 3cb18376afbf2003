package statistics

import (
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/turbo/newton/backtester/evaluation"
)

// Collector tracks the performance of every test it sees snapshots for and
// passes each snapshot on to the wrapped sink
type Collector struct {
	next  evaluation.Sink
	m     sync.Mutex
	order []uuid.UUID
	tests map[uuid.UUID]*tracker
}

type tracker struct {
	first, last evaluation.Snapshot
	equity      []EquityPoint
}

// EquityPoint is the portfolio value at one evaluation
type EquityPoint struct {
	Timestamp    time.Time       `json:"timestamp"`
	Equity       decimal.Decimal `json:"equity"`
	EquityReturn float64         `json:"equityReturn"`
	MarketReturn float64         `json:"marketReturn"`
}

// Result summarises one test
type Result struct {
	TestID            uuid.UUID       `json:"testID"`
	Start             time.Time       `json:"start"`
	End               time.Time       `json:"end"`
	Evaluations       int             `json:"evaluations"`
	StartPrice        decimal.Decimal `json:"startPrice"`
	EndPrice          decimal.Decimal `json:"endPrice"`
	StrategyReturn    decimal.Decimal `json:"strategyReturn"`
	MarketReturn      decimal.Decimal `json:"marketReturn"`
	FinalBalance      decimal.Decimal `json:"finalBalance"`
	MaxDrawdown       float64         `json:"maxDrawdown"`
	AverageReturn     float64         `json:"averageReturn"`
	StandardDeviation float64         `json:"standardDeviation"`
	SharpeRatio       float64         `json:"sharpeRatio"`
}
