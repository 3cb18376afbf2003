package strategy

import (
	"errors"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/backtester/evaluation"
	"github.com/turbo/newton/backtester/eventmanager"
	"github.com/turbo/newton/backtester/trader"
	"github.com/turbo/newton/exchanges/kline"
)

// Indicators a strategy can read trends from
const (
	Stochastic = "stochastic"
	RSI        = "rsi"
)

// Defaults applied to zero settings
const (
	DefaultLookback   = 15 * kline.OneDay
	DefaultBarCount   = 5
	DefaultSmoothing  = 3
	DefaultLowSignal  = 30
	DefaultHighSignal = 70
)

var (
	// ErrNoCandles is returned when the source has no candles within the
	// backtest window
	ErrNoCandles = errors.New("no candles within backtest window")
	// ErrNotInitializing is returned when Run is called on a strategy that has
	// already started
	ErrNotInitializing = errors.New("strategy already started")

	errNilSource        = errors.New("nil candle source")
	errNilScheduler     = errors.New("nil event manager")
	errInvalidTerm      = errors.New("invalid term")
	errInvalidLookback  = errors.New("lookback cannot be negative")
	errInvalidDelay     = errors.New("rebook delay cannot be negative")
	errUnknownIndicator = errors.New("unknown indicator")
)

// State is the lifecycle stage of a strategy
type State uint8

// States a strategy moves through
const (
	Initializing State = iota
	Running
	Evaluating
	Terminated
)

// Term configures the indicator read at one timeframe
type Term struct {
	Duration  kline.Interval
	BarCount  int
	Smoothing int
	Low       decimal.Decimal
	High      decimal.Decimal
}

// Settings configures a backtest
type Settings struct {
	Symbol   string
	Start    time.Time
	End      time.Time
	Lookback time.Duration
	// Interval is the base candle interval fetched from the source
	Interval    kline.Interval
	TradingStep kline.Interval
	// EvaluationPeriod is how often a snapshot is recorded, it must be a
	// multiple of TradingStep
	EvaluationPeriod kline.Interval
	// RebookDelay is the scheduler delay between two trading steps
	RebookDelay     time.Duration
	SeedQuoteValue  decimal.Decimal
	Terms           [3]Term
	Indicator       string
	CandleLimit     int
	FillMissingData bool
	// HaltOnDone halts the scheduler once the strategy terminates
	HaltOnDone bool
}

// BacktestStrategy replays candles through a chart, maps the short, mid and
// long term trends to a target allocation and rebalances a trader at every
// trading step. It books its own continuation on the scheduler
type BacktestStrategy struct {
	id        uuid.UUID
	settings  Settings
	source    data.CandleSource
	sink      evaluation.Sink
	scheduler *eventmanager.EventManager

	// owned by the running task
	chart     *chart.Chart
	feed      []chart.Candle
	feedIndex int
	stepSize  int
	evalEvery int64

	m          sync.Mutex
	started    bool
	state      State
	trader     trader.Trader
	startPrice decimal.Decimal
	iterations int64
	lastTime   time.Time
	err        error
}

// Summary is a point in time copy of a strategy's progress
type Summary struct {
	ID             uuid.UUID       `json:"id"`
	Symbol         string          `json:"symbol"`
	State          string          `json:"state"`
	Start          time.Time       `json:"start"`
	End            time.Time       `json:"end"`
	LastCandle     time.Time       `json:"lastCandle"`
	Iterations     int64           `json:"iterations"`
	BasePosition   int64           `json:"basePosition"`
	QuotePosition  int64           `json:"quotePosition"`
	BaseBalance    decimal.Decimal `json:"baseBalance"`
	QuoteBalance   decimal.Decimal `json:"quoteBalance"`
	Price          decimal.Decimal `json:"price"`
	TotalValue     decimal.Decimal `json:"totalValue"`
	StrategyReturn decimal.Decimal `json:"strategyReturn"`
	MarketReturn   decimal.Decimal `json:"marketReturn"`
	Error          string          `json:"error,omitempty"`
	Err            error           `json:"-"`
}
