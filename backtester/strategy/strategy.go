package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/turbo/newton/backtester/chart"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/backtester/evaluation"
	"github.com/turbo/newton/backtester/eventmanager"
	"github.com/turbo/newton/backtester/signal"
	"github.com/turbo/newton/backtester/trader"
	"github.com/turbo/newton/common"
	gctmath "github.com/turbo/newton/common/math"
	"github.com/turbo/newton/exchanges/kline"
	"github.com/turbo/newton/log"
)

// DefaultSettings returns the settings used for any unset field
func DefaultSettings() Settings {
	return Settings{
		Lookback:       DefaultLookback.Duration(),
		Interval:       kline.OneMin,
		TradingStep:    kline.OneMin,
		SeedQuoteValue: decimal.NewFromInt(1000),
		Terms: [3]Term{
			defaultTerm(kline.OneMin),
			defaultTerm(kline.FifteenMin),
			defaultTerm(kline.OneHour),
		},
		Indicator: Stochastic,
	}
}

func defaultTerm(d kline.Interval) Term {
	return Term{
		Duration:  d,
		BarCount:  DefaultBarCount,
		Smoothing: DefaultSmoothing,
		Low:       decimal.NewFromInt(DefaultLowSignal),
		High:      decimal.NewFromInt(DefaultHighSignal),
	}
}

// WithDefaults fills every zero field from DefaultSettings
func (s Settings) WithDefaults() Settings {
	d := DefaultSettings()
	if s.Lookback == 0 {
		s.Lookback = d.Lookback
	}
	if s.Interval == 0 {
		s.Interval = d.Interval
	}
	if s.TradingStep == 0 {
		s.TradingStep = s.Interval
	}
	if s.EvaluationPeriod == 0 {
		s.EvaluationPeriod = s.TradingStep
	}
	if s.SeedQuoteValue.IsZero() {
		s.SeedQuoteValue = d.SeedQuoteValue
	}
	for i := range s.Terms {
		if s.Terms[i].Duration == 0 {
			s.Terms[i].Duration = d.Terms[i].Duration
		}
		if s.Terms[i].BarCount == 0 {
			s.Terms[i].BarCount = d.Terms[i].BarCount
		}
		if s.Terms[i].Smoothing == 0 {
			s.Terms[i].Smoothing = d.Terms[i].Smoothing
		}
		if s.Terms[i].Low.IsZero() && s.Terms[i].High.IsZero() {
			s.Terms[i].Low, s.Terms[i].High = d.Terms[i].Low, d.Terms[i].High
		}
	}
	if s.Indicator == "" {
		s.Indicator = d.Indicator
	}
	s.Indicator = strings.ToLower(s.Indicator)
	s.Symbol = strings.ToUpper(s.Symbol)
	return s
}

// Validate checks the settings after defaults are applied
func (s *Settings) Validate() error {
	if s.Symbol == "" {
		return data.ErrInvalidSymbol
	}
	if err := common.StartEndTimeCheck(s.Start, s.End); err != nil {
		return fmt.Errorf("%w: %w", data.ErrInvalidRange, err)
	}
	if s.Lookback < 0 {
		return fmt.Errorf("%w: %v", errInvalidLookback, s.Lookback)
	}
	if s.RebookDelay < 0 {
		return fmt.Errorf("%w: %v", errInvalidDelay, s.RebookDelay)
	}
	if s.CandleLimit < 0 {
		return fmt.Errorf("%w: negative candle limit %d", data.ErrInvalidRange, s.CandleLimit)
	}
	if !s.SeedQuoteValue.IsPositive() {
		return fmt.Errorf("%w: %s", trader.ErrInvalidSeed, s.SeedQuoteValue)
	}
	if _, err := s.TradingStep.Multiple(s.Interval); err != nil {
		return fmt.Errorf("trading step: %w", err)
	}
	if _, err := s.EvaluationPeriod.Multiple(s.TradingStep); err != nil {
		return fmt.Errorf("evaluation period: %w", err)
	}
	for i := range s.Terms {
		t := &s.Terms[i]
		if _, err := t.Duration.Multiple(s.Interval); err != nil {
			return fmt.Errorf("%w %d: %w", errInvalidTerm, i, err)
		}
		if t.BarCount < 1 || t.Smoothing < 1 {
			return fmt.Errorf("%w %d: bar count %d smoothing %d", errInvalidTerm, i, t.BarCount, t.Smoothing)
		}
		if t.Low.GreaterThan(t.High) {
			return fmt.Errorf("%w %d: low %s above high %s", errInvalidTerm, i, t.Low, t.High)
		}
	}
	switch s.Indicator {
	case Stochastic, RSI:
	default:
		return fmt.Errorf("%w: %q", errUnknownIndicator, s.Indicator)
	}
	return nil
}

// New creates a backtest strategy. Zero settings take their defaults and a
// nil sink logs snapshots
func New(s Settings, source data.CandleSource, sink evaluation.Sink, scheduler *eventmanager.EventManager) (*BacktestStrategy, error) {
	if source == nil {
		return nil, errNilSource
	}
	if scheduler == nil {
		return nil, errNilScheduler
	}
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = evaluation.LogSink{}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	stepSize, err := s.TradingStep.Multiple(s.Interval)
	if err != nil {
		return nil, err
	}
	evalEvery, err := s.EvaluationPeriod.Multiple(s.TradingStep)
	if err != nil {
		return nil, err
	}
	return &BacktestStrategy{
		id:        id,
		settings:  s,
		source:    source,
		sink:      sink,
		scheduler: scheduler,
		stepSize:  int(stepSize),
		evalEvery: evalEvery,
		state:     Initializing,
	}, nil
}

// ID returns the test ID recorded with every snapshot
func (b *BacktestStrategy) ID() uuid.UUID {
	return b.id
}

// Settings returns the settings with defaults applied
func (b *BacktestStrategy) Settings() Settings {
	return b.settings
}

// State returns the current lifecycle stage
func (b *BacktestStrategy) State() State {
	b.m.Lock()
	defer b.m.Unlock()
	return b.state
}

// Run is the strategy's first task. It loads candles, builds the chart and
// trader and performs the first trading step
func (b *BacktestStrategy) Run(ctx context.Context) error {
	if b == nil {
		return fmt.Errorf("%w backtest strategy", common.ErrNilPointer)
	}
	b.m.Lock()
	if b.started || b.state != Initializing {
		b.m.Unlock()
		return ErrNotInitializing
	}
	b.started = true
	b.m.Unlock()
	if err := b.initialise(ctx); err != nil {
		return b.terminate(ctx, err)
	}
	return b.step(ctx)
}

func (b *BacktestStrategy) initialise(ctx context.Context) error {
	s := &b.settings
	candles, err := b.source.GetCandles(ctx, s.Symbol, s.Interval, s.CandleLimit, s.Start.Add(-s.Lookback), s.End)
	if err != nil {
		return err
	}
	kept := candles[:0:0]
	for i := range candles {
		if candles[i].CloseTime.After(s.End) {
			continue
		}
		kept = append(kept, candles[i])
	}
	if s.FillMissingData {
		if kept, err = chart.FillGaps(s.Interval, kept); err != nil {
			return err
		}
	}
	var history []chart.Candle
	for i := range kept {
		if kept[i].OpenTime.Before(s.Start) {
			history = append(history, kept[i])
			continue
		}
		b.feed = append(b.feed, kept[i])
	}
	if len(b.feed) == 0 {
		return fmt.Errorf("%w: %s %v to %v", ErrNoCandles, s.Symbol, s.Start, s.End)
	}
	if expected := kline.TotalCandlesPerInterval(s.Start, s.End, s.Interval); int64(len(b.feed)) < expected && s.CandleLimit == 0 {
		log.Warnf(log.BackTester, "%s %s replaying %d of %d expected candles", b.id, s.Symbol, len(b.feed), expected)
	}
	if b.chart, err = chart.New(s.Interval, history); err != nil {
		return err
	}
	startPrice := b.feed[0].Close
	t, err := trader.New(s.SeedQuoteValue, startPrice)
	if err != nil {
		return err
	}
	b.m.Lock()
	b.startPrice = startPrice
	b.trader = t
	b.state = Running
	b.m.Unlock()
	log.Infof(log.BackTester, "%s %s initialised with %d history and %d replay candles, start price %s",
		b.id, s.Symbol, len(history), len(b.feed), startPrice)
	return nil
}

// step replays the next trading step's candles and rebalances on the trends
// read at the end of the chart
func (b *BacktestStrategy) step(ctx context.Context) error {
	end := min(b.feedIndex+b.stepSize, len(b.feed))
	for i := b.feedIndex; i < end; i++ {
		if err := b.chart.Append(b.feed[i]); err != nil {
			return b.terminate(ctx, err)
		}
	}
	b.feedIndex = end
	last, err := b.chart.Last()
	if err != nil {
		return b.terminate(ctx, err)
	}
	triple, err := b.trends()
	if err != nil {
		return b.terminate(ctx, err)
	}
	position := signal.MapToPosition(triple)

	b.m.Lock()
	prev := b.trader
	next, err := prev.Rebalance(position.Base, position.Quote, last.Close)
	if err != nil {
		b.m.Unlock()
		return b.terminate(ctx, err)
	}
	b.trader = next
	b.iterations++
	b.lastTime = last.CloseTime
	evaluate := b.iterations%b.evalEvery == 0
	if evaluate {
		b.state = Evaluating
	}
	b.m.Unlock()

	if !sameTargets(prev, next) {
		d := trader.Delta(prev, next)
		log.Debugf(log.BackTester, "%s %v %s -> %s base %s quote %s",
			b.id, last.OpenTime, triple, position, d.Base, d.Quote)
	}
	if evaluate {
		b.evaluate(ctx, last)
	}
	if b.feedIndex >= len(b.feed) {
		return b.terminate(ctx, nil)
	}
	if err := b.scheduler.BookFuture(b.settings.RebookDelay, b.step); err != nil {
		return b.terminate(ctx, err)
	}
	return nil
}

// sameTargets reports whether both traders hold the same target allocation
func sameTargets(a, b trader.Trader) bool {
	return a.BasePosition() == b.BasePosition() && a.QuotePosition() == b.QuotePosition()
}

// trends reads the short, mid and long term trends. Terms without enough
// history or with a flat window read as neutral
func (b *BacktestStrategy) trends() (signal.Triple, error) {
	var trends [3]signal.Trend
	for i := range b.settings.Terms {
		term := &b.settings.Terms[i]
		value, err := b.indicator(term)
		switch {
		case err == nil:
			trends[i] = signal.TrendSignal(value, term.Low, term.High)
		case errors.Is(err, chart.ErrFlatWindow), errors.Is(err, chart.ErrInsufficientData):
			trends[i] = signal.Neutral
		default:
			return signal.Triple{}, err
		}
	}
	return signal.Triple{Short: trends[0], Mid: trends[1], Long: trends[2]}, nil
}

func (b *BacktestStrategy) indicator(term *Term) (decimal.Decimal, error) {
	agg, err := b.chart.Aggregate(term.Duration, b.chart.Len(), term.BarCount+term.Smoothing+2)
	if err != nil {
		return decimal.Zero, err
	}
	if b.settings.Indicator == RSI {
		return agg.RelativeStrength(term.BarCount, agg.Len()-1)
	}
	return agg.SlowOscillator(term.BarCount, term.Smoothing, agg.Len()-1)
}

// evaluate records a snapshot. Sink failures are logged and never alter the
// simulation
func (b *BacktestStrategy) evaluate(ctx context.Context, last chart.Candle) {
	b.m.Lock()
	t := b.trader
	startPrice := b.startPrice
	b.state = Running
	b.m.Unlock()
	snapshot, err := b.snapshot(t, startPrice, last)
	if err != nil {
		log.Errorf(log.BackTester, "%s evaluation at %v: %v", b.id, last.OpenTime, err)
		return
	}
	if err := b.sink.Record(ctx, snapshot); err != nil {
		log.Errorf(log.BackTester, "%s recording evaluation at %v: %v", b.id, last.OpenTime, err)
	}
}

func (b *BacktestStrategy) snapshot(t trader.Trader, startPrice decimal.Decimal, last chart.Candle) (evaluation.Snapshot, error) {
	roi, err := t.ROI()
	if err != nil {
		return evaluation.Snapshot{}, err
	}
	market, err := gctmath.TruncatedDivide(t.CurrentPrice(), startPrice)
	if err != nil {
		return evaluation.Snapshot{}, err
	}
	return evaluation.Snapshot{
		TestID:         b.id,
		OpenTime:       last.OpenTime,
		CloseTime:      last.CloseTime,
		Price:          t.CurrentPrice(),
		StrategyReturn: roi,
		MarketReturn:   market,
		TotalBalance:   t.TotalValue(),
		BasePosition:   t.BasePosition(),
		QuotePosition:  t.QuotePosition(),
		BaseBalance:    t.BaseBalance(),
		QuoteBalance:   t.QuoteBalance(),
	}, nil
}

// terminate stops the strategy, keeping err for the summary and returning it
// to the scheduler
func (b *BacktestStrategy) terminate(ctx context.Context, err error) error {
	b.m.Lock()
	b.state = Terminated
	b.err = err
	b.m.Unlock()
	if f, ok := b.sink.(evaluation.Flusher); ok {
		if flushErr := f.Flush(ctx); flushErr != nil {
			log.Errorf(log.BackTester, "%s flushing evaluations: %v", b.id, flushErr)
		}
	}
	sum := b.Summary()
	if err != nil {
		log.Errorf(log.BackTester, "%s %s terminated after %d iterations: %v", b.id, sum.Symbol, sum.Iterations, err)
	} else {
		log.Infof(log.BackTester, "%s | %s | %s | strategy %s | market %s",
			sum.Symbol,
			sum.Start.Format(common.SimpleTimeFormat),
			sum.End.Format(common.SimpleTimeFormat),
			sum.StrategyReturn,
			sum.MarketReturn)
	}
	if b.settings.HaltOnDone {
		b.scheduler.Halt()
	}
	return err
}

// Summary returns a copy of the strategy's progress safe to read while it
// runs
func (b *BacktestStrategy) Summary() Summary {
	b.m.Lock()
	defer b.m.Unlock()
	s := Summary{
		ID:         b.id,
		Symbol:     b.settings.Symbol,
		State:      b.state.String(),
		Start:      b.settings.Start,
		End:        b.settings.End,
		LastCandle: b.lastTime,
		Iterations: b.iterations,
		Err:        b.err,
	}
	if b.err != nil {
		s.Error = b.err.Error()
	}
	if b.startPrice.IsZero() {
		return s
	}
	s.BasePosition = b.trader.BasePosition()
	s.QuotePosition = b.trader.QuotePosition()
	s.BaseBalance = b.trader.BaseBalance()
	s.QuoteBalance = b.trader.QuoteBalance()
	s.Price = b.trader.CurrentPrice()
	s.TotalValue = b.trader.TotalValue()
	if roi, err := b.trader.ROI(); err == nil {
		s.StrategyReturn = roi
	}
	if market, err := gctmath.TruncatedDivide(b.trader.CurrentPrice(), b.startPrice); err == nil {
		s.MarketReturn = market
	}
	return s
}

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Running:
		return "running"
	case Evaluating:
		return "evaluating"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}
