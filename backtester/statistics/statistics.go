package statistics

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/turbo/newton/backtester/evaluation"
	gctmath "github.com/turbo/newton/common/math"
	"github.com/turbo/newton/log"
)

// NewCollector returns a collector forwarding to next, which may be nil
func NewCollector(next evaluation.Sink) *Collector {
	return &Collector{
		next:  next,
		tests: make(map[uuid.UUID]*tracker),
	}
}

// Record implements evaluation.Sink
func (c *Collector) Record(ctx context.Context, s evaluation.Snapshot) error {
	c.m.Lock()
	t, ok := c.tests[s.TestID]
	if !ok {
		t = &tracker{first: s}
		c.tests[s.TestID] = t
		c.order = append(c.order, s.TestID)
	}
	t.last = s
	t.equity = append(t.equity, EquityPoint{
		Timestamp:    s.CloseTime,
		Equity:       s.TotalBalance,
		EquityReturn: s.StrategyReturn.InexactFloat64(),
		MarketReturn: s.MarketReturn.InexactFloat64(),
	})
	c.m.Unlock()
	if c.next == nil {
		return nil
	}
	return c.next.Record(ctx, s)
}

// Flush implements evaluation.Flusher
func (c *Collector) Flush(ctx context.Context) error {
	if f, ok := c.next.(evaluation.Flusher); ok {
		return f.Flush(ctx)
	}
	return nil
}

// Result returns the summary of a single test
func (c *Collector) Result(testID uuid.UUID) (Result, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	t, ok := c.tests[testID]
	if !ok {
		return Result{}, false
	}
	return t.result(testID), true
}

// Results returns the summary of every test in the order they were first seen
func (c *Collector) Results() []Result {
	c.m.Lock()
	defer c.m.Unlock()
	resp := make([]Result, 0, len(c.order))
	for _, id := range c.order {
		resp = append(resp, c.tests[id].result(id))
	}
	return resp
}

// PrintResults logs every test summary
func (c *Collector) PrintResults() {
	for _, r := range c.Results() {
		log.Infof(log.BackTester, "%s | evaluations %d | strategy %s | market %s | balance %s | drawdown %.4f | sharpe %.4f",
			r.TestID,
			r.Evaluations,
			r.StrategyReturn,
			r.MarketReturn,
			r.FinalBalance,
			r.MaxDrawdown,
			r.SharpeRatio)
	}
}

// result requires the collector lock
func (t *tracker) result(testID uuid.UUID) Result {
	r := Result{
		TestID:         testID,
		Start:          t.first.OpenTime,
		End:            t.last.CloseTime,
		Evaluations:    len(t.equity),
		StartPrice:     t.first.Price,
		EndPrice:       t.last.Price,
		StrategyReturn: t.last.StrategyReturn,
		MarketReturn:   t.last.MarketReturn,
		FinalBalance:   t.last.TotalBalance,
	}
	balances := make([]float64, len(t.equity))
	for i := range t.equity {
		balances[i] = t.equity[i].Equity.InexactFloat64()
	}
	r.MaxDrawdown = gctmath.MaxDrawdown(balances)
	returns := periodReturns(balances)
	if len(returns) == 0 {
		return r
	}
	r.AverageReturn = gctmath.ArithmeticAverage(returns)
	r.StandardDeviation = gctmath.SampleStandardDeviation(returns)
	r.SharpeRatio = gctmath.CalculateSharpeRatio(returns, 0, r.AverageReturn)
	return r
}

// periodReturns returns the fractional change between consecutive values
func periodReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	resp := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			resp = append(resp, 0)
			continue
		}
		resp = append(resp, gctmath.CalculatePercentageGainOrLoss(values[i], values[i-1])/100)
	}
	return resp
}
