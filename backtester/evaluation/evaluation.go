package evaluation

import (
	"context"
	"slices"

	"github.com/gofrs/uuid"
	"github.com/turbo/newton/common"
	"github.com/turbo/newton/log"
)

// Record implements Sink
func (LogSink) Record(_ context.Context, s Snapshot) error {
	log.Infof(log.BackTester, "%s | %v | price %s | strategy %s | market %s | balance %s | position %d/%d",
		s.TestID,
		s.OpenTime.UTC().Format(common.SimpleTimeFormat),
		s.Price,
		s.StrategyReturn,
		s.MarketReturn,
		s.TotalBalance,
		s.BasePosition,
		s.QuotePosition)
	return nil
}

// Record implements Sink
func (r *Recorder) Record(_ context.Context, s Snapshot) error {
	r.m.Lock()
	r.snapshots = append(r.snapshots, s)
	r.m.Unlock()
	return nil
}

// Snapshots returns the snapshots recorded for the test ID in recording order
func (r *Recorder) Snapshots(testID uuid.UUID) []Snapshot {
	r.m.Lock()
	defer r.m.Unlock()
	resp := make([]Snapshot, 0, len(r.snapshots))
	for i := range r.snapshots {
		if r.snapshots[i].TestID == testID {
			resp = append(resp, r.snapshots[i])
		}
	}
	return resp
}

// Len returns the number of snapshots recorded
func (r *Recorder) Len() int {
	r.m.Lock()
	defer r.m.Unlock()
	return len(r.snapshots)
}

// Multi returns a sink recording to every sink. Every sink receives the
// snapshot even when an earlier one fails
func Multi(sinks ...Sink) Sink {
	return multi(slices.DeleteFunc(slices.Clone(sinks), func(s Sink) bool { return s == nil }))
}

// Record implements Sink
func (m multi) Record(ctx context.Context, s Snapshot) error {
	var errs error
	for _, sink := range m {
		errs = common.AppendError(errs, sink.Record(ctx, s))
	}
	return errs
}

// Flush implements Flusher, flushing every sink that buffers
func (m multi) Flush(ctx context.Context) error {
	var errs error
	for _, sink := range m {
		if f, ok := sink.(Flusher); ok {
			errs = common.AppendError(errs, f.Flush(ctx))
		}
	}
	return errs
}
