package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/turbo/newton/backtester/config"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/backtester/data/kline/csv"
	dbsource "github.com/turbo/newton/backtester/data/kline/database"
	"github.com/turbo/newton/backtester/data/kline/jsonfile"
	"github.com/turbo/newton/backtester/evaluation"
	"github.com/turbo/newton/backtester/eventmanager"
	"github.com/turbo/newton/backtester/statistics"
	"github.com/turbo/newton/backtester/strategy"
	gctcommon "github.com/turbo/newton/common"
	"github.com/turbo/newton/database"
	evalrepo "github.com/turbo/newton/database/repository/evaluation"
	"github.com/turbo/newton/log"
)

// NewTaskManager validates the config and builds the scheduler, candle source,
// evaluation sinks and one strategy per configured strategy. db is required
// when candles are read from or evaluations written to the database.
// A single strategy halts the scheduler when done, several share it until
// none re-books
func NewTaskManager(cfg *config.Config, db *database.Instance) (*TaskManager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w config", gctcommon.ErrNilPointer)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	settings, err := cfg.EventManagerSettings()
	if err != nil {
		return nil, err
	}
	single := len(cfg.Strategies) == 1
	settings.HaltWhenIdle = !single
	scheduler, err := eventmanager.Setup(settings)
	if err != nil {
		return nil, err
	}
	tm := &TaskManager{
		cfg:       cfg,
		db:        db,
		scheduler: scheduler,
	}
	if tm.source, err = tm.candleSource(); err != nil {
		return nil, err
	}
	sink, err := tm.evaluationSink()
	if err != nil {
		return nil, err
	}
	tm.stats = statistics.NewCollector(sink)
	for i := range cfg.Strategies {
		s, err := cfg.Strategies[i].ToStrategySettings()
		if err != nil {
			return nil, err
		}
		s.HaltOnDone = single
		bt, err := strategy.New(s, tm.source, tm.stats, scheduler)
		if err != nil {
			return nil, fmt.Errorf("strategy %d %s: %w", i, s.Symbol, err)
		}
		tm.tasks = append(tm.tasks, bt)
		log.Infof(log.BackTester, "Strategy %s %s %v to %v loaded", bt.ID(), s.Symbol, s.Start, s.End)
	}
	return tm, nil
}

func (tm *TaskManager) candleSource() (data.CandleSource, error) {
	switch strings.ToLower(tm.cfg.DataSettings.Source) {
	case config.SourceCSV:
		return csv.New(tm.cfg.DataSettings.Directory), nil
	case config.SourceJSON:
		return jsonfile.New(tm.cfg.DataSettings.Directory), nil
	case config.SourceDatabase:
		if tm.db == nil {
			return nil, fmt.Errorf("%w for candle source", errNoDatabase)
		}
		return dbsource.New(tm.db)
	}
	return nil, fmt.Errorf("unhandled candle source %q", tm.cfg.DataSettings.Source)
}

func (tm *TaskManager) evaluationSink() (evaluation.Sink, error) {
	var sinks []evaluation.Sink
	if tm.cfg.Output.LogEvaluations {
		sinks = append(sinks, evaluation.LogSink{})
	}
	if tm.cfg.Output.PersistEvaluations {
		if tm.db == nil {
			return nil, fmt.Errorf("%w to persist evaluations", errNoDatabase)
		}
		batch := tm.cfg.Output.BatchSize
		if batch == 0 {
			batch = evalrepo.DefaultBatchSize
		}
		s, err := evalrepo.NewSink(tm.db, batch)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return evaluation.Multi(sinks...), nil
}

// ExecuteAll books every strategy and runs the scheduler until the strategies
// are done, Stop is called or ctx is cancelled
func (tm *TaskManager) ExecuteAll(ctx context.Context) error {
	if tm == nil {
		return fmt.Errorf("%w TaskManager", gctcommon.ErrNilPointer)
	}
	tm.m.Lock()
	if tm.started {
		tm.m.Unlock()
		return errAlreadyRan
	}
	tm.started = true
	for i := range tm.tasks {
		if err := tm.scheduler.Book(tm.tasks[i].Run); err != nil {
			tm.m.Unlock()
			return err
		}
	}
	tm.m.Unlock()
	log.Infof(log.BackTester, "Running %d strategies", len(tm.tasks))
	err := tm.scheduler.Run(ctx)
	tm.stats.PrintResults()
	return err
}

// IsRunning reports whether the scheduler is running
func (tm *TaskManager) IsRunning() bool {
	if tm == nil {
		return false
	}
	return tm.scheduler.IsRunning()
}

// Stop halts the scheduler at the end of the current tick
func (tm *TaskManager) Stop() error {
	if tm == nil {
		return fmt.Errorf("%w TaskManager", gctcommon.ErrNilPointer)
	}
	tm.scheduler.Halt()
	return nil
}

// List returns the summary of every strategy
func (tm *TaskManager) List() []strategy.Summary {
	if tm == nil {
		return nil
	}
	tm.m.Lock()
	defer tm.m.Unlock()
	resp := make([]strategy.Summary, len(tm.tasks))
	for i := range tm.tasks {
		resp[i] = tm.tasks[i].Summary()
	}
	return resp
}

// GetSummary returns the summary of the strategy with the ID
func (tm *TaskManager) GetSummary(id uuid.UUID) (strategy.Summary, error) {
	if tm == nil {
		return strategy.Summary{}, fmt.Errorf("%w TaskManager", gctcommon.ErrNilPointer)
	}
	tm.m.Lock()
	defer tm.m.Unlock()
	for i := range tm.tasks {
		if tm.tasks[i].ID() == id {
			return tm.tasks[i].Summary(), nil
		}
	}
	return strategy.Summary{}, fmt.Errorf("%s %w", id, ErrTaskNotFound)
}

// Evaluations returns the persisted snapshots of the strategy with the ID in
// time order
func (tm *TaskManager) Evaluations(ctx context.Context, id uuid.UUID) ([]evaluation.Snapshot, error) {
	if _, err := tm.GetSummary(id); err != nil {
		return nil, err
	}
	if tm.db == nil || !tm.cfg.Output.PersistEvaluations {
		return nil, ErrNotPersisted
	}
	return evalrepo.ByTestID(ctx, tm.db, id)
}

// Results returns the statistics of every strategy that recorded an
// evaluation
func (tm *TaskManager) Results() []statistics.Result {
	if tm == nil {
		return nil
	}
	return tm.stats.Results()
}
