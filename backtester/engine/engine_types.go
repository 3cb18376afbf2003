package engine

import (
	"errors"
	"sync"

	"github.com/turbo/newton/backtester/config"
	"github.com/turbo/newton/backtester/data"
	"github.com/turbo/newton/backtester/eventmanager"
	"github.com/turbo/newton/backtester/statistics"
	"github.com/turbo/newton/backtester/strategy"
	"github.com/turbo/newton/database"
)

var (
	// ErrTaskNotFound is returned when no strategy has the requested ID
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotPersisted is returned when evaluations are requested but are not
	// written to the database
	ErrNotPersisted = errors.New("evaluations are not persisted")
	errAlreadyRan   = errors.New("tasks already ran")
	errNoDatabase   = errors.New("database instance required")
)

// TaskManager runs every configured strategy on one shared scheduler and
// tracks their progress
type TaskManager struct {
	cfg       *config.Config
	db        *database.Instance
	scheduler *eventmanager.EventManager
	source    data.CandleSource
	stats     *statistics.Collector

	m       sync.Mutex
	tasks   []*strategy.BacktestStrategy
	started bool
}
