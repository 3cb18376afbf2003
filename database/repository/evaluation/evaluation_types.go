package evaluation

import (
	"errors"
	"sync"

	"github.com/turbo/newton/backtester/evaluation"
	"github.com/turbo/newton/database"
)

// DefaultBatchSize is the number of snapshots buffered before a write
const DefaultBatchSize = 500

var (
	errNoSnapshots  = errors.New("no snapshots provided")
	errInvalidBatch = errors.New("batch size must be positive")
	// ErrNoEvaluationsFound returns when no snapshots exist for a test
	ErrNoEvaluationsFound = errors.New("no evaluations found")
)

// Sink buffers snapshots and writes them to the database in batches
type Sink struct {
	db        *database.Instance
	batchSize int
	m         sync.Mutex
	buffer    []evaluation.Snapshot
	written   uint64
}
