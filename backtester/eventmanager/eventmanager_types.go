package eventmanager

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrAlreadyRunning is returned when Run is called on a running manager
	ErrAlreadyRunning = errors.New("event manager already running")
	// ErrNilTask is returned when booking a nil task
	ErrNilTask = errors.New("nil task")
	// ErrTaskPanic wraps the value recovered from a panicking task
	ErrTaskPanic = errors.New("task panic")
	errInvalidStepDuration = errors.New("step duration cannot be negative")
	errInvalidConcurrency  = errors.New("max concurrent tasks cannot be negative")
)

// Task is a unit of work run within a single tick
type Task func(ctx context.Context) error

// TaskErrorHandler receives errors and recovered panics from tasks along with
// the tick they ran in
type TaskErrorHandler func(step int64, err error)

// Settings configures an EventManager
type Settings struct {
	// StepDuration is the minimum real time between the start of two ticks and
	// the unit delays are measured in. Zero runs ticks back to back
	StepDuration time.Duration
	// HaltWhenIdle stops the run loop once no future tick holds a task
	HaltWhenIdle bool
	// MaxConcurrentTasks limits the tasks running at once within a tick, zero
	// is unlimited
	MaxConcurrentTasks int
	OnTaskError        TaskErrorHandler
}

type booking struct {
	step int64
	task Task
}

// EventManager runs tasks in discrete ticks. Tasks within a tick run
// concurrently and the next tick only starts once every task has returned.
// Tasks book follow up work into later ticks, bookings are buffered and only
// merged into the tick queue at the end of the running tick
type EventManager struct {
	settings Settings
	started  int32
	halted   atomic.Bool

	m           sync.Mutex
	currentStep int64
	// ticks[0] is the current tick, only Run mutates it
	ticks    [][]Task
	bookings []booking
}
