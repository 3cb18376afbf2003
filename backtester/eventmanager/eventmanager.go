package eventmanager

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/turbo/newton/common"
	"github.com/turbo/newton/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Setup creates an event manager
func Setup(s Settings) (*EventManager, error) {
	if s.StepDuration < 0 {
		return nil, fmt.Errorf("%w: %v", errInvalidStepDuration, s.StepDuration)
	}
	if s.MaxConcurrentTasks < 0 {
		return nil, fmt.Errorf("%w: %v", errInvalidConcurrency, s.MaxConcurrentTasks)
	}
	return &EventManager{
		settings: s,
		ticks:    make([][]Task, 1),
	}, nil
}

// IsRunning safely checks whether the run loop is active
func (e *EventManager) IsRunning() bool {
	if e == nil {
		return false
	}
	return atomic.LoadInt32(&e.started) == 1
}

// CurrentStep returns the tick currently being run
func (e *EventManager) CurrentStep() int64 {
	e.m.Lock()
	defer e.m.Unlock()
	return e.currentStep
}

// Pending returns the number of tasks queued or booked which have not run
func (e *EventManager) Pending() int {
	e.m.Lock()
	defer e.m.Unlock()
	count := len(e.bookings)
	for i := range e.ticks {
		count += len(e.ticks[i])
	}
	return count
}

// Book queues the task for the next tick
func (e *EventManager) Book(task Task) error {
	return e.BookFuture(0, task)
}

// BookFuture queues the task delay into the future, measured in whole steps
// from the current tick. Any delay shorter than one step lands in the next
// tick, never the current one
func (e *EventManager) BookFuture(delay time.Duration, task Task) error {
	if e == nil {
		return fmt.Errorf("%w event manager", common.ErrNilPointer)
	}
	if task == nil {
		return ErrNilTask
	}
	steps := int64(1)
	if e.settings.StepDuration > 0 && delay > 0 {
		steps = max(1, int64(delay/e.settings.StepDuration))
	}
	e.m.Lock()
	e.bookings = append(e.bookings, booking{step: e.currentStep + steps, task: task})
	e.m.Unlock()
	return nil
}

// Halt stops the run loop at the end of the current tick. Tasks already
// running in the tick finish, later ticks never run
func (e *EventManager) Halt() {
	if e == nil {
		return
	}
	e.halted.Store(true)
}

// Run processes ticks until halted, until idle when HaltWhenIdle is set, or
// until the context is cancelled. It returns nil when halted
func (e *EventManager) Run(ctx context.Context) error {
	if e == nil {
		return fmt.Errorf("%w event manager", common.ErrNilPointer)
	}
	if !atomic.CompareAndSwapInt32(&e.started, 0, 1) {
		return ErrAlreadyRunning
	}
	defer func() {
		e.halted.Store(false)
		atomic.StoreInt32(&e.started, 0)
	}()

	limit := rate.Inf
	if e.settings.StepDuration > 0 {
		limit = rate.Every(e.settings.StepDuration)
	}
	limiter := rate.NewLimiter(limit, 1)
	log.Debugf(log.EventMgr, "Event manager started, step %v", e.settings.StepDuration)
	for {
		if err := limiter.Wait(ctx); err != nil {
			// the next tick cannot start before the deadline
			<-ctx.Done()
			return ctx.Err()
		}
		e.m.Lock()
		step := e.currentStep
		tasks := e.ticks[0]
		e.m.Unlock()

		var g errgroup.Group
		if e.settings.MaxConcurrentTasks > 0 {
			g.SetLimit(e.settings.MaxConcurrentTasks)
		}
		for _, task := range tasks {
			g.Go(func() error {
				e.runTask(ctx, step, task)
				return nil
			})
		}
		_ = g.Wait()

		idle := e.barrier()
		switch {
		case e.halted.Load():
			log.Debugf(log.EventMgr, "Event manager halted at step %d", step)
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		case idle && e.settings.HaltWhenIdle:
			log.Debugf(log.EventMgr, "Event manager idle at step %d", step)
			return nil
		}
	}
}

// barrier merges the bookings made during the tick, drops the finished tick
// and advances the step. It returns whether any task remains queued
func (e *EventManager) barrier() (idle bool) {
	e.m.Lock()
	defer e.m.Unlock()
	for _, b := range e.bookings {
		offset := int(b.step - e.currentStep)
		if offset < 1 {
			offset = 1
		}
		for len(e.ticks) <= offset {
			e.ticks = append(e.ticks, nil)
		}
		e.ticks[offset] = append(e.ticks[offset], b.task)
	}
	e.bookings = nil
	e.ticks[0] = nil
	if !e.halted.Load() {
		e.ticks = e.ticks[1:]
		if len(e.ticks) == 0 {
			e.ticks = append(e.ticks, nil)
		}
		e.currentStep++
	}
	for i := range e.ticks {
		if len(e.ticks[i]) > 0 {
			return false
		}
	}
	return true
}

func (e *EventManager) runTask(ctx context.Context, step int64, task Task) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				if rErr, ok := r.(error); ok {
					err = fmt.Errorf("%w: %w", ErrTaskPanic, rErr)
					return
				}
				err = fmt.Errorf("%w: %v", ErrTaskPanic, r)
			}
		}()
		return task(ctx)
	}()
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		log.Errorf(log.EventMgr, "Step %d task error: %v", step, err)
	}
	if e.settings.OnTaskError != nil {
		e.settings.OnTaskError(step, err)
	}
}
