package composer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type Outcome int32

const (
	OutcomePending Outcome = iota
	OutcomeDelivered
	OutcomeDropped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDropped:
		return "dropped"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Task is the handle of one deferred assistant reply. The reply is dropped if the task is
// cancelled, or if its session is reset or closed before the reply is applied.
type Task struct {
	prompt string
	epoch  uint64
	issued time.Time

	sess  *Session
	timer *time.Timer

	cancelled atomic.Bool
	outcome   atomic.Int32
	err       error

	once sync.Once
	done chan struct{}
}

func newTask(prompt string, epoch uint64, issued time.Time) *Task {
	return &Task{
		prompt: prompt,
		epoch:  epoch,
		issued: issued,
		done:   make(chan struct{}),
	}
}

func (t *Task) Prompt() string {
	return t.prompt
}

// Done is closed once the task reaches a final outcome.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Outcome() Outcome {
	return Outcome(t.outcome.Load())
}

// Err is the generation failure of a task whose outcome is OutcomeFailed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Cancel drops the reply unless it has already been applied.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
	if t.sess != nil {
		t.sess.forget(t)
	}
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop prevents a not-yet-fired timer from running and finishes the task as dropped.
// Callers hold the session lock.
func (t *Task) stop(reason error) bool {
	if t.timer != nil && t.timer.Stop() {
		t.finish(OutcomeDropped, reason)
		return true
	}
	return false
}

func (t *Task) finish(o Outcome, err error) {
	t.once.Do(func() {
		t.err = err
		t.outcome.Store(int32(o))
		close(t.done)
	})
}
