package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robmorgan/riffduel/logger"
	"golang.org/x/exp/slices"
	"k8s.io/utils/clock"
)

// Task is a callback scheduled on a Loop. A cancelled task never runs again.
type Task struct {
	loop     *Loop
	deadline time.Time
	period   time.Duration
	fn       func()
}

// Cancel removes the task from its loop. It is safe to call on a nil task, more than once, or
// from inside the task's own callback.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.loop.cancel(t)
}

// Deadline returns the next time the task is due.
func (t *Task) Deadline() time.Time {
	t.loop.mu.Lock()
	defer t.loop.mu.Unlock()
	return t.deadline
}

// Loop runs scheduled callbacks one at a time on behalf of every component of the engine.
//
// All callbacks and every function passed to Do are serialized by a single turn lock, which is
// what makes the engine behave as a single-threaded, event-driven program. While a task runs,
// Now reports the task's deadline rather than the wall clock, so a large jump of a fake clock
// replays every intermediate deadline in order.
type Loop struct {
	clock clock.Clock

	// turn serializes task callbacks and Do.
	turn sync.Mutex

	// mu guards the task queue and the time bookkeeping below.
	mu      sync.Mutex
	tasks   []*Task
	virtual time.Time
	lastNow time.Time

	wake chan struct{}
}

// NewLoop creates a loop driven by the given clock.
func NewLoop(c clock.Clock) *Loop {
	return &Loop{
		clock: c,
		wake:  make(chan struct{}, 1),
	}
}

// Now is the single time source shared by the clock, note capture and the duel. It never goes
// backwards.
func (l *Loop) Now() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nowLocked()
}

func (l *Loop) nowLocked() time.Time {
	if !l.virtual.IsZero() {
		return l.virtual
	}
	now := l.clock.Now()
	if now.Before(l.lastNow) {
		return l.lastNow
	}
	l.lastNow = now
	return now
}

// AfterFunc schedules fn to run once, d after Now.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Task {
	return l.schedule(d, 0, fn)
}

// Every schedules fn to run every period, starting one period after Now. Deadlines are
// computed from the previous deadline, not from when the callback actually ran.
func (l *Loop) Every(period time.Duration, fn func()) *Task {
	if period <= 0 {
		panic("scheduler: non-positive period")
	}
	return l.schedule(period, period, fn)
}

func (l *Loop) schedule(d, period time.Duration, fn func()) *Task {
	l.mu.Lock()
	t := &Task{
		loop:     l,
		deadline: l.nowLocked().Add(d),
		period:   period,
		fn:       fn,
	}
	l.insertLocked(t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// insertLocked keeps tasks ordered by deadline. Tasks sharing a deadline run in the order they
// were scheduled.
func (l *Loop) insertLocked(t *Task) {
	i := slices.IndexFunc(l.tasks, func(other *Task) bool {
		return other.deadline.After(t.deadline)
	})
	if i < 0 {
		i = len(l.tasks)
	}
	l.tasks = slices.Insert(l.tasks, i, t)
}

func (l *Loop) cancel(t *Task) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i := slices.Index(l.tasks, t); i >= 0 {
		l.tasks = slices.Delete(l.tasks, i, i+1)
	}
}

// Pending returns the number of scheduled tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Do runs fn inside the loop's turn, serialized with every task callback. Do must not be called
// from inside a callback or another Do.
func (l *Loop) Do(fn func()) {
	l.turn.Lock()
	defer l.turn.Unlock()
	fn()
}

// RunDue runs every task whose deadline has been reached, in deadline order, including tasks
// scheduled by those callbacks that are themselves already due. It returns the number of
// callbacks that ran.
func (l *Loop) RunDue() int {
	l.turn.Lock()
	defer l.turn.Unlock()

	ran := 0
	for {
		t := l.popDue()
		if t == nil {
			return ran
		}
		t.fn()
		ran++
	}
}

func (l *Loop) popDue() *Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.virtual = time.Time{}
	now := l.clock.Now()
	if len(l.tasks) == 0 || l.tasks[0].deadline.After(now) {
		return nil
	}

	t := l.tasks[0]
	l.tasks = slices.Delete(l.tasks, 0, 1)

	at := t.deadline
	if at.Before(l.lastNow) {
		at = l.lastNow
	}
	l.virtual = at
	l.lastNow = at

	if t.period > 0 {
		t.deadline = t.deadline.Add(t.period)
		l.insertLocked(t)
	}
	return t
}

// untilNext returns how long to wait for the next task, or false when nothing is scheduled.
func (l *Loop) untilNext() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.tasks) == 0 {
		return 0, false
	}
	wait := l.tasks[0].deadline.Sub(l.clock.Now())
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// Run drives the loop from the clock until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	logger := logger.GetProjectLogger()
	logger.Debugf("Scheduler loop started at %v", l.clock.Now())

	for {
		l.RunDue()

		var timer clock.Timer
		var fire <-chan time.Time
		if wait, ok := l.untilNext(); ok {
			timer = l.clock.NewTimer(wait)
			fire = timer.C()
		}

		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Debug("Scheduler loop shutdown")
			return
		case <-l.wake:
		case <-fire:
		}

		if timer != nil {
			timer.Stop()
		}
	}
}
