package clock

import (
	"fmt"
	"time"
)

// Scheduler is a timer queue for a single event-loop goroutine.
// The host calls Advance with the current time; due callbacks run inline on
// that goroutine, so handlers never interleave. Not safe for concurrent use.
type Scheduler struct {
	now    time.Time
	timers []*Timer
	nextID uint64
}

// Timer is the cancellation handle of a recurring callback.
type Timer struct {
	id       uint64
	interval time.Duration
	deadline time.Time
	fn       func()
	stopped  bool
}

// NewScheduler returns a scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler's current time. Inside a callback this is the
// deadline that callback was due at.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// Every schedules fn to run each interval, first at Now()+interval.
func (s *Scheduler) Every(interval time.Duration, fn func()) *Timer {
	if interval <= 0 {
		panic(fmt.Sprintf("clock: non-positive interval %v", interval))
	}
	s.nextID++
	t := &Timer{
		id:       s.nextID,
		interval: interval,
		deadline: s.now.Add(interval),
		fn:       fn,
	}
	s.timers = append(s.timers, t)
	return t
}

// Stop cancels the timer. It reports whether the timer was still active.
// A stopped timer never fires again, even if it was due in the current Advance.
func (t *Timer) Stop() bool {
	if t == nil || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// Active reports whether the timer will fire again.
func (t *Timer) Active() bool {
	return t != nil && !t.stopped
}

// Advance moves the clock to now and runs every due tick in deadline order,
// catching up on ticks missed while the host was stalled. Returns how many
// callbacks ran. A now earlier than Now() is ignored.
func (s *Scheduler) Advance(now time.Time) int {
	fired := 0
	for {
		t := s.due(now)
		if t == nil {
			break
		}
		s.now = t.deadline
		t.deadline = t.deadline.Add(t.interval)
		t.fn()
		fired++
	}
	if now.After(s.now) {
		s.now = now
	}
	s.prune()
	return fired
}

// Pending returns the number of active timers.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// due returns the active timer with the earliest deadline not after now.
// Ties go to the timer registered first.
func (s *Scheduler) due(now time.Time) *Timer {
	var best *Timer
	for _, t := range s.timers {
		if t.stopped || t.deadline.After(now) {
			continue
		}
		if best == nil || t.deadline.Before(best.deadline) ||
			(t.deadline.Equal(best.deadline) && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) prune() {
	kept := s.timers[:0]
	for _, t := range s.timers {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	for i := len(kept); i < len(s.timers); i++ {
		s.timers[i] = nil
	}
	s.timers = kept
}
