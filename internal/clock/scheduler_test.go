package clock

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestEvery_FiresOncePerInterval(t *testing.T) {
	s := NewScheduler(epoch)
	n := 0
	s.Every(time.Second, func() { n++ })

	if fired := s.Advance(epoch.Add(999 * time.Millisecond)); fired != 0 {
		t.Fatalf("fired %d before the first deadline", fired)
	}
	s.Advance(epoch.Add(time.Second))
	if n != 1 {
		t.Fatalf("expected 1 tick at 1s, got %d", n)
	}
	s.Advance(epoch.Add(1500 * time.Millisecond))
	if n != 1 {
		t.Fatalf("expected still 1 tick at 1.5s, got %d", n)
	}
}

func TestAdvance_CatchesUp(t *testing.T) {
	s := NewScheduler(epoch)
	var at []time.Time
	s.Every(time.Second, func() { at = append(at, s.Now()) })
	if fired := s.Advance(epoch.Add(3500 * time.Millisecond)); fired != 3 {
		t.Fatalf("expected 3 catch-up ticks, got %d", fired)
	}
	for i, ts := range at {
		want := epoch.Add(time.Duration(i+1) * time.Second)
		if !ts.Equal(want) {
			t.Fatalf("tick %d saw Now()=%v, want %v", i, ts, want)
		}
	}
	if !s.Now().Equal(epoch.Add(3500 * time.Millisecond)) {
		t.Fatalf("clock should land on the advance target, got %v", s.Now())
	}
}

func TestStop_FromInsideCallback(t *testing.T) {
	s := NewScheduler(epoch)
	n := 0
	var tm *Timer
	tm = s.Every(time.Second, func() {
		n++
		if n == 2 {
			tm.Stop()
		}
	})
	s.Advance(epoch.Add(10 * time.Second))
	if n != 2 {
		t.Fatalf("expected timer to stop itself after 2 ticks, got %d", n)
	}
	if tm.Active() {
		t.Fatal("timer should be inactive")
	}
	if s.Pending() != 0 {
		t.Fatalf("stopped timer should be pruned, pending=%d", s.Pending())
	}
}

func TestStop_DueTimerSkipped(t *testing.T) {
	s := NewScheduler(epoch)
	var order []string
	var b *Timer
	s.Every(time.Second, func() {
		order = append(order, "a")
		b.Stop()
	})
	b = s.Every(time.Second, func() { order = append(order, "b") })
	s.Advance(epoch.Add(time.Second))
	if len(order) != 1 || order[0] != "a" {
		t.Fatalf("b was due in the same advance but stopped first, got %v", order)
	}
}

func TestStop_Twice(t *testing.T) {
	s := NewScheduler(epoch)
	tm := s.Every(time.Second, func() {})
	if !tm.Stop() {
		t.Fatal("first Stop should report active")
	}
	if tm.Stop() {
		t.Fatal("second Stop should report inactive")
	}
	var nilTimer *Timer
	if nilTimer.Stop() || nilTimer.Active() {
		t.Fatal("nil timer should be inert")
	}
}

func TestEvery_RegisteredInCallbackAnchorsAtDeadline(t *testing.T) {
	s := NewScheduler(epoch)
	var second []time.Time
	var first *Timer
	first = s.Every(time.Second, func() {
		first.Stop()
		s.Every(time.Second, func() { second = append(second, s.Now()) })
	})
	s.Advance(epoch.Add(3 * time.Second))
	if len(second) != 2 {
		t.Fatalf("expected follow-up timer to fire at 2s and 3s, got %v", second)
	}
	if !second[0].Equal(epoch.Add(2 * time.Second)) {
		t.Fatalf("follow-up first tick at %v, want 2s", second[0])
	}
}

func TestAdvance_OrderByDeadline(t *testing.T) {
	s := NewScheduler(epoch)
	var order []string
	s.Every(3*time.Second, func() { order = append(order, "slow") })
	s.Every(time.Second, func() { order = append(order, "fast") })
	s.Advance(epoch.Add(3 * time.Second))
	want := []string{"fast", "fast", "slow", "fast"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestAdvance_BackwardsIgnored(t *testing.T) {
	s := NewScheduler(epoch.Add(time.Minute))
	s.Advance(epoch)
	if !s.Now().Equal(epoch.Add(time.Minute)) {
		t.Fatal("clock must not move backwards")
	}
}

func TestEvery_PanicsOnZeroInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewScheduler(epoch).Every(0, func() {})
}
