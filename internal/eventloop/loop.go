// Package eventloop runs timer callbacks one at a time on a single goroutine.
//
// Everything a game session does (phase boundaries, expire timers, pacing,
// input dispatch) is a callback on one Loop, so session state is never
// touched concurrently. Timers may be scheduled and stopped from any
// goroutine; callbacks always run on the goroutine driving the loop, either
// Run in production or Advance in tests.
package eventloop

import (
	"container/heap"
	"context"
	"sync"
	"time"
)

// Timer is a pending callback. Stop is safe to call any number of times.
type Timer struct {
	loop  *Loop
	when  time.Time
	seq   uint64
	fn    func()
	index int
}

// Stop prevents the timer from firing. It returns false if the timer already
// fired or was already stopped.
func (t *Timer) Stop() bool {
	if t == nil {
		return false
	}
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.index < 0 {
		return false
	}
	heap.Remove(&l.queue, t.index)
	return true
}

// Loop is a single-threaded queue of timers ordered by deadline, then by
// scheduling order.
type Loop struct {
	mu    sync.Mutex
	clock Clock
	queue timerQueue
	seq   uint64
	wake  chan struct{}
}

// New creates a loop reading time from clock. A nil clock means the system
// clock.
func New(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock()
	}
	return &Loop{
		clock: clock,
		wake:  make(chan struct{}, 1),
	}
}

func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// AfterFunc schedules fn to run on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	t := &Timer{loop: l, when: l.clock.Now().Add(d), seq: l.seq, fn: fn}
	l.seq++
	heap.Push(&l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return t
}

// Post schedules fn to run on the loop as soon as possible.
func (l *Loop) Post(fn func()) *Timer {
	return l.AfterFunc(0, fn)
}

// Pending returns the number of scheduled timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) popDue(now time.Time) *Timer {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 || l.queue[0].when.After(now) {
		return nil
	}
	return heap.Pop(&l.queue).(*Timer)
}

// RunDue runs every timer whose deadline has passed and returns how many ran.
func (l *Loop) RunDue() int {
	n := 0
	for {
		t := l.popDue(l.clock.Now())
		if t == nil {
			return n
		}
		t.fn()
		n++
	}
}

func (l *Loop) nextWait() (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return 0, false
	}
	return l.queue[0].when.Sub(l.clock.Now()), true
}

// Run drives the loop until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		l.RunDue()

		wait, ok := l.nextWait()
		if !ok {
			wait = time.Hour
		}
		if wait < 0 {
			wait = 0
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		case <-timer.C:
		}
	}
}

// Do runs fn on the loop and waits for it to return. It must not be called
// from a loop callback.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	t := l.Post(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.Stop()
		return ctx.Err()
	}
}

// Advance moves a ManualClock forward by d, running every timer that falls
// due on the way with the clock set to that timer's deadline.
func (l *Loop) Advance(d time.Duration) int {
	mc, ok := l.clock.(*ManualClock)
	if !ok {
		panic("eventloop: Advance requires a ManualClock")
	}
	target := mc.Now().Add(d)
	n := 0
	for {
		t := l.popDue(target)
		if t == nil {
			break
		}
		if t.when.After(mc.Now()) {
			mc.Set(t.when)
		}
		t.fn()
		n++
	}
	mc.Set(target)
	return n
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
