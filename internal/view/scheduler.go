package view

import (
	"sync"
	"time"
)

// DefaultRefreshInterval is how often a task card updates its "Created" label.
const DefaultRefreshInterval = 60 * time.Second

// Timer is a cancellable repeating callback.
type Timer interface {
	Stop()
}

// Scheduler starts repeating callbacks.
type Scheduler interface {
	Every(interval time.Duration, fn func()) Timer
}

// TickerScheduler runs callbacks on a goroutine per timer. When Lock is set
// every callback runs while holding it, so callbacks see the same state as
// event handlers guarded by that lock.
type TickerScheduler struct {
	Lock sync.Locker
}

// NewTickerScheduler creates a scheduler whose callbacks hold lock. lock may be nil.
func NewTickerScheduler(lock sync.Locker) *TickerScheduler {
	return &TickerScheduler{Lock: lock}
}

// Every starts a ticker that calls fn every interval until stopped.
func (s *TickerScheduler) Every(interval time.Duration, fn func()) Timer {
	t := &tickerTimer{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-t.ticker.C:
				if s.Lock != nil {
					s.Lock.Lock()
				}
				fn()
				if s.Lock != nil {
					s.Lock.Unlock()
				}
			}
		}
	}()
	return t
}

type tickerTimer struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *tickerTimer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
	})
}

// ManualScheduler fires callbacks only when Advance is called. The TUI and
// tests drive it.
type ManualScheduler struct {
	mu      sync.Mutex
	elapsed time.Duration
	timers  []*manualTimer
}

// NewManualScheduler creates a scheduler at elapsed time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

type manualTimer struct {
	s        *ManualScheduler
	interval time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
}

func (t *manualTimer) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

// Every registers fn to run each time another interval has elapsed.
func (s *ManualScheduler) Every(interval time.Duration, fn func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	t := &manualTimer{s: s, interval: interval, next: s.elapsed + interval, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves time forward by d and runs every callback that came due,
// in registration order. It returns how many callbacks ran.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.elapsed += d
	var due []*manualTimer
	active := s.timers[:0]
	for _, t := range s.timers {
		if t.stopped {
			continue
		}
		active = append(active, t)
		for t.next <= s.elapsed {
			due = append(due, t)
			t.next += t.interval
		}
	}
	s.timers = active
	s.mu.Unlock()

	ran := 0
	for _, t := range due {
		if t.isStopped() {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

func (t *manualTimer) isStopped() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.stopped
}

// Active returns the number of timers not yet stopped.
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
