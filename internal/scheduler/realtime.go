package scheduler

import (
	"sync"
	"time"

	"github.com/yildizm/pagekit/internal/common"
	"go.uber.org/atomic"
)

type realTimer struct {
	timer *time.Timer
	gen   uint64
}

// Fire is one wall-clock expiry of a keyed timer, tagged with the generation
// that armed it
type Fire struct {
	Key string
	Gen uint64
}

// Realtime fires timers on the wall clock and delivers them on Events.
// A fire may still be in flight when its key is re-armed or cancelled, so the
// consumer passes every Fire through Accept on the goroutine that drives the
// session; stale generations are rejected there.
type Realtime struct {
	mu     sync.Mutex
	timers map[string]*realTimer
	armed  map[string]uint64
	gen    atomic.Uint64
	closed atomic.Bool
	events chan Fire
	done   chan struct{}
}

// NewRealtime creates a wall-clock scheduler with an event buffer of size buffer
func NewRealtime(buffer int) *Realtime {
	if buffer < 1 {
		buffer = 1
	}
	return &Realtime{
		timers: make(map[string]*realTimer),
		armed:  make(map[string]uint64),
		events: make(chan Fire, buffer),
		done:   make(chan struct{}),
	}
}

// Events delivers fired timers
func (r *Realtime) Events() <-chan Fire {
	return r.events
}

// Accept returns the timer event for f unless its key has since been
// re-armed or cancelled, or the scheduler is closed
func (r *Realtime) Accept(f Fire) (common.Event, bool) {
	if r.closed.Load() {
		return common.Event{}, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen, ok := r.armed[f.Key]; !ok || gen != f.Gen {
		return common.Event{}, false
	}
	return common.TimerFired(f.Key), true
}

func (r *Realtime) After(key string, delay time.Duration) {
	r.arm(key, delay, 0)
}

func (r *Realtime) Every(key string, period time.Duration) {
	if period <= 0 {
		r.Cancel(key)
		return
	}
	r.arm(key, period, period)
}

func (r *Realtime) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.armed, key)
	rt, ok := r.timers[key]
	if !ok {
		return false
	}
	rt.timer.Stop()
	delete(r.timers, key)
	return true
}

func (r *Realtime) Pending(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.timers[key]
	return ok
}

// Close stops all timers and releases any blocked delivery
func (r *Realtime) Close() {
	if r.closed.Swap(true) {
		return
	}

	r.mu.Lock()
	for key, rt := range r.timers {
		rt.timer.Stop()
		delete(r.timers, key)
	}
	r.armed = make(map[string]uint64)
	r.mu.Unlock()

	close(r.done)
}

func (r *Realtime) arm(key string, delay, period time.Duration) {
	if r.closed.Load() {
		return
	}
	if delay < 0 {
		delay = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.timers[key]; ok {
		old.timer.Stop()
	}

	gen := r.gen.Inc()
	rt := &realTimer{gen: gen}
	rt.timer = time.AfterFunc(delay, func() { r.fire(key, gen, period) })
	r.timers[key] = rt
	r.armed[key] = gen
}

func (r *Realtime) fire(key string, gen uint64, period time.Duration) {
	r.mu.Lock()
	rt, ok := r.timers[key]
	if !ok || rt.gen != gen {
		r.mu.Unlock()
		return
	}
	if period > 0 {
		rt.timer = time.AfterFunc(period, func() { r.fire(key, gen, period) })
	} else {
		delete(r.timers, key)
	}
	r.mu.Unlock()

	select {
	case r.events <- Fire{Key: key, Gen: gen}:
	case <-r.done:
	}
}
