package scheduler

import (
	"time"

	"github.com/yildizm/pagekit/internal/common"
)

type virtualTimer struct {
	key    string
	due    time.Duration
	period time.Duration
	seq    uint64
}

// Virtual is a deterministic scheduler driven by explicit Advance calls
type Virtual struct {
	now    time.Duration
	seq    uint64
	timers map[string]*virtualTimer
}

// NewVirtual creates a virtual clock at zero
func NewVirtual() *Virtual {
	return &Virtual{timers: make(map[string]*virtualTimer)}
}

// Now returns the elapsed virtual time
func (v *Virtual) Now() time.Duration {
	return v.now
}

func (v *Virtual) After(key string, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	v.arm(key, v.now+delay, 0)
}

func (v *Virtual) Every(key string, period time.Duration) {
	if period <= 0 {
		v.Cancel(key)
		return
	}
	v.arm(key, v.now+period, period)
}

func (v *Virtual) Cancel(key string) bool {
	_, ok := v.timers[key]
	delete(v.timers, key)
	return ok
}

func (v *Virtual) Pending(key string) bool {
	_, ok := v.timers[key]
	return ok
}

// Next returns the due time of the earliest pending timer
func (v *Virtual) Next() (time.Duration, bool) {
	t := v.earliest(-1)
	if t == nil {
		return 0, false
	}
	return t.due, true
}

// Advance moves the clock forward by d, firing due timers one at a time in due
// order (ties in scheduling order). fire may schedule or cancel timers; new
// timers falling inside the window fire in the same call.
func (v *Virtual) Advance(d time.Duration, fire func(common.Event)) {
	if d < 0 {
		d = 0
	}
	limit := v.now + d

	for {
		t := v.earliest(limit)
		if t == nil {
			break
		}

		v.now = t.due
		if t.period > 0 {
			v.seq++
			t.due += t.period
			t.seq = v.seq
		} else {
			delete(v.timers, t.key)
		}

		if fire != nil {
			fire(common.TimerFired(t.key))
		}
	}

	v.now = limit
}

func (v *Virtual) arm(key string, due, period time.Duration) {
	v.seq++
	v.timers[key] = &virtualTimer{key: key, due: due, period: period, seq: v.seq}
}

// earliest returns the next timer due at or before limit; a negative limit means unbounded
func (v *Virtual) earliest(limit time.Duration) *virtualTimer {
	var best *virtualTimer
	for _, t := range v.timers {
		if limit >= 0 && t.due > limit {
			continue
		}
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}
