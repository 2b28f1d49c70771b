// Package scheduler provides keyed, cancelable delayed actions. A fired timer
// is delivered as a common.EventTimer event carrying its key, so the session
// handles it through the same entry point as user input.
//
// Keys are exclusive: scheduling a key that is already pending replaces it.
package scheduler

import (
	"time"
)

// Scheduler arms and cancels keyed timers
type Scheduler interface {
	// After fires key once after delay
	After(key string, delay time.Duration)

	// Every fires key every period until cancelled. A non-positive period cancels key.
	Every(key string, period time.Duration)

	// Cancel stops key and reports whether it was pending
	Cancel(key string) bool

	// Pending reports whether key is armed
	Pending(key string) bool
}
