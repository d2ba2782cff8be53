package channel

import (
	"reflect"
	"time"
)

// Stats holds the counters of one synchronization run.
type Stats struct {
	RunID             string    `json:"run_id"`
	ItemsProcessed    int       `json:"items_processed"`
	ItemsSynchronized int       `json:"items_synchronized"`
	ItemsFailed       int       `json:"items_failed"`
	Started           time.Time `json:"started"`
	Finished          time.Time `json:"finished"`
}

// Duration returns how long the run took, or zero while it is running.
func (s Stats) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// Started is published once a run has loaded and matched its items.
type Started struct {
	Channel string
	RunID   string
	Type1   reflect.Type
	Type2   reflect.Type
}

// Finished is published when a run drained its pipeline without an unhandled fault.
type Finished struct {
	Channel string
	Type1   reflect.Type
	Type2   reflect.Type
	Stats   Stats
}

// ErrorEvent is published when a run aborts. Observers call MarkHandled to
// stop the error from being returned by Synchronize.
type ErrorEvent struct {
	Channel string
	RunID   string
	Err     error
	handled bool
}

// MarkHandled marks the error as resolved.
func (e *ErrorEvent) MarkHandled() { e.handled = true }

// Handled reports whether any observer marked the error as resolved.
func (e *ErrorEvent) Handled() bool { return e.handled }
