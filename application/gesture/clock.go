package gesture

import "time"

// Clock abstracts time so the machine's hover-lock, lock-confirmation and
// long-press timers can be driven by a scripted clock in tests and replays.
// All waits are cancellable timers; nothing blocks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable pending callback
type Timer interface {
	// Stop cancels the timer. It reports whether the call prevented the
	// callback from firing; a false return means the callback already ran
	// or was stopped before.
	Stop() bool
}

// SystemClock returns the wall clock
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
