package widget

import "time"

// Clock schedules the controller's timers.
type Clock interface {
	// AfterFunc calls f once after d. stop cancels a pending call.
	AfterFunc(d time.Duration, f func()) (stop func() bool)
	// Tick delivers a value every d until stop is called.
	Tick(d time.Duration) (c <-chan time.Time, stop func())
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

func (SystemClock) Tick(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
