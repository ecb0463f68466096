package utils

import (
	"math/rand"
	"time"
)

// Pause blocks the caller for d. Scrapers hold one so tests can skip real waits.
type Pause func(d time.Duration)

// Sleep is the production Pause.
var Sleep Pause = time.Sleep

// Jitter returns a uniformly random duration in [min, max].
func Jitter(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)+1))
}

// Random pauses for a jittered duration and returns how long it waited.
func (p Pause) Random(min, max time.Duration) time.Duration {
	d := Jitter(min, max)
	p.For(d)
	return d
}

// For pauses for exactly d. A nil Pause does not wait.
func (p Pause) For(d time.Duration) {
	if p == nil || d <= 0 {
		return
	}
	p(d)
}
