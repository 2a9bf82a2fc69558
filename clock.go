package inochi2d

import (
	"sync"
	"time"
)

// TimingFunc reports monotonic time in seconds. The native library calls
// it during updates to drive animation.
type TimingFunc func() float64

// MonotonicClock returns a TimingFunc that reports the seconds elapsed
// since its own first call. The first call returns 0.
func MonotonicClock() TimingFunc {
	var (
		once  sync.Once
		start time.Time
	)
	return func() float64 {
		first := false
		once.Do(func() {
			start = time.Now()
			first = true
		})
		if first {
			return 0
		}
		return time.Since(start).Seconds()
	}
}
