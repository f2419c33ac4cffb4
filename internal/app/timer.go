package app

import (
	"sync"
	"time"
)

// TickerFunc calls fn every interval until the returned stop function is called.
// stop must be safe to call more than once and must not wait for fn.
type TickerFunc func(interval time.Duration, fn func()) (stop func())

// RealTicker drives fn from a time.Ticker on its own goroutine.
func RealTicker(interval time.Duration, fn func()) func() {
	t := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer t.Stop()
		for {
			select {
			case <-t.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
