package client

import (
	"sync"
	"time"
)

// Progress advances a phase index on a ticker until stopped.
type Progress struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartProgress calls onAdvance with phases 1..n-1, one per interval, and
// then idles at the last phase. onAdvance is never called after Stop returns.
func StartProgress(interval time.Duration, n int, onAdvance func(phase int)) *Progress {
	p := &Progress{stop: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(p.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		phase := 0
		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				if phase >= n-1 {
					continue
				}
				phase++
				onAdvance(phase)
			}
		}
	}()
	return p
}

// Stop halts the ticker and waits for its goroutine. Safe to call more than once.
func (p *Progress) Stop() {
	p.once.Do(func() { close(p.stop) })
	<-p.done
}
