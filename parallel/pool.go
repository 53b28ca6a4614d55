// Package parallel provides the worker pool that drives data-parallel
// fan-out over pixel collections during decode and rasterization.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

type Pool struct {
	wg      sync.WaitGroup
	workers int
	Do      WorkerFunc
	Wait    WaitFunc
	Cancel  CancelFunc
}

// Start launches a pool of numWorkers goroutines. If numWorkers is
// less than 1 the pool sizes itself to GOMAXPROCS. A single-worker
// pool degenerates to running work inline on the submitting goroutine.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for {
					f, ok := <-workChan
					if !ok {
						return
					}
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Workers reports the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Band is a half-open index range [Lo, Hi) owned by one worker.
type Band struct {
	Lo, Hi int
}

// Bands splits n items into at most Workers() contiguous ranges of
// near-equal size. Fewer bands are returned when n is small; n <= 0
// yields none.
func (p *Pool) Bands(n int) []Band {
	if n <= 0 {
		return nil
	}

	count := min(p.workers, n)
	bands := make([]Band, 0, count)
	step := n / count
	rem := n % count

	lo := 0
	for i := range count {
		hi := lo + step
		if i < rem {
			hi++
		}
		bands = append(bands, Band{Lo: lo, Hi: hi})
		lo = hi
	}

	return bands
}

// ForEachBand dispatches f once per band over n items and blocks until
// every band has finished. The pool stays usable afterwards, so
// callers may run several banded phases back to back.
func (p *Pool) ForEachBand(n int, f func(Band)) {
	bands := p.Bands(n)
	if len(bands) <= 1 {
		for _, band := range bands {
			f(band)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(bands))
	for _, band := range bands {
		p.Do(func() {
			defer wg.Done()
			f(band)
		})
	}
	wg.Wait()
}
