package pool

import (
	"sync"
	"sync/atomic"
)

// Pool runs submitted jobs on n goroutines. Submit blocks while the queue
// is full and drops jobs after Close.
type Pool struct {
	jobs    chan func()
	wg      sync.WaitGroup
	closed  atomic.Bool
	closeMu sync.RWMutex
}

func New(n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{
		jobs: make(chan func(), n*2),
	}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for f := range p.jobs {
				if f != nil {
					f()
				}
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f func()) bool {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed.Load() {
		return false
	}
	p.jobs <- f
	return true
}

// Close stops accepting jobs; queued jobs still run.
func (p *Pool) Close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	if p.closed.Swap(true) {
		return
	}
	close(p.jobs)
}

func (p *Pool) Wait() {
	p.wg.Wait()
}
