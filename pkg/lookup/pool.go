package lookup

import (
	"context"
	"errors"
	"sync"
)

// job is a unit of work run by a workerPool.
type job func(ctx context.Context)

// ErrPoolClosed is returned by submit after close.
var ErrPoolClosed = errors.New("lookup: worker pool closed")

// workerPool runs jobs on a fixed number of goroutines. Lookups spend their
// time waiting on the network, so the pool bounds how many queries are in
// flight at once rather than CPU use.
type workerPool struct {
	jobs    chan job
	wg      sync.WaitGroup
	workers int

	closeMu sync.RWMutex
	closed  bool
	done    chan struct{}
	once    sync.Once
}

func newWorkerPool(workers, queue int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	if queue <= 0 {
		queue = workers * 2
	}
	return &workerPool{
		jobs:    make(chan job, queue),
		workers: workers,
		done:    make(chan struct{}),
	}
}

// start launches the workers. They exit when ctx is done or the pool is
// closed and drained.
func (p *workerPool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					j(ctx)
				}
			}
		}()
	}
}

// submit enqueues j, blocking while the queue is full. It gives up when ctx
// is done or the pool is closed.
func (p *workerPool) submit(ctx context.Context, j job) error {
	p.closeMu.RLock()
	defer p.closeMu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
		return ErrPoolClosed
	}
}

// close stops accepting jobs and waits for the workers to finish.
func (p *workerPool) close() {
	// Unblock submitters waiting on a full queue before taking the write lock.
	p.signalDone()

	p.closeMu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.closeMu.Unlock()
	p.wg.Wait()
}

func (p *workerPool) signalDone() {
	p.once.Do(func() { close(p.done) })
}
