package qverify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Pool runs independent experiment jobs on a fixed set of worker goroutines.
The engine values it passes around are immutable and every job builds its
own random source, so jobs share nothing but the queue.
*/
type Pool struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	jobs      chan Job
	workers   []*Worker
	metrics   *Metrics
	config    *Config
	closeOnce sync.Once

	mu     sync.Mutex
	closed bool
}

// NewPool starts config.Workers workers that live until ctx ends or Close is called.
func NewPool(ctx context.Context, config *Config) *Pool {
	config = config.orDefault()
	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan Job, config.Workers*10),
		metrics: newMetrics(),
		config:  config,
	}

	for i := 0; i < config.Workers; i++ {
		p.startWorker(i)
	}

	errnie.Info("pool started with %d workers", config.Workers)
	return p
}

func (p *Pool) startWorker(id int) {
	worker := &Worker{id: id, pool: p}
	p.workers = append(p.workers, worker)

	p.metrics.mu.Lock()
	p.metrics.WorkerCount++
	p.metrics.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		worker.run()
	}()
}

/*
Schedule queues fn and returns a channel that receives exactly one Result.
If the queue stays full past the scheduling timeout, or the pool is closing,
the Result carries the error instead.
*/
func (p *Pool) Schedule(id string, fn func(ctx context.Context) (any, error)) chan Result {
	ch := make(chan Result, 1)

	if err := p.ctx.Err(); err != nil {
		return p.reject(ch, id, fmt.Errorf("pool closed: %w", err))
	}

	ctx, cancel := context.WithTimeout(p.ctx, p.config.SchedulingTimeout)
	defer cancel()

	job := Job{
		ID:        id,
		Fn:        fn,
		StartTime: time.Now(),
		result:    ch,
	}

	select {
	case p.jobs <- job:
		// Close may have drained the queue between the check above and the send.
		p.mu.Lock()
		if p.closed {
			p.drain()
		}
		p.mu.Unlock()
		return ch
	case <-ctx.Done():
		return p.reject(ch, id, fmt.Errorf("job scheduling timeout: %w", ctx.Err()))
	}
}

func (p *Pool) reject(ch chan Result, id string, err error) chan Result {
	p.metrics.mu.Lock()
	p.metrics.SchedulingFailures++
	p.metrics.mu.Unlock()

	ch <- Result{ID: id, Error: err, CreatedAt: time.Now()}
	close(ch)
	return ch
}

func (p *Pool) Metrics() *Metrics { return p.metrics }

// Close stops the workers and fails any job still waiting in the queue.
func (p *Pool) Close() {
	if p == nil {
		return
	}

	p.closeOnce.Do(func() {
		p.cancel()
		p.wg.Wait()

		p.mu.Lock()
		p.closed = true
		p.drain()
		p.mu.Unlock()

		errnie.Info("pool closed")
	})
}

// drain fails every job left in the queue. Callers hold p.mu.
func (p *Pool) drain() {
	for {
		select {
		case job := <-p.jobs:
			job.result <- Result{ID: job.ID, Error: fmt.Errorf("pool closed before job ran: %w", context.Canceled), CreatedAt: time.Now()}
			close(job.result)
		default:
			return
		}
	}
}
