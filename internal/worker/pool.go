// Package worker provides the bounded-concurrency machinery for
// classification runs: a small job pool and a rate limiter for remote calls.
package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	// Position is the job's ordinal in the submitting sequence, so callers
	// can restore input order regardless of completion order.
	Position() int
}

// Pool runs jobs on a fixed number of workers. It is bound to the caller's
// context: cancelling the context abandons queued and in-flight jobs.
//
// Results are drained into a collector as they arrive, so callers may submit
// any number of jobs before calling Wait without blocking on channel buffers.
type Pool struct {
	workers   int
	jobQueue  chan Job
	results   chan Result
	collector *resultCollector
	drained   chan struct{}
	wg        sync.WaitGroup
	ctx       context.Context
	closeOnce sync.Once
}

// NewPool creates a pool with the specified number of workers, tied to ctx
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:   workers,
		jobQueue:  make(chan Job, workers*2),
		results:   make(chan Result, workers*2),
		collector: newResultCollector(),
		drained:   make(chan struct{}),
		ctx:       ctx,
	}
}

// Start starts the workers and the result drain
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	go p.drain()
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// drain collects results as workers produce them, keeping the results
// channel from backing up while the caller is still submitting.
func (p *Pool) drain() {
	defer close(p.drained)
	for result := range p.results {
		p.collector.Add(result)
	}
}

// Submit queues a job for execution. Submissions after cancellation are
// dropped.
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Wait closes the queue, waits for the workers and the drain, and returns
// the collected results. On cancellation the returned slice is partial;
// callers must check the context before using it.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)
	p.wg.Wait()
	p.closeResults()
	<-p.drained

	return p.collector.Results()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// resultCollector accumulates results as they arrive (thread-safe).
type resultCollector struct {
	mu      sync.Mutex
	results []Result
}

func newResultCollector() *resultCollector {
	return &resultCollector{results: make([]Result, 0)}
}

// Add appends a result to the collector
func (c *resultCollector) Add(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

// Results returns all collected results
func (c *resultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results
}
