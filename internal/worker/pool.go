package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// indexed pairs a job with its submission slot so results can be reordered
type indexed struct {
	index int
	job   Job
}

type indexedResult struct {
	index  int
	result Result
}

// Pool runs jobs on a fixed number of goroutines.
// Results come back in submission order regardless of completion order.
type Pool struct {
	workers    int
	jobQueue   chan indexed
	results    chan indexedResult
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	closeOnce  sync.Once
	queueOnce  sync.Once
	collected  chan struct{} // Closed once every result has been stored

	// sendMu keeps Wait from closing the queue under an in-flight Submit
	sendMu sync.RWMutex

	mu        sync.Mutex
	submitted int
	closed    bool
	byIndex   map[int]Result
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops the workers.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	p := &Pool{
		workers:    workers,
		jobQueue:   make(chan indexed, workers*2),
		results:    make(chan indexedResult, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
		collected:  make(chan struct{}),
		byIndex:    make(map[int]Result),
	}
	go p.collect()
	return p
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case item, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := item.job.Execute(p.ctx)
			select {
			case p.results <- indexedResult{index: item.index, result: result}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// collect drains results as they arrive so workers never stall on a full buffer
func (p *Pool) collect() {
	defer close(p.collected)
	for r := range p.results {
		p.mu.Lock()
		p.byIndex[r.index] = r.result
		p.mu.Unlock()
	}
}

// Submit queues a job. It returns false once the pool is shut down,
// cancelled or waited on.
func (p *Pool) Submit(job Job) bool {
	p.sendMu.RLock()
	defer p.sendMu.RUnlock()

	p.mu.Lock()
	if p.closed || p.ctx.Err() != nil {
		p.mu.Unlock()
		return false
	}
	idx := p.submitted
	p.submitted++
	p.mu.Unlock()

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- indexed{index: idx, job: job}:
		return true
	}
}

// Wait closes the queue, blocks until every worker exits and returns the
// results. Slots of jobs that never ran (cancelled pool) are nil.
func (p *Pool) Wait() []Result {
	p.markClosed()
	p.sendMu.Lock()
	p.queueOnce.Do(func() { close(p.jobQueue) })
	p.sendMu.Unlock()

	p.wg.Wait()
	p.closeResults()
	<-p.collected

	p.mu.Lock()
	defer p.mu.Unlock()
	ordered := make([]Result, p.submitted)
	for i, r := range p.byIndex {
		ordered[i] = r
	}
	return ordered
}

// Shutdown cancels in-flight work and waits for the workers
func (p *Pool) Shutdown() {
	p.markClosed()
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) markClosed() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}

// Run executes jobs with the given concurrency and returns one slot per job,
// in input order. Jobs not started before ctx ends leave a nil slot.
func Run(ctx context.Context, workers int, jobs []Job) []Result {
	if len(jobs) == 0 {
		return []Result{}
	}

	pool := NewPool(ctx, workers)
	defer pool.Shutdown()
	pool.Start()

	for _, job := range jobs {
		if !pool.Submit(job) {
			break
		}
	}

	ordered := make([]Result, len(jobs))
	copy(ordered, pool.Wait())
	return ordered
}
