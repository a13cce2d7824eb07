package http

import (
	"log/slog"
	"sync"
)

// Job is one unit of connection-handling work.
type Job func()

// WorkerPool runs jobs on a fixed set of persistent workers fed by one
// shared queue. Each job is delivered to exactly one worker; there is no
// ordering guarantee across jobs.
type WorkerPool struct {
	jobs     chan Job
	wg       sync.WaitGroup
	logger   *slog.Logger
	stopOnce sync.Once
}

// NewWorkerPool starts size workers. The pool size is fixed for its lifetime.
func NewWorkerPool(size int, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}

	pool := &WorkerPool{
		jobs:   make(chan Job, JobQueueSize),
		logger: logger,
	}

	pool.wg.Add(size)
	for i := 0; i < size; i++ {
		go pool.work(i)
	}

	return pool
}

// Execute enqueues one job for eventual execution by exactly one worker.
// It must not be called after Stop.
func (pool *WorkerPool) Execute(job Job) {
	pool.jobs <- job
}

// Stop closes the queue, lets the workers drain it and waits for them to exit.
func (pool *WorkerPool) Stop() {
	pool.stopOnce.Do(func() {
		close(pool.jobs)
	})
	pool.wg.Wait()
}

func (pool *WorkerPool) work(id int) {
	defer pool.wg.Done()

	for job := range pool.jobs {
		pool.run(id, job)
	}
}

// run executes one job; a panic is contained so the worker survives.
func (pool *WorkerPool) run(id int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			pool.logger.Error("worker recovered from job panic", "worker", id, "panic", r)
		}
	}()

	job()
}
