package qverify

import (
	"fmt"
	"time"

	"github.com/theapemachine/errnie"
)

// Worker processes jobs
type Worker struct {
	id   int
	pool *Pool
}

func (w *Worker) run() {
	for {
		select {
		case <-w.pool.ctx.Done():
			return
		case job := <-w.pool.jobs:
			w.processJob(job)
		}
	}
}

func (w *Worker) processJob(job Job) {
	value, err := w.execute(job)
	w.pool.metrics.recordJobExecution(job.StartTime, err == nil)

	if err != nil {
		errnie.Info("worker %d: job %s failed: %v", w.id, job.ID, err)
	}

	job.result <- Result{
		ID:        job.ID,
		Value:     value,
		Error:     err,
		CreatedAt: time.Now(),
	}
	close(job.result)
}

// execute converts a panic inside the job into an error.
func (w *Worker) execute(job Job) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, err = nil, fmt.Errorf("job %s panicked: %v", job.ID, r)
		}
	}()
	return job.Fn(w.pool.ctx)
}
