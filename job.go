package qverify

import (
	"context"
	"time"
)

// Job is one unit of work handed to the pool.
type Job struct {
	ID        string
	Fn        func(ctx context.Context) (any, error)
	StartTime time.Time
	result    chan Result
}

// Result carries a job's return value or error back to the scheduler.
type Result struct {
	ID        string
	Value     any
	Error     error
	CreatedAt time.Time
}
