package processor

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Scheduler runs event tasks.
type Scheduler interface {
	// Schedule runs task, possibly asynchronously. It may block until
	// capacity is available and fails only when ctx is done first.
	Schedule(ctx context.Context, task func()) error

	// Wait blocks until every scheduled task has returned or ctx is done.
	Wait(ctx context.Context) error
}

// NewScheduler returns a scheduler running each task in its own goroutine.
// workers > 0 bounds the number of tasks running at once.
func NewScheduler(workers int) Scheduler {
	s := &goroutineScheduler{}
	if workers > 0 {
		s.sem = semaphore.NewWeighted(int64(workers))
	}
	return s
}

type goroutineScheduler struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

func (s *goroutineScheduler) Schedule(ctx context.Context, task func()) error {
	if s.sem != nil {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			return err
		}
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if s.sem != nil {
			defer s.sem.Release(1)
		}
		task()
	}()
	return nil
}

func (s *goroutineScheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline returns a scheduler that runs tasks on the calling goroutine.
func Inline() Scheduler {
	return inlineScheduler{}
}

type inlineScheduler struct{}

func (inlineScheduler) Schedule(_ context.Context, task func()) error {
	task()
	return nil
}

func (inlineScheduler) Wait(context.Context) error {
	return nil
}
