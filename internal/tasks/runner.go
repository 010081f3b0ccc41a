package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of work.
type Task struct {
	Title string
	Run   func(ctx context.Context) error
}

// TaskError records which task failed.
type TaskError struct {
	Title string
	Err   error
}

func (e *TaskError) Error() string { return e.Title + ": " + e.Err.Error() }

func (e *TaskError) Unwrap() error { return e.Err }

// Runner executes task lists and reports per-task progress to Out.
type Runner struct {
	Out         io.Writer
	Concurrency int

	mu sync.Mutex
}

// NewRunner returns a Runner writing progress to out. A concurrency below 1
// runs tasks one at a time.
func NewRunner(out io.Writer, concurrency int) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{Out: out, Concurrency: concurrency}
}

// Phase prints a header and runs tasks under it.
func (r *Runner) Phase(ctx context.Context, title string, tasks []Task) error {
	r.printf("%s\n", title)
	return r.Run(ctx, tasks)
}

// Run executes tasks with at most r.Concurrency in flight and waits for all
// of them. Tasks not yet started when ctx is canceled are skipped and
// reported with the context error. The returned error joins every
// *TaskError in task order, or is nil when all tasks succeeded.
func (r *Runner) Run(ctx context.Context, tasks []Task) error {
	limit := r.Concurrency
	if limit < 1 {
		limit = 1
	}

	errs := make([]error, len(tasks))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, task := range tasks {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = task.Run(ctx)
			}
			if err != nil {
				errs[i] = &TaskError{Title: task.Title, Err: err}
				r.printf("  \u2717 %s: %v\n", task.Title, err)
				return nil
			}
			r.printf("  \u2713 %s\n", task.Title)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (r *Runner) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.Out, format, args...)
}
