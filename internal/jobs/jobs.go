// Package jobs runs long operations off the calling goroutine and reports
// completion or failure through a waitable handle. It replaces any
// UI-framework task coupling: retraining, forecasting and clustering all
// run through it.
package jobs

import (
	"context"
	"fmt"
)

// Job is a handle to an in-flight computation producing a T.
type Job[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn on its own goroutine and returns a handle to its eventual
// result. A panic inside fn is captured as an error rather than crashing
// the process.
func Go[T any](fn func() (T, error)) *Job[T] {
	j := &Job[T]{done: make(chan struct{})}
	go func() {
		defer close(j.done)
		defer func() {
			if r := recover(); r != nil {
				j.err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		j.value, j.err = fn()
	}()
	return j
}

// Done returns a channel closed when the job finishes.
func (j *Job[T]) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or the context is canceled. A
// canceled wait abandons the result; the job itself runs to completion.
func (j *Job[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-j.done:
		return j.value, j.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
