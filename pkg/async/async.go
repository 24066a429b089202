package async

import (
	"context"
	"sync"
	"time"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await waits for the asynchronous function to complete and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitWithTimeout waits for the asynchronous function to complete with a timeout.
// If the timeout occurs before completion, returns ErrTimeout.
func (f *Future[U]) AwaitWithTimeout(timeout time.Duration) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-time.After(timeout):
		var zero U
		return zero, ErrTimeout
	}
}

// IsComplete checks if the asynchronous function is complete without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async executes a function asynchronously and returns a Future.
// The function accepts a context.Context and a parameter of any type T, and returns (U, error).
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)

		// Early exit prevents goroutine leak when context is pre-canceled
		select {
		case <-ctx.Done():
			var zero U
			f.err = ctx.Err()
			f.result = zero
			return
		default:
		}

		res, err := fn(ctx, param)

		f.once.Do(func() {
			f.result = res
			f.err = err
		})
	}()

	return f
}

// WaitAll waits for all futures to complete and returns a slice of their
// results and an error if any of the futures returned an error.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
