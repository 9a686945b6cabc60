// Package reactive provides the single-value and multi-value asynchronous
// result wrappers handlers may return. The dispatcher passes these through
// unchanged and adapts channel results into the single-value shape.
package reactive

import (
	"context"
	"reflect"
)

// Result is the marker interface for asynchronous result wrappers. Both
// Single and Stream implement it.
type Result interface {
	isAsyncResult()
}

// IsResult reports whether v is already in an asynchronous result shape.
func IsResult(v any) bool {
	_, ok := v.(Result)
	return ok
}

// AdaptChannel adapts a receive-capable channel into a Single completing
// with the channel's first value. A closed channel completes with nil.
// Returns false when v is not a channel.
func AdaptChannel(v any) (*Single, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Chan || rv.Type().ChanDir() == reflect.SendDir {
		return nil, false
	}

	return FromFunc(func() (any, error) {
		value, ok := rv.Recv()
		if !ok {
			return nil, nil
		}
		return value.Interface(), nil
	}), true
}

// Single is a single-value asynchronous result.
type Single struct {
	done  chan struct{}
	value any
	err   error
}

// Of returns a Single already completed with the given value.
func Of(value any) *Single {
	s := &Single{done: make(chan struct{}), value: value}
	close(s.done)
	return s
}

// Empty returns a Single already completed with no value.
func Empty() *Single {
	return Of(nil)
}

// Fail returns a Single already completed with an error.
func Fail(err error) *Single {
	s := &Single{done: make(chan struct{}), err: err}
	close(s.done)
	return s
}

// FromFunc runs fn on its own goroutine and returns a Single that
// completes with its outcome.
func FromFunc(fn func() (any, error)) *Single {
	s := &Single{done: make(chan struct{})}
	go func() {
		s.value, s.err = fn()
		close(s.done)
	}()
	return s
}

// Get blocks until the value is available or the context is done.
func (s *Single) Get(ctx context.Context) (any, error) {
	select {
	case <-s.done:
		return s.value, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe invokes onNext with the value, or onError with the failure,
// once the result completes. Callbacks run on a separate goroutine; a nil
// callback is skipped.
func (s *Single) Subscribe(onNext func(any), onError func(error)) {
	go func() {
		<-s.done
		if s.err != nil {
			if onError != nil {
				onError(s.err)
			}
			return
		}
		if onNext != nil {
			onNext(s.value)
		}
	}()
}

// Map returns a Single completing with fn applied to this result's value.
// Errors propagate unchanged.
func (s *Single) Map(fn func(any) any) *Single {
	return FromFunc(func() (any, error) {
		<-s.done
		if s.err != nil {
			return nil, s.err
		}
		return fn(s.value), nil
	})
}

func (s *Single) isAsyncResult() {}

// Stream is a multi-value asynchronous result backed by a channel.
type Stream struct {
	ch <-chan any
}

// StreamOf returns a Stream that emits the given values and completes.
func StreamOf(values ...any) *Stream {
	ch := make(chan any, len(values))
	for _, v := range values {
		ch <- v
	}
	close(ch)
	return &Stream{ch: ch}
}

// FromChannel wraps an existing channel as a Stream. The stream completes
// when the channel is closed.
func FromChannel(ch <-chan any) *Stream {
	return &Stream{ch: ch}
}

// Subscribe invokes onNext for each emitted value on a separate goroutine.
func (st *Stream) Subscribe(onNext func(any)) {
	go func() {
		for v := range st.ch {
			if onNext != nil {
				onNext(v)
			}
		}
	}()
}

// Collect drains the stream into a slice, respecting context cancellation.
func (st *Stream) Collect(ctx context.Context) ([]any, error) {
	var out []any
	for {
		select {
		case v, ok := <-st.ch:
			if !ok {
				return out, nil
			}
			out = append(out, v)
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
}

// Map returns a Stream emitting fn applied to each value.
func (st *Stream) Map(fn func(any) any) *Stream {
	ch := make(chan any)
	go func() {
		defer close(ch)
		for v := range st.ch {
			ch <- fn(v)
		}
	}()
	return &Stream{ch: ch}
}

func (st *Stream) isAsyncResult() {}
