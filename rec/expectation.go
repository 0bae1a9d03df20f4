package rec

import "github.com/tgrayson/pubrec/pub"

// Expectation is an immutable descriptor of a condition to wait for and a
// value to compute once it holds. Expectations carry no mutable state;
// resolving one reads the recorder, so the same descriptor can be resolved
// repeatedly. Consume with [Get], [Wait] or [MustWait].
type Expectation[V any] struct {
	arm     func(sig *signal)
	resolve func() (V, error)
	// required trigger count for the arming signal
	count  int
	invert bool
}

// Inverted flips the polarity of the expectation: a [Wait] on the result
// succeeds only if the arming condition is NOT satisfied before the timeout.
// Inverting twice restores the original polarity.
//
// Inversion is meaningful for expectations armed on observable progress:
// Finished, First and Prefix. Inverting a consuming or mapping expectation
// is allowed but rarely what a test wants.
func (e Expectation[V]) Inverted() Expectation[V] {
	e.invert = !e.invert
	return e
}

// Map derives an expectation that applies f to the resolved value of e. The
// transform runs only if e resolves without error, and may itself fail.
func Map[V, U any](e Expectation[V], f func(V) (U, error)) Expectation[U] {
	return Expectation[U]{
		arm:    e.arm,
		count:  e.count,
		invert: e.invert,
		resolve: func() (U, error) {
			v, err := e.resolve()
			if err != nil {
				var zero U
				return zero, err
			}
			return f(v)
		},
	}
}

// Recording pairs everything a publisher emitted with how it terminated.
type Recording[T any] struct {
	Elements   []T
	Completion pub.Completion
}

// Recording expects the publisher to terminate and resolves to the full
// recording, failure included. It never re-throws the upstream failure;
// use Elements or Finished for that.
func (r *Recorder[T]) Recording() Expectation[Recording[T]] {
	return Expectation[Recording[T]]{
		arm:   r.registerCompletionWait,
		count: 1,
		resolve: func() (Recording[T], error) {
			els, c := r.snapshot()
			if c == nil {
				return Recording[T]{}, ErrNotCompleted
			}
			return Recording[T]{Elements: els, Completion: *c}, nil
		},
	}
}

// Completion expects the publisher to terminate and resolves to the
// terminal signal itself, whether success or failure.
func (r *Recorder[T]) Completion() Expectation[pub.Completion] {
	return Map(r.Recording(), func(rec Recording[T]) (pub.Completion, error) {
		return rec.Completion, nil
	})
}

// Elements expects the publisher to terminate and resolves to all recorded
// elements. A failed publisher resolves to its own failure error.
func (r *Recorder[T]) Elements() Expectation[[]T] {
	return Map(r.Recording(), func(rec Recording[T]) ([]T, error) {
		if rec.Completion.Failed() {
			return nil, rec.Completion.Failure
		}
		return rec.Elements, nil
	})
}

// Finished expects the publisher to terminate successfully. A failed
// publisher resolves to its own failure error. Invertible.
func (r *Recorder[T]) Finished() Expectation[struct{}] {
	return Map(r.Completion(), func(c pub.Completion) (struct{}, error) {
		if c.Failed() {
			return struct{}{}, c.Failure
		}
		return struct{}{}, nil
	})
}

// Last expects the publisher to terminate and resolves to its last element,
// or nil if it emitted nothing.
func (r *Recorder[T]) Last() Expectation[*T] {
	return Map(r.Elements(), func(els []T) (*T, error) {
		if len(els) == 0 {
			return nil, nil
		}
		v := els[len(els)-1]
		return &v, nil
	})
}

// Single expects the publisher to emit exactly one element and terminate
// successfully.
func (r *Recorder[T]) Single() Expectation[T] {
	return Map(r.Elements(), func(els []T) (T, error) {
		var zero T
		switch {
		case len(els) == 0:
			return zero, notEnoughElements(1, 0)
		case len(els) > 1:
			return zero, tooManyElements(len(els))
		}
		return els[0], nil
	})
}

// First expects one element or a terminal signal, and resolves to the first
// recorded element. It peeks: the cursor used by Next is untouched and
// repeated resolution keeps re-reading index 0. Resolves to nil if the
// publisher finished without elements. Invertible.
func (r *Recorder[T]) First() Expectation[*T] {
	return Expectation[*T]{
		arm: func(sig *signal) {
			r.registerItemWait(sig, 1, false)
		},
		count: 1,
		resolve: func() (*T, error) {
			els, c := r.snapshot()
			if len(els) > 0 {
				v := els[0]
				return &v, nil
			}
			if c != nil && c.Failed() {
				return nil, c.Failure
			}
			return nil, nil
		},
	}
}

// Next expects one element past the consumption cursor and consumes it:
// each resolution advances the cursor by one, so repeated calls walk the
// stream in order.
func (r *Recorder[T]) Next() Expectation[T] {
	return Map(r.NextN(1), func(els []T) (T, error) {
		return els[0], nil
	})
}

// NextN expects count elements past the consumption cursor and consumes
// exactly that many. A count of zero is satisfied immediately without
// consulting the recorder.
func (r *Recorder[T]) NextN(count int) Expectation[[]T] {
	return Expectation[[]T]{
		arm: func(sig *signal) {
			if count <= 0 {
				return
			}
			r.registerItemWait(sig, count, true)
		},
		count: max(count, 0),
		resolve: func() ([]T, error) {
			if count <= 0 {
				return []T{}, nil
			}
			taken, available, c, ok := r.snapshotConsume(count)
			if ok {
				return taken, nil
			}
			if c != nil && c.Failed() {
				return nil, c.Failure
			}
			return nil, notEnoughElements(count, available)
		},
	}
}

// Prefix expects maxLength elements or a terminal signal, and resolves to up
// to maxLength elements from the start of the recording. It never moves the
// consumption cursor, so it interoperates with Next without stealing its
// elements. A maxLength of zero is satisfied immediately. Invertible.
func (r *Recorder[T]) Prefix(maxLength int) Expectation[[]T] {
	return Expectation[[]T]{
		arm: func(sig *signal) {
			if maxLength <= 0 {
				return
			}
			r.registerItemWait(sig, maxLength, false)
		},
		count: max(maxLength, 0),
		resolve: func() ([]T, error) {
			if maxLength <= 0 {
				return []T{}, nil
			}
			els, c := r.snapshot()
			if len(els) >= maxLength {
				return els[:maxLength], nil
			}
			if c != nil && c.Failed() {
				return nil, c.Failure
			}
			return els, nil
		},
	}
}
