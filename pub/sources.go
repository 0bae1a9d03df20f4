package pub

import "sync"

// Just returns a publisher that emits the given values in order and then
// finishes. Values are delivered synchronously once the subscriber requests
// demand.
func Just[T any](values ...T) Publisher[T] {
	return &fixedPublisher[T]{values: values}
}

// Empty returns a publisher that finishes without emitting anything.
func Empty[T any]() Publisher[T] {
	return &fixedPublisher[T]{}
}

// Failed returns a publisher that terminates with err without emitting
// anything.
func Failed[T any](err error) Publisher[T] {
	return &fixedPublisher[T]{completion: Completion{Failure: err}}
}

// Never returns a publisher that acknowledges the subscription and then never
// signals again.
func Never[T any]() Publisher[T] {
	return neverPublisher[T]{}
}

type fixedPublisher[T any] struct {
	values     []T
	completion Completion
}

func (p *fixedPublisher[T]) Subscribe(sub Subscriber[T]) {
	fs := &fixedSubscription[T]{values: p.values, completion: p.completion, sub: sub}
	sub.OnSubscribe(fs)
}

type fixedSubscription[T any] struct {
	mx         sync.Mutex
	values     []T
	completion Completion
	sub        Subscriber[T]
	emitted    bool
	cancelled  bool
}

func (s *fixedSubscription[T]) Request(n int) {
	s.mx.Lock()
	if n <= 0 || s.emitted || s.cancelled {
		s.mx.Unlock()
		return
	}
	// a partial-demand protocol is not worth the trouble for a canned
	// source; any positive demand flushes everything.
	s.emitted = true
	values := s.values
	completion := s.completion
	sub := s.sub
	s.mx.Unlock()

	for _, v := range values {
		if s.isCancelled() {
			return
		}
		sub.OnNext(v)
	}
	if !s.isCancelled() {
		sub.OnComplete(completion)
	}
}

func (s *fixedSubscription[T]) Cancel() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.cancelled = true
}

func (s *fixedSubscription[T]) isCancelled() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.cancelled
}

type neverPublisher[T any] struct{}

func (neverPublisher[T]) Subscribe(sub Subscriber[T]) {
	sub.OnSubscribe(nopSubscription{})
}

type nopSubscription struct{}

func (nopSubscription) Request(int) {}
func (nopSubscription) Cancel()     {}
