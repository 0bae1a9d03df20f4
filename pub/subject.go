package pub

import (
	"sync"

	"github.com/rs/xid"
)

// Subject is a manual hot publisher: values pushed with [Subject.Send] are
// delivered to every current subscriber. It is safe to drive a Subject from
// any goroutine, which makes it the natural source for exercising a recorder
// mid-stream.
//
// Send, Close and Fail serialize their deliveries, so no subscriber can
// observe a value after the terminal signal. They must not be called
// re-entrantly from inside a subscriber callback. Subscribers attached after
// the subject terminated receive the terminal signal immediately.
type Subject[T any] struct {
	// emit serializes whole deliveries; mx guards the fields.
	emit       sync.Mutex
	mx         sync.Mutex
	subs       map[string]Subscriber[T]
	completion *Completion
}

// NewSubject creates an empty, live Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{subs: make(map[string]Subscriber[T])}
}

// Subscribe attaches sub. Demand is ignored: a hot source pushes regardless.
func (s *Subject[T]) Subscribe(sub Subscriber[T]) {
	id := xid.New().String()
	sub.OnSubscribe(subjectSubscription[T]{subject: s, id: id})

	s.mx.Lock()
	terminal := s.completion
	if terminal == nil {
		s.subs[id] = sub
	}
	s.mx.Unlock()

	if terminal != nil {
		sub.OnComplete(*terminal)
	}
}

// Send pushes a value to all current subscribers. It reports false if the
// subject already terminated, in which case nothing is delivered.
func (s *Subject[T]) Send(value T) bool {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mx.Lock()
	if s.completion != nil {
		s.mx.Unlock()
		return false
	}
	targets := s.snapshotSubs()
	s.mx.Unlock()

	for _, sub := range targets {
		sub.OnNext(value)
	}
	return true
}

// Close terminates the subject normally.
func (s *Subject[T]) Close() bool {
	return s.terminate(Completion{})
}

// Fail terminates the subject with err.
func (s *Subject[T]) Fail(err error) bool {
	return s.terminate(Completion{Failure: err})
}

func (s *Subject[T]) terminate(c Completion) bool {
	s.emit.Lock()
	defer s.emit.Unlock()

	s.mx.Lock()
	if s.completion != nil {
		s.mx.Unlock()
		return false
	}
	s.completion = &c
	targets := s.snapshotSubs()
	s.subs = make(map[string]Subscriber[T])
	s.mx.Unlock()

	for _, sub := range targets {
		sub.OnComplete(c)
	}
	return true
}

// snapshotSubs copies out the subscriber list so signals are delivered with
// mx released. Callers must hold mx.
func (s *Subject[T]) snapshotSubs() []Subscriber[T] {
	targets := make([]Subscriber[T], 0, len(s.subs))
	for _, sub := range s.subs {
		targets = append(targets, sub)
	}
	return targets
}

type subjectSubscription[T any] struct {
	subject *Subject[T]
	id      string
}

func (ss subjectSubscription[T]) Request(int) {}

func (ss subjectSubscription[T]) Cancel() {
	ss.subject.mx.Lock()
	defer ss.subject.mx.Unlock()
	delete(ss.subject.subs, ss.id)
}
