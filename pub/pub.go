// Package pub defines the contract between an asynchronous event source and
// its subscribers: a [Publisher] pushes zero or more values to a
// [Subscriber], then terminates at most once with a [Completion].
//
// Values and the terminal signal may be delivered from any goroutine,
// including synchronously from inside [Publisher.Subscribe]. A well-behaved
// publisher calls OnSubscribe exactly once before anything else, never calls
// OnNext after OnComplete, and calls OnComplete at most once. Subscribers
// that verify the contract (such as the rec package's Recorder) treat
// anything else as a protocol violation.
package pub

import "fmt"

// Unlimited is the demand passed to [Subscription.Request] by subscribers
// that want every value the publisher can produce.
const Unlimited = int(^uint(0) >> 1)

// Subscription is the cancellable handle a publisher hands to its subscriber.
type Subscription interface {
	// Request asks the publisher for up to n more values. Pass [Unlimited]
	// for unbounded demand.
	Request(n int)
	// Cancel detaches the subscriber. It is idempotent and safe to call
	// from subscriber teardown.
	Cancel()
}

// Subscriber receives the signals of a publisher.
type Subscriber[T any] interface {
	OnSubscribe(s Subscription)
	OnNext(value T)
	OnComplete(c Completion)
}

// Publisher is an event source that can be subscribed to.
type Publisher[T any] interface {
	Subscribe(sub Subscriber[T])
}

// Completion is the terminal signal of a publisher. The zero value means the
// publisher finished normally; a non-nil Failure means it failed.
type Completion struct {
	Failure error
}

// Failed reports whether the publisher terminated with an error.
func (c Completion) Failed() bool {
	return c.Failure != nil
}

func (c Completion) String() string {
	if c.Failure != nil {
		return fmt.Sprintf("failure(%v)", c.Failure)
	}
	return "finished"
}
