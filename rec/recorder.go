// Package rec contains the [Recorder], a thread-safe subscriber that buffers
// everything a publisher emits and exposes a family of expectations a test
// can resolve immediately with [Get] or block on with [Wait]. Expectations
// are lazy value descriptors; all mutable state lives in the Recorder.
package rec

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/rs/xid"
	"github.com/uberbrodt/fungo/fun"
	"golang.org/x/exp/maps"

	"github.com/tgrayson/pubrec/pub"
)

// TLike is the subset of [*testing.T] the recorder and the blocking
// evaluator need, so both can be exercised against a fake in their own
// tests.
type TLike interface {
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Helper()
	Cleanup(func())
}

type recorderState string

const (
	waitingForSubscription recorderState = "WAITING_FOR_SUBSCRIPTION"
	subscribed             recorderState = "SUBSCRIBED"
	completed              recorderState = "COMPLETED"
)

type RecorderOpt func(o recorderOptions) recorderOptions

type recorderOptions struct {
	name   string
	logger *slog.Logger
	noFail bool
}

// Name sets a name for the recorder, used in log messages and failure
// reports.
func Name(name string) RecorderOpt {
	return func(o recorderOptions) recorderOptions {
		o.name = name
		return o
	}
}

// SetLogger replaces the recorder's default slog logger.
func SetLogger(logger *slog.Logger) RecorderOpt {
	return func(o recorderOptions) recorderOptions {
		o.logger = logger
		return o
	}
}

// NoFail stops the recorder from calling [TLike.Errorf] when the publisher
// violates its contract. Violations are still recorded and can be inspected
// with [Recorder.Violations]. Useful for negative tests.
func NoFail() RecorderOpt {
	return func(o recorderOptions) recorderOptions {
		o.noFail = true
		return o
	}
}

// itemCondition is one outstanding "wake me after n more items" request.
type itemCondition struct {
	sig       *signal
	remaining int
}

// Recorder subscribes to a publisher and records every signal it delivers.
// All methods are safe for concurrent use; the publisher may deliver from
// any goroutine, including synchronously from inside Subscribe.
type Recorder[T any] struct {
	t      TLike
	log    *slog.Logger
	name   string
	noFail bool

	mx         sync.Mutex
	state      recorderState
	sub        pub.Subscription
	elements   []T
	completion *pub.Completion
	consumed   int
	onItem     map[string]*itemCondition
	onDone     map[string]*signal
	violations []string
}

// Record subscribes a new Recorder to p and returns it. The subscription is
// cancelled in t.Cleanup if the publisher has not completed by the end of
// the test.
func Record[T any](t TLike, p pub.Publisher[T], opts ...RecorderOpt) *Recorder[T] {
	t.Helper()
	o := recorderOptions{name: fmt.Sprintf("%s-recorder", xid.New().String())}
	for _, f := range opts {
		o = f(o)
	}

	r := &Recorder[T]{
		t:      t,
		name:   o.name,
		noFail: o.noFail,
		state:  waitingForSubscription,
		onItem: make(map[string]*itemCondition),
		onDone: make(map[string]*signal),
	}
	if o.logger != nil {
		r.log = o.logger
	} else {
		r.log = slog.With("pubrec.recorder", o.name)
	}

	t.Cleanup(func() {
		r.cancel()
	})
	p.Subscribe(r)
	return r
}

// OnSubscribe implements [pub.Subscriber]. It attaches the subscription
// handle and requests unlimited demand.
func (r *Recorder[T]) OnSubscribe(s pub.Subscription) {
	r.mx.Lock()
	if r.state != waitingForSubscription {
		r.mx.Unlock()
		r.violation("publisher acknowledged the subscription twice")
		return
	}
	r.state = subscribed
	r.sub = s
	r.mx.Unlock()

	r.log.Debug("subscribed, requesting unlimited demand")
	s.Request(pub.Unlimited)
}

// OnNext implements [pub.Subscriber]. The value is appended to the recording
// and every pending on-item condition is counted down once.
func (r *Recorder[T]) OnNext(value T) {
	r.mx.Lock()
	switch r.state {
	case waitingForSubscription:
		r.mx.Unlock()
		r.violation("received a value before the subscription was acknowledged")
		return
	case completed:
		r.mx.Unlock()
		r.violation("received a value after completion")
		return
	}
	r.elements = append(r.elements, value)

	fire := make([]*signal, 0, len(r.onItem))
	for id, cond := range r.onItem {
		cond.remaining--
		fire = append(fire, cond.sig)
		if cond.remaining == 0 {
			delete(r.onItem, id)
		}
	}
	r.mx.Unlock()

	// signals are notified with the lock released; a re-entrant waiter
	// must not deadlock against the recorder.
	for _, sig := range fire {
		sig.satisfy(1)
	}
}

// OnComplete implements [pub.Subscriber]. It records the terminal signal and
// satisfies every pending condition for its full remaining count: once the
// stream can never produce more items, no wait may block forever.
func (r *Recorder[T]) OnComplete(c pub.Completion) {
	r.mx.Lock()
	switch r.state {
	case waitingForSubscription:
		r.mx.Unlock()
		r.violation("received completion before the subscription was acknowledged")
		return
	case completed:
		r.mx.Unlock()
		r.violation("received completion twice")
		return
	}
	r.state = completed
	r.completion = &c
	// a completed stream needs no cancellation
	r.sub = nil

	itemConds := maps.Values(r.onItem)
	doneSigs := maps.Values(r.onDone)
	r.onItem = make(map[string]*itemCondition)
	r.onDone = make(map[string]*signal)
	r.mx.Unlock()

	r.log.Info("stream terminated",
		"completion", c.String(),
		"pending_item_triggers", pendingTriggers(itemConds),
		"pending_completion_waits", len(doneSigs),
	)
	for _, cond := range itemConds {
		cond.sig.satisfy(cond.remaining)
	}
	for _, sig := range doneSigs {
		sig.satisfy(1)
	}
}

func pendingTriggers(conds []*itemCondition) int {
	return fun.Reduce(conds, 0, func(c *itemCondition, acc int) int {
		return acc + c.remaining
	})
}

// registerItemWait arms sig to be satisfied once per item until required
// triggers have fired. Items already buffered (beyond the cursor when
// fromCursor is set) satisfy their share synchronously; a completed stream
// satisfies the full count.
func (r *Recorder[T]) registerItemWait(sig *signal, required int, fromCursor bool) {
	if required <= 0 {
		return
	}
	r.mx.Lock()
	if r.state == completed {
		r.mx.Unlock()
		sig.satisfy(required)
		return
	}
	available := len(r.elements)
	if fromCursor {
		available -= r.consumed
	}
	if available >= required {
		r.mx.Unlock()
		sig.satisfy(required)
		return
	}
	r.onItem[xid.New().String()] = &itemCondition{sig: sig, remaining: required - available}
	r.mx.Unlock()
	sig.satisfy(available)
}

// registerCompletionWait arms sig to fire once when the stream terminates,
// or immediately if it already has.
func (r *Recorder[T]) registerCompletionWait(sig *signal) {
	r.mx.Lock()
	if r.state == completed {
		r.mx.Unlock()
		sig.satisfy(1)
		return
	}
	r.onDone[xid.New().String()] = sig
	r.mx.Unlock()
}

// snapshot returns an atomic copy of the recorded elements and the terminal
// signal, if any.
func (r *Recorder[T]) snapshot() ([]T, *pub.Completion) {
	r.mx.Lock()
	defer r.mx.Unlock()
	els := make([]T, len(r.elements))
	copy(els, r.elements)
	if r.completion == nil {
		return els, nil
	}
	c := *r.completion
	return els, &c
}

// snapshotConsume atomically reads n elements past the cursor and advances
// it. If fewer than n are available the cursor does not move and ok is
// false. Read-then-advance happens under one lock acquisition so concurrent
// arrivals cannot split a consuming read.
func (r *Recorder[T]) snapshotConsume(n int) (taken []T, available int, completion *pub.Completion, ok bool) {
	r.mx.Lock()
	defer r.mx.Unlock()
	rest := r.elements[r.consumed:]
	available = len(rest)
	if r.completion != nil {
		c := *r.completion
		completion = &c
	}
	if available < n {
		return nil, available, completion, false
	}
	taken = make([]T, n)
	copy(taken, rest[:n])
	r.consumed += n
	return taken, available, completion, true
}

func (r *Recorder[T]) cancel() {
	r.mx.Lock()
	sub := r.sub
	r.sub = nil
	r.mx.Unlock()
	if sub != nil {
		r.log.Info("cancelling still-active subscription")
		sub.Cancel()
	}
}

// violation reports a publisher contract breach. The offending signal is
// dropped, never recorded: misbehaving sources must not corrupt the
// recording. Unless NoFail was set this fails the current test.
func (r *Recorder[T]) violation(msg string) {
	r.mx.Lock()
	r.violations = append(r.violations, msg)
	r.mx.Unlock()

	r.log.Error("publisher protocol violation", "violation", msg)
	if !r.noFail {
		r.t.Errorf("[Recorder: %s]: publisher protocol violation: %s", r.name, msg)
	}
}

// Violations returns the protocol violations observed so far.
func (r *Recorder[T]) Violations() []string {
	r.mx.Lock()
	defer r.mx.Unlock()
	out := make([]string, len(r.violations))
	copy(out, r.violations)
	return out
}

func (r *Recorder[T]) String() string {
	return fmt.Sprintf("Recorder[%s]", r.name)
}
