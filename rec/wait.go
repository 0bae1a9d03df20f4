package rec

import "time"

// DefaultWaitTimeout is used by [Wait] when the caller passes a timeout of
// zero or less.
var DefaultWaitTimeout time.Duration = 5 * time.Second

type WaitOpt func(o waitOptions) waitOptions

type waitOptions struct {
	description string
}

// Description names the awaited condition in timeout reports.
func Description(d string) WaitOpt {
	return func(o waitOptions) waitOptions {
		o.description = d
		return o
	}
}

// Get resolves the expectation immediately, without blocking. It arms the
// expectation against an already-satisfied signal, so it is appropriate only
// when the caller knows the condition holds (after a prior Wait, or for
// publishers that complete synchronously upon subscription). Resolving an
// unmet condition legitimately returns ErrNotCompleted or
// ErrNotEnoughElements; that is documented behavior, not a bug.
func Get[V any](e Expectation[V]) (V, error) {
	e.arm(newSignal(0))
	return e.resolve()
}

// Wait arms the expectation against a countable signal, blocks until the
// signal is satisfied or the timeout elapses, then resolves. A timeout is
// reported through t.Errorf and resolution still runs, so a timed-out wait
// can surface both the timeout and a resolution error.
//
// For inverted expectations the polarity flips: satisfaction before the
// timeout is the failure, and waiting out the full timeout is the success.
func Wait[V any](t TLike, e Expectation[V], timeout time.Duration, opts ...WaitOpt) (V, error) {
	t.Helper()
	o := waitOptions{description: "expectation"}
	for _, f := range opts {
		o = f(o)
	}
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	sig := newSignal(e.count)
	e.arm(sig)

	if e.invert {
		select {
		case <-sig.satisfied():
			t.Errorf("inverted wait: %s was satisfied within %s", o.description, timeout)
		case <-time.After(timeout):
		}
	} else {
		select {
		case <-sig.satisfied():
		case <-time.After(timeout):
			t.Errorf("timed out after %s waiting for %s", timeout, o.description)
		}
	}

	return e.resolve()
}

// MustWait is Wait for the happy path: a resolution error fails the test
// immediately and only the value comes back.
func MustWait[V any](t TLike, e Expectation[V], timeout time.Duration, opts ...WaitOpt) V {
	t.Helper()
	v, err := Wait(t, e, timeout, opts...)
	if err != nil {
		t.Fatalf("expectation not satisfied: %v", err)
	}
	return v
}
