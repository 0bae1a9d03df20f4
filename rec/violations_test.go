package rec_test

import (
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/tgrayson/pubrec/pub"
	"github.com/tgrayson/pubrec/rec"
)

type nopSubscription struct{}

func (nopSubscription) Request(int) {}
func (nopSubscription) Cancel()     {}

// wackyPublisher keeps signalling after completion.
type wackyPublisher struct{}

func (wackyPublisher) Subscribe(sub pub.Subscriber[string]) {
	sub.OnSubscribe(nopSubscription{})
	sub.OnNext("foo")
	sub.OnComplete(pub.Completion{})
	sub.OnNext("bar")
	sub.OnNext("baz")
	sub.OnComplete(pub.Completion{})
}

// eagerPublisher emits before acknowledging the subscription.
type eagerPublisher struct{}

func (eagerPublisher) Subscribe(sub pub.Subscriber[string]) {
	sub.OnNext("early")
	sub.OnSubscribe(nopSubscription{})
	sub.OnNext("ok")
	sub.OnComplete(pub.Completion{})
}

// greedyPublisher acknowledges twice.
type greedyPublisher struct{}

func (greedyPublisher) Subscribe(sub pub.Subscriber[string]) {
	sub.OnSubscribe(nopSubscription{})
	sub.OnSubscribe(nopSubscription{})
	sub.OnComplete(pub.Completion{})
}

func TestViolation_SignalsAfterCompletionAreDropped(t *testing.T) {
	ft := &tfake{}
	r := rec.Record(ft, wackyPublisher{}, rec.NoFail())

	els := rec.MustWait(t, r.Elements(), time.Second)
	assert.DeepEqual(t, els, []string{"foo"})

	assert.DeepEqual(t, r.Violations(), []string{
		"received a value after completion",
		"received a value after completion",
		"received completion twice",
	})
	// NoFail keeps violations out of the test report
	assert.Equal(t, ft.errorCount(), 0)
}

func TestViolation_FailsTheTestByDefault(t *testing.T) {
	ft := &tfake{}
	rec.Record(ft, wackyPublisher{})

	assert.Equal(t, ft.errorCount(), 3)
}

func TestViolation_ValueBeforeSubscription(t *testing.T) {
	ft := &tfake{}
	r := rec.Record(ft, eagerPublisher{}, rec.NoFail())

	// the early value is dropped, the post-acknowledgement one records
	els := rec.MustWait(t, r.Elements(), time.Second)
	assert.DeepEqual(t, els, []string{"ok"})
	assert.DeepEqual(t, r.Violations(), []string{
		"received a value before the subscription was acknowledged",
	})
}

func TestViolation_DoubleSubscriptionAcknowledgement(t *testing.T) {
	ft := &tfake{}
	r := rec.Record(ft, greedyPublisher{}, rec.NoFail())

	_, err := rec.Wait(t, r.Finished(), time.Second)
	assert.NilError(t, err)
	assert.DeepEqual(t, r.Violations(), []string{
		"publisher acknowledged the subscription twice",
	})
}
