package rec_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/uberbrodt/fungo/fun"
	"gotest.tools/v3/assert"

	"github.com/tgrayson/pubrec/pub"
	"github.com/tgrayson/pubrec/rec"
)

func TestMap_TransformsResolvedValue(t *testing.T) {
	r := rec.Record(t, pub.Just("foo", "bar", "baz"))

	count := rec.Map(r.Elements(), func(els []string) (int, error) {
		return len(els), nil
	})
	assert.Equal(t, rec.MustWait(t, count, time.Second), 3)

	shouting := rec.Map(r.Elements(), func(els []string) ([]string, error) {
		out := make([]string, len(els))
		for i, v := range els {
			out[i] = strings.ToUpper(v)
		}
		return out, nil
	})
	assert.DeepEqual(t, rec.MustWait(t, shouting, time.Second), []string{"FOO", "BAR", "BAZ"})
}

func TestMap_FilterWithFun(t *testing.T) {
	r := rec.Record(t, pub.Just(1, 2, 3, 4, 5, 6))

	evens := rec.Map(r.Elements(), func(els []int) ([]int, error) {
		return fun.Filter(els, func(v int) bool { return v%2 == 0 }), nil
	})
	assert.DeepEqual(t, rec.MustWait(t, evens, time.Second), []int{2, 4, 6})
}

func TestMap_TransformError(t *testing.T) {
	uneven := errors.New("uneven")
	r := rec.Record(t, pub.Just(1, 2, 3))

	e := rec.Map(r.Elements(), func(els []int) (int, error) {
		if len(els)%2 != 0 {
			return 0, uneven
		}
		return len(els), nil
	})

	_, err := rec.Wait(t, e, time.Second)
	assert.ErrorIs(t, err, uneven)
}

func TestMap_BaseErrorShortCircuits(t *testing.T) {
	boom := errors.New("boom")
	r := rec.Record(t, pub.Failed[int](boom))

	called := false
	e := rec.Map(r.Elements(), func(els []int) (int, error) {
		called = true
		return len(els), nil
	})

	_, err := rec.Wait(t, e, time.Second)
	assert.ErrorIs(t, err, boom)
	assert.Assert(t, !called)
}

func TestInverted_SucceedsWhenNothingHappens(t *testing.T) {
	r := rec.Record(t, pub.Never[int]())

	start := time.Now()
	_, err := rec.Wait(t, r.Finished().Inverted(), 100*time.Millisecond)
	assert.Assert(t, time.Since(start) >= 100*time.Millisecond)
	// resolution still reports the state as plain Finished would
	assert.ErrorIs(t, err, rec.ErrNotCompleted)
}

func TestInverted_FailsWhenSatisfiedEarly(t *testing.T) {
	ft := &tfake{}
	r := rec.Record(ft, pub.Empty[int]())

	_, err := rec.Wait(ft, r.Finished().Inverted(), 100*time.Millisecond, rec.Description("no completion"))
	assert.NilError(t, err)
	assert.Equal(t, ft.errorCount(), 1)
}

func TestInverted_FirstOnSilentStream(t *testing.T) {
	s := pub.NewSubject[int]()
	r := rec.Record(t, s)

	first, err := rec.Wait(t, r.First().Inverted(), 100*time.Millisecond)
	assert.NilError(t, err)
	assert.Assert(t, first == nil)
}

func TestInverted_PrefixCountsElements(t *testing.T) {
	s := pub.NewSubject[int]()
	r := rec.Record(t, s)
	s.Send(1)

	// one element arrived, two were needed: the inverted wait passes
	els, err := rec.Wait(t, r.Prefix(2).Inverted(), 100*time.Millisecond)
	assert.NilError(t, err)
	assert.DeepEqual(t, els, []int{1})
}

func TestInverted_TwiceRestoresPolarity(t *testing.T) {
	r := rec.Record(t, pub.Empty[int]())

	_, err := rec.Wait(t, r.Finished().Inverted().Inverted(), time.Second)
	assert.NilError(t, err)
}

func TestMustWait_FailsFatallyOnResolutionError(t *testing.T) {
	ft := &tfake{}
	r := rec.Record(ft, pub.Empty[int]())

	rec.MustWait(ft, r.Single(), time.Second)

	ft.mx.Lock()
	defer ft.mx.Unlock()
	assert.Equal(t, len(ft.fatals), 1)
	assert.Assert(t, strings.Contains(ft.fatals[0], "not satisfied"))
}
