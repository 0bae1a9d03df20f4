/*
* This package provides bool-returning "checks" for use inside code that does
* not run on the test goroutine, such as subscriber callbacks feeding a
* recorder.
*
* # Why is this needed?
*
* [testing.T.FailNow] requires that it be called from the goroutine running
* the test, and a publisher may deliver values from anywhere. These helpers
* are an inversion of [gotest.tools/v3/assert]: everything reports through
* [assert.Check] and returns a bool instead of halting the test.
 */
package check

import (
	"testing"

	gocmp "github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"
	"gotest.tools/v3/assert"
	"gotest.tools/v3/assert/cmp"
)

// returns false if any item in [checks] fails.
func Chain(t *testing.T, checks ...bool) bool {
	t.Helper()
	for idx, check := range checks {
		if !check {
			t.Logf("[check.Chain] check #%d failed\n", idx)
			return check
		}
	}
	return true
}

// accepts binary comparisons or booleans and returns the result
func Assert(t *testing.T, comparison assert.BoolOrComparison, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Check(t, comparison, msgAndArgs...)
}

// Compares two values using [go-cmp/cmp]
func DeepEqual(t *testing.T, actual, expected any, opts ...gocmp.Option) bool {
	t.Helper()
	return assert.Check(t, cmp.DeepEqual(actual, expected, opts...))
}

func Equal(t *testing.T, actual, expected any, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Check(t, cmp.Equal(actual, expected), msgAndArgs...)
}

// Works with finding an item in a collection OR a substring (uses [strings.Contains] under the hood)
func Contains(t *testing.T, collection any, item any, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Check(t, cmp.Contains(collection, item), msgAndArgs...)
}

// returns true if [ptr] is nil
func Nil(t *testing.T, ptr any, msgAndArgs ...any) bool {
	t.Helper()
	return assert.Check(t, cmp.Nil(ptr), msgAndArgs...)
}

// Matches runs a gomock-compatible [gomock.Matcher] against [got], so
// matchers like [gomock.Eq] or cmpmock.DiffEq can be used as checks.
func Matches(t *testing.T, m gomock.Matcher, got any) bool {
	t.Helper()
	ok := m.Matches(got)
	if !ok {
		t.Logf("[check.Matches] got %v (%T), want %v\n", got, got, m)
	}
	return assert.Check(t, ok)
}
