package rec

import (
	"testing"

	"gotest.tools/v3/assert"
)

func isSatisfied(s *signal) bool {
	select {
	case <-s.satisfied():
		return true
	default:
		return false
	}
}

func TestSignal_ZeroCountIsBornSatisfied(t *testing.T) {
	assert.Assert(t, isSatisfied(newSignal(0)))
	assert.Assert(t, isSatisfied(newSignal(-1)))
}

func TestSignal_CountsDown(t *testing.T) {
	s := newSignal(3)
	assert.Assert(t, !isSatisfied(s))

	s.satisfy(1)
	s.satisfy(1)
	assert.Assert(t, !isSatisfied(s))

	s.satisfy(1)
	assert.Assert(t, isSatisfied(s))
}

func TestSignal_OverSatisfactionIsIgnored(t *testing.T) {
	s := newSignal(2)
	s.satisfy(5)
	assert.Assert(t, isSatisfied(s))

	// further triggers on a satisfied signal must not panic
	s.satisfy(1)
	s.satisfy(3)
}

func TestSignal_NonPositiveTriggersAreIgnored(t *testing.T) {
	s := newSignal(1)
	s.satisfy(0)
	s.satisfy(-2)
	assert.Assert(t, !isSatisfied(s))
}
