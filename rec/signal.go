package rec

import "sync"

// signal is the countable synchronization primitive a blocking wait parks
// on. It starts with a required trigger count and closes its channel once
// that many triggers have been counted. Extra triggers are ignored, so a
// completion that satisfies a wait "for its full remaining count" never
// double-fires.
//
// A signal created with a zero count is born satisfied; that is how Get and
// zero-length expectations arm without blocking.
type signal struct {
	mx        sync.Mutex
	remaining int
	done      chan struct{}
}

func newSignal(required int) *signal {
	s := &signal{remaining: required, done: make(chan struct{})}
	if required <= 0 {
		s.remaining = 0
		close(s.done)
	}
	return s
}

// satisfy counts down n triggers.
func (s *signal) satisfy(n int) {
	if n <= 0 {
		return
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	if s.remaining == 0 {
		return
	}
	s.remaining -= n
	if s.remaining <= 0 {
		s.remaining = 0
		close(s.done)
	}
}

// satisfied returns a channel that is closed once the required count has
// been reached.
func (s *signal) satisfied() <-chan struct{} {
	return s.done
}
