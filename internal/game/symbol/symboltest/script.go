// Package symboltest provides scripted samplers for engine tests.
package symboltest

import (
	"sync"

	"clusterpay_backend/internal/game/symbol"
)

// Script returns queued kinds in order, then cycles through Then once the queue runs out.
type Script struct {
	mu    sync.Mutex
	queue []symbol.Kind
	then  []symbol.Kind
	next  int
	Drawn int
}

// NewScript builds a sampler that yields queue first and then repeats then forever.
func NewScript(queue []symbol.Kind, then ...symbol.Kind) *Script {
	if len(then) == 0 {
		then = []symbol.Kind{symbol.KindHazard}
	}
	return &Script{queue: append([]symbol.Kind(nil), queue...), then: then}
}

func (s *Script) Sample() symbol.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Drawn++
	if len(s.queue) > 0 {
		k := s.queue[0]
		s.queue = s.queue[1:]
		return k
	}
	k := s.then[s.next%len(s.then)]
	s.next++
	return k
}

// Repeat returns n copies of k.
func Repeat(k symbol.Kind, n int) []symbol.Kind {
	out := make([]symbol.Kind, n)
	for i := range out {
		out[i] = k
	}
	return out
}
