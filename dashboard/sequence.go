// ABOUTME: Monotonic request tokens for discarding stale responses
// ABOUTME: Only the most recently issued token is current until the sequence is invalidated

package dashboard

import "sync/atomic"

type Sequence struct {
	latest atomic.Uint64
}

// Next issues a new token, making every earlier token stale.
func (s *Sequence) Next() uint64 {
	return s.latest.Add(1)
}

func (s *Sequence) IsLatest(token uint64) bool {
	return token != 0 && s.latest.Load() == token
}

// Invalidate makes every issued token stale, as when the consumer goes away.
func (s *Sequence) Invalidate() {
	s.latest.Add(1)
}
