// Package store holds the shared kernel of the in-memory record store:
// sequence-based id minting, simulated call latency and the clock used
// for record timestamps.
//
// The store is process-local by design. Every repository call is modeled
// as a suspend point with artificial latency so callers exercise the same
// code paths they would against a remote data service.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Sequence mints formatted business identifiers, e.g. QTN-001001.
type Sequence struct {
	prefix string

	mu   sync.Mutex
	next int64
}

// NewSequence returns a Sequence starting after the given seed value.
func NewSequence(prefix string, seed int64) *Sequence {
	return &Sequence{prefix: prefix, next: seed + 1}
}

// Next returns the next identifier in the sequence.
func (s *Sequence) Next() string {
	s.mu.Lock()
	n := s.next
	s.next++
	s.mu.Unlock()
	return fmt.Sprintf("%s-%06d", s.prefix, n)
}

// Latency simulates the round trip of a remote store call. Zero disables
// the pause, which is how tests run.
type Latency time.Duration

// Wait blocks for the configured duration or until the context is done.
func (l Latency) Wait(ctx context.Context) error {
	if l <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(l))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Clock supplies record timestamps. Tests substitute a fixed clock.
type Clock func() time.Time

// SystemClock is the default Clock.
func SystemClock() time.Time {
	return time.Now().UTC()
}
