// Package sequence orders concurrent requests for the same piece of state:
// stale responses are discarded, bursts are coalesced, resends are throttled.
package sequence

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSuperseded is returned to a debounced caller when a newer call for the
// same key arrived inside the quiet window.
var ErrSuperseded = errors.New("sequence: superseded by a newer call")

type Token struct {
	Key string
	N   uint64
}

// Sequencer hands out increasing tokens per key. A key is forgotten once its
// newest token commits, so the map only holds requests still in flight.
type Sequencer struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]uint64
}

func NewSequencer() *Sequencer { return &Sequencer{latest: make(map[string]uint64)} }

// Begin issues a token newer than any issued before, across all keys.
func (s *Sequencer) Begin(key string) Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.latest[key] = s.next
	return Token{Key: key, N: s.next}
}

// Current reports whether t is still the newest token for its key.
func (s *Sequencer) Current(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[t.Key] == t.N
}

// Commit reports whether t is still the newest token for its key and, if so,
// retires the key. A response carrying an older token must not be applied.
func (s *Sequencer) Commit(t Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[t.Key] != t.N {
		return false
	}
	delete(s.latest, t.Key)
	return true
}

func (s *Sequencer) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.latest)
}

type Debouncer struct {
	wait time.Duration
	seq  *Sequencer
}

func NewDebouncer(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait, seq: NewSequencer()}
}

// Debounce waits out the quiet window and runs fn only if no newer call for
// key arrived meanwhile. Results that come back after a newer call started
// are also dropped.
func Debounce[T any](ctx context.Context, d *Debouncer, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	tok := d.seq.Begin(key)

	if d.wait > 0 {
		timer := time.NewTimer(d.wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			d.seq.Commit(tok)
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
	if !d.seq.Current(tok) {
		return zero, ErrSuperseded
	}

	v, err := fn(ctx)
	if !d.seq.Commit(tok) {
		return zero, ErrSuperseded
	}
	return v, err
}

// Cooldown is a fixed resend interval, measured from the last send.
type Cooldown struct {
	Period time.Duration
	Now    func() time.Time
}

func NewCooldown(period time.Duration) Cooldown {
	return Cooldown{Period: period, Now: time.Now}
}

func (c Cooldown) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Remaining is zero when last is unset or the period has elapsed.
func (c Cooldown) Remaining(last time.Time) time.Duration {
	if last.IsZero() {
		return 0
	}
	left := c.Period - c.now().Sub(last)
	if left < 0 {
		return 0
	}
	return left
}

func (c Cooldown) Ready(last time.Time) bool { return c.Remaining(last) == 0 }

// Seconds rounds the remaining time up for a countdown display.
func (c Cooldown) Seconds(last time.Time) int {
	r := c.Remaining(last)
	if r == 0 {
		return 0
	}
	return int((r + time.Second - 1) / time.Second)
}
