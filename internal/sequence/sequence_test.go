package sequence

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSequencerDiscardsStale(t *testing.T) {
	s := NewSequencer()
	first := s.Begin("product")
	second := s.Begin("product")
	other := s.Begin("cart")

	require.False(t, s.Commit(first))
	require.True(t, s.Commit(second))
	require.True(t, s.Commit(other))
	require.Equal(t, 0, s.pending())
}

func TestSequencerForgetsCommittedKeys(t *testing.T) {
	s := NewSequencer()
	for i := 0; i < 100; i++ {
		tok := s.Begin("sid-1|p-jar")
		require.True(t, s.Current(tok))
		require.True(t, s.Commit(tok))
	}
	require.Equal(t, 0, s.pending())

	// a stale token stays stale after its key was retired and reissued
	stale := s.Begin("search:sid-1")
	fresh := s.Begin("search:sid-1")
	require.True(t, s.Commit(fresh))
	again := s.Begin("search:sid-1")
	require.False(t, s.Commit(stale))
	require.True(t, s.Commit(again))
	require.Equal(t, 0, s.pending())
}

func TestDebounceRunsOnlyLastCall(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	var runs atomic.Int32
	var wg sync.WaitGroup
	results := make([]error, 3)
	values := make([]string, 3)

	for i, q := range []string{"c", "ca", "can"} {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			v, err := Debounce(context.Background(), d, "search:s1", func(context.Context) (string, error) {
				runs.Add(1)
				return q, nil
			})
			values[i], results[i] = v, err
		}(i, q)
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	require.Equal(t, int32(1), runs.Load())
	require.ErrorIs(t, results[0], ErrSuperseded)
	require.ErrorIs(t, results[1], ErrSuperseded)
	require.NoError(t, results[2])
	require.Equal(t, "can", values[2])
	require.Equal(t, 0, d.seq.pending())
}

func TestDebounceSeparateKeys(t *testing.T) {
	d := NewDebouncer(0)
	v, err := Debounce(context.Background(), d, "a", func(context.Context) (int, error) { return 1, nil })
	require.NoError(t, err)
	require.Equal(t, 1, v)
	v, err = Debounce(context.Background(), d, "b", func(context.Context) (int, error) { return 2, nil })
	require.NoError(t, err)
	require.Equal(t, 2, v)
}

func TestDebounceCancelled(t *testing.T) {
	d := NewDebouncer(time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Debounce(ctx, d, "k", func(context.Context) (int, error) { return 0, nil })
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 0, d.seq.pending())
}

func TestCooldown(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := Cooldown{Period: 60 * time.Second, Now: func() time.Time { return now }}

	require.True(t, c.Ready(time.Time{}))
	require.Equal(t, 0, c.Seconds(time.Time{}))

	sent := now.Add(-15500 * time.Millisecond)
	require.False(t, c.Ready(sent))
	require.Equal(t, 45, c.Seconds(sent))

	require.True(t, c.Ready(now.Add(-61*time.Second)))
}
