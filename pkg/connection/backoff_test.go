package connection

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Run("DefaultSequence", func(t *testing.T) {
		b := NewBackoff()
		expected := []time.Duration{
			1 * time.Second,
			2 * time.Second,
			4 * time.Second,
			8 * time.Second,
			16 * time.Second,
			32 * time.Second,
			60 * time.Second,
			60 * time.Second,
		}
		for i, exp := range expected {
			base := b.Current()
			_ = b.Next()
			if base != exp {
				t.Errorf("attempt %d: base = %v, want %v", i, base, exp)
			}
		}
	})

	t.Run("JitterBounds", func(t *testing.T) {
		b := NewBackoff()
		for i := 0; i < 20; i++ {
			s := b.Peek()
			if s < time.Second || s > 1250*time.Millisecond {
				t.Errorf("sample %d: %v outside [1s, 1.25s]", i, s)
			}
		}
	})

	t.Run("Fixed", func(t *testing.T) {
		b := NewFixedBackoff(RelayReconnectInterval)
		for i := 0; i < 5; i++ {
			if d := b.Next(); d != 3*time.Second {
				t.Fatalf("attempt %d: delay = %v, want 3s", i, d)
			}
		}
		if b.Attempts() != 5 {
			t.Errorf("Attempts() = %d, want 5", b.Attempts())
		}
	})

	t.Run("Reset", func(t *testing.T) {
		b := NewBackoffWithConfig(BackoffConfig{Initial: 10 * time.Millisecond, Max: time.Second, Multiplier: 3})
		b.Next()
		b.Next()
		b.Reset()
		if b.Current() != 10*time.Millisecond || b.Attempts() != 0 {
			t.Errorf("after Reset: current %v, attempts %d", b.Current(), b.Attempts())
		}
	})

	t.Run("MultiplierBelowOneIsFixed", func(t *testing.T) {
		b := NewBackoffWithConfig(BackoffConfig{Initial: time.Second, Multiplier: 0.5})
		b.Next()
		if b.Current() != time.Second {
			t.Errorf("Current() = %v, want 1s", b.Current())
		}
	})
}

func TestReconnector(t *testing.T) {
	t.Run("RetriesUntilSuccess", func(t *testing.T) {
		var calls atomic.Int32
		done := make(chan struct{})
		r := NewReconnector(ReconnectorConfig{
			Connect: func(ctx context.Context) error {
				if calls.Add(1) < 3 {
					return errors.New("not yet")
				}
				return nil
			},
			Backoff: NewFixedBackoff(10 * time.Millisecond),
		})
		r.OnReconnected(func() { close(done) })
		r.Start()
		defer r.Stop()

		r.Trigger()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("reconnect did not succeed")
		}
		if calls.Load() != 3 {
			t.Errorf("connect called %d times, want 3", calls.Load())
		}
	})

	t.Run("StopsWhenConditionClears", func(t *testing.T) {
		var calls atomic.Int32
		var retry atomic.Bool
		retry.Store(true)
		r := NewReconnector(ReconnectorConfig{
			Connect: func(ctx context.Context) error {
				if calls.Add(1) == 2 {
					retry.Store(false)
				}
				return errors.New("fail")
			},
			ShouldRetry: retry.Load,
			Backoff:     NewFixedBackoff(5 * time.Millisecond),
		})
		r.Start()
		defer r.Stop()

		r.Trigger()
		time.Sleep(100 * time.Millisecond)
		if got := calls.Load(); got != 2 {
			t.Errorf("connect called %d times, want 2", got)
		}
	})

	t.Run("StopInterruptsWait", func(t *testing.T) {
		r := NewReconnector(ReconnectorConfig{
			Connect: func(ctx context.Context) error { return nil },
			Backoff: NewFixedBackoff(time.Hour),
		})
		r.Start()
		r.Trigger()

		stopped := make(chan struct{})
		go func() {
			r.Stop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(time.Second):
			t.Fatal("Stop blocked on the backoff wait")
		}
	})
}
