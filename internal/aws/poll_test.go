package aws

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPoll(t *testing.T) {
	t.Run("first check runs immediately", func(t *testing.T) {
		calls := 0

		start := time.Now()
		err := Poll(context.Background(), time.Minute, time.Hour, func(ctx context.Context) (bool, error) {
			calls++
			return true, nil
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if calls != 1 {
			t.Errorf("Expected 1 check, got %d", calls)
		}
		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("Expected immediate return, took %s", elapsed)
		}
	})

	t.Run("retries until done", func(t *testing.T) {
		calls := 0

		err := Poll(context.Background(), time.Millisecond, time.Second, func(ctx context.Context) (bool, error) {
			calls++
			return calls >= 3, nil
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		if calls != 3 {
			t.Errorf("Expected 3 checks, got %d", calls)
		}
	})

	t.Run("check error aborts the poll", func(t *testing.T) {
		cause := errors.New("describe failed")

		err := Poll(context.Background(), time.Millisecond, time.Second, func(ctx context.Context) (bool, error) {
			return false, cause
		})
		if !errors.Is(err, cause) {
			t.Errorf("Expected check error, got %v", err)
		}
	})

	t.Run("times out when never done", func(t *testing.T) {
		err := Poll(context.Background(), 5*time.Millisecond, 20*time.Millisecond, func(ctx context.Context) (bool, error) {
			return false, nil
		})
		if !errors.Is(err, ErrPollTimeout) {
			t.Errorf("Expected ErrPollTimeout, got %v", err)
		}
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := Poll(ctx, time.Minute, time.Hour, func(ctx context.Context) (bool, error) {
			return false, nil
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	})
}
