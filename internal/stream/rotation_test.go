package stream

import (
	"context"
	"errors"
	"fmt"
	"testing"

	ariaerrors "github.com/lunamir/aria/internal/errors"
	"github.com/lunamir/aria/internal/logging"
)

func TestRotatorReturnsFirstSuccess(t *testing.T) {
	r := NewRotator("test", []string{"a", "b", "c"}, logging.Discard())

	var tried []string
	err := r.Do(context.Background(), func(_ context.Context, base string) error {
		tried = append(tried, base)
		if base == "b" {
			return nil
		}
		return fmt.Errorf("down")
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(tried) != 2 || tried[0] != "a" || tried[1] != "b" {
		t.Errorf("tried = %v, want [a b]", tried)
	}
}

func TestRotatorRemembersWorkingInstance(t *testing.T) {
	r := NewRotator("test", []string{"a", "b", "c"}, logging.Discard())

	// First pass: a fails, b works
	r.Do(context.Background(), func(_ context.Context, base string) error {
		if base == "a" {
			return fmt.Errorf("down")
		}
		return nil
	})

	if r.Current() != "b" {
		t.Errorf("Current() = %q, want b", r.Current())
	}

	// Second pass starts at b
	var first string
	r.Do(context.Background(), func(_ context.Context, base string) error {
		if first == "" {
			first = base
		}
		return nil
	})
	if first != "b" {
		t.Errorf("second pass started at %q, want b", first)
	}
}

func TestRotatorAllInstancesFail(t *testing.T) {
	r := NewRotator("test", []string{"a", "b"}, logging.Discard())

	var tried int
	err := r.Do(context.Background(), func(_ context.Context, base string) error {
		tried++
		return fmt.Errorf("down")
	})
	if !errors.Is(err, ariaerrors.ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
	if tried != 2 {
		t.Errorf("tried = %d, want 2 (one full pass, no internal retry)", tried)
	}
	// Pointer must not advance past a failing pass
	if r.Current() != "a" {
		t.Errorf("Current() = %q, want a", r.Current())
	}
}

func TestRotatorHonorsContextCancellation(t *testing.T) {
	r := NewRotator("test", []string{"a", "b"}, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.Do(ctx, func(_ context.Context, base string) error {
		t.Error("fn called after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
