package stream

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	ariaerrors "github.com/lunamir/aria/internal/errors"
)

// Rotator walks a fixed ordered list of interchangeable instances,
// remembering which one last worked. Retries are sequential: the next
// instance is tried only after the previous one has definitively failed,
// so a struggling public instance is never hit with amplified load.
type Rotator struct {
	name      string
	instances []string
	logger    *logrus.Logger

	mu      sync.Mutex
	current int
}

// NewRotator creates a rotator over the given instance list.
func NewRotator(name string, instances []string, logger *logrus.Logger) *Rotator {
	return &Rotator{
		name:      name,
		instances: instances,
		logger:    logger,
	}
}

// Do invokes fn against each instance in round-robin order starting at
// the last working one, returning on the first success. The pointer only
// advances to an instance that actually served the request. When every
// instance fails the caller gets ErrProviderUnavailable and must treat
// the provider as down; there is no internal retry beyond one full pass.
func (r *Rotator) Do(ctx context.Context, fn func(ctx context.Context, base string) error) error {
	r.mu.Lock()
	start := r.current
	r.mu.Unlock()

	var lastErr error
	for i := 0; i < len(r.instances); i++ {
		idx := (start + i) % len(r.instances)
		instance := r.instances[idx]

		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(ctx, instance); err != nil {
			lastErr = err
			r.logger.WithError(err).WithFields(logrus.Fields{
				"provider": r.name,
				"instance": instance,
			}).Warn("Instance failed, rotating")
			continue
		}

		r.mu.Lock()
		r.current = idx
		r.mu.Unlock()
		return nil
	}

	return fmt.Errorf("%s: all instances failed: %w (last: %v)", r.name, ariaerrors.ErrProviderUnavailable, lastErr)
}

// Current returns the instance the rotator would try first.
func (r *Rotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.instances) == 0 {
		return ""
	}
	return r.instances[r.current]
}
