package backend

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"golang.org/x/sync/singleflight"
)

const refreshKey = "refresh"

// refresher makes sure only one session refresh is in flight. Every request
// remembers the epoch it was sent under; once that epoch settled, a late 401
// reuses the settled outcome instead of refreshing again.
type refresher struct {
	logger    *slog.Logger
	group     singleflight.Group
	refresh   func(ctx context.Context) error
	onExpired func(ctx context.Context)
	timeout   time.Duration

	mu      sync.Mutex
	epoch   uint64
	outcome error
}

func newRefresher(
	logger *slog.Logger,
	timeout time.Duration,
	refresh func(ctx context.Context) error,
	onExpired func(ctx context.Context),
) *refresher {
	//nolint:exhaustruct //other fields are optional
	return &refresher{
		logger:    logger,
		refresh:   refresh,
		onExpired: onExpired,
		timeout:   timeout,
	}
}

func (r *refresher) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.epoch
}

func (r *refresher) settled(observed uint64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return observed != r.epoch, r.outcome
}

// Refresh blocks until the refresh belonging to the observed epoch settled or
// ctx is done. The shared refresh is not cancelled by any single waiter.
func (r *refresher) Refresh(ctx context.Context, observed uint64) error {
	if done, outcome := r.settled(observed); done {
		return outcome
	}

	ch := r.group.DoChan(refreshKey, func() (any, error) {
		return nil, r.run(context.WithoutCancel(ctx), observed)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *refresher) run(ctx context.Context, observed uint64) error {
	if done, outcome := r.settled(observed); done {
		return outcome
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	r.logger.Debug("refreshing session")

	err := r.refresh(ctx)
	if err != nil {
		r.logger.Error("failed to refresh session", logging.ErrAttr(err))
		err = fmt.Errorf("%w: %w", ErrSessionExpired, err)
		r.onExpired(ctx)
	}

	r.mu.Lock()
	r.epoch++
	r.outcome = err
	r.mu.Unlock()

	return err
}
