package taskstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/runoshun/tm/internal/domain"
)

// lockRetryDelay is how often a held lock is polled.
const lockRetryDelay = 100 * time.Millisecond

// withLock acquires an exclusive lock on path.lock, runs fn, then releases.
func withLock(path string, timeout time.Duration, fn func() error) error {
	fileLock := flock.New(path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err := lockError(fileLock.Path(), locked, err); err != nil {
		return err
	}
	defer func() { _ = fileLock.Unlock() }()

	return fn()
}

// withReadLock acquires a shared lock on path.lock, runs fn, then releases.
func withReadLock(path string, timeout time.Duration, fn func() error) error {
	fileLock := flock.New(path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	locked, err := fileLock.TryRLockContext(ctx, lockRetryDelay)
	if err := lockError(fileLock.Path(), locked, err); err != nil {
		return err
	}
	defer func() { _ = fileLock.Unlock() }()

	return fn()
}

func lockError(lockPath string, locked bool, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || (err == nil && !locked) {
		return fmt.Errorf("%w: %s", domain.ErrStoreLocked, lockPath)
	}
	if err != nil {
		return fmt.Errorf("acquire lock on %s: %w", lockPath, err)
	}
	return nil
}
