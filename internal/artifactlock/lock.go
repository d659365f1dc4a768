// Package artifactlock serializes writers of a model artifact across processes.
package artifactlock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// RetryDelay is how often a blocked Acquire re-tries the lock.
const RetryDelay = 100 * time.Millisecond

// Lock is a held exclusive lock on an artifact.
type Lock struct {
	fl *flock.Flock
}

// Path returns the lock file path for an artifact.
func Path(artifactPath string) string {
	return artifactPath + ".lock"
}

// Acquire takes the exclusive lock for artifactPath, waiting until it is free
// or ctx is done.
func Acquire(ctx context.Context, artifactPath string) (*Lock, error) {
	fl, err := newFlock(artifactPath)
	if err != nil {
		return nil, err
	}
	locked, err := fl.TryLockContext(ctx, RetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock %s", fl.Path())
	}
	return &Lock{fl: fl}, nil
}

// TryAcquire takes the lock without waiting. It returns nil, nil when another
// holder has it.
func TryAcquire(artifactPath string) (*Lock, error) {
	fl, err := newFlock(artifactPath)
	if err != nil {
		return nil, err
	}
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s: %w", fl.Path(), err)
	}
	if !locked {
		return nil, nil
	}
	return &Lock{fl: fl}, nil
}

// newFlock creates the artifact directory so the lock file can be opened
// before the first artifact exists.
func newFlock(artifactPath string) (*flock.Flock, error) {
	path := Path(artifactPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	return flock.New(path), nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.fl.Path(), err)
	}
	return nil
}
