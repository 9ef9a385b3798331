package persistence

import "context"

// Locker serializes read-modify-write cycles on the ticket collection.
type Locker interface {
	Lock(ctx context.Context) (unlock func(), err error)
}

// MutexLocker is an in-process Locker that honors context cancellation.
type MutexLocker struct {
	sem chan struct{}
}

// NewMutexLocker builds an unlocked MutexLocker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{sem: make(chan struct{}, 1)}
}

// Lock blocks until the lock is free or ctx is done.
func (m *MutexLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case m.sem <- struct{}{}:
		return func() { <-m.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
