package domain

import "context"

// OrderLocker serializes transitions on the same order. The lock is held
// for the whole validate-then-commit sequence, so two concurrent
// administrative actions resolve deterministically: the one that commits
// second observes the updated status and fails with
// InvalidTransitionError.
//
// Implementations: keyed in-process mutexes for a single process, or a
// redis-backed distributed mutex for multi-process deployments.
type OrderLocker interface {
	Lock(ctx context.Context, orderID string) (unlock func(), err error)
}
