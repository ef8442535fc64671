package locks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

// RedsyncLocker is the multi-process order locker: a redis-backed mutex per
// order, for deployments where more than one service instance handles
// administrative actions.
type RedsyncLocker struct {
	rs     *redsync.Redsync
	expiry time.Duration
}

func NewRedsyncLocker(addr string, expiry time.Duration) *RedsyncLocker {
	client := goredislib.NewClient(&goredislib.Options{Addr: addr})
	pool := goredis.NewPool(client)
	if expiry <= 0 {
		expiry = 30 * time.Second
	}
	return &RedsyncLocker{
		rs:     redsync.New(pool),
		expiry: expiry,
	}
}

func (l *RedsyncLocker) Lock(ctx context.Context, orderID string) (func(), error) {
	mutex := l.rs.NewMutex(
		fmt.Sprintf("order_transition_lock:%s", orderID),
		redsync.WithExpiry(l.expiry),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to acquire order lock: %w", err)
	}
	unlock := func() {
		if _, err := mutex.UnlockContext(context.Background()); err != nil {
			slog.Warn("failed to unlock order", "order_id", orderID, "error", err.Error())
		}
	}
	return unlock, nil
}
