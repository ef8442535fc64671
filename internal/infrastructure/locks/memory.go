package locks

import (
	"context"
	"sync"
)

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// KeyedMutex serializes work per order ID inside a single process. Entries
// are reference-counted and dropped once the last holder releases, so the
// map does not grow with the order table.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[string]*lockEntry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, orderID string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k.mu.Lock()
	entry, ok := k.entries[orderID]
	if !ok {
		entry = &lockEntry{}
		k.entries[orderID] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	var once sync.Once
	unlock := func() {
		once.Do(func() {
			entry.mu.Unlock()
			k.mu.Lock()
			entry.refs--
			if entry.refs == 0 {
				delete(k.entries, orderID)
			}
			k.mu.Unlock()
		})
	}
	return unlock, nil
}
