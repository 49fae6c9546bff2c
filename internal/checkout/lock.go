package checkout

import (
	"context"
	"sync"

	"github.com/thomas-vilte/repocheck/internal/errors"
)

// keyedMutex serializes work per key. Entries are dropped once nobody holds
// or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

// keyedEntry is held while its one-slot channel is full.
type keyedEntry struct {
	slot chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock blocks until key is free or ctx is done. On success it returns the
// matching unlock func, which is safe to call more than once.
func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	e := k.acquire(key)

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		k.drop(key, e)
		return nil, errors.ErrCancelled.WithError(ctx.Err()).WithContext("lock", key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			k.drop(key, e)
		})
	}, nil
}

func (k *keyedMutex) acquire(key string) *keyedEntry {
	k.mu.Lock()
	defer k.mu.Unlock()

	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{slot: make(chan struct{}, 1)}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *keyedMutex) drop(key string, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
