package session

import (
	"context"
	"slices"
	"sync"
)

type keyState struct {
	waiters []chan struct{}
}

// keyedLock is a set of FIFO mutexes created on demand and dropped when idle.
type keyedLock struct {
	mu   sync.Mutex
	keys map[string]*keyState
}

func newKeyedLock() *keyedLock {
	return &keyedLock{keys: make(map[string]*keyState)}
}

// enqueue takes a place in key's queue without blocking. The returned
// channel is closed once the caller owns the lock.
func (l *keyedLock) enqueue(key string) <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan struct{})
	st, held := l.keys[key]
	if !held {
		l.keys[key] = &keyState{}
		close(ch)
		return ch
	}
	st.waiters = append(st.waiters, ch)
	return ch
}

func (l *keyedLock) lock(ctx context.Context, key string) (func(), error) {
	ch := l.enqueue(key)
	select {
	case <-ch:
		return l.releaser(key), nil
	default:
	}

	select {
	case <-ch:
		return l.releaser(key), nil
	case <-ctx.Done():
		l.mu.Lock()
		if st, ok := l.keys[key]; ok {
			if i := slices.Index(st.waiters, ch); i >= 0 {
				st.waiters = slices.Delete(st.waiters, i, i+1)
				l.mu.Unlock()
				return nil, ctx.Err()
			}
		}
		l.mu.Unlock()
		// Ownership was handed over while we were giving up; pass it on.
		l.release(key)
		return nil, ctx.Err()
	}
}

func (l *keyedLock) releaser(key string) func() {
	var once sync.Once
	return func() { once.Do(func() { l.release(key) }) }
}

// release hands the lock to the oldest waiter, or drops the key.
func (l *keyedLock) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	st, ok := l.keys[key]
	if !ok {
		return
	}
	if len(st.waiters) == 0 {
		delete(l.keys, key)
		return
	}
	next := st.waiters[0]
	st.waiters = st.waiters[1:]
	close(next)
}

// held reports whether key is currently locked.
func (l *keyedLock) held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.keys[key]
	return ok
}
