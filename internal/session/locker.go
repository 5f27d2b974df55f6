package session

import "sync"

// KeyedLocker hands out one mutex per key so that turns from the same
// conversant run one at a time while different conversants never block
// each other. Mutexes are created on first use and kept for the
// process lifetime; the key space is bounded by active conversants.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedLocker returns an empty locker.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it if needed.
func (l *KeyedLocker) Lock(key string) {
	l.lockFor(key).Lock()
}

// Unlock releases the mutex for key. Unlocking a key that was never
// locked panics, same as sync.Mutex.
func (l *KeyedLocker) Unlock(key string) {
	l.lockFor(key).Unlock()
}

func (l *KeyedLocker) lockFor(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	return m
}
