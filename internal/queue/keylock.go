package queue

import "sync"

// keyLocks hands out one mutex per queue key so conflict-sensitive
// operations on the same key serialize while different keys run in
// parallel. Locks are never evicted; a day's worth of keys is small.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (kl *keyLocks) get(key Key) *sync.Mutex {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	k := key.String()
	lock, ok := kl.locks[k]
	if !ok {
		lock = &sync.Mutex{}
		kl.locks[k] = lock
	}
	return lock
}
