// Package keyedmutex provides per-key mutual exclusion. Cart and checkout
// mutations lock on the owning user so one user's writes are serialized
// without blocking anyone else. Mongo's per-document updates are last-write-
// wins; this restores ordering across the read-modify-write cycle.
package keyedmutex

import "sync"

type KeyedMutex struct {
	mus sync.Map // key -> *sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{}
}

// Lock acquires the mutex for key and returns its unlock func.
//
//	defer locks.Lock(userID.Hex())()
func (m *KeyedMutex) Lock(key string) func() {
	v, _ := m.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
