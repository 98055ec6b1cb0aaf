// Package keylock provides mutual exclusion keyed by arbitrary string
// identifiers, so that mutations to a given record can be serialized without
// locking the whole store.
package keylock

import "sync"

// KeyLock hands out one mutex per key. Mutexes are created lazily and kept for
// the lifetime of the KeyLock; the set of keys in this application (record
// identifiers under active mutation) is small.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyLock) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, found := k.locks[key]
	if !found {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// Lock acquires the mutex for a single key.
func (k *KeyLock) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the mutex for a single key.
func (k *KeyLock) Unlock(key string) {
	k.get(key).Unlock()
}

// LockKeys acquires the mutexes for all keys in sorted order. Callers must
// release with UnlockKeys using the same slice. Duplicate keys are locked once.
// The consistent ordering prevents deadlock when two callers lock overlapping
// key sets.
func (k *KeyLock) LockKeys(keys []string) {
	for _, key := range dedupeSorted(keys) {
		k.Lock(key)
	}
}

// UnlockKeys releases the mutexes acquired by LockKeys.
func (k *KeyLock) UnlockKeys(keys []string) {
	deduped := dedupeSorted(keys)
	for i := len(deduped) - 1; i >= 0; i-- {
		k.Unlock(deduped[i])
	}
}

func dedupeSorted(keys []string) []string {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			sorted = append(sorted, key)
		}
	}
	// insertion sort, the slices are tiny
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return sorted
}
