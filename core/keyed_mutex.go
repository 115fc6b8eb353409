package core

import "sync"

// keyedMutex serializes work per key. Relationship sync uses it so two
// concurrent updates to the same deal's contact list cannot interleave their
// delete-then-insert transactions and lose one of the updates.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLockEntry
}

type keyedLockEntry struct {
	refs int
	mu   sync.Mutex
}

func (m *keyedMutex) Lock(key string) {
	m.mu.Lock()
	if m.locks == nil {
		m.locks = make(map[string]*keyedLockEntry)
	}
	entry, ok := m.locks[key]
	if !ok {
		entry = &keyedLockEntry{}
		m.locks[key] = entry
	}
	entry.refs++
	m.mu.Unlock()

	entry.mu.Lock()
}

func (m *keyedMutex) Unlock(key string) {
	m.mu.Lock()
	entry, ok := m.locks[key]
	if ok {
		entry.refs--
		if entry.refs <= 0 {
			delete(m.locks, key)
		}
	}
	m.mu.Unlock()

	if ok {
		entry.mu.Unlock()
	}
}
