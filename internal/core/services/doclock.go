package services

import "sync"

// documentLocks hands out one mutex per document id so lifecycle mutations
// against the same document are serialized while different documents
// proceed in parallel. Locks are never evicted; the set of live documents
// in one process is small and a stale mutex is harmless.
type documentLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDocumentLocks() *documentLocks {
	return &documentLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire returns the mutex for documentID, locked. The caller must unlock it.
func (d *documentLocks) acquire(documentID string) *sync.Mutex {
	d.mu.Lock()
	l, ok := d.locks[documentID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[documentID] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l
}
