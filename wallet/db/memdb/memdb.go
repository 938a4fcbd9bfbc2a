// Package memdb is the in-memory keystore store, used by tests and by
// hosts that manage durable storage themselves.
package memdb

import (
	"sort"
	"sync"

	"github.com/walletkit/wallet-core/wallet/db"
)

// MemDB keeps keystore containers in a map.
type MemDB struct {
	mu     sync.Mutex
	stores map[string][]byte
	closed bool
}

// NewMemDB creates an empty store.
func NewMemDB() *MemDB {
	return &MemDB{stores: make(map[string][]byte)}
}

func (m *MemDB) PutKeystore(id string, doc []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return db.ErrDBClosed
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	m.stores[id] = cp
	return nil
}

func (m *MemDB) GetKeystore(id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, db.ErrDBClosed
	}
	doc, ok := m.stores[id]
	if !ok {
		return nil, db.ErrKeystoreNotFound
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}

func (m *MemDB) DeleteKeystore(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return db.ErrDBClosed
	}
	delete(m.stores, id)
	return nil
}

func (m *MemDB) ListKeystoreIDs() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, db.ErrDBClosed
	}
	ids := make([]string, 0, len(m.stores))
	for id := range m.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemDB) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.stores = nil
	return nil
}
