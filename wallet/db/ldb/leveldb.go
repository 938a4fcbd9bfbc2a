// Package ldb is the goleveldb-backed keystore store.
package ldb

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/walletkit/wallet-core/wallet/db"
)

const keystorePrefix = "ks_"

// LevelDB stores keystore containers in a goleveldb database.
type LevelDB struct {
	mu     sync.Mutex
	ldb    *leveldb.DB
	closed bool
}

// OpenDB opens (creating if necessary) the database at path.
func OpenDB(path string) (db.DB, error) {
	opts := &opt.Options{
		Filter: filter.NewBloomFilter(10),
	}
	ldb, err := leveldb.OpenFile(path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open keystore db at %s", path)
	}
	return &LevelDB{ldb: ldb}, nil
}

func keystoreKey(id string) []byte {
	return []byte(keystorePrefix + id)
}

// PutKeystore stores the container document under id.
func (l *LevelDB) PutKeystore(id string, doc []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return db.ErrDBClosed
	}
	err := l.ldb.Put(keystoreKey(id), doc, nil)
	return errors.Wrap(err, "failed to put keystore")
}

// GetKeystore returns the container document stored under id.
func (l *LevelDB) GetKeystore(id string) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, db.ErrDBClosed
	}
	doc, err := l.ldb.Get(keystoreKey(id), nil)
	if err == leveldb.ErrNotFound {
		return nil, db.ErrKeystoreNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get keystore")
	}
	return doc, nil
}

// DeleteKeystore removes the container stored under id.
func (l *LevelDB) DeleteKeystore(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return db.ErrDBClosed
	}
	err := l.ldb.Delete(keystoreKey(id), nil)
	return errors.Wrap(err, "failed to delete keystore")
}

// ListKeystoreIDs returns the ids of all stored containers.
func (l *LevelDB) ListKeystoreIDs() ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, db.ErrDBClosed
	}

	var ids []string
	iter := l.ldb.NewIterator(util.BytesPrefix([]byte(keystorePrefix)), nil)
	defer iter.Release()
	for iter.Next() {
		ids = append(ids, string(iter.Key()[len(keystorePrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate keystores")
	}
	return ids, nil
}

// Close releases the underlying database.
func (l *LevelDB) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	return l.ldb.Close()
}
