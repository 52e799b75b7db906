// Package badgerkv is the durable ordered-KV backend: a single BadgerDB
// instance with the five logical tables namespaced by a one-byte prefix,
// and BadgerDB's own transactions backing the multi-table atomicity the
// mutation engine requires for edge updates. Adapted from the teacher
// repository's internal/storage/badger.go, which plays the identical role
// (BadgerDB behind the same Storage/Transaction/Iterator shape) for RDF
// quads instead of generic triples.
package badgerkv

import (
	"bytes"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/mirelcoau/tristore/pkg/kv"
)

// Store is a kv.Store backed by BadgerDB.
type Store struct {
	db *badger.DB
}

// Open opens (creating if absent) a BadgerDB instance at path.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badgerkv: open %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Begin(writable bool) (kv.Txn, error) {
	return &txn{txn: s.db.NewTransaction(writable), writable: writable}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Sync flushes writes to disk ahead of the value log's own GC cadence.
func (s *Store) Sync() error {
	return s.db.Sync()
}

func prefixKey(table kv.Table, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(table)
	copy(out[1:], key)
	return out
}

type txn struct {
	txn      *badger.Txn
	writable bool
}

func (t *txn) Get(table kv.Table, key []byte) ([]byte, error) {
	item, err := t.txn.Get(prefixKey(table, key))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, kv.ErrNotFound
		}
		return nil, err
	}

	var value []byte
	err = item.Value(func(val []byte) error {
		value = append([]byte{}, val...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (t *txn) Set(table kv.Table, key, value []byte) error {
	if !t.writable {
		return kv.ErrReadOnly
	}
	return t.txn.Set(prefixKey(table, key), value)
}

func (t *txn) Delete(table kv.Table, key []byte) error {
	if !t.writable {
		return kv.ErrReadOnly
	}
	return t.txn.Delete(prefixKey(table, key))
}

// Scan iterates the closed range [lo, hi] within table, in ascending key
// order. A nil lo starts at the first key of the table; a nil hi scans to
// the table's last key.
func (t *txn) Scan(table kv.Table, lo, hi []byte) (kv.Iterator, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte{byte(table)}

	var seekKey []byte
	if lo != nil {
		seekKey = prefixKey(table, lo)
	} else {
		seekKey = opts.Prefix
	}

	var hiKey []byte
	if hi != nil {
		hiKey = prefixKey(table, hi)
	}

	it := t.txn.NewIterator(opts)
	return &iterator{it: it, tablePrefixLen: 1, seekKey: seekKey, hiKey: hiKey}, nil
}

func (t *txn) Commit() error {
	return t.txn.Commit()
}

func (t *txn) Rollback() error {
	t.txn.Discard()
	return nil
}

type iterator struct {
	it             *badger.Iterator
	tablePrefixLen int
	seekKey        []byte
	hiKey          []byte
	started        bool
	valid          bool
}

func (it *iterator) Next() bool {
	if !it.started {
		it.it.Seek(it.seekKey)
		it.started = true
	} else {
		it.it.Next()
	}

	if !it.it.Valid() {
		it.valid = false
		return false
	}
	if it.hiKey != nil && bytes.Compare(it.it.Item().Key(), it.hiKey) > 0 {
		it.valid = false
		return false
	}
	it.valid = true
	return true
}

func (it *iterator) Key() []byte {
	if !it.valid {
		return nil
	}
	key := it.it.Item().Key()
	if len(key) <= it.tablePrefixLen {
		return nil
	}
	return key[it.tablePrefixLen:]
}

func (it *iterator) Value() ([]byte, error) {
	if !it.valid {
		return nil, kv.ErrNotFound
	}
	var value []byte
	err := it.it.Item().Value(func(val []byte) error {
		value = append([]byte{}, val...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (it *iterator) Close() error {
	it.it.Close()
	return nil
}
