// Package memkv is the in-memory ordered-KV backend: the engine's five
// sorted maps kept as google/btree trees instead of a durable store. It
// satisfies pkg/kv.Store and is the backend every set-operation result
// (union/intersection/difference) and every query result materializes
// into; extend and merge write into whatever store the caller passes.
package memkv

import (
	"bytes"

	"github.com/google/btree"

	"github.com/mirelcoau/tristore/pkg/kv"
)

type kvItem struct {
	key   []byte
	value []byte
}

func itemLess(a, b kvItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Store is an in-memory kv.Store backed by one btree per table.
type Store struct {
	trees map[kv.Table]*btree.BTreeG[kvItem]
}

// New creates an empty in-memory backend.
func New() *Store {
	trees := make(map[kv.Table]*btree.BTreeG[kvItem], 5)
	for _, t := range []kv.Table{kv.NodeProps, kv.EdgeProps, kv.SPO, kv.POS, kv.OSP} {
		trees[t] = btree.NewG(32, itemLess)
	}
	return &Store{trees: trees}
}

func (s *Store) Begin(writable bool) (kv.Txn, error) {
	return &txn{store: s, writable: writable}, nil
}

func (s *Store) Close() error { return nil }

// undoOp records how to reverse a single Set/Delete for Rollback.
type undoOp struct {
	table    kv.Table
	key      []byte
	hadValue bool
	oldValue []byte
}

type txn struct {
	store    *Store
	writable bool
	undo     []undoOp
	done     bool
}

func (t *txn) Get(table kv.Table, key []byte) ([]byte, error) {
	item, ok := t.store.trees[table].Get(kvItem{key: key})
	if !ok {
		return nil, kv.ErrNotFound
	}
	return item.value, nil
}

func (t *txn) Set(table kv.Table, key, value []byte) error {
	if !t.writable {
		return kv.ErrReadOnly
	}
	tree := t.store.trees[table]
	old, had := tree.Get(kvItem{key: key})
	op := undoOp{table: table, key: append([]byte(nil), key...), hadValue: had}
	if had {
		op.oldValue = old.value
	}
	t.undo = append(t.undo, op)

	stored := append([]byte(nil), value...)
	tree.ReplaceOrInsert(kvItem{key: append([]byte(nil), key...), value: stored})
	return nil
}

func (t *txn) Delete(table kv.Table, key []byte) error {
	if !t.writable {
		return kv.ErrReadOnly
	}
	tree := t.store.trees[table]
	old, had := tree.Get(kvItem{key: key})
	if !had {
		return nil
	}
	t.undo = append(t.undo, undoOp{table: table, key: append([]byte(nil), key...), hadValue: true, oldValue: old.value})
	tree.Delete(kvItem{key: key})
	return nil
}

func (t *txn) Scan(table kv.Table, lo, hi []byte) (kv.Iterator, error) {
	tree := t.store.trees[table]
	var items []kvItem
	visit := func(item kvItem) bool {
		if hi != nil && bytes.Compare(item.key, hi) > 0 {
			return false
		}
		items = append(items, item)
		return true
	}
	if lo != nil {
		tree.AscendGreaterOrEqual(kvItem{key: lo}, visit)
	} else {
		tree.Ascend(visit)
	}
	return &iterator{items: items, pos: -1}, nil
}

func (t *txn) Commit() error {
	t.done = true
	t.undo = nil
	return nil
}

func (t *txn) Rollback() error {
	if t.done {
		return nil
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		op := t.undo[i]
		tree := t.store.trees[op.table]
		if op.hadValue {
			tree.ReplaceOrInsert(kvItem{key: op.key, value: op.oldValue})
		} else {
			tree.Delete(kvItem{key: op.key})
		}
	}
	t.undo = nil
	t.done = true
	return nil
}

type iterator struct {
	items []kvItem
	pos   int
}

func (it *iterator) Next() bool {
	it.pos++
	return it.pos < len(it.items)
}

func (it *iterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.items) {
		return nil
	}
	return it.items[it.pos].key
}

func (it *iterator) Value() ([]byte, error) {
	if it.pos < 0 || it.pos >= len(it.items) {
		return nil, kv.ErrNotFound
	}
	return it.items[it.pos].value, nil
}

func (it *iterator) Close() error { return nil }
