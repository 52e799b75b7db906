// Package kv is the backend contract the engine is written against: an
// ordered key-value store with five named tables and range iteration, with
// transactions on durable implementations. This is the "Backend contract"
// component (§4.8) — the in-memory backend (internal/memkv) and the durable
// Badger-backed backend (internal/badgerkv) both satisfy it, and every
// algorithm above this package (mutation, iteration, query, set algebra) is
// written only against these interfaces.
package kv

import "errors"

// ErrNotFound is returned by Get when the key is absent from the table.
var ErrNotFound = errors.New("kv: key not found")

// ErrReadOnly is returned by Set/Delete on a transaction opened read-only.
var ErrReadOnly = errors.New("kv: transaction is read-only")

// Table names one of the five logical sorted maps a backend must provide.
type Table byte

const (
	// NodeProps holds Id -> serialized NodeProperties.
	NodeProps Table = iota
	// EdgeProps holds PId -> serialized EdgeProperties.
	EdgeProps
	// SPO holds the subject-predicate-object-ordered triple key -> PId.
	SPO
	// POS holds the predicate-object-subject-ordered triple key -> PId.
	POS
	// OSP holds the object-subject-predicate-ordered triple key -> PId.
	OSP
)

func (t Table) String() string {
	switch t {
	case NodeProps:
		return "node_props"
	case EdgeProps:
		return "edge_props"
	case SPO:
		return "spo_data"
	case POS:
		return "pos_data"
	case OSP:
		return "osp_data"
	default:
		return "unknown"
	}
}

// Store is the backend handle: it opens transactions and closes the
// underlying resource. In-memory backends never fail to open a
// transaction or to close; durable backends may.
type Store interface {
	// Begin starts a new transaction. A non-writable transaction rejects
	// Set and Delete with ErrReadOnly.
	Begin(writable bool) (Txn, error)
	// Close releases the backend's resources.
	Close() error
}

// Txn is a transaction spanning all five tables. Durable backends must
// make the calls between Begin and Commit atomic: either every Set/Delete
// in the transaction is observed together, or none are (§4.3's "four-map
// update must be one transaction").
type Txn interface {
	Get(table Table, key []byte) ([]byte, error)
	Set(table Table, key, value []byte) error
	Delete(table Table, key []byte) error
	// Scan iterates the closed range [lo, hi] within table. A nil lo
	// scans from the first key; a nil hi scans to the last key.
	Scan(table Table, lo, hi []byte) (Iterator, error)
	Commit() error
	Rollback() error
}

// Iterator walks a table's key range in ascending key order.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() ([]byte, error)
	Close() error
}
