package store

import (
	"github.com/mirelcoau/tristore/pkg/kv"
	"github.com/mirelcoau/tristore/pkg/tsid"
	"github.com/mirelcoau/tristore/pkg/triple"
)

// InsertNode sets NodeProps[id] := props, replacing any existing value.
// Repeating an identical call is a no-op beyond the rewrite
// (replace-idempotence). It has no effect on edges.
func (s *Store[NP, EP]) InsertNode(id tsid.Id, props NP) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return &StorageError{Err: err}
	}
	if err := s.setNodeProps(txn, id, props); err != nil {
		_ = txn.Rollback()
		return err
	}
	if err := txn.Commit(); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *Store[NP, EP]) setNodeProps(txn kv.Txn, id tsid.Id, props NP) error {
	encoded, err := s.codec.EncodeNodeProps(props)
	if err != nil {
		return &SerializationError{Err: err}
	}
	if err := txn.Set(kv.NodeProps, id.Bytes(), encoded); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// InsertNodes applies InsertNode to every (id, props) pair in order. Not
// atomic across items: a mid-stream failure leaves a prefix applied.
func (s *Store[NP, EP]) InsertNodes(ids []tsid.Id, props []NP) error {
	for i := range ids {
		if err := s.InsertNode(ids[i], props[i]); err != nil {
			return err
		}
	}
	return nil
}

// InsertEdge implements the §4.3 replace policy: if t already has a
// property-id, its EdgeProps row is dropped and a fresh PId is minted for
// the new properties; otherwise a PId is minted for the first time. All
// three index rows and the EdgeProps row are written in one transaction.
func (s *Store[NP, EP]) InsertEdge(t triple.Triple, props EP) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return &StorageError{Err: err}
	}
	if err := s.insertEdgeTxn(txn, t, props); err != nil {
		_ = txn.Rollback()
		return err
	}
	if err := txn.Commit(); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *Store[NP, EP]) insertEdgeTxn(txn kv.Txn, t triple.Triple, props EP) error {
	if err := s.dropExistingEdge(txn, t); err != nil {
		return err
	}
	pid := s.idGen.Fresh()
	return s.writeEdge(txn, t, pid, props)
}

// dropExistingEdge removes t's current index rows and EdgeProps entry, if
// any, leaving the caller to write a replacement under a fresh (or the
// same) PId. A missing triple is not an error.
func (s *Store[NP, EP]) dropExistingEdge(txn kv.Txn, t triple.Triple) error {
	pidBytes, err := txn.Get(kv.SPO, triple.Encode(triple.SPO, t))
	if err == kv.ErrNotFound {
		return nil
	}
	if err != nil {
		return &StorageError{Err: err}
	}
	for _, o := range allOrders {
		if err := txn.Delete(tableFor(o), triple.Encode(o, t)); err != nil {
			return &StorageError{Err: err}
		}
	}
	if err := txn.Delete(kv.EdgeProps, pidBytes); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *Store[NP, EP]) writeEdge(txn kv.Txn, t triple.Triple, pid tsid.Id, props EP) error {
	encoded, err := s.codec.EncodeEdgeProps(props)
	if err != nil {
		return &SerializationError{Err: err}
	}
	pidBytes := pid.Bytes()
	for _, o := range allOrders {
		if err := txn.Set(tableFor(o), triple.Encode(o, t), pidBytes); err != nil {
			return &StorageError{Err: err}
		}
	}
	if err := txn.Set(kv.EdgeProps, pidBytes, encoded); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// InsertEdges applies InsertEdge to every (triple, props) pair in order.
func (s *Store[NP, EP]) InsertEdges(triples []triple.Triple, props []EP) error {
	for i := range triples {
		if err := s.InsertEdge(triples[i], props[i]); err != nil {
			return err
		}
	}
	return nil
}

// RemoveNode deletes NodeProps[id] and cascades to every edge with id as
// subject (an SPO range scan under key_bounds_1) or object (an OSP range
// scan under key_bounds_1), removing all three index rows and the
// EdgeProps entry for each. Removing an id that doesn't exist succeeds
// silently.
func (s *Store[NP, EP]) RemoveNode(id tsid.Id) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return &StorageError{Err: err}
	}
	if err := s.removeNodeTxn(txn, id); err != nil {
		_ = txn.Rollback()
		return err
	}
	if err := txn.Commit(); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *Store[NP, EP]) removeNodeTxn(txn kv.Txn, id tsid.Id) error {
	if err := txn.Delete(kv.NodeProps, id.Bytes()); err != nil {
		return &StorageError{Err: err}
	}

	cascaded := make(map[string]struct{})

	asSub, err := s.cascadeOrder(txn, triple.SPO, id, cascaded)
	if err != nil {
		return err
	}
	for _, t := range asSub {
		if err := s.removeEdgeTxn(txn, t); err != nil {
			return err
		}
	}

	asObj, err := s.cascadeOrder(txn, triple.OSP, id, cascaded)
	if err != nil {
		return err
	}
	for _, t := range asObj {
		if err := s.removeEdgeTxn(txn, t); err != nil {
			return err
		}
	}
	return nil
}

// cascadeOrder scans key_bounds_1(id) under order and returns the distinct
// triples found, recording each triple's SPO key in seen so a self-loop
// (sub == obj == id) surfaced by both the SPO and OSP scans is removed
// only once.
func (s *Store[NP, EP]) cascadeOrder(txn kv.Txn, order triple.Order, id tsid.Id, seen map[string]struct{}) ([]triple.Triple, error) {
	lo, hi := triple.KeyBounds1(order, id)
	it, err := txn.Scan(tableFor(order), lo, hi)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	defer it.Close()

	var out []triple.Triple
	for it.Next() {
		t, ok := triple.Decode(order, it.Key(), s.zeroID)
		if !ok {
			return nil, &KeySizeError{Got: len(it.Key()), Want: 3 * len(s.zeroID.Bytes())}
		}
		spoKey := string(triple.Encode(triple.SPO, t))
		if _, dup := seen[spoKey]; dup {
			continue
		}
		seen[spoKey] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// RemoveEdge deletes t from all three index maps and removes its EdgeProps
// entry. A nonexistent triple succeeds silently.
func (s *Store[NP, EP]) RemoveEdge(t triple.Triple) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return &StorageError{Err: err}
	}
	if err := s.removeEdgeTxn(txn, t); err != nil {
		_ = txn.Rollback()
		return err
	}
	if err := txn.Commit(); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func (s *Store[NP, EP]) removeEdgeTxn(txn kv.Txn, t triple.Triple) error {
	pidBytes, err := txn.Get(kv.SPO, triple.Encode(triple.SPO, t))
	if err == kv.ErrNotFound {
		return nil
	}
	if err != nil {
		return &StorageError{Err: err}
	}
	for _, o := range allOrders {
		if err := txn.Delete(tableFor(o), triple.Encode(o, t)); err != nil {
			return &StorageError{Err: err}
		}
	}
	if err := txn.Delete(kv.EdgeProps, pidBytes); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// RemoveEdges applies RemoveEdge to every triple in order.
func (s *Store[NP, EP]) RemoveEdges(triples []triple.Triple) error {
	for _, t := range triples {
		if err := s.RemoveEdge(t); err != nil {
			return err
		}
	}
	return nil
}

// MergeNode applies the merge policy to a vertex: if id is absent this is
// equivalent to InsertNode; if present, the stored value and props are
// combined with Mergeable.Merge and the result replaces NodeProps[id]. It
// is a free function, not a Store method, because it needs a stricter type
// constraint on NP than the rest of the engine requires.
func MergeNode[NP Mergeable[NP], EP any](s *Store[NP, EP], id tsid.Id, props NP) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return &StorageError{Err: err}
	}

	existing, err := txn.Get(kv.NodeProps, id.Bytes())
	if err == kv.ErrNotFound {
		if err := s.setNodeProps(txn, id, props); err != nil {
			_ = txn.Rollback()
			return err
		}
	} else if err != nil {
		_ = txn.Rollback()
		return &StorageError{Err: err}
	} else {
		current, decErr := s.codec.DecodeNodeProps(existing)
		if decErr != nil {
			_ = txn.Rollback()
			return &SerializationError{Err: decErr}
		}
		merged := current.Merge(props)
		if err := s.setNodeProps(txn, id, merged); err != nil {
			_ = txn.Rollback()
			return err
		}
	}

	if err := txn.Commit(); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// MergeEdge applies the merge policy to an edge: if t is absent this is
// equivalent to InsertEdge; if present, the existing EdgeProps value is
// combined with Mergeable.Merge and written back under the same PId (no
// index rows change, since the triple's key bytes are unchanged).
func MergeEdge[NP any, EP Mergeable[EP]](s *Store[NP, EP], t triple.Triple, props EP) error {
	txn, err := s.backend.Begin(true)
	if err != nil {
		return &StorageError{Err: err}
	}

	pidBytes, err := txn.Get(kv.SPO, triple.Encode(triple.SPO, t))
	if err == kv.ErrNotFound {
		pid := s.idGen.Fresh()
		if err := s.writeEdge(txn, t, pid, props); err != nil {
			_ = txn.Rollback()
			return err
		}
	} else if err != nil {
		_ = txn.Rollback()
		return &StorageError{Err: err}
	} else {
		existing, err := txn.Get(kv.EdgeProps, pidBytes)
		if err != nil {
			_ = txn.Rollback()
			if err == kv.ErrNotFound {
				return &MissingPropertyData{PIdBytes: pidBytes}
			}
			return &StorageError{Err: err}
		}
		current, decErr := s.codec.DecodeEdgeProps(existing)
		if decErr != nil {
			_ = txn.Rollback()
			return &SerializationError{Err: decErr}
		}
		merged := current.Merge(props)
		encoded, encErr := s.codec.EncodeEdgeProps(merged)
		if encErr != nil {
			_ = txn.Rollback()
			return &SerializationError{Err: encErr}
		}
		if err := txn.Set(kv.EdgeProps, pidBytes, encoded); err != nil {
			_ = txn.Rollback()
			return &StorageError{Err: err}
		}
	}

	if err := txn.Commit(); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

// MergeNodes applies MergeNode to every (id, props) pair in order.
func MergeNodes[NP Mergeable[NP], EP any](s *Store[NP, EP], ids []tsid.Id, props []NP) error {
	for i := range ids {
		if err := MergeNode(s, ids[i], props[i]); err != nil {
			return err
		}
	}
	return nil
}

// MergeEdges applies MergeEdge to every (triple, props) pair in order.
func MergeEdges[NP any, EP Mergeable[EP]](s *Store[NP, EP], triples []triple.Triple, props []EP) error {
	for i := range triples {
		if err := MergeEdge(s, triples[i], props[i]); err != nil {
			return err
		}
	}
	return nil
}
