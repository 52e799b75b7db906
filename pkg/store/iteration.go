package store

import (
	"github.com/mirelcoau/tristore/pkg/kv"
	"github.com/mirelcoau/tristore/pkg/tsid"
	"github.com/mirelcoau/tristore/pkg/triple"
)

// Vertex is an id paired with its resolved NodeProperties, the item type of
// vertex iteration.
type Vertex[NP any] struct {
	Id    tsid.Id
	Props NP
}

// Edge is a triple paired with its resolved EdgeProperties, the item type
// of plain edge iteration.
type Edge[EP any] struct {
	Triple triple.Triple
	Props  EP
}

// VertexIter walks NodeProps in ascending id order. Errors surface per
// element via Next's second return, never as a silent truncation; the
// caller may keep calling Next after an error to resume the scan.
type VertexIter[NP any] struct {
	txn    kv.Txn
	it     kv.Iterator
	zeroID tsid.Id
	decode func([]byte) (NP, error)
	closed bool
}

// IterVertices returns a borrowing iterator over every (Id, NodeProperties)
// pair in ascending id order. The caller must Close it.
func (s *Store[NP, EP]) IterVertices() (*VertexIter[NP], error) {
	txn, err := s.backend.Begin(false)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	it, err := txn.Scan(kv.NodeProps, nil, nil)
	if err != nil {
		_ = txn.Rollback()
		return nil, &StorageError{Err: err}
	}
	return &VertexIter[NP]{txn: txn, it: it, zeroID: s.zeroID, decode: s.codec.DecodeNodeProps}, nil
}

// Next advances the iterator. ok is false once the scan is exhausted or the
// iterator has been closed; err carries a per-element decode failure
// without ending the scan.
func (vi *VertexIter[NP]) Next() (item Vertex[NP], err error, ok bool) {
	if vi.closed || !vi.it.Next() {
		return Vertex[NP]{}, nil, false
	}
	key := vi.it.Key()
	id, decOK := vi.zeroID.Decode(key)
	if !decOK {
		return Vertex[NP]{}, &KeySizeError{Got: len(key), Want: len(vi.zeroID.Bytes())}, true
	}
	raw, getErr := vi.it.Value()
	if getErr != nil {
		return Vertex[NP]{}, &StorageError{Err: getErr}, true
	}
	props, decErr := vi.decode(raw)
	if decErr != nil {
		return Vertex[NP]{}, &SerializationError{Err: decErr}, true
	}
	return Vertex[NP]{Id: id, Props: props}, nil, true
}

// Close releases the iterator and rolls back its (read-only) transaction.
func (vi *VertexIter[NP]) Close() error {
	if vi.closed {
		return nil
	}
	vi.closed = true
	_ = vi.it.Close()
	return vi.txn.Rollback()
}

// EdgeIter walks one triple index in that ordering's ascending byte order,
// dereferencing each row's PId into EdgeProps.
type EdgeIter[EP any] struct {
	txn    kv.Txn
	it     kv.Iterator
	order  triple.Order
	zeroID tsid.Id
	decode func([]byte) (EP, error)
	closed bool
}

// IterEdges returns a borrowing iterator over every (Triple, EdgeProperties)
// pair under the given ordering. The caller must Close it.
func (s *Store[NP, EP]) IterEdges(order triple.Order) (*EdgeIter[EP], error) {
	txn, err := s.backend.Begin(false)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	it, err := txn.Scan(tableFor(order), nil, nil)
	if err != nil {
		_ = txn.Rollback()
		return nil, &StorageError{Err: err}
	}
	return &EdgeIter[EP]{txn: txn, it: it, order: order, zeroID: s.zeroID, decode: s.codec.DecodeEdgeProps}, nil
}

func (ei *EdgeIter[EP]) Next() (item Edge[EP], err error, ok bool) {
	if ei.closed || !ei.it.Next() {
		return Edge[EP]{}, nil, false
	}
	key := ei.it.Key()
	t, decOK := triple.Decode(ei.order, key, ei.zeroID)
	if !decOK {
		return Edge[EP]{}, &KeySizeError{Got: len(key), Want: 3 * len(ei.zeroID.Bytes())}, true
	}
	pidBytes, getErr := ei.it.Value()
	if getErr != nil {
		return Edge[EP]{}, &StorageError{Err: getErr}, true
	}
	raw, getErr := ei.txn.Get(kv.EdgeProps, pidBytes)
	if getErr == kv.ErrNotFound {
		return Edge[EP]{}, &MissingPropertyData{PIdBytes: pidBytes}, true
	}
	if getErr != nil {
		return Edge[EP]{}, &StorageError{Err: getErr}, true
	}
	props, decErr := ei.decode(raw)
	if decErr != nil {
		return Edge[EP]{}, &SerializationError{Err: decErr}, true
	}
	return Edge[EP]{Triple: t, Props: props}, nil, true
}

func (ei *EdgeIter[EP]) Close() error {
	if ei.closed {
		return nil
	}
	ei.closed = true
	_ = ei.it.Close()
	return ei.txn.Rollback()
}

// PropsEdgeIter wraps EdgeIter, additionally resolving both endpoints
// against NodeProps. Edges whose subject or object has no NodeProperties
// entry are skipped silently, per §4.5.
type PropsEdgeIter[NP any, EP any] struct {
	inner  *EdgeIter[EP]
	txn    kv.Txn
	decode func([]byte) (NP, error)
	closed bool
}

// IterEdgesWithProps returns a borrowing iterator over PropsTriple values
// under the given ordering, filtering out edges with an endpoint lacking
// NodeProperties.
func (s *Store[NP, EP]) IterEdgesWithProps(order triple.Order) (*PropsEdgeIter[NP, EP], error) {
	txn, err := s.backend.Begin(false)
	if err != nil {
		return nil, &StorageError{Err: err}
	}
	it, err := txn.Scan(tableFor(order), nil, nil)
	if err != nil {
		_ = txn.Rollback()
		return nil, &StorageError{Err: err}
	}
	inner := &EdgeIter[EP]{txn: txn, it: it, order: order, zeroID: s.zeroID, decode: s.codec.DecodeEdgeProps}
	return &PropsEdgeIter[NP, EP]{inner: inner, txn: txn, decode: s.codec.DecodeNodeProps}, nil
}

func (pi *PropsEdgeIter[NP, EP]) Next() (item triple.PropsTriple[NP, EP], err error, ok bool) {
	for {
		if pi.closed {
			return triple.PropsTriple[NP, EP]{}, nil, false
		}
		edge, iterErr, more := pi.inner.Next()
		if !more {
			return triple.PropsTriple[NP, EP]{}, nil, false
		}
		if iterErr != nil {
			return triple.PropsTriple[NP, EP]{}, iterErr, true
		}

		subRaw, subErr := pi.txn.Get(kv.NodeProps, edge.Triple.Sub.Bytes())
		if subErr == kv.ErrNotFound {
			continue
		}
		if subErr != nil {
			return triple.PropsTriple[NP, EP]{}, &StorageError{Err: subErr}, true
		}
		objRaw, objErr := pi.txn.Get(kv.NodeProps, edge.Triple.Obj.Bytes())
		if objErr == kv.ErrNotFound {
			continue
		}
		if objErr != nil {
			return triple.PropsTriple[NP, EP]{}, &StorageError{Err: objErr}, true
		}

		subProps, decErr := pi.decode(subRaw)
		if decErr != nil {
			return triple.PropsTriple[NP, EP]{}, &SerializationError{Err: decErr}, true
		}
		objProps, decErr := pi.decode(objRaw)
		if decErr != nil {
			return triple.PropsTriple[NP, EP]{}, &SerializationError{Err: decErr}, true
		}

		return triple.PropsTriple[NP, EP]{
			Sub:      edge.Triple.Sub,
			SubProp:  subProps,
			Pred:     edge.Triple.Pred,
			Obj:      edge.Triple.Obj,
			ObjProp:  objProps,
			EdgeProp: edge.Props,
		}, nil, true
	}
}

func (pi *PropsEdgeIter[NP, EP]) Close() error {
	if pi.closed {
		return nil
	}
	pi.closed = true
	return pi.inner.Close()
}
