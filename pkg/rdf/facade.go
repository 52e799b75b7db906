// Package rdf is the optional RDF-style name-index façade (§9): it wraps a
// store.Store and a host-supplied BidirIndex, translating surface strings
// to internal ids on write and reverse-resolving ids back to strings on
// read. The façade only translates inputs and outputs; the wrapped store
// never sees a string.
package rdf

import (
	"github.com/mirelcoau/tristore/pkg/store"
	"github.com/mirelcoau/tristore/pkg/triple"
	"github.com/mirelcoau/tristore/pkg/tsid"
)

// BidirIndex is the bijective string<->id mapping the façade relies on to
// resolve surface names. Resolve creates a fresh id on first sight of a new
// name; TryResolve is the same lookup without that side effect, for callers
// that must not mint an id for a name they expect to already exist; Lookup
// is a pure reverse lookup with no side effect.
type BidirIndex interface {
	Resolve(name string) (tsid.Id, error)
	TryResolve(name string) (tsid.Id, bool)
	Lookup(id tsid.Id) (string, bool)
}

// Entity is a surface-level reference to a vertex: either an already
// resolved id or a name the façade must resolve.
type Entity struct {
	isID bool
	id   tsid.Id
	name string
}

// ByID wraps an already-resolved id.
func ByID(id tsid.Id) Entity { return Entity{isID: true, id: id} }

// ByName wraps a surface name to be resolved against the façade's index.
func ByName(name string) Entity { return Entity{name: name} }

// Store wraps a store.Store with a BidirIndex, exposing the same mutation
// surface over Entity values instead of raw ids.
type Store[NP any, EP any] struct {
	inner *store.Store[NP, EP]
	names BidirIndex
}

// New wraps inner with names.
func New[NP any, EP any](inner *store.Store[NP, EP], names BidirIndex) *Store[NP, EP] {
	return &Store[NP, EP]{inner: inner, names: names}
}

// Inner exposes the wrapped store for operations the façade doesn't cover
// (queries, set algebra, iteration).
func (s *Store[NP, EP]) Inner() *store.Store[NP, EP] { return s.inner }

func (s *Store[NP, EP]) resolve(e Entity) (tsid.Id, error) {
	if e.isID {
		return e.id, nil
	}
	return s.names.Resolve(e.name)
}

// lookupEntity resolves e without ever minting a new id: a name the index
// has never seen is a NameNotFound error rather than a silent fresh id.
// Used wherever the façade must not conjure an entity into existence —
// remove_node and remove_edge, matching the original's lookup_entity (as
// opposed to lookup_or_create_entity, which insert uses via resolve).
func (s *Store[NP, EP]) lookupEntity(e Entity) (tsid.Id, error) {
	if e.isID {
		return e.id, nil
	}
	id, ok := s.names.TryResolve(e.name)
	if !ok {
		return nil, &store.NameNotFound{Name: e.name}
	}
	return id, nil
}

// InsertNode resolves e to an id (minting one on first sight of a new name)
// and inserts its properties.
func (s *Store[NP, EP]) InsertNode(e Entity, props NP) error {
	id, err := s.resolve(e)
	if err != nil {
		return err
	}
	return s.inner.InsertNode(id, props)
}

// InsertEdge resolves sub, pred, and obj and inserts the edge.
func (s *Store[NP, EP]) InsertEdge(sub, pred, obj Entity, props EP) error {
	t, err := s.resolveTriple(sub, pred, obj)
	if err != nil {
		return err
	}
	return s.inner.InsertEdge(t, props)
}

func (s *Store[NP, EP]) resolveTriple(sub, pred, obj Entity) (triple.Triple, error) {
	subID, err := s.resolve(sub)
	if err != nil {
		return triple.Triple{}, err
	}
	predID, err := s.resolve(pred)
	if err != nil {
		return triple.Triple{}, err
	}
	objID, err := s.resolve(obj)
	if err != nil {
		return triple.Triple{}, err
	}
	return triple.Triple{Sub: subID, Pred: predID, Obj: objID}, nil
}

// RemoveNode resolves e and removes its vertex, cascading to its edges. A
// name the index has never seen returns NameNotFound rather than minting a
// fresh id for something to (no-op) remove, matching the original's
// lookup_entity semantics for remove_node.
func (s *Store[NP, EP]) RemoveNode(e Entity) error {
	id, err := s.lookupEntity(e)
	if err != nil {
		return err
	}
	return s.inner.RemoveNode(id)
}

// RemoveEdge resolves sub, pred, obj — each of which must already be known
// to the index or be an id — and removes the edge.
func (s *Store[NP, EP]) RemoveEdge(sub, pred, obj Entity) error {
	subID, err := s.lookupEntity(sub)
	if err != nil {
		return err
	}
	predID, err := s.lookupEntity(pred)
	if err != nil {
		return err
	}
	objID, err := s.lookupEntity(obj)
	if err != nil {
		return err
	}
	return s.inner.RemoveEdge(triple.Triple{Sub: subID, Pred: predID, Obj: objID})
}

// NamedVertex is a vertex with its surface name resolved instead of its raw
// id, the output shape of iterating the façade.
type NamedVertex[NP any] struct {
	Name  string
	Props NP
}

// IterVertices iterates every vertex, reverse-resolving its id to a name.
// A vertex whose id has no entry in the BidirIndex is skipped, since the
// façade has no surface name to report for it.
func (s *Store[NP, EP]) IterVertices() (*NamedVertexIter[NP], error) {
	inner, err := s.inner.IterVertices()
	if err != nil {
		return nil, err
	}
	return &NamedVertexIter[NP]{inner: inner, names: s.names}, nil
}

// NamedVertexIter wraps store.VertexIter, filtering out ids absent from the
// BidirIndex and yielding NamedVertex in their place.
type NamedVertexIter[NP any] struct {
	inner *store.VertexIter[NP]
	names BidirIndex
}

func (it *NamedVertexIter[NP]) Next() (NamedVertex[NP], error, bool) {
	for {
		v, err, ok := it.inner.Next()
		if !ok {
			return NamedVertex[NP]{}, nil, false
		}
		if err != nil {
			return NamedVertex[NP]{}, err, true
		}
		name, found := it.names.Lookup(v.Id)
		if !found {
			continue
		}
		return NamedVertex[NP]{Name: name, Props: v.Props}, nil, true
	}
}

func (it *NamedVertexIter[NP]) Close() error { return it.inner.Close() }
