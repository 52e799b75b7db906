// Package store is the triple-store engine proper: the umbrella Store type
// and the mutation, iteration, query, and set-algebra algorithms written
// once against the pkg/kv backend contract and the pkg/tsid id contract, so
// the same code runs unchanged over internal/memkv and internal/badgerkv.
package store

import (
	"github.com/mirelcoau/tristore/pkg/kv"
	"github.com/mirelcoau/tristore/pkg/tsid"
)

// Codec serializes and deserializes the host's node and edge property
// types to and from the opaque byte blobs a durable backend persists. The
// in-memory backend round-trips through it too, so behavior never depends
// on which backend is in play.
type Codec[NP any, EP any] interface {
	EncodeNodeProps(NP) ([]byte, error)
	DecodeNodeProps([]byte) (NP, error)
	EncodeEdgeProps(EP) ([]byte, error)
	DecodeEdgeProps([]byte) (EP, error)
}

// Store is a triple-store handle parameterized over the host's vertex
// property type NP and edge property type EP. It owns no locking of its
// own: a single handle is meant for single-threaded use, per the
// scheduling model the engine is built to.
type Store[NP any, EP any] struct {
	backend kv.Store
	idGen   tsid.Generator
	codec   Codec[NP, EP]
	zeroID  tsid.Id
}

// New wraps a backend with the id generator and codec the store needs to
// mint property-ids and to serialize property values. zeroID is a value of
// the concrete id type this store uses — only its type and byte-width are
// consulted, never its value — so that index keys of width 3*len(zeroID.Bytes())
// can be decoded back into ids without the store importing a concrete id
// package itself.
func New[NP any, EP any](backend kv.Store, idGen tsid.Generator, codec Codec[NP, EP], zeroID tsid.Id) *Store[NP, EP] {
	return &Store[NP, EP]{backend: backend, idGen: idGen, codec: codec, zeroID: zeroID}
}

// Close releases the underlying backend's resources.
func (s *Store[NP, EP]) Close() error {
	return s.backend.Close()
}

// sibling constructs a fresh, empty result store sharing this store's codec
// and zero-id template but drawing property-ids from a cloned generator, so
// a store produced from a set operation can never mint a PId colliding with
// one already minted by its parent.
func (s *Store[NP, EP]) sibling(backend kv.Store) *Store[NP, EP] {
	return &Store[NP, EP]{backend: backend, idGen: s.idGen.Clone(), codec: s.codec, zeroID: s.zeroID}
}
