// Package jsoncodec is a ready-made store.Codec for hosts that want their
// node and edge property types serialized as JSON, using goccy/go-json (the
// faster drop-in encoding/json replacement the rest of the example pack
// reaches for) rather than the standard library's encoder.
package jsoncodec

import gojson "github.com/goccy/go-json"

// Codec serializes NP and EP as JSON. Both type parameters must be
// marshalable by encoding/json's rules (gojson mirrors them).
type Codec[NP any, EP any] struct{}

// New returns a Codec value; it carries no state.
func New[NP any, EP any]() Codec[NP, EP] { return Codec[NP, EP]{} }

func (Codec[NP, EP]) EncodeNodeProps(v NP) ([]byte, error) { return gojson.Marshal(v) }

func (Codec[NP, EP]) DecodeNodeProps(b []byte) (NP, error) {
	var v NP
	err := gojson.Unmarshal(b, &v)
	return v, err
}

func (Codec[NP, EP]) EncodeEdgeProps(v EP) ([]byte, error) { return gojson.Marshal(v) }

func (Codec[NP, EP]) DecodeEdgeProps(b []byte) (EP, error) {
	var v EP
	err := gojson.Unmarshal(b, &v)
	return v, err
}
