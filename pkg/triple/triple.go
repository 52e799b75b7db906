// Package triple defines the triple value type and the three permutation
// encodings (SPO, POS, OSP) the index set is built on.
package triple

import "github.com/mirelcoau/tristore/pkg/tsid"

// Triple is a subject-predicate-object relationship: sub and obj are
// vertex ids, pred is an edge-label id.
type Triple struct {
	Sub  tsid.Id
	Pred tsid.Id
	Obj  tsid.Id
}

// Order names one of the three key orderings every triple is indexed
// under.
type Order int

const (
	// SPO orders by subject, then predicate, then object.
	SPO Order = iota
	// POS orders by predicate, then object, then subject.
	POS
	// OSP orders by object, then subject, then predicate.
	OSP
)

func (o Order) String() string {
	switch o {
	case SPO:
		return "SPO"
	case POS:
		return "POS"
	case OSP:
		return "OSP"
	default:
		return "unknown"
	}
}

// Encode returns the byte key for t under the given ordering: the
// concatenation of the three component ids' big-endian byte encodings,
// permuted so that lexicographic order on the result agrees with
// componentwise order on the ids in that permutation.
func Encode(order Order, t Triple) []byte {
	switch order {
	case POS:
		return concat(t.Pred, t.Obj, t.Sub)
	case OSP:
		return concat(t.Obj, t.Sub, t.Pred)
	default:
		return concat(t.Sub, t.Pred, t.Obj)
	}
}

func concat(a, b, c tsid.Id) []byte {
	ab, bb, cb := a.Bytes(), b.Bytes(), c.Bytes()
	out := make([]byte, 0, len(ab)+len(bb)+len(cb))
	out = append(out, ab...)
	out = append(out, bb...)
	out = append(out, cb...)
	return out
}

// Decode is the inverse of Encode: it splits key back into a Triple under
// the given ordering, using zero as a template id whose concrete type and
// width determine how key is split into three equal-width fields.
func Decode(order Order, key []byte, zero tsid.Id) (Triple, bool) {
	w := len(zero.Bytes())
	if len(key) != 3*w {
		return Triple{}, false
	}
	first, ok1 := fromBytes(key[0:w], zero)
	second, ok2 := fromBytes(key[w:2*w], zero)
	third, ok3 := fromBytes(key[2*w:3*w], zero)
	if !ok1 || !ok2 || !ok3 {
		return Triple{}, false
	}

	switch order {
	case POS:
		return Triple{Sub: third, Pred: first, Obj: second}, true
	case OSP:
		return Triple{Sub: second, Pred: third, Obj: first}, true
	default:
		return Triple{Sub: first, Pred: second, Obj: third}, true
	}
}

func fromBytes(b []byte, zero tsid.Id) (tsid.Id, bool) {
	return zero.Decode(b)
}
