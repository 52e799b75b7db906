// Package tsid defines the identifier contract the triple-store engine is
// built on, plus the two concrete id kinds the engine ships with.
//
// An Id is a totally-ordered, fixed-width-encodable value. The engine never
// cares which concrete type is in play: every index, every mutation, and
// every query is written against this interface alone.
package tsid

// Id is a value totally ordered under Less, with a big-endian byte encoding
// of fixed width per concrete type. Less must agree with lexicographic order
// on Bytes(): a.Less(b) iff bytes.Compare(a.Bytes(), b.Bytes()) < 0.
//
// Min and Max return the smallest and largest values of the same concrete
// type as the receiver; their encodings are the lexicographically smallest
// and largest byte sequences of that type's width. They exist so the query
// executor can build closed-range scan bounds (key_bounds_1/key_bounds_2 in
// the indexing scheme) without knowing the concrete id type.
type Id interface {
	Bytes() []byte
	Less(other Id) bool
	Min() Id
	Max() Id
	// Decode parses b as a value of the receiver's concrete type. The
	// receiver's own value is never consulted, only its type; this lets
	// generic code decode a byte slice given nothing but a zero value of
	// the desired id type.
	Decode(b []byte) (Id, bool)
}

// Equal reports whether a and b encode identically. Only the byte
// encodings are compared: ids of different widths are never equal, while
// ids of different concrete types with the same bytes are.
func Equal(a, b Id) bool {
	ab, bb := a.Bytes(), b.Bytes()
	if len(ab) != len(bb) {
		return false
	}
	for i := range ab {
		if ab[i] != bb[i] {
			return false
		}
	}
	return true
}
