package triple

import "github.com/mirelcoau/tristore/pkg/tsid"

// KeyBounds1 returns the inclusive closed byte range covering every triple
// whose first key component (under order) equals a: [encode(a,MIN,MIN),
// encode(a,MAX,MAX)]. It is the scan shape behind queries that bind exactly
// one position (S, P, or O).
func KeyBounds1(order Order, a tsid.Id) (lo, hi []byte) {
	min, max := a.Min(), a.Max()
	lo = Encode(order, fill(order, a, min, min))
	hi = Encode(order, fill(order, a, max, max))
	return lo, hi
}

// KeyBounds2 returns the inclusive closed byte range covering every triple
// whose first two key components (under order) equal a, b:
// [encode(a,b,MIN), encode(a,b,MAX)]. It is the scan shape behind queries
// that bind exactly two positions (SP, SO, PO).
func KeyBounds2(order Order, a, b tsid.Id) (lo, hi []byte) {
	lo = Encode(order, fill(order, a, b, a.Min()))
	hi = Encode(order, fill(order, a, b, b.Max()))
	return lo, hi
}

// fill builds a Triple whose first, second, third KEY components (under
// order) are first, second, third, then returns it in Sub/Pred/Obj form so
// Encode can re-permute it.
func fill(order Order, first, second, third tsid.Id) Triple {
	switch order {
	case POS:
		// key order is Pred, Obj, Sub
		return Triple{Pred: first, Obj: second, Sub: third}
	case OSP:
		// key order is Obj, Sub, Pred
		return Triple{Obj: first, Sub: second, Pred: third}
	default:
		// key order is Sub, Pred, Obj
		return Triple{Sub: first, Pred: second, Obj: third}
	}
}
