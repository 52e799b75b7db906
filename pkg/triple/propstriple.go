package triple

import "github.com/mirelcoau/tristore/pkg/tsid"

// PropsTriple is a Triple enriched with resolved property data: the
// subject and object vertex properties, plus the edge properties. It is the
// output shape of "iterate edges with properties" (§4.5); edges whose
// endpoints have no vertex property entry never produce one of these.
type PropsTriple[NP any, EP any] struct {
	Sub     tsid.Id
	SubProp NP
	Pred    tsid.Id
	Obj     tsid.Id
	ObjProp NP
	EdgeProp EP
}

// Plain discards the resolved properties, returning the underlying Triple.
func (p PropsTriple[NP, EP]) Plain() Triple {
	return Triple{Sub: p.Sub, Pred: p.Pred, Obj: p.Obj}
}

// TryMapIds lifts a fallible id transformation over the three components of
// t, short-circuiting on the first failure. It maps ids to ids only; the
// RDF façade resolves its surface names itself and does not call it.
func TryMapIds(t Triple, f func(tsid.Id) (tsid.Id, error)) (Triple, error) {
	sub, err := f(t.Sub)
	if err != nil {
		return Triple{}, err
	}
	pred, err := f(t.Pred)
	if err != nil {
		return Triple{}, err
	}
	obj, err := f(t.Obj)
	if err != nil {
		return Triple{}, err
	}
	return Triple{Sub: sub, Pred: pred, Obj: obj}, nil
}
