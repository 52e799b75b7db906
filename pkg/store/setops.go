package store

import (
	"reflect"

	"github.com/mirelcoau/tristore/internal/memkv"
	"github.com/mirelcoau/tristore/pkg/triple"
)

// Extend applies the replace-policy insert to dst for every vertex and
// edge of src: right-biased, src's values win on collision. It fails fast
// on the first error, tagging the side it came from — Right for a failure
// reading src, Left for a failure writing dst.
func Extend[NP any, EP any](dst, src *Store[NP, EP]) error {
	vi, err := src.IterVertices()
	if err != nil {
		return &ExtendError{Side: Right, Err: err}
	}
	defer vi.Close()
	for {
		v, iterErr, ok := vi.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return &ExtendError{Side: Right, Err: iterErr}
		}
		if err := dst.InsertNode(v.Id, v.Props); err != nil {
			return &ExtendError{Side: Left, Err: err}
		}
	}

	ei, err := src.IterEdges(triple.SPO)
	if err != nil {
		return &ExtendError{Side: Right, Err: err}
	}
	defer ei.Close()
	for {
		e, iterErr, ok := ei.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return &ExtendError{Side: Right, Err: iterErr}
		}
		if err := dst.InsertEdge(e.Triple, e.Props); err != nil {
			return &ExtendError{Side: Left, Err: err}
		}
	}
	return nil
}

// Merge is Extend under the merge policy: every vertex and edge of src is
// combined into dst with Mergeable.Merge rather than replaced.
func Merge[NP Mergeable[NP], EP Mergeable[EP]](dst, src *Store[NP, EP]) error {
	vi, err := src.IterVertices()
	if err != nil {
		return &MergeError{Side: Right, Err: err}
	}
	defer vi.Close()
	for {
		v, iterErr, ok := vi.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return &MergeError{Side: Right, Err: iterErr}
		}
		if err := MergeNode(dst, v.Id, v.Props); err != nil {
			return &MergeError{Side: Left, Err: err}
		}
	}

	ei, err := src.IterEdges(triple.SPO)
	if err != nil {
		return &MergeError{Side: Right, Err: err}
	}
	defer ei.Close()
	for {
		e, iterErr, ok := ei.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return &MergeError{Side: Right, Err: iterErr}
		}
		if err := MergeEdge(dst, e.Triple, e.Props); err != nil {
			return &MergeError{Side: Left, Err: err}
		}
	}
	return nil
}

// Union returns a new store containing every vertex and edge in either a or
// b, with collisions resolved right-biased (b's values win), the same rule
// Extend uses.
func Union[NP any, EP any](a, b *Store[NP, EP]) (*Store[NP, EP], error) {
	result := a.sibling(memkv.New())
	if err := Extend(result, a); err != nil {
		return nil, &SetOpsError{Side: Left, Err: err}
	}
	if err := Extend(result, b); err != nil {
		return nil, &SetOpsError{Side: Right, Err: err}
	}
	return result, nil
}

// idSet materializes a vertex iterator's ids as a set of their byte
// encodings, for O(1) membership tests during intersection/difference.
func idSet[NP any, EP any](s *Store[NP, EP]) (map[string]struct{}, error) {
	vi, err := s.IterVertices()
	if err != nil {
		return nil, err
	}
	defer vi.Close()
	out := make(map[string]struct{})
	for {
		v, iterErr, ok := vi.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return nil, iterErr
		}
		out[string(v.Id.Bytes())] = struct{}{}
	}
	return out, nil
}

// Intersection returns a new store containing the vertices whose id appears
// in both a and b, and the edges whose triple appears in both and whose
// subject and object both pass that vertex test. Property values are taken
// from a (the left side). b's vertex ids and SPO edge keys are first loaded
// into in-memory hash sets, then a is scanned in ascending NodeProps/SPO
// order and each row is tested against those sets; the two stores are not
// walked in parallel.
func Intersection[NP any, EP any](a, b *Store[NP, EP]) (*Store[NP, EP], error) {
	result := a.sibling(memkv.New())

	kept, err := intersectVertices(result, a, b)
	if err != nil {
		return nil, err
	}
	if err := intersectEdges(result, a, b, kept); err != nil {
		return nil, err
	}
	return result, nil
}

func intersectVertices[NP any, EP any](result, a, b *Store[NP, EP]) (map[string]struct{}, error) {
	bIds, err := idSet(b)
	if err != nil {
		return nil, &SetOpsError{Side: Right, Err: err}
	}

	ai, err := a.IterVertices()
	if err != nil {
		return nil, &SetOpsError{Side: Left, Err: err}
	}
	defer ai.Close()

	kept := make(map[string]struct{})
	for {
		v, iterErr, ok := ai.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return nil, &SetOpsError{Side: Left, Err: iterErr}
		}
		if _, in := bIds[string(v.Id.Bytes())]; !in {
			continue
		}
		kept[string(v.Id.Bytes())] = struct{}{}
		if err := result.InsertNode(v.Id, v.Props); err != nil {
			return nil, &SetOpsError{Side: ResultSide, Err: err}
		}
	}
	return kept, nil
}

func intersectEdges[NP any, EP any](result, a, b *Store[NP, EP], kept map[string]struct{}) error {
	bEdges, err := edgeMap(b)
	if err != nil {
		return &SetOpsError{Side: Right, Err: err}
	}

	ai, err := a.IterEdges(triple.SPO)
	if err != nil {
		return &SetOpsError{Side: Left, Err: err}
	}
	defer ai.Close()

	for {
		e, iterErr, ok := ai.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return &SetOpsError{Side: Left, Err: iterErr}
		}
		if _, in := bEdges[string(triple.Encode(triple.SPO, e.Triple))]; !in {
			continue
		}
		if _, subIn := kept[string(e.Triple.Sub.Bytes())]; !subIn {
			continue
		}
		if _, objIn := kept[string(e.Triple.Obj.Bytes())]; !objIn {
			continue
		}
		if err := result.InsertEdge(e.Triple, e.Props); err != nil {
			return &SetOpsError{Side: ResultSide, Err: err}
		}
	}
	return nil
}

// edgeMap materializes a store's SPO-encoded triple keys as a set, for
// membership tests during intersection/difference.
func edgeMap[NP any, EP any](s *Store[NP, EP]) (map[string]struct{}, error) {
	ei, err := s.IterEdges(triple.SPO)
	if err != nil {
		return nil, err
	}
	defer ei.Close()
	out := make(map[string]struct{})
	for {
		e, iterErr, ok := ei.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return nil, iterErr
		}
		out[string(triple.Encode(triple.SPO, e.Triple))] = struct{}{}
	}
	return out, nil
}

// Difference returns a new store containing the vertices of a not present
// in b, and the edges of a not present in b whose subject and object are
// both retained vertices. Like Intersection, it loads b's vertex ids and
// SPO edge keys into hash sets and scans a against them; the two stores are
// not walked in parallel.
func Difference[NP any, EP any](a, b *Store[NP, EP]) (*Store[NP, EP], error) {
	result := a.sibling(memkv.New())

	bIds, err := idSet(b)
	if err != nil {
		return nil, &SetOpsError{Side: Right, Err: err}
	}

	ai, err := a.IterVertices()
	if err != nil {
		return nil, &SetOpsError{Side: Left, Err: err}
	}
	kept := make(map[string]struct{})
	for {
		v, iterErr, ok := ai.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			ai.Close()
			return nil, &SetOpsError{Side: Left, Err: iterErr}
		}
		if _, in := bIds[string(v.Id.Bytes())]; in {
			continue
		}
		kept[string(v.Id.Bytes())] = struct{}{}
		if err := result.InsertNode(v.Id, v.Props); err != nil {
			ai.Close()
			return nil, &SetOpsError{Side: ResultSide, Err: err}
		}
	}
	ai.Close()

	bEdges, err := edgeMap(b)
	if err != nil {
		return nil, &SetOpsError{Side: Right, Err: err}
	}

	ei, err := a.IterEdges(triple.SPO)
	if err != nil {
		return nil, &SetOpsError{Side: Left, Err: err}
	}
	defer ei.Close()
	for {
		e, iterErr, ok := ei.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			return nil, &SetOpsError{Side: Left, Err: iterErr}
		}
		if _, in := bEdges[string(triple.Encode(triple.SPO, e.Triple))]; in {
			continue
		}
		if _, subIn := kept[string(e.Triple.Sub.Bytes())]; !subIn {
			continue
		}
		if _, objIn := kept[string(e.Triple.Obj.Bytes())]; !objIn {
			continue
		}
		if err := result.InsertEdge(e.Triple, e.Props); err != nil {
			return nil, &SetOpsError{Side: ResultSide, Err: err}
		}
	}
	return result, nil
}

// TryEqual reports whether a and b contain the same observable state —
// identical (id, NodeProperties) pairs and identical (triple,
// EdgeProperties) pairs under SPO order — ignoring internal property-ids,
// which may differ even for equal stores. Property value equality uses
// reflect.DeepEqual since NP and EP are arbitrary host types with no
// library-provided equality in this codebase's dependency set.
func (s *Store[NP, EP]) TryEqual(other *Store[NP, EP]) (bool, error) {
	sv, err := s.IterVertices()
	if err != nil {
		return false, &StorageError{Err: err}
	}
	defer sv.Close()
	ov, err := other.IterVertices()
	if err != nil {
		return false, &StorageError{Err: err}
	}
	defer ov.Close()

	for {
		a, aErr, aOK := sv.Next()
		if aErr != nil {
			return false, aErr
		}
		b, bErr, bOK := ov.Next()
		if bErr != nil {
			return false, bErr
		}
		if aOK != bOK {
			return false, nil
		}
		if !aOK {
			break
		}
		if string(a.Id.Bytes()) != string(b.Id.Bytes()) || !reflect.DeepEqual(a.Props, b.Props) {
			return false, nil
		}
	}

	se, err := s.IterEdges(triple.SPO)
	if err != nil {
		return false, &StorageError{Err: err}
	}
	defer se.Close()
	oe, err := other.IterEdges(triple.SPO)
	if err != nil {
		return false, &StorageError{Err: err}
	}
	defer oe.Close()

	for {
		a, aErr, aOK := se.Next()
		if aErr != nil {
			return false, aErr
		}
		b, bErr, bOK := oe.Next()
		if bErr != nil {
			return false, bErr
		}
		if aOK != bOK {
			return false, nil
		}
		if !aOK {
			break
		}
		if string(triple.Encode(triple.SPO, a.Triple)) != string(triple.Encode(triple.SPO, b.Triple)) {
			return false, nil
		}
		if !reflect.DeepEqual(a.Props, b.Props) {
			return false, nil
		}
	}

	return true, nil
}
