package store

import (
	"strings"
	"testing"

	"github.com/mirelcoau/tristore/internal/memkv"
	"github.com/mirelcoau/tristore/pkg/jsoncodec"
	"github.com/mirelcoau/tristore/pkg/triple"
	"github.com/mirelcoau/tristore/pkg/tsid"
)

type testNodeProps struct {
	A string
	B string
}

func (p testNodeProps) Merge(other testNodeProps) testNodeProps {
	if other.A != "" {
		p.A = other.A
	}
	if other.B != "" {
		p.B = other.B
	}
	return p
}

type testEdgeProps string

func newTestStore() *Store[testNodeProps, testEdgeProps] {
	codec := jsoncodec.New[testNodeProps, testEdgeProps]()
	return New[testNodeProps, testEdgeProps](memkv.New(), tsid.NewCounterGenerator(1), codec, tsid.CounterId(0))
}

func id(n uint64) tsid.Id { return tsid.CounterId(n) }

func collectVertices(t *testing.T, s *Store[testNodeProps, testEdgeProps]) []Vertex[testNodeProps] {
	t.Helper()
	it, err := s.IterVertices()
	if err != nil {
		t.Fatalf("iter vertices: %v", err)
	}
	defer it.Close()
	var out []Vertex[testNodeProps]
	for {
		v, iterErr, ok := it.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			t.Fatalf("iterate: %v", iterErr)
		}
		out = append(out, v)
	}
	return out
}

func collectEdges(t *testing.T, s *Store[testNodeProps, testEdgeProps], order triple.Order) []Edge[testEdgeProps] {
	t.Helper()
	it, err := s.IterEdges(order)
	if err != nil {
		t.Fatalf("iter edges: %v", err)
	}
	defer it.Close()
	var out []Edge[testEdgeProps]
	for {
		e, iterErr, ok := it.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			t.Fatalf("iterate: %v", iterErr)
		}
		out = append(out, e)
	}
	return out
}

// S1 — insert then iterate.
func TestScenarioInsertThenIterate(t *testing.T) {
	s := newTestStore()

	nodes := []struct {
		id   uint64
		name string
	}{{1, "foo"}, {2, "bar"}, {3, "baz"}, {4, "quz"}}
	for _, n := range nodes {
		if err := s.InsertNode(id(n.id), testNodeProps{A: n.name}); err != nil {
			t.Fatalf("insert node: %v", err)
		}
	}

	mustInsertEdge(t, s, 1, 10, 2, "-1->")
	mustInsertEdge(t, s, 2, 11, 3, "-2->")
	mustInsertEdge(t, s, 3, 12, 4, "-3->")
	mustInsertEdge(t, s, 3, 12, 4, "-4->")

	edges := collectEdges(t, s, triple.SPO)
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	wantLabels := []string{"-1->", "-2->", "-4->"}
	for i, e := range edges {
		if string(e.Props) != wantLabels[i] {
			t.Errorf("edge %d: got %q, want %q", i, e.Props, wantLabels[i])
		}
	}

	vertices := collectVertices(t, s)
	if len(vertices) != 4 {
		t.Fatalf("expected 4 vertices, got %d", len(vertices))
	}
}

// S2 — remove vertex cascades.
func TestScenarioRemoveNodeCascades(t *testing.T) {
	s := newTestStore()
	for i, name := range []string{"foo", "bar", "baz", "quz"} {
		if err := s.InsertNode(id(uint64(i+1)), testNodeProps{A: name}); err != nil {
			t.Fatalf("insert node: %v", err)
		}
	}
	mustInsertEdge(t, s, 1, 10, 2, "-1->")
	mustInsertEdge(t, s, 2, 11, 3, "-2->")
	mustInsertEdge(t, s, 3, 12, 4, "-4->")

	if err := s.RemoveNode(id(1)); err != nil {
		t.Fatalf("remove node 1: %v", err)
	}
	if err := s.RemoveNode(id(4)); err != nil {
		t.Fatalf("remove node 4: %v", err)
	}

	vertices := collectVertices(t, s)
	if len(vertices) != 2 {
		t.Fatalf("expected 2 vertices remaining, got %d", len(vertices))
	}

	edges := collectEdges(t, s, triple.SPO)
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge remaining, got %d", len(edges))
	}
	if string(edges[0].Props) != "-2->" {
		t.Errorf("expected remaining edge -2->, got %q", edges[0].Props)
	}
}

// S4 — query by predicate.
func TestScenarioQueryByPredicate(t *testing.T) {
	s := newTestStore()
	p := id(50)
	n0, n1, n2 := id(0), id(1), id(2)

	if err := s.InsertEdge(triple.Triple{Sub: n0, Pred: p, Obj: n1}, "a"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertEdge(triple.Triple{Sub: n1, Pred: p, Obj: n2}, "b"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	result, err := s.Run(NewPQuery(p))
	if err != nil {
		t.Fatalf("run query: %v", err)
	}

	edges := collectEdges(t, result, triple.POS)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}

	vertices := collectVertices(t, result)
	if len(vertices) != 0 {
		t.Errorf("expected no vertices in edge-query result, got %d", len(vertices))
	}
}

// Invariant: a query shape binds a SET of inputs, not a single one — every
// matching element contributes its rows to the result, not just the first.
func TestQueryOverMultiElementSet(t *testing.T) {
	s := newTestStore()
	p1, p2, p3 := id(50), id(51), id(52)
	n0, n1, n2, n3 := id(0), id(1), id(2), id(3)

	mustEdge(t, s, n0, p1, n1)
	mustEdge(t, s, n1, p2, n2)
	mustEdge(t, s, n2, p3, n3)

	result, err := s.Run(NewPQuery(p1, p2))
	if err != nil {
		t.Fatalf("run query: %v", err)
	}
	edges := collectEdges(t, result, triple.POS)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges matching either predicate, got %d", len(edges))
	}

	result2, err := s.Run(NewSPQuery(Pair{First: n0, Second: p1}, Pair{First: n1, Second: p2}))
	if err != nil {
		t.Fatalf("run SP query: %v", err)
	}
	spEdges := collectEdges(t, result2, triple.SPO)
	if len(spEdges) != 2 {
		t.Fatalf("expected 2 edges matching either SP pair, got %d", len(spEdges))
	}
}

// S5 — union/intersection/difference.
func TestScenarioSetAlgebra(t *testing.T) {
	left := newTestStore()
	right := newTestStore()

	l1, l2, m1, m2 := id(1), id(2), id(3), id(4)
	r1, r2 := id(5), id(6)
	e := id(100)

	for _, v := range []tsid.Id{l1, l2, m1, m2} {
		mustNode(t, left, v)
	}
	mustEdge(t, left, l1, e, l2)
	mustEdge(t, left, l1, e, m1)
	mustEdge(t, left, m1, e, m2)
	mustEdge(t, left, m2, e, l2)

	for _, v := range []tsid.Id{r1, r2, m1, m2} {
		mustNode(t, right, v)
	}
	mustEdge(t, right, r1, e, r2)
	mustEdge(t, right, m1, e, r1)
	mustEdge(t, right, m1, e, m2)
	mustEdge(t, right, r2, e, m2)

	union, err := Union(left, right)
	if err != nil {
		t.Fatalf("union: %v", err)
	}
	if got := len(collectVertices(t, union)); got != 6 {
		t.Errorf("union vertices: got %d, want 6", got)
	}
	if got := len(collectEdges(t, union, triple.SPO)); got != 7 {
		t.Errorf("union edges: got %d, want 7", got)
	}

	inter, err := Intersection(left, right)
	if err != nil {
		t.Fatalf("intersection: %v", err)
	}
	if got := len(collectVertices(t, inter)); got != 2 {
		t.Errorf("intersection vertices: got %d, want 2", got)
	}
	interEdges := collectEdges(t, inter, triple.SPO)
	if len(interEdges) != 1 || interEdges[0].Triple.Sub != m1 || interEdges[0].Triple.Obj != m2 {
		t.Errorf("intersection edges: got %+v, want single m1->m2", interEdges)
	}

	diff, err := Difference(left, right)
	if err != nil {
		t.Fatalf("difference: %v", err)
	}
	if got := len(collectVertices(t, diff)); got != 2 {
		t.Errorf("difference vertices: got %d, want 2", got)
	}
	diffEdges := collectEdges(t, diff, triple.SPO)
	if len(diffEdges) != 1 || diffEdges[0].Triple.Sub != l1 || diffEdges[0].Triple.Obj != l2 {
		t.Errorf("difference edges: got %+v, want single l1->l2", diffEdges)
	}
}

// S6 — merge commutativity of vertex props.
func TestScenarioMergeCommutativity(t *testing.T) {
	s1 := newTestStore()
	if err := s1.InsertNode(id(2), testNodeProps{A: "foo"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := MergeNode(s1, id(2), testNodeProps{B: "bar"}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	s2 := newTestStore()
	if err := s2.InsertNode(id(2), testNodeProps{B: "bar"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := MergeNode(s2, id(2), testNodeProps{A: "foo"}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	v1 := soleVertex(t, s1)
	v2 := soleVertex(t, s2)
	if v1.Props != (testNodeProps{A: "foo", B: "bar"}) {
		t.Errorf("s1: got %+v", v1.Props)
	}
	if v2.Props != (testNodeProps{A: "foo", B: "bar"}) {
		t.Errorf("s2: got %+v", v2.Props)
	}
}

func soleVertex(t *testing.T, s *Store[testNodeProps, testEdgeProps]) Vertex[testNodeProps] {
	t.Helper()
	vs := collectVertices(t, s)
	if len(vs) != 1 {
		t.Fatalf("expected exactly one vertex, got %d", len(vs))
	}
	return vs[0]
}

// Invariant: edges whose endpoints lack NodeProperties are filtered out of
// property-decorated iteration but retained in plain iteration.
func TestEdgesWithoutNodePropsFilteredFromPropsIteration(t *testing.T) {
	s := newTestStore()
	sub, pred, obj := id(1), id(2), id(3)
	if err := s.InsertEdge(triple.Triple{Sub: sub, Pred: pred, Obj: obj}, "e"); err != nil {
		t.Fatalf("insert edge: %v", err)
	}

	plain := collectEdges(t, s, triple.SPO)
	if len(plain) != 1 {
		t.Fatalf("expected edge present in plain iteration, got %d", len(plain))
	}

	it, err := s.IterEdgesWithProps(triple.SPO)
	if err != nil {
		t.Fatalf("iter edges with props: %v", err)
	}
	defer it.Close()
	_, _, ok := it.Next()
	if ok {
		t.Errorf("expected no results when neither endpoint has NodeProperties")
	}
}

// Invariant: replace-idempotence.
func TestInsertNodeIdempotent(t *testing.T) {
	s := newTestStore()
	if err := s.InsertNode(id(1), testNodeProps{A: "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := s.InsertNode(id(1), testNodeProps{A: "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := len(collectVertices(t, s)); got != 1 {
		t.Errorf("expected 1 vertex, got %d", got)
	}
}

// Invariant: removing a non-existent id or triple succeeds silently.
func TestRemoveNonexistentSucceedsSilently(t *testing.T) {
	s := newTestStore()
	if err := s.RemoveNode(id(999)); err != nil {
		t.Errorf("remove nonexistent node: %v", err)
	}
	if err := s.RemoveEdge(triple.Triple{Sub: id(1), Pred: id(2), Obj: id(3)}); err != nil {
		t.Errorf("remove nonexistent edge: %v", err)
	}
}

func TestDebugStringListsVerticesAndEdges(t *testing.T) {
	s := newTestStore()
	mustNode(t, s, id(1))
	mustEdge(t, s, id(1), id(10), id(2))

	out := s.DebugString()
	if !strings.Contains(out, "Node Properties:") || !strings.Contains(out, "Edges (SPO):") {
		t.Fatalf("expected both sections in output, got %q", out)
	}
	if !strings.Contains(out, "A:v") {
		t.Errorf("expected vertex props to appear in output, got %q", out)
	}
}

func TestTryEqual(t *testing.T) {
	a := newTestStore()
	b := newTestStore()
	mustNode(t, a, id(1))
	mustNode(t, b, id(1))
	mustEdge(t, a, id(1), id(10), id(2))
	mustEdge(t, b, id(1), id(10), id(2))

	equal, err := a.TryEqual(b)
	if err != nil {
		t.Fatalf("try_eq: %v", err)
	}
	if !equal {
		t.Errorf("expected equal stores")
	}

	if err := b.InsertNode(id(2), testNodeProps{A: "differs"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	equal, err = a.TryEqual(b)
	if err != nil {
		t.Fatalf("try_eq: %v", err)
	}
	if equal {
		t.Errorf("expected stores to differ")
	}
}

func mustInsertEdge(t *testing.T, s *Store[testNodeProps, testEdgeProps], sub, pred, obj uint64, label string) {
	t.Helper()
	tr := triple.Triple{Sub: id(sub), Pred: id(pred), Obj: id(obj)}
	if err := s.InsertEdge(tr, testEdgeProps(label)); err != nil {
		t.Fatalf("insert edge %+v: %v", tr, err)
	}
}

func mustNode(t *testing.T, s *Store[testNodeProps, testEdgeProps], v tsid.Id) {
	t.Helper()
	if err := s.InsertNode(v, testNodeProps{A: "v"}); err != nil {
		t.Fatalf("insert node %v: %v", v, err)
	}
}

func mustEdge(t *testing.T, s *Store[testNodeProps, testEdgeProps], sub, pred, obj tsid.Id) {
	t.Helper()
	if err := s.InsertEdge(triple.Triple{Sub: sub, Pred: pred, Obj: obj}, "e"); err != nil {
		t.Fatalf("insert edge: %v", err)
	}
}
