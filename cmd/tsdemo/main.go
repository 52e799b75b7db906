package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mirelcoau/tristore/internal/badgerkv"
	"github.com/mirelcoau/tristore/internal/memkv"
	"github.com/mirelcoau/tristore/pkg/jsoncodec"
	"github.com/mirelcoau/tristore/pkg/store"
	"github.com/mirelcoau/tristore/pkg/triple"
	"github.com/mirelcoau/tristore/pkg/tsid"
)

// NodeProps is the demo's vertex property type.
type NodeProps struct {
	Name string `json:"name"`
	Age  int    `json:"age,omitempty"`
}

// Merge is field-wise last-writer-wins, skipping zero-valued fields on the
// incoming side, satisfying store.Mergeable[NodeProps].
func (n NodeProps) Merge(other NodeProps) NodeProps {
	if other.Name != "" {
		n.Name = other.Name
	}
	if other.Age != 0 {
		n.Age = other.Age
	}
	return n
}

// EdgeProps is the demo's edge property type.
type EdgeProps struct {
	Label string `json:"label"`
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: tsdemo <command>")
		fmt.Println("Commands:")
		fmt.Println("  demo    - insert/iterate/query over a durable (Badger) store")
		fmt.Println("  setops  - union/intersection/difference over two in-memory stores")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		runDemo()
	case "setops":
		runSetOpsDemo()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

func runDemo() {
	fmt.Println("=== tristore demo ===")
	fmt.Println()

	dbPath := "./tristore_data"
	fmt.Printf("Opening database at: %s\n", dbPath)

	backend, err := badgerkv.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open backend: %v", err)
	}
	defer backend.Close()

	s := store.New[NodeProps, EdgeProps](backend, tsid.NewCounterGenerator(1), jsoncodec.New[NodeProps, EdgeProps](), tsid.CounterId(0))

	alice, bob, carol := tsid.CounterId(1), tsid.CounterId(2), tsid.CounterId(3)
	knows := tsid.CounterId(100)

	fmt.Println("Inserting vertices...")
	vertices := []struct {
		id    tsid.CounterId
		props NodeProps
	}{
		{alice, NodeProps{Name: "Alice", Age: 30}},
		{bob, NodeProps{Name: "Bob", Age: 25}},
		{carol, NodeProps{Name: "Carol", Age: 28}},
	}
	for _, v := range vertices {
		if err := s.InsertNode(v.id, v.props); err != nil {
			log.Fatalf("insert node: %v", err)
		}
		fmt.Printf("  + %d -> %+v\n", v.id, v.props)
	}

	fmt.Println("\nInserting edges...")
	edges := []struct {
		t     triple.Triple
		props EdgeProps
	}{
		{triple.Triple{Sub: alice, Pred: knows, Obj: bob}, EdgeProps{Label: "knows"}},
		{triple.Triple{Sub: bob, Pred: knows, Obj: carol}, EdgeProps{Label: "knows"}},
	}
	for _, e := range edges {
		if err := s.InsertEdge(e.t, e.props); err != nil {
			log.Fatalf("insert edge: %v", err)
		}
		fmt.Printf("  + (%d,%d,%d) -> %+v\n", e.t.Sub, e.t.Pred, e.t.Obj, e.props)
	}

	fmt.Println("\nMerging Alice's age...")
	if err := store.MergeNode(s, alice, NodeProps{Age: 31}); err != nil {
		log.Fatalf("merge node: %v", err)
	}

	fmt.Println("\nIterating edges under SPO:")
	it, err := s.IterEdges(triple.SPO)
	if err != nil {
		log.Fatalf("iter edges: %v", err)
	}
	for {
		e, iterErr, ok := it.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			log.Fatalf("iterate: %v", iterErr)
		}
		fmt.Printf("  (%d,%d,%d) -> %+v\n", e.Triple.Sub, e.Triple.Pred, e.Triple.Obj, e.Props)
	}
	it.Close()

	fmt.Println("\nQuerying by predicate 'knows'...")
	result, err := s.Run(store.NewPQuery(knows))
	if err != nil {
		log.Fatalf("query: %v", err)
	}
	qit, err := result.IterEdges(triple.POS)
	if err != nil {
		log.Fatalf("iter query result: %v", err)
	}
	count := 0
	for {
		e, iterErr, ok := qit.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			log.Fatalf("iterate result: %v", iterErr)
		}
		count++
		fmt.Printf("  matched (%d,%d,%d)\n", e.Triple.Sub, e.Triple.Pred, e.Triple.Obj)
	}
	qit.Close()
	fmt.Printf("Found %d edges\n", count)

	fmt.Println("\nRemoving Bob (cascades to both of his edges)...")
	if err := s.RemoveNode(bob); err != nil {
		log.Fatalf("remove node: %v", err)
	}

	remaining, err := s.IterEdges(triple.SPO)
	if err != nil {
		log.Fatalf("iter edges: %v", err)
	}
	left := 0
	for {
		_, iterErr, ok := remaining.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			log.Fatalf("iterate: %v", iterErr)
		}
		left++
	}
	remaining.Close()
	fmt.Printf("Edges remaining after cascade: %d\n", left)

	fmt.Println("\nFinal state:")
	fmt.Print(s.DebugString())

	fmt.Println("\n=== Demo complete ===")
}

func runSetOpsDemo() {
	fmt.Println("=== tristore set-algebra demo ===")
	fmt.Println()

	codec := jsoncodec.New[NodeProps, EdgeProps]()

	left := store.New[NodeProps, EdgeProps](memkv.New(), tsid.NewCounterGenerator(1), codec, tsid.CounterId(0))
	right := store.New[NodeProps, EdgeProps](memkv.New(), tsid.NewCounterGenerator(1000), codec, tsid.CounterId(0))

	l1, l2, m1, m2 := tsid.CounterId(1), tsid.CounterId(2), tsid.CounterId(3), tsid.CounterId(4)
	r1, r2 := tsid.CounterId(5), tsid.CounterId(6)
	edge := tsid.CounterId(100)

	for _, id := range []tsid.CounterId{l1, l2, m1, m2} {
		if err := left.InsertNode(id, NodeProps{Name: fmt.Sprintf("n%d", id)}); err != nil {
			log.Fatalf("insert: %v", err)
		}
	}
	for _, t := range []triple.Triple{
		{Sub: l1, Pred: edge, Obj: l2},
		{Sub: l1, Pred: edge, Obj: m1},
		{Sub: m1, Pred: edge, Obj: m2},
		{Sub: m2, Pred: edge, Obj: l2},
	} {
		if err := left.InsertEdge(t, EdgeProps{Label: "e"}); err != nil {
			log.Fatalf("insert: %v", err)
		}
	}

	for _, id := range []tsid.CounterId{r1, r2, m1, m2} {
		if err := right.InsertNode(id, NodeProps{Name: fmt.Sprintf("n%d", id)}); err != nil {
			log.Fatalf("insert: %v", err)
		}
	}
	for _, t := range []triple.Triple{
		{Sub: r1, Pred: edge, Obj: r2},
		{Sub: m1, Pred: edge, Obj: r1},
		{Sub: m1, Pred: edge, Obj: m2},
		{Sub: r2, Pred: edge, Obj: m2},
	} {
		if err := right.InsertEdge(t, EdgeProps{Label: "e"}); err != nil {
			log.Fatalf("insert: %v", err)
		}
	}

	union, err := store.Union(left, right)
	if err != nil {
		log.Fatalf("union: %v", err)
	}
	fmt.Printf("union: %d vertices, %d edges\n", countVertices(union), countEdges(union))

	inter, err := store.Intersection(left, right)
	if err != nil {
		log.Fatalf("intersection: %v", err)
	}
	fmt.Printf("intersection: %d vertices, %d edges\n", countVertices(inter), countEdges(inter))

	diff, err := store.Difference(left, right)
	if err != nil {
		log.Fatalf("difference: %v", err)
	}
	fmt.Printf("difference: %d vertices, %d edges\n", countVertices(diff), countEdges(diff))

	fmt.Println("\n=== Demo complete ===")
}

func countVertices(s *store.Store[NodeProps, EdgeProps]) int {
	it, err := s.IterVertices()
	if err != nil {
		log.Fatalf("iter vertices: %v", err)
	}
	defer it.Close()
	n := 0
	for {
		_, iterErr, ok := it.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			log.Fatalf("iterate: %v", iterErr)
		}
		n++
	}
	return n
}

func countEdges(s *store.Store[NodeProps, EdgeProps]) int {
	it, err := s.IterEdges(triple.SPO)
	if err != nil {
		log.Fatalf("iter edges: %v", err)
	}
	defer it.Close()
	n := 0
	for {
		_, iterErr, ok := it.Next()
		if !ok {
			break
		}
		if iterErr != nil {
			log.Fatalf("iterate: %v", iterErr)
		}
		n++
	}
	return n
}
