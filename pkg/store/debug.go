package store

import (
	"fmt"
	"strings"

	"github.com/mirelcoau/tristore/pkg/triple"
)

// DebugString renders every vertex and SPO-ordered edge as a
// human-readable dump, in the spirit of the original's
// MemTripleStore::fmt — useful from cmd/tsdemo and from tests, never
// meant to be parsed back.
func (s *Store[NP, EP]) DebugString() string {
	var b strings.Builder
	b.WriteString("Store:\n")

	b.WriteString(" Node Properties:\n")
	if vi, err := s.IterVertices(); err != nil {
		fmt.Fprintf(&b, "  <error: %v>\n", err)
	} else {
		for {
			v, iterErr, ok := vi.Next()
			if !ok {
				break
			}
			if iterErr != nil {
				fmt.Fprintf(&b, "  <error: %v>\n", iterErr)
				break
			}
			fmt.Fprintf(&b, "  %x -> %+v\n", v.Id.Bytes(), v.Props)
		}
		vi.Close()
	}

	b.WriteString(" Edges (SPO):\n")
	if ei, err := s.IterEdges(triple.SPO); err != nil {
		fmt.Fprintf(&b, "  <error: %v>\n", err)
	} else {
		for {
			e, iterErr, ok := ei.Next()
			if !ok {
				break
			}
			if iterErr != nil {
				fmt.Fprintf(&b, "  <error: %v>\n", iterErr)
				break
			}
			fmt.Fprintf(&b, "  (%x, %x, %x) -> %+v\n", e.Triple.Sub.Bytes(), e.Triple.Pred.Bytes(), e.Triple.Obj.Bytes(), e.Props)
		}
		ei.Close()
	}

	return b.String()
}
