package store

import (
	"github.com/mirelcoau/tristore/internal/memkv"
	"github.com/mirelcoau/tristore/pkg/kv"
	"github.com/mirelcoau/tristore/pkg/tsid"
	"github.com/mirelcoau/tristore/pkg/triple"
)

// QueryKind names one of the eight fixed query shapes: which positions of
// the triple pattern are bound, plus the NodeProperties lookup. Every shape
// is bound to a SET of inputs, not a single one — matching the original's
// Query::S(HashSet<Ulid>) and friends — so a query executes as a union over
// one range-scan per element of that set.
type QueryKind int

const (
	QueryNodeProps QueryKind = iota
	QuerySPO
	QueryS
	QuerySP
	QuerySO
	QueryP
	QueryPO
	QueryO
)

// Pair is a bound two-position pattern: which two ids it holds and what
// they mean is determined by the Query's Kind.
type Pair struct {
	First  tsid.Id
	Second tsid.Id
}

// Query describes one of the eight fixed pattern shapes together with its
// bound set of arguments. Construct one with the New*Query functions rather
// than building it directly.
type Query struct {
	Kind    QueryKind
	Ids     []tsid.Id
	Triples []triple.Triple
	Pairs   []Pair
}

// NewNodePropsQuery returns a query for a set of vertices' NodeProperties.
func NewNodePropsQuery(ids ...tsid.Id) Query { return Query{Kind: QueryNodeProps, Ids: ids} }

// NewSPOQuery returns a query for a set of fully bound triples.
func NewSPOQuery(triples ...triple.Triple) Query { return Query{Kind: QuerySPO, Triples: triples} }

// NewSQuery returns a query for every edge with subject in subs.
func NewSQuery(subs ...tsid.Id) Query { return Query{Kind: QueryS, Ids: subs} }

// NewPQuery returns a query for every edge with predicate in preds.
func NewPQuery(preds ...tsid.Id) Query { return Query{Kind: QueryP, Ids: preds} }

// NewOQuery returns a query for every edge with object in objs.
func NewOQuery(objs ...tsid.Id) Query { return Query{Kind: QueryO, Ids: objs} }

// NewSPQuery returns a query for every edge whose (subject, predicate) pair
// is in pairs.
func NewSPQuery(pairs ...Pair) Query { return Query{Kind: QuerySP, Pairs: pairs} }

// NewSOQuery returns a query for every edge whose (subject, object) pair is
// in pairs.
func NewSOQuery(pairs ...Pair) Query { return Query{Kind: QuerySO, Pairs: pairs} }

// NewPOQuery returns a query for every edge whose (predicate, object) pair
// is in pairs.
func NewPOQuery(pairs ...Pair) Query { return Query{Kind: QueryPO, Pairs: pairs} }

// Run executes q and returns a fresh, in-memory result store holding
// whatever vertices and/or edges matched across every element of q's bound
// set. Result property-ids are copied verbatim from the source rows: a
// query filters, it never mints identity. Rows matched by more than one set
// element (e.g. overlapping SP pairs) land in the result only once, since
// writing the same index/property rows twice is a no-op.
func (s *Store[NP, EP]) Run(q Query) (*Store[NP, EP], error) {
	result := s.sibling(memkv.New())

	txn, err := s.backend.Begin(false)
	if err != nil {
		return nil, &QueryError{Err: err}
	}
	defer txn.Rollback()

	rtxn, err := result.backend.Begin(true)
	if err != nil {
		return nil, &QueryError{Err: err}
	}

	if err := s.runInto(txn, rtxn, q); err != nil {
		_ = rtxn.Rollback()
		return nil, &QueryError{Err: err}
	}
	if err := rtxn.Commit(); err != nil {
		return nil, &QueryError{Err: err}
	}
	return result, nil
}

func (s *Store[NP, EP]) runInto(src, dst kv.Txn, q Query) error {
	switch q.Kind {
	case QueryNodeProps:
		for _, id := range q.Ids {
			if err := s.copyNodeProps(src, dst, id); err != nil {
				return err
			}
		}
		return nil
	case QuerySPO:
		for _, t := range q.Triples {
			if err := s.copyPointEdge(src, dst, t); err != nil {
				return err
			}
		}
		return nil
	case QueryS:
		for _, id := range q.Ids {
			lo, hi := triple.KeyBounds1(triple.SPO, id)
			if err := s.copyRange(src, dst, triple.SPO, lo, hi); err != nil {
				return err
			}
		}
		return nil
	case QueryP:
		for _, id := range q.Ids {
			lo, hi := triple.KeyBounds1(triple.POS, id)
			if err := s.copyRange(src, dst, triple.POS, lo, hi); err != nil {
				return err
			}
		}
		return nil
	case QueryO:
		for _, id := range q.Ids {
			lo, hi := triple.KeyBounds1(triple.OSP, id)
			if err := s.copyRange(src, dst, triple.OSP, lo, hi); err != nil {
				return err
			}
		}
		return nil
	case QuerySP:
		for _, p := range q.Pairs {
			lo, hi := triple.KeyBounds2(triple.SPO, p.First, p.Second)
			if err := s.copyRange(src, dst, triple.SPO, lo, hi); err != nil {
				return err
			}
		}
		return nil
	case QueryPO:
		for _, p := range q.Pairs {
			lo, hi := triple.KeyBounds2(triple.POS, p.First, p.Second)
			if err := s.copyRange(src, dst, triple.POS, lo, hi); err != nil {
				return err
			}
		}
		return nil
	case QuerySO:
		// Pair is (sub, obj), but OSP's key order is (obj, sub, pred), so
		// the bound prefix is (obj, sub) — the pair swapped.
		for _, p := range q.Pairs {
			lo, hi := triple.KeyBounds2(triple.OSP, p.Second, p.First)
			if err := s.copyRange(src, dst, triple.OSP, lo, hi); err != nil {
				return err
			}
		}
		return nil
	default:
		return &QueryError{Err: errUnknownQueryKind}
	}
}

var errUnknownQueryKind = &StorageError{Err: errString("unknown query kind")}

type errString string

func (e errString) Error() string { return string(e) }

func (s *Store[NP, EP]) copyNodeProps(src, dst kv.Txn, id tsid.Id) error {
	raw, err := src.Get(kv.NodeProps, id.Bytes())
	if err == kv.ErrNotFound {
		return nil
	}
	if err != nil {
		return &StorageError{Err: err}
	}
	return dst.Set(kv.NodeProps, id.Bytes(), raw)
}

func (s *Store[NP, EP]) copyPointEdge(src, dst kv.Txn, t triple.Triple) error {
	pidBytes, err := src.Get(kv.SPO, triple.Encode(triple.SPO, t))
	if err == kv.ErrNotFound {
		return nil
	}
	if err != nil {
		return &StorageError{Err: err}
	}
	return s.copyEdgeRow(src, dst, t, pidBytes)
}

func (s *Store[NP, EP]) copyRange(src, dst kv.Txn, order triple.Order, lo, hi []byte) error {
	it, err := src.Scan(tableFor(order), lo, hi)
	if err != nil {
		return &StorageError{Err: err}
	}
	defer it.Close()

	for it.Next() {
		t, ok := triple.Decode(order, it.Key(), s.zeroID)
		if !ok {
			return &KeySizeError{Got: len(it.Key()), Want: 3 * len(s.zeroID.Bytes())}
		}
		pidBytes, err := it.Value()
		if err != nil {
			return &StorageError{Err: err}
		}
		if err := s.copyEdgeRow(src, dst, t, pidBytes); err != nil {
			return err
		}
	}
	return nil
}

// copyEdgeRow writes t's three index rows (re-encoded so they land in the
// result's own tables) and its EdgeProps entry, reusing pidBytes as-is.
func (s *Store[NP, EP]) copyEdgeRow(src, dst kv.Txn, t triple.Triple, pidBytes []byte) error {
	for _, o := range allOrders {
		if err := dst.Set(tableFor(o), triple.Encode(o, t), pidBytes); err != nil {
			return &StorageError{Err: err}
		}
	}
	props, err := src.Get(kv.EdgeProps, pidBytes)
	if err == kv.ErrNotFound {
		return &MissingPropertyData{PIdBytes: pidBytes}
	}
	if err != nil {
		return &StorageError{Err: err}
	}
	return dst.Set(kv.EdgeProps, pidBytes, props)
}
