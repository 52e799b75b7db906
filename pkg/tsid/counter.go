package tsid

import (
	"encoding/binary"
	"sync/atomic"
)

// CounterId is the monotonic-counter id variant: an 8-byte big-endian
// unsigned integer. It is the cheapest id to mint and the natural default
// for a single-process embedding of the store.
type CounterId uint64

// MinCounterId and MaxCounterId are the smallest and largest representable
// values of CounterId.
const (
	MinCounterId CounterId = 0
	MaxCounterId CounterId = 1<<64 - 1
)

func (c CounterId) Bytes() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(c))
	return b
}

func (c CounterId) Less(other Id) bool {
	return c < other.(CounterId)
}

func (c CounterId) Min() Id { return MinCounterId }
func (c CounterId) Max() Id { return MaxCounterId }

func (c CounterId) Decode(b []byte) (Id, bool) {
	v, ok := CounterIdFromBytes(b)
	return v, ok
}

// CounterIdFromBytes decodes a big-endian 8-byte array into a CounterId. It
// returns false if b is not exactly 8 bytes long.
func CounterIdFromBytes(b []byte) (CounterId, bool) {
	if len(b) != 8 {
		return 0, false
	}
	return CounterId(binary.BigEndian.Uint64(b)), true
}

// CounterGenerator mints strictly increasing CounterId values from a shared
// atomic counter. Clone returns a handle backed by the same counter, so
// stores derived from one another (e.g. the output of a set operation)
// never mint colliding property-ids.
type CounterGenerator struct {
	next *uint64
}

// NewCounterGenerator creates a generator whose first Fresh() call returns
// seed.
func NewCounterGenerator(seed uint64) *CounterGenerator {
	v := seed
	return &CounterGenerator{next: &v}
}

func (g *CounterGenerator) Fresh() Id {
	return CounterId(atomic.AddUint64(g.next, 1) - 1)
}

func (g *CounterGenerator) Clone() Generator {
	return &CounterGenerator{next: g.next}
}
