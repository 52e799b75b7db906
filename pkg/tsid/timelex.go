package tsid

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/zeebo/xxh3"
)

// TimeLexId is the time-lexicographic 128-bit id variant: a 48-bit
// big-endian millisecond timestamp followed by 80 bits of randomized
// payload, ULID-shaped so that ids minted in a later millisecond sort after
// ids minted in an earlier one. Ids minted within the same millisecond
// differ only in their hashed payload, so their relative order is not
// defined. It is the variant to reach for when ids are generated
// across process restarts and must still merge into one sorted space.
type TimeLexId [16]byte

var (
	// MinTimeLexId is the all-zero 128-bit value.
	MinTimeLexId = TimeLexId{}
	// MaxTimeLexId is the all-ones 128-bit value.
	MaxTimeLexId = func() TimeLexId {
		var t TimeLexId
		for i := range t {
			t[i] = 0xff
		}
		return t
	}()
)

func (t TimeLexId) Bytes() []byte {
	out := make([]byte, 16)
	copy(out, t[:])
	return out
}

func (t TimeLexId) Less(other Id) bool {
	o := other.(TimeLexId)
	for i := range t {
		if t[i] != o[i] {
			return t[i] < o[i]
		}
	}
	return false
}

func (t TimeLexId) Min() Id { return MinTimeLexId }
func (t TimeLexId) Max() Id { return MaxTimeLexId }

func (t TimeLexId) Decode(b []byte) (Id, bool) {
	v, ok := TimeLexIdFromBytes(b)
	return v, ok
}

// TimeLexIdFromBytes decodes a 16-byte big-endian array into a TimeLexId.
func TimeLexIdFromBytes(b []byte) (TimeLexId, bool) {
	if len(b) != 16 {
		return TimeLexId{}, false
	}
	var t TimeLexId
	copy(t[:], b)
	return t, true
}

// TimeLexGenerator mints TimeLexId values stamped with the current
// millisecond and diversified with an xxh3 128-bit hash over a shared
// monotonic counter, the same role xxh3.Hash128 plays for fast,
// non-cryptographic diversification of the teacher's term encodings.
type TimeLexGenerator struct {
	seq *uint64
}

// NewTimeLexGenerator creates a fresh time-lexicographic id generator.
func NewTimeLexGenerator() *TimeLexGenerator {
	v := uint64(0)
	return &TimeLexGenerator{seq: &v}
}

func (g *TimeLexGenerator) Fresh() Id {
	millis := uint64(time.Now().UnixMilli())
	seq := atomic.AddUint64(g.seq, 1)

	var seed [16]byte
	binary.BigEndian.PutUint64(seed[0:8], millis)
	binary.BigEndian.PutUint64(seed[8:16], seq)
	h := xxh3.Hash128(seed[:])

	var id TimeLexId
	id[0] = byte(millis >> 40)
	id[1] = byte(millis >> 32)
	id[2] = byte(millis >> 24)
	id[3] = byte(millis >> 16)
	id[4] = byte(millis >> 8)
	id[5] = byte(millis)
	binary.BigEndian.PutUint64(id[6:14], h.Hi)
	binary.BigEndian.PutUint16(id[14:16], uint16(h.Lo))
	return id
}

func (g *TimeLexGenerator) Clone() Generator {
	return &TimeLexGenerator{seq: g.seq}
}
