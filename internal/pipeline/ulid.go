package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26-character Crockford Base32 strings with a
// millisecond timestamp prefix, so IDs sort by submission time. No
// external dependency needed.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewJobID returns a fresh ULID. A per-millisecond sequence keeps IDs
// unique under bursts.
func NewJobID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in the first 6 bytes (big-endian 48-bit).
	binary.BigEndian.PutUint64(b[:8], ts<<16)
	// Random in the remaining 10 bytes, with the sequence embedded in
	// bytes 6-7 to disambiguate within one millisecond.
	rand.Read(b[6:])
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	return encodeBase32(b)
}

// encodeBase32 encodes 128 bits as 26 Crockford Base32 characters. The
// first character carries the top 3 bits; the rest consume the buffer
// as a big-endian bit stream.
func encodeBase32(b [16]byte) string {
	var out [26]byte
	out[0] = crockford[b[0]>>5]
	out[1] = crockford[b[0]&0x1f]

	pos := 2
	acc, bits := uint32(0), 0
	for i := 1; i < len(b); i++ {
		acc = acc<<8 | uint32(b[i])
		bits += 8
		for bits >= 5 {
			bits -= 5
			out[pos] = crockford[(acc>>bits)&0x1f]
			pos++
		}
	}
	return string(out[:])
}
