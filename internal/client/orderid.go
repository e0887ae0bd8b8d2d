package client

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"

	"openbook-trader/internal/errors"
)

// OrderIDSource yields client order identifiers for idempotent
// cancel-by-id. Injecting the source keeps order construction
// deterministic under test.
type OrderIDSource interface {
	Next() uint64
}

// SessionIDSource issues monotonically increasing identifiers from a
// random 64-bit base. Identifiers never collide within a session; across
// sessions the randomized base makes collisions as unlikely as plain
// 64-bit randomness, but no more — callers that need hard uniqueness must
// track issued ids themselves.
type SessionIDSource struct {
	next uint64
}

// NewSessionIDSource seeds a source from the system's randomness.
func NewSessionIDSource() (*SessionIDSource, error) {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, errors.Wrap(err, "seed order id source")
	}
	return &SessionIDSource{next: binary.LittleEndian.Uint64(seed[:])}, nil
}

// NewSessionIDSourceAt starts a source at a fixed base, for deterministic
// construction in tests.
func NewSessionIDSourceAt(base uint64) *SessionIDSource {
	return &SessionIDSource{next: base}
}

// Next returns the next identifier.
func (s *SessionIDSource) Next() uint64 {
	return atomic.AddUint64(&s.next, 1) - 1
}
