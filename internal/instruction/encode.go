package instruction

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/big"

	"openbook-trader/internal/errors"
)

// Discriminator returns the 8-byte anchor instruction discriminator for the
// given snake_case instruction name.
func Discriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("global:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

// payload accumulates an instruction's binary arguments: an 8-byte
// discriminator, then fields in declared order as fixed-width little-endian
// integers, u32 length-prefixed UTF-8 strings, and one-byte present/absent
// tags before optional values.
type payload struct {
	buf []byte
}

func newPayload(disc [8]byte) *payload {
	p := &payload{buf: make([]byte, 0, 64)}
	p.buf = append(p.buf, disc[:]...)
	return p
}

func (p *payload) u8(v uint8) {
	p.buf = append(p.buf, v)
}

func (p *payload) u32(v uint32) {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, v)
}

func (p *payload) u64(v uint64) {
	p.buf = binary.LittleEndian.AppendUint64(p.buf, v)
}

func (p *payload) i64(v int64) {
	p.buf = binary.LittleEndian.AppendUint64(p.buf, uint64(v))
}

func (p *payload) f32(v float32) {
	p.buf = binary.LittleEndian.AppendUint32(p.buf, math.Float32bits(v))
}

// u128 appends a 16-byte little-endian unsigned integer.
func (p *payload) u128(v *big.Int, ixName, field string) error {
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return errors.NewEncodingError(ixName, field, "value does not fit an unsigned 128-bit integer")
	}
	be := v.Bytes()
	var le [16]byte
	for i, b := range be {
		le[len(be)-1-i] = b
	}
	p.buf = append(p.buf, le[:]...)
	return nil
}

// str appends a u32 length-prefixed UTF-8 string, enforcing the engine's
// accepted length for the field.
func (p *payload) str(s string, maxLen int, ixName, field string) error {
	if len(s) > maxLen {
		return errors.NewEncodingError(ixName, field, "string exceeds accepted length")
	}
	p.u32(uint32(len(s)))
	p.buf = append(p.buf, s...)
	return nil
}

// option appends the present/absent tag for an optional value; the caller
// appends the value itself when present.
func (p *payload) option(present bool) {
	if present {
		p.buf = append(p.buf, 1)
	} else {
		p.buf = append(p.buf, 0)
	}
}

func (p *payload) bytes() []byte {
	return p.buf
}
