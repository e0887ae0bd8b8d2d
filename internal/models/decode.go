package models

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"openbook-trader/internal/errors"
)

// AccountDiscriminator returns the 8-byte anchor account discriminator
// for the given account struct name.
func AccountDiscriminator(name string) [8]byte {
	hash := sha256.Sum256([]byte("account:" + name))
	var out [8]byte
	copy(out[:], hash[:8])
	return out
}

// reader walks a raw account payload field by field. All integers are
// little-endian per the on-chain layout.
type reader struct {
	data []byte
	off  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) need(n int) error {
	if len(r.data) < r.off+n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", errors.ErrAccountTooShort, n, r.off, len(r.data))
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.data[r.off]
	r.off++
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off : r.off+4])
	r.off += 4
	return v, nil
}

func (r *reader) u64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.off : r.off+8])
	r.off += 8
	return v, nil
}

func (r *reader) i64() (int64, error) {
	v, err := r.u64()
	return int64(v), err
}

func (r *reader) f64() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	bits := binary.LittleEndian.Uint64(r.data[r.off : r.off+8])
	r.off += 8
	return math.Float64frombits(bits), nil
}

func (r *reader) pubkey() (solana.PublicKey, error) {
	if err := r.need(32); err != nil {
		return solana.PublicKey{}, err
	}
	var pk solana.PublicKey
	copy(pk[:], r.data[r.off:r.off+32])
	r.off += 32
	return pk, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := r.data[r.off : r.off+n]
	r.off += n
	return out, nil
}

func (r *reader) skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}

// checkDiscriminator consumes and verifies the leading 8-byte tag.
func (r *reader) checkDiscriminator(want [8]byte) error {
	got, err := r.bytes(8)
	if err != nil {
		return err
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%w: got % x, want % x", errors.ErrInvalidDiscriminator, got, want[:])
		}
	}
	return nil
}

// trimName converts a fixed-width zero-padded name field to a string.
func trimName(raw []byte) string {
	end := len(raw)
	for end > 0 && raw[end-1] == 0 {
		end--
	}
	return string(raw[:end])
}
