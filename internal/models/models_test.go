package models

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"

	"openbook-trader/internal/errors"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		in      string
		want    Side
		wantErr bool
	}{
		{"bid", SideBid, false},
		{"buy", SideBid, false},
		{"BUY", SideBid, false},
		{"ask", SideAsk, false},
		{"sell", SideAsk, false},
		{"Sell", SideAsk, false},
		{"short", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseSide(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseSide(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSide(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseOrderID(t *testing.T) {
	id, err := ParseOrderID("42")
	if err != nil {
		t.Fatalf("ParseOrderID: %v", err)
	}
	if id.Int64() != 42 {
		t.Errorf("ParseOrderID(42) = %s", id)
	}

	// max u128
	if _, err := ParseOrderID("340282366920938463463374607431768211455"); err != nil {
		t.Errorf("max u128 rejected: %v", err)
	}
	// one past max u128
	if _, err := ParseOrderID("340282366920938463463374607431768211456"); err == nil {
		t.Error("expected error for 129-bit value")
	}
	if _, err := ParseOrderID("-1"); err == nil {
		t.Error("expected error for negative value")
	}
	if _, err := ParseOrderID("abc"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestMakerFeesFloor(t *testing.T) {
	m := &Market{MakerFee: 200}
	if got := m.MakerFeesFloor(1_000_000); got != 200 {
		t.Errorf("MakerFeesFloor = %d, want 200", got)
	}
	// rounds down
	if got := m.MakerFeesFloor(9_999); got != 1 {
		t.Errorf("MakerFeesFloor(9999) = %d, want 1", got)
	}
	if got := m.MakerFeesFloor(4_999); got != 0 {
		t.Errorf("MakerFeesFloor(4999) = %d, want 0", got)
	}

	// rebates reserve nothing
	m.MakerFee = -200
	if got := m.MakerFeesFloor(1_000_000); got != 0 {
		t.Errorf("MakerFeesFloor with rebate = %d, want 0", got)
	}

	// overflow saturates
	m.MakerFee = math.MaxInt64
	if got := m.MakerFeesFloor(math.MaxUint64); got != math.MaxUint64 {
		t.Errorf("MakerFeesFloor overflow = %d, want MaxUint64", got)
	}
}

func TestVaultBySide(t *testing.T) {
	base := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	quote := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	m := &Market{BaseVault: base, QuoteVault: quote}

	if got := m.VaultBySide(SideBid); !got.Equals(quote) {
		t.Errorf("bid vault = %s, want quote vault", got)
	}
	if got := m.VaultBySide(SideAsk); !got.Equals(base) {
		t.Errorf("ask vault = %s, want base vault", got)
	}
}

// buildOpenOrdersPayload constructs the header portion of an
// OpenOrdersAccount payload.
func buildOpenOrdersPayload(owner, market solana.PublicKey, name string, accountNum uint32, bump uint8) []byte {
	buf := make([]byte, 0, 8+32+32+32+32+4+1)
	buf = append(buf, OpenOrdersDiscriminator[:]...)
	buf = append(buf, owner[:]...)
	buf = append(buf, market[:]...)
	var rawName [32]byte
	copy(rawName[:], name)
	buf = append(buf, rawName[:]...)
	var delegate [32]byte
	buf = append(buf, delegate[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, accountNum)
	buf = append(buf, bump)
	return buf
}

func TestDecodeOpenOrdersAccount(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	market := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	data := buildOpenOrdersPayload(owner, market, "default", 3, 255)
	acc, err := DecodeOpenOrdersAccount(data)
	if err != nil {
		t.Fatalf("DecodeOpenOrdersAccount: %v", err)
	}
	if !acc.Owner.Equals(owner) {
		t.Errorf("owner = %s", acc.Owner)
	}
	if !acc.Market.Equals(market) {
		t.Errorf("market = %s", acc.Market)
	}
	if acc.Name() != "default" {
		t.Errorf("name = %q, want %q", acc.Name(), "default")
	}
	if acc.AccountNum != 3 {
		t.Errorf("account num = %d, want 3", acc.AccountNum)
	}
	if acc.Bump != 255 {
		t.Errorf("bump = %d, want 255", acc.Bump)
	}
	if !acc.Delegate.IsZero() {
		t.Errorf("delegate = %s, want zero", acc.Delegate)
	}
}

func TestDecodeOpenOrdersAccountBadDiscriminator(t *testing.T) {
	data := buildOpenOrdersPayload(solana.PublicKey{}, solana.PublicKey{}, "x", 0, 0)
	data[0] ^= 0xff

	_, err := DecodeOpenOrdersAccount(data)
	if !errors.Is(err, errors.ErrInvalidDiscriminator) {
		t.Fatalf("error = %v, want ErrInvalidDiscriminator", err)
	}
}

func TestDecodeOpenOrdersAccountTooShort(t *testing.T) {
	data := buildOpenOrdersPayload(solana.PublicKey{}, solana.PublicKey{}, "x", 0, 0)

	_, err := DecodeOpenOrdersAccount(data[:40])
	if !errors.Is(err, errors.ErrAccountTooShort) {
		t.Fatalf("error = %v, want ErrAccountTooShort", err)
	}
}

func TestAccountDiscriminatorDistinct(t *testing.T) {
	if MarketDiscriminator == OpenOrdersDiscriminator {
		t.Fatal("Market and OpenOrdersAccount discriminators collide")
	}
	if AccountDiscriminator("Market") != MarketDiscriminator {
		t.Fatal("AccountDiscriminator is not deterministic")
	}
}

func TestTrimName(t *testing.T) {
	raw := [16]byte{'S', 'O', 'L', '-', 'U', 'S', 'D', 'C'}
	m := &Market{RawName: raw}
	if m.Name() != "SOL-USDC" {
		t.Errorf("Name() = %q", m.Name())
	}

	var empty Market
	if empty.Name() != "" {
		t.Errorf("empty Name() = %q", empty.Name())
	}
}
