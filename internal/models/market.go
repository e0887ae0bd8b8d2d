// Package models holds the on-chain account layouts and order value objects
// used by the OpenBook v2 client.
package models

import (
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// DefaultProgramID is the OpenBook v2 program on mainnet-beta.
var DefaultProgramID = solana.MustPublicKeyFromBase58("opnb2LAfJYbRMAHHvqjCwQxanZn7ReEHp1k81EohpZb")

// MarketDiscriminator tags Market accounts (first 8 bytes).
var MarketDiscriminator = AccountDiscriminator("Market")

// FeesScaleFactor is the denominator of the on-chain fee rates:
// maker_fee and taker_fee are expressed in millionths of the quote amount.
const FeesScaleFactor = 1_000_000

// Market is an immutable snapshot of a trading venue's on-chain parameters.
// It is fetched once at client construction and never mutated; callers that
// need to observe parameter changes must re-fetch.
type Market struct {
	Bump          uint8
	BaseDecimals  uint8
	QuoteDecimals uint8

	MarketAuthority solana.PublicKey
	TimeExpiry      int64
	CollectFeeAdmin solana.PublicKey

	// Optional admin keys; the zero key means unset.
	OpenOrdersAdmin    solana.PublicKey
	ConsumeEventsAdmin solana.PublicKey
	CloseMarketAdmin   solana.PublicKey

	RawName [16]byte

	Bids      solana.PublicKey
	Asks      solana.PublicKey
	EventHeap solana.PublicKey

	// Optional oracle keys; the zero key means unset.
	OracleA solana.PublicKey
	OracleB solana.PublicKey

	OracleConfFilter        float64
	OracleMaxStalenessSlots int64

	QuoteLotSize int64
	BaseLotSize  int64

	SeqNum           uint64
	RegistrationTime int64

	// Fee rates in millionths of the quote amount; maker fees may be
	// negative (a rebate).
	MakerFee int64
	TakerFee int64

	BaseMint  solana.PublicKey
	QuoteMint solana.PublicKey

	BaseVault         solana.PublicKey
	BaseDepositTotal  uint64
	QuoteVault        solana.PublicKey
	QuoteDepositTotal uint64
}

// DecodeMarket deserializes a Market account payload, verifying the
// leading discriminator.
func DecodeMarket(data []byte) (*Market, error) {
	r := newReader(data)
	if err := r.checkDiscriminator(MarketDiscriminator); err != nil {
		return nil, err
	}

	m := &Market{}
	var err error
	if m.Bump, err = r.u8(); err != nil {
		return nil, err
	}
	if m.BaseDecimals, err = r.u8(); err != nil {
		return nil, err
	}
	if m.QuoteDecimals, err = r.u8(); err != nil {
		return nil, err
	}
	if err = r.skip(5); err != nil { // padding1
		return nil, err
	}
	if m.MarketAuthority, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.TimeExpiry, err = r.i64(); err != nil {
		return nil, err
	}
	if m.CollectFeeAdmin, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.OpenOrdersAdmin, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.ConsumeEventsAdmin, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.CloseMarketAdmin, err = r.pubkey(); err != nil {
		return nil, err
	}
	name, err := r.bytes(16)
	if err != nil {
		return nil, err
	}
	copy(m.RawName[:], name)
	if m.Bids, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.Asks, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.EventHeap, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.OracleA, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.OracleB, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.OracleConfFilter, err = r.f64(); err != nil {
		return nil, err
	}
	if m.OracleMaxStalenessSlots, err = r.i64(); err != nil {
		return nil, err
	}
	if err = r.skip(72); err != nil { // oracle config reserved
		return nil, err
	}
	if m.QuoteLotSize, err = r.i64(); err != nil {
		return nil, err
	}
	if m.BaseLotSize, err = r.i64(); err != nil {
		return nil, err
	}
	if m.SeqNum, err = r.u64(); err != nil {
		return nil, err
	}
	if m.RegistrationTime, err = r.i64(); err != nil {
		return nil, err
	}
	if m.MakerFee, err = r.i64(); err != nil {
		return nil, err
	}
	if m.TakerFee, err = r.i64(); err != nil {
		return nil, err
	}
	// fees_accrued, fees_to_referrers (u128 each)
	if err = r.skip(32); err != nil {
		return nil, err
	}
	// referrer_rebates_accrued, fees_available
	if err = r.skip(16); err != nil {
		return nil, err
	}
	// maker_volume, taker_volume_wo_oo (u128 each)
	if err = r.skip(32); err != nil {
		return nil, err
	}
	if m.BaseMint, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.QuoteMint, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.BaseVault, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.BaseDepositTotal, err = r.u64(); err != nil {
		return nil, err
	}
	if m.QuoteVault, err = r.pubkey(); err != nil {
		return nil, err
	}
	if m.QuoteDepositTotal, err = r.u64(); err != nil {
		return nil, err
	}
	// trailing reserved bytes are ignored

	return m, nil
}

// Name returns the market's display name with zero padding removed.
func (m *Market) Name() string {
	return trimName(m.RawName[:])
}

// VaultBySide returns the collateral vault the given side settles against:
// bids reference the quote vault, asks the base vault.
func (m *Market) VaultBySide(side Side) solana.PublicKey {
	if side == SideBid {
		return m.QuoteVault
	}
	return m.BaseVault
}

// MakerFeesFloor computes the maker fee on a quote amount, rounded down.
// Negative maker fees are rebates and reserve nothing.
func (m *Market) MakerFeesFloor(quoteAmount uint64) uint64 {
	if m.MakerFee <= 0 {
		return 0
	}
	fee := new(big.Int).SetUint64(quoteAmount)
	fee.Mul(fee, big.NewInt(m.MakerFee))
	fee.Div(fee, big.NewInt(FeesScaleFactor))
	if !fee.IsUint64() {
		return math.MaxUint64
	}
	return fee.Uint64()
}

// HasOracleA reports whether the market references a primary oracle.
func (m *Market) HasOracleA() bool {
	return !m.OracleA.IsZero()
}

// HasOracleB reports whether the market references a secondary oracle.
func (m *Market) HasOracleB() bool {
	return !m.OracleB.IsZero()
}
