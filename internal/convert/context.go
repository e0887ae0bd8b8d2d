// Package convert implements the price/size to lot conversion math for a
// single market. All rounding truncates toward zero so the client never
// commits more size than the supplied balance covers.
package convert

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"openbook-trader/internal/errors"
	"openbook-trader/internal/models"
)

// USDScale converts whole USD amounts to native quote units; quote tokens
// carry six decimals.
const USDScale = 1_000_000

// MarketContext pairs a market snapshot with its address and owns the lot
// conversion logic. It is immutable and safe for concurrent readers.
type MarketContext struct {
	Address solana.PublicKey
	Market  *models.Market
}

// NewMarketContext validates the market's conversion parameters once so the
// conversion methods stay total.
func NewMarketContext(address solana.PublicKey, market *models.Market) (*MarketContext, error) {
	if market == nil {
		return nil, errors.NewConversionError("market", nil, "market snapshot is nil")
	}
	if market.BaseLotSize <= 0 {
		return nil, errors.NewConversionError("baseLotSize", market.BaseLotSize, "must be positive")
	}
	if market.QuoteLotSize <= 0 {
		return nil, errors.NewConversionError("quoteLotSize", market.QuoteLotSize, "must be positive")
	}
	return &MarketContext{Address: address, Market: market}, nil
}

// PriceToLots scales a human limit price by 10^(baseDecimals-quoteDecimals)
// and truncates to an integer lot price.
func (c *MarketContext) PriceToLots(price decimal.Decimal) (int64, error) {
	if price.Sign() <= 0 {
		return 0, errors.NewConversionError("price", price, "must be positive")
	}
	scaled := price.Shift(int32(c.Market.BaseDecimals) - int32(c.Market.QuoteDecimals))
	lots := scaled.BigInt() // truncates toward zero
	if !lots.IsInt64() {
		return 0, errors.NewConversionError("price", price, "lot price overflows int64")
	}
	return lots.Int64(), nil
}

// BaseSizeFromQuote computes the native base size purchasable with quoteSize
// whole quote tokens at the given limit price, truncated.
func (c *MarketContext) BaseSizeFromQuote(quoteSize uint64, price decimal.Decimal) (uint64, error) {
	if price.Sign() <= 0 {
		return 0, errors.NewConversionError("price", price, "must be positive")
	}
	quote := decimal.NewFromBigInt(new(big.Int).SetUint64(quoteSize), 0)
	size := quote.Div(price).Shift(int32(c.Market.BaseDecimals)).Floor().BigInt()
	if !size.IsUint64() {
		return 0, errors.NewConversionError("quoteSize", quoteSize, "base size overflows uint64")
	}
	return size.Uint64(), nil
}

// MaxQuoteLotsIncludingFees reserves enough quote lots for quoteSize native
// quote units plus the maker fee floor. Intended for post-only orders; the
// fee floor never decreases the reservation.
func (c *MarketContext) MaxQuoteLotsIncludingFees(quoteSize uint64) uint64 {
	quoteLots := quoteSize / uint64(c.Market.QuoteLotSize)
	return quoteLots + c.Market.MakerFeesFloor(quoteSize)
}

// MaxBaseLots converts a native base size to base lots, truncated.
func (c *MarketContext) MaxBaseLots(baseSize uint64) uint64 {
	return baseSize / uint64(c.Market.BaseLotSize)
}

// MaxQuoteLotsIncludingFeesFromUSD is MaxQuoteLotsIncludingFees over a whole
// USD quote amount.
func (c *MarketContext) MaxQuoteLotsIncludingFeesFromUSD(quoteSizeUSD uint64) uint64 {
	return c.MaxQuoteLotsIncludingFees(quoteSizeUSD * USDScale)
}

// MaxBaseLotsFromUSD is MaxBaseLots over a whole base-token amount, scaled
// by the market's base decimals.
func (c *MarketContext) MaxBaseLotsFromUSD(baseSize uint64) uint64 {
	return c.MaxBaseLots(baseSize * pow10(c.Market.BaseDecimals))
}

func pow10(exp uint8) uint64 {
	out := uint64(1)
	for i := uint8(0); i < exp; i++ {
		out *= 10
	}
	return out
}
