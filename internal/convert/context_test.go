package convert

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"openbook-trader/internal/errors"
	"openbook-trader/internal/models"
)

func testMarket() *models.Market {
	return &models.Market{
		BaseDecimals:  9,
		QuoteDecimals: 6,
		BaseLotSize:   1_000_000,
		QuoteLotSize:  1,
		MakerFee:      200,
		TakerFee:      400,
	}
}

func newTestContext(t *testing.T, market *models.Market) *MarketContext {
	t.Helper()
	ctx, err := NewMarketContext(solana.PublicKey{}, market)
	if err != nil {
		t.Fatalf("NewMarketContext: %v", err)
	}
	return ctx
}

func TestNewMarketContextRejectsBadLotSizes(t *testing.T) {
	market := testMarket()
	market.BaseLotSize = 0
	if _, err := NewMarketContext(solana.PublicKey{}, market); err == nil {
		t.Fatal("expected error for zero base lot size")
	}

	market = testMarket()
	market.QuoteLotSize = -1
	if _, err := NewMarketContext(solana.PublicKey{}, market); err == nil {
		t.Fatal("expected error for negative quote lot size")
	}

	if _, err := NewMarketContext(solana.PublicKey{}, nil); err == nil {
		t.Fatal("expected error for nil market")
	}
}

func TestPriceToLots(t *testing.T) {
	ctx := newTestContext(t, testMarket())

	tests := []struct {
		price string
		want  int64
	}{
		// 9 base decimals, 6 quote decimals: scale by 10^3
		{"1.5", 1500},
		{"142.50", 142500},
		{"0.001", 1},
		{"0.0001", 0}, // truncates toward zero
		{"100", 100000},
	}
	for _, tt := range tests {
		price := decimal.RequireFromString(tt.price)
		got, err := ctx.PriceToLots(price)
		if err != nil {
			t.Errorf("PriceToLots(%s): %v", tt.price, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PriceToLots(%s) = %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestPriceToLotsRejectsNonPositive(t *testing.T) {
	ctx := newTestContext(t, testMarket())

	for _, price := range []string{"0", "-1.5"} {
		_, err := ctx.PriceToLots(decimal.RequireFromString(price))
		if err == nil {
			t.Errorf("PriceToLots(%s): expected error", price)
			continue
		}
		var convErr *errors.ConversionError
		if !errors.As(err, &convErr) {
			t.Errorf("PriceToLots(%s): error %v is not a ConversionError", price, err)
		}
	}
}

func TestBaseSizeFromQuote(t *testing.T) {
	ctx := newTestContext(t, testMarket())

	// 1_000_000 whole quote tokens at price 100 buys 10_000 base tokens,
	// scaled to 9 base decimals.
	got, err := ctx.BaseSizeFromQuote(1_000_000, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("BaseSizeFromQuote: %v", err)
	}
	if want := uint64(10_000_000_000_000); got != want {
		t.Errorf("BaseSizeFromQuote = %d, want %d", got, want)
	}

	// Truncation: 10 quote tokens at price 3 is 3.33... base, floored.
	got, err = ctx.BaseSizeFromQuote(10, decimal.NewFromInt(3))
	if err != nil {
		t.Fatalf("BaseSizeFromQuote: %v", err)
	}
	if want := uint64(3_333_333_333); got != want {
		t.Errorf("BaseSizeFromQuote = %d, want %d", got, want)
	}
}

func TestMaxQuoteLotsIncludingFees(t *testing.T) {
	ctx := newTestContext(t, testMarket())

	// 200 millionths of 1_000_000 is 200 extra lots at lot size 1.
	got := ctx.MaxQuoteLotsIncludingFees(1_000_000)
	if want := uint64(1_000_200); got != want {
		t.Errorf("MaxQuoteLotsIncludingFees = %d, want %d", got, want)
	}

	// A maker rebate reserves nothing extra.
	market := testMarket()
	market.MakerFee = -200
	rebate := newTestContext(t, market)
	got = rebate.MaxQuoteLotsIncludingFees(1_000_000)
	if want := uint64(1_000_000); got != want {
		t.Errorf("MaxQuoteLotsIncludingFees with rebate = %d, want %d", got, want)
	}
}

func TestMaxBaseLots(t *testing.T) {
	ctx := newTestContext(t, testMarket())
	if got := ctx.MaxBaseLots(10_000_000_000_000); got != 10_000_000 {
		t.Errorf("MaxBaseLots = %d, want 10000000", got)
	}
	if got := ctx.MaxBaseLots(999_999); got != 0 {
		t.Errorf("MaxBaseLots below one lot = %d, want 0", got)
	}
}

func TestMaxBaseLotsFromUSD(t *testing.T) {
	ctx := newTestContext(t, testMarket())
	// 10 whole base tokens scale by 10^9 native units before lot division.
	if got := ctx.MaxBaseLotsFromUSD(10); got != 10_000 {
		t.Errorf("MaxBaseLotsFromUSD = %d, want 10000", got)
	}
	if got := ctx.MaxBaseLotsFromUSD(0); got != 0 {
		t.Errorf("MaxBaseLotsFromUSD(0) = %d, want 0", got)
	}
}

func TestMaxQuoteLotsIncludingFeesFromUSD(t *testing.T) {
	ctx := newTestContext(t, testMarket())
	// 1000 USD is 1_000_000_000 native units; fee floor adds 200_000 lots.
	got := ctx.MaxQuoteLotsIncludingFeesFromUSD(1000)
	if want := uint64(1_000_200_000); got != want {
		t.Errorf("MaxQuoteLotsIncludingFeesFromUSD = %d, want %d", got, want)
	}
}

// Property: the lot price never exceeds the scaled input price, and never
// undershoots it by a full lot (floor semantics).
func TestProperty_PriceToLotsFloor(t *testing.T) {
	ctx := newTestContext(t, testMarket())

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("PriceToLots truncates toward zero", prop.ForAll(
		func(cents int64) bool {
			price := decimal.New(cents, -2) // positive price with 2dp
			lots, err := ctx.PriceToLots(price)
			if err != nil {
				return false
			}
			scaled := price.Shift(3)
			lower := decimal.NewFromInt(lots)
			upper := lower.Add(decimal.NewFromInt(1))
			return lower.LessThanOrEqual(scaled) && scaled.LessThan(upper)
		},
		gen.Int64Range(1, 1_000_000_000),
	))

	properties.Property("PriceToLots is monotonic", prop.ForAll(
		func(a, b int64) bool {
			if a > b {
				a, b = b, a
			}
			lotsA, errA := ctx.PriceToLots(decimal.New(a, -2))
			lotsB, errB := ctx.PriceToLots(decimal.New(b, -2))
			if errA != nil || errB != nil {
				return false
			}
			return lotsA <= lotsB
		},
		gen.Int64Range(1, 1_000_000_000),
		gen.Int64Range(1, 1_000_000_000),
	))

	properties.TestingRun(t)
}

// Property: the reserved quote lots always cover the order's quote size.
func TestProperty_FeeReservationCoversSize(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("reservation >= quote lots", prop.ForAll(
		func(quoteSize uint64, makerFee int64) bool {
			market := testMarket()
			market.MakerFee = makerFee
			ctx, err := NewMarketContext(solana.PublicKey{}, market)
			if err != nil {
				return false
			}
			reserved := ctx.MaxQuoteLotsIncludingFees(quoteSize)
			return reserved >= quoteSize/uint64(market.QuoteLotSize)
		},
		gen.UInt64Range(0, 1_000_000_000_000),
		gen.Int64Range(-10_000, 10_000),
	))

	properties.TestingRun(t)
}
