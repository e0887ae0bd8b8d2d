package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: recording an order and reading it back through the journal
// preserves every field (round-trip consistency).
func TestProperty_OrderRoundTripConsistency(t *testing.T) {
	dbPath := "test_journal_property.db"
	defer os.Remove(dbPath)

	journal, err := NewSQLiteJournal(dbPath)
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	defer journal.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	sideGen := gen.OneConstOf("bid", "ask")
	sizeGen := gen.UInt64Range(1, 1_000_000)
	priceGen := gen.Int64Range(1, 100_000_00)

	seq := uint64(0)

	properties.Property("order round-trip preserves fields", prop.ForAll(
		func(side string, size uint64, priceCents int64) bool {
			ctx := context.Background()

			seq++
			market := fmt.Sprintf("MKT-%d", seq)
			price := fmt.Sprintf("%d.%02d", priceCents/100, priceCents%100)
			rec := &OrderRecord{
				Timestamp:     time.Now().UTC().Truncate(time.Second),
				Market:        market,
				OpenOrders:    "oo-address",
				ClientOrderID: seq,
				Side:          side,
				Price:         price,
				QuoteSizeUSD:  size,
				Signature:     fmt.Sprintf("sig-%d", seq),
				Status:        StatusSubmitted,
			}

			if err := journal.RecordOrder(ctx, rec); err != nil {
				t.Logf("RecordOrder: %v", err)
				return false
			}

			got, err := journal.GetOrders(ctx, OrderFilter{Market: market})
			if err != nil {
				t.Logf("GetOrders: %v", err)
				return false
			}
			if len(got) != 1 {
				t.Logf("got %d records, want 1", len(got))
				return false
			}

			r := got[0]
			return r.Market == rec.Market &&
				r.OpenOrders == rec.OpenOrders &&
				r.ClientOrderID == rec.ClientOrderID &&
				r.Side == rec.Side &&
				r.Price == rec.Price &&
				r.QuoteSizeUSD == rec.QuoteSizeUSD &&
				r.Signature == rec.Signature &&
				r.Status == StatusSubmitted
		},
		sideGen,
		sizeGen,
		priceGen,
	))

	properties.TestingRun(t)
}

func TestMarkCancelled(t *testing.T) {
	dbPath := "test_journal_cancel.db"
	defer os.Remove(dbPath)

	journal, err := NewSQLiteJournal(dbPath)
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	defer journal.Close()

	ctx := context.Background()
	rec := &OrderRecord{
		Timestamp:     time.Now(),
		Market:        "SOL-USDC",
		OpenOrders:    "oo",
		ClientOrderID: 7,
		Side:          "bid",
		Price:         "142.50",
		QuoteSizeUSD:  1000,
		Status:        StatusSubmitted,
	}
	if err := journal.RecordOrder(ctx, rec); err != nil {
		t.Fatalf("RecordOrder: %v", err)
	}

	if err := journal.MarkCancelled(ctx, "SOL-USDC", 7); err != nil {
		t.Fatalf("MarkCancelled: %v", err)
	}

	got, err := journal.GetOrders(ctx, OrderFilter{Market: "SOL-USDC", Status: StatusCancelled})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(got) != 1 || got[0].ClientOrderID != 7 {
		t.Fatalf("cancelled lookup = %+v", got)
	}

	// unknown order is an error, not a silent no-op
	if err := journal.MarkCancelled(ctx, "SOL-USDC", 999); err == nil {
		t.Fatal("expected error for unknown client order id")
	}
}

func TestGetOrdersFiltersAndLimit(t *testing.T) {
	dbPath := "test_journal_filters.db"
	defer os.Remove(dbPath)

	journal, err := NewSQLiteJournal(dbPath)
	if err != nil {
		t.Fatalf("Failed to create journal: %v", err)
	}
	defer journal.Close()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 10; i++ {
		side := "bid"
		if i%2 == 1 {
			side = "ask"
		}
		err := journal.RecordOrder(ctx, &OrderRecord{
			Timestamp:     base.Add(time.Duration(i) * time.Minute),
			Market:        "SOL-USDC",
			OpenOrders:    "oo",
			ClientOrderID: uint64(i),
			Side:          side,
			Price:         "1.00",
			QuoteSizeUSD:  100,
			Status:        StatusSubmitted,
		})
		if err != nil {
			t.Fatalf("RecordOrder(%d): %v", i, err)
		}
	}

	bids, err := journal.GetOrders(ctx, OrderFilter{Side: "bid"})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(bids) != 5 {
		t.Errorf("bid count = %d, want 5", len(bids))
	}

	limited, err := journal.GetOrders(ctx, OrderFilter{Limit: 3})
	if err != nil {
		t.Fatalf("GetOrders: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("limited count = %d, want 3", len(limited))
	}
	// newest first
	if len(limited) == 3 && limited[0].ClientOrderID != 9 {
		t.Errorf("first record id = %d, want 9", limited[0].ClientOrderID)
	}
}
