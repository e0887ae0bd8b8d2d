// Package store provides the local order journal.
package store

import (
	"context"
	"time"
)

// OrderStatus tracks what the journal knows about an order.
type OrderStatus string

const (
	StatusSubmitted OrderStatus = "SUBMITTED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// OrderRecord is one journalled order action.
type OrderRecord struct {
	ID            int64
	Timestamp     time.Time
	Market        string
	OpenOrders    string
	ClientOrderID uint64
	Side          string
	Price         string
	QuoteSizeUSD  uint64
	Signature     string
	Status        OrderStatus
}

// Journal defines the order journal interface.
type Journal interface {
	// RecordOrder journals a submitted order.
	RecordOrder(ctx context.Context, rec *OrderRecord) error

	// MarkCancelled flips an order's status to cancelled, keyed by
	// client order ID within a market.
	MarkCancelled(ctx context.Context, market string, clientOrderID uint64) error

	// GetOrders returns journalled orders, newest first.
	GetOrders(ctx context.Context, filter OrderFilter) ([]OrderRecord, error)

	// Lifecycle
	Close() error
}

// OrderFilter represents filters for querying the journal.
type OrderFilter struct {
	Market    string
	Side      string
	Status    OrderStatus
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
