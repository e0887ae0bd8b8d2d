package models

import (
	"fmt"
	"math/big"
	"strings"
)

// Side is the book side an order rests on.
type Side uint8

const (
	SideBid Side = 0
	SideAsk Side = 1
)

func (s Side) String() string {
	switch s {
	case SideBid:
		return "bid"
	case SideAsk:
		return "ask"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// ParseSide converts a human side spelling (bid/buy, ask/sell) to a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "bid", "buy":
		return SideBid, nil
	case "ask", "sell":
		return SideAsk, nil
	default:
		return 0, fmt.Errorf("invalid side %q", s)
	}
}

// OrderType matches the on-chain PlaceOrderType enum.
type OrderType uint8

const (
	OrderTypeLimit             OrderType = 0
	OrderTypeImmediateOrCancel OrderType = 1
	OrderTypePostOnly          OrderType = 2
	OrderTypeMarket            OrderType = 3
	OrderTypePostOnlySlide     OrderType = 4
)

// SelfTradeBehavior matches the on-chain enum controlling what happens when
// an order would match against the same owner.
type SelfTradeBehavior uint8

const (
	SelfTradeDecrementTake    SelfTradeBehavior = 0
	SelfTradeCancelProvide    SelfTradeBehavior = 1
	SelfTradeAbortTransaction SelfTradeBehavior = 2
)

// Order is the ephemeral value object consumed by the place-order
// instruction builder. It exists only long enough to be encoded.
type Order struct {
	Side                      Side
	PriceLots                 int64
	MaxBaseLots               int64
	MaxQuoteLotsIncludingFees int64
	ClientOrderID             uint64
	OrderType                 OrderType
	ExpiryTimestamp           uint64
	SelfTradeBehavior         SelfTradeBehavior
	// Limit caps how many resting orders this one may match against in a
	// single call.
	Limit uint8
}

// OrderID is the u128 identifier the engine assigns to a resting order.
type OrderID = *big.Int

// ParseOrderID parses a decimal u128 order id.
func ParseOrderID(s string) (OrderID, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 || v.BitLen() > 128 {
		return nil, fmt.Errorf("invalid order id %q", s)
	}
	return v, nil
}
