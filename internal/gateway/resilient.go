package gateway

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"openbook-trader/internal/models"
	"openbook-trader/internal/resilience"
)

// ResilientGateway wraps a StateGateway with a circuit breaker so a
// failing RPC endpoint is backed off instead of hammered.
type ResilientGateway struct {
	inner   StateGateway
	breaker *resilience.CircuitBreaker
}

// NewResilient wraps gw with the given circuit breaker configuration.
func NewResilient(gw StateGateway, cfg resilience.CircuitBreakerConfig) *ResilientGateway {
	return &ResilientGateway{
		inner:   gw,
		breaker: resilience.NewCircuitBreaker("rpc", cfg),
	}
}

// Breaker exposes the underlying circuit breaker for inspection.
func (g *ResilientGateway) Breaker() *resilience.CircuitBreaker {
	return g.breaker
}

func (g *ResilientGateway) FetchMarket(ctx context.Context, address solana.PublicKey) (*models.Market, error) {
	return resilience.ExecuteWithResult(g.breaker, ctx, func() (*models.Market, error) {
		return g.inner.FetchMarket(ctx, address)
	})
}

func (g *ResilientGateway) FetchOpenOrdersAccounts(ctx context.Context, programID, owner solana.PublicKey) ([]OpenOrdersRef, error) {
	return resilience.ExecuteWithResult(g.breaker, ctx, func() ([]OpenOrdersRef, error) {
		return g.inner.FetchOpenOrdersAccounts(ctx, programID, owner)
	})
}

func (g *ResilientGateway) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	return resilience.ExecuteWithResult(g.breaker, ctx, func() (solana.Hash, error) {
		return g.inner.LatestBlockhash(ctx)
	})
}

func (g *ResilientGateway) TokenBalance(ctx context.Context, account solana.PublicKey) (decimal.Decimal, error) {
	return resilience.ExecuteWithResult(g.breaker, ctx, func() (decimal.Decimal, error) {
		return g.inner.TokenBalance(ctx, account)
	})
}

func (g *ResilientGateway) SubmitTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return resilience.ExecuteWithResult(g.breaker, ctx, func() (solana.Signature, error) {
		return g.inner.SubmitTransaction(ctx, tx)
	})
}
