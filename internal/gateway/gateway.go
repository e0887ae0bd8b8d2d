// Package gateway is the client's view of remote ledger state: account
// fetches, filtered program scans, blockhash and balance queries, and
// transaction submission. The production implementation wraps a Solana
// JSON-RPC client; the facade depends only on the StateGateway interface.
package gateway

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"openbook-trader/internal/models"
)

// OpenOrdersRef pairs an open-orders account with its address, as returned
// by the filtered program scan.
type OpenOrdersRef struct {
	Address solana.PublicKey
	Account *models.OpenOrdersAccount
}

// StateGateway abstracts the remote calls the client performs. All methods
// are single-shot: no retries, no timeouts beyond what the context imposes.
// Retry policy belongs to the calling layer.
type StateGateway interface {
	// FetchMarket fetches and decodes a Market account.
	FetchMarket(ctx context.Context, address solana.PublicKey) (*models.Market, error)

	// FetchOpenOrdersAccounts scans the program for open-orders accounts
	// belonging to owner: account-type discriminator at offset 0 AND the
	// owner key at offset 8.
	FetchOpenOrdersAccounts(ctx context.Context, programID, owner solana.PublicKey) ([]OpenOrdersRef, error)

	// LatestBlockhash fetches the freshness token used to assemble a
	// transaction. It has a finite validity window; do not cache it.
	LatestBlockhash(ctx context.Context) (solana.Hash, error)

	// TokenBalance returns the human-scaled balance of a token account.
	TokenBalance(ctx context.Context, account solana.PublicKey) (decimal.Decimal, error)

	// SubmitTransaction submits a signed transaction. A rejection caused
	// by an expired blockhash unwraps to errors.ErrStaleBlockhash.
	SubmitTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}
