package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"openbook-trader/internal/errors"
	"openbook-trader/internal/models"
)

// RPCGateway implements StateGateway over a Solana JSON-RPC endpoint. The
// underlying client holds no mutable session state beyond its connection
// configuration, so one RPCGateway may be shared across concurrent callers.
type RPCGateway struct {
	client     *rpc.Client
	commitment rpc.CommitmentType
}

// NewRPC creates a gateway for the given endpoint and commitment level.
func NewRPC(endpoint string, commitment rpc.CommitmentType) *RPCGateway {
	return &RPCGateway{
		client:     rpc.New(endpoint),
		commitment: commitment,
	}
}

// ParseCommitment maps a config spelling to an RPC commitment level.
func ParseCommitment(s string) (rpc.CommitmentType, error) {
	switch strings.ToLower(s) {
	case "", "confirmed":
		return rpc.CommitmentConfirmed, nil
	case "processed":
		return rpc.CommitmentProcessed, nil
	case "finalized":
		return rpc.CommitmentFinalized, nil
	default:
		return "", errors.Wrapf(errors.ErrConfigInvalid, "unknown commitment %q", s)
	}
}

// FetchMarket fetches and decodes the Market account at address.
func (g *RPCGateway) FetchMarket(ctx context.Context, address solana.PublicKey) (*models.Market, error) {
	resp, err := g.client.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Commitment: g.commitment,
	})
	if err != nil {
		return nil, errors.NewGatewayError("fetch-market", address.String(), err)
	}
	if resp == nil || resp.Value == nil {
		return nil, errors.NewGatewayError("fetch-market", address.String(), errors.ErrMarketNotFound)
	}
	market, err := models.DecodeMarket(resp.Value.Data.GetBinary())
	if err != nil {
		return nil, errors.NewGatewayError("fetch-market", address.String(), err)
	}
	return market, nil
}

// FetchOpenOrdersAccounts lists the owner's open-orders accounts under the
// program via a filtered scan.
func (g *RPCGateway) FetchOpenOrdersAccounts(ctx context.Context, programID, owner solana.PublicKey) ([]OpenOrdersRef, error) {
	disc := models.OpenOrdersDiscriminator
	resp, err := g.client.GetProgramAccountsWithOpts(ctx, programID, &rpc.GetProgramAccountsOpts{
		Commitment: g.commitment,
		Filters: []rpc.RPCFilter{
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: 0, Bytes: solana.Base58(disc[:])}},
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: models.OpenOrdersOwnerOffset, Bytes: solana.Base58(owner.Bytes())}},
		},
	})
	if err != nil {
		return nil, errors.NewGatewayError("scan-open-orders", owner.String(), err)
	}

	refs := make([]OpenOrdersRef, 0, len(resp))
	for _, item := range resp {
		if item == nil || item.Account == nil {
			continue
		}
		account, err := models.DecodeOpenOrdersAccount(item.Account.Data.GetBinary())
		if err != nil {
			return nil, errors.NewGatewayError("scan-open-orders", item.Pubkey.String(), err)
		}
		refs = append(refs, OpenOrdersRef{Address: item.Pubkey, Account: account})
	}
	return refs, nil
}

// LatestBlockhash fetches the current blockhash at the configured
// commitment level.
func (g *RPCGateway) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	resp, err := g.client.GetLatestBlockhash(ctx, g.commitment)
	if err != nil {
		return solana.Hash{}, errors.NewGatewayError("latest-blockhash", "", err)
	}
	return resp.Value.Blockhash, nil
}

// TokenBalance fetches a token account balance as a human-scaled decimal.
// A token account with no reported balance is a typed error, not a panic.
func (g *RPCGateway) TokenBalance(ctx context.Context, account solana.PublicKey) (decimal.Decimal, error) {
	resp, err := g.client.GetTokenAccountBalance(ctx, account, g.commitment)
	if err != nil {
		return decimal.Zero, errors.NewGatewayError("token-balance", account.String(), err)
	}
	if resp == nil || resp.Value == nil || resp.Value.UiAmountString == "" {
		return decimal.Zero, errors.NewGatewayError("token-balance", account.String(), errors.ErrNoBalance)
	}
	amount, err := decimal.NewFromString(resp.Value.UiAmountString)
	if err != nil {
		return decimal.Zero, errors.NewGatewayError("token-balance", account.String(),
			fmt.Errorf("parse balance %q: %w", resp.Value.UiAmountString, err))
	}
	return amount, nil
}

// SubmitTransaction submits the signed transaction. Blockhash-expiry
// rejections are distinguished from transport failures so callers can
// re-assemble with a fresh blockhash instead of retrying blindly.
func (g *RPCGateway) SubmitTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := g.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: g.commitment,
	})
	if err != nil {
		if isBlockhashNotFound(err) {
			return solana.Signature{}, errors.NewGatewayError("submit", "",
				fmt.Errorf("%w: %v", errors.ErrStaleBlockhash, err))
		}
		return solana.Signature{}, errors.NewGatewayError("submit", "", err)
	}
	return sig, nil
}

func isBlockhashNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "blockhashnotfound") || strings.Contains(msg, "blockhash not found")
}
