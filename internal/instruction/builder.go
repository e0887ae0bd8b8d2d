// Package instruction assembles the OpenBook v2 program instructions the
// client submits: each builder pairs an operation's fixed account-role list
// with its discriminator-tagged argument payload. Builders perform no I/O;
// malformed arguments surface as EncodingError before any network call.
package instruction

import (
	"math/big"

	"github.com/gagliardetto/solana-go"

	"openbook-trader/internal/models"
)

// Instruction discriminators, fixed by the on-chain program's interface.
var (
	placeOrderDisc       = Discriminator("place_order")
	cancelOrderDisc      = Discriminator("cancel_order")
	cancelByClientDisc   = Discriminator("cancel_order_by_client_order_id")
	cancelAllOrdersDisc  = Discriminator("cancel_all_orders")
	createOpenOrdersDisc = Discriminator("create_open_orders_account")
	createMarketDisc     = Discriminator("create_market")
	depositDisc          = Discriminator("deposit")
)

// Engine-accepted name lengths (the on-chain structs store names in
// fixed-width fields).
const (
	maxOpenOrdersNameLen = 32
	maxMarketNameLen     = 16
)

// meta is shorthand for a required account reference.
func meta(key solana.PublicKey, writable, signer bool) *solana.AccountMeta {
	return solana.NewAccountMeta(key, writable, signer)
}

// optMeta encodes an optional account: absent options are replaced by the
// program id as a read-only placeholder, per the engine's convention.
func optMeta(programID solana.PublicKey, key *solana.PublicKey, writable bool) *solana.AccountMeta {
	if key == nil || key.IsZero() {
		return solana.NewAccountMeta(programID, false, false)
	}
	return solana.NewAccountMeta(*key, writable, false)
}

// PlaceOrderAccounts is the account list required by place_order. The
// user token account and market vault must match the order's side: bids
// debit quote, asks debit base.
type PlaceOrderAccounts struct {
	OpenOrders       solana.PublicKey
	OpenOrdersAdmin  *solana.PublicKey
	Signer           solana.PublicKey
	UserTokenAccount solana.PublicKey
	Market           solana.PublicKey
	Bids             solana.PublicKey
	Asks             solana.PublicKey
	EventHeap        solana.PublicKey
	MarketVault      solana.PublicKey
	OracleA          *solana.PublicKey
	OracleB          *solana.PublicKey
}

// PlaceOrder builds the place_order instruction for the given order.
func PlaceOrder(programID solana.PublicKey, accs PlaceOrderAccounts, order models.Order) (solana.Instruction, error) {
	p := newPayload(placeOrderDisc)
	p.u8(uint8(order.Side))
	p.i64(order.PriceLots)
	p.i64(order.MaxBaseLots)
	p.i64(order.MaxQuoteLotsIncludingFees)
	p.u64(order.ClientOrderID)
	p.u8(uint8(order.OrderType))
	p.u64(order.ExpiryTimestamp)
	p.u8(uint8(order.SelfTradeBehavior))
	p.u8(order.Limit)

	accounts := solana.AccountMetaSlice{
		meta(accs.OpenOrders, true, false),
		optMeta(programID, accs.OpenOrdersAdmin, false),
		meta(accs.Signer, false, true),
		meta(accs.UserTokenAccount, true, false),
		meta(accs.Market, true, false),
		meta(accs.Bids, true, false),
		meta(accs.Asks, true, false),
		meta(accs.EventHeap, true, false),
		meta(accs.MarketVault, true, false),
		optMeta(programID, accs.OracleA, false),
		optMeta(programID, accs.OracleB, false),
		meta(solana.TokenProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, p.bytes()), nil
}

// CancelOrderAccounts is the account list shared by cancel_order and
// cancel_all_orders.
type CancelOrderAccounts struct {
	OpenOrders solana.PublicKey
	Signer     solana.PublicKey
	Market     solana.PublicKey
	Bids       solana.PublicKey
	Asks       solana.PublicKey
}

func cancelAccounts(accs CancelOrderAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		meta(accs.OpenOrders, true, false),
		meta(accs.Signer, false, true),
		meta(accs.Market, false, false),
		meta(accs.Bids, true, false),
		meta(accs.Asks, true, false),
	}
}

// CancelOrder builds the cancel_order instruction for one resting order id.
func CancelOrder(programID solana.PublicKey, accs CancelOrderAccounts, orderID *big.Int) (solana.Instruction, error) {
	p := newPayload(cancelOrderDisc)
	if err := p.u128(orderID, "cancel_order", "order_id"); err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, cancelAccounts(accs), p.bytes()), nil
}

// CancelOrderByClientID builds the cancel_order_by_client_order_id
// instruction for one resting order by the client id supplied at placement.
func CancelOrderByClientID(programID solana.PublicKey, accs CancelOrderAccounts, clientOrderID uint64) (solana.Instruction, error) {
	p := newPayload(cancelByClientDisc)
	p.u64(clientOrderID)
	return solana.NewInstruction(programID, cancelAccounts(accs), p.bytes()), nil
}

// CancelAllOrders builds the cancel_all_orders instruction. A nil side
// cancels both sides; limit caps how many orders are removed per call.
func CancelAllOrders(programID solana.PublicKey, accs CancelOrderAccounts, side *models.Side, limit uint8) (solana.Instruction, error) {
	p := newPayload(cancelAllOrdersDisc)
	p.option(side != nil)
	if side != nil {
		p.u8(uint8(*side))
	}
	p.u8(limit)
	return solana.NewInstruction(programID, cancelAccounts(accs), p.bytes()), nil
}

// CreateOpenOrdersAccounts is the account list for create_open_orders_account.
type CreateOpenOrdersAccounts struct {
	Owner      solana.PublicKey
	Indexer    solana.PublicKey
	OpenOrders solana.PublicKey
	Payer      solana.PublicKey
	Delegate   *solana.PublicKey
	Market     solana.PublicKey
}

// CreateOpenOrdersAccount builds the instruction creating a numbered
// open-orders account with the given logical name.
func CreateOpenOrdersAccount(programID solana.PublicKey, accs CreateOpenOrdersAccounts, name string) (solana.Instruction, error) {
	p := newPayload(createOpenOrdersDisc)
	if err := p.str(name, maxOpenOrdersNameLen, "create_open_orders_account", "name"); err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		meta(accs.Owner, false, true),
		meta(accs.Indexer, true, false),
		meta(accs.OpenOrders, true, false),
		meta(accs.Payer, true, true),
		optMeta(programID, accs.Delegate, false),
		meta(accs.Market, false, false),
		meta(solana.SystemProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, p.bytes()), nil
}

// CreateMarketParams carries the create_market arguments.
type CreateMarketParams struct {
	Name               string
	OracleConfFilter   float32
	OracleMaxStaleness *int64
	QuoteLotSize       int64
	BaseLotSize        int64
	MakerFee           int64
	TakerFee           int64
	TimeExpiry         int64
}

// CreateMarketAccounts is the account list for create_market.
type CreateMarketAccounts struct {
	Market             solana.PublicKey
	MarketAuthority    solana.PublicKey
	Bids               solana.PublicKey
	Asks               solana.PublicKey
	EventHeap          solana.PublicKey
	Payer              solana.PublicKey
	MarketBaseVault    solana.PublicKey
	MarketQuoteVault   solana.PublicKey
	BaseMint           solana.PublicKey
	QuoteMint          solana.PublicKey
	OracleA            *solana.PublicKey
	OracleB            *solana.PublicKey
	CollectFeeAdmin    solana.PublicKey
	OpenOrdersAdmin    *solana.PublicKey
	ConsumeEventsAdmin *solana.PublicKey
	CloseMarketAdmin   *solana.PublicKey
	EventAuthority     solana.PublicKey
}

// CreateMarket builds the create_market instruction.
func CreateMarket(programID solana.PublicKey, accs CreateMarketAccounts, params CreateMarketParams) (solana.Instruction, error) {
	p := newPayload(createMarketDisc)
	if err := p.str(params.Name, maxMarketNameLen, "create_market", "name"); err != nil {
		return nil, err
	}
	p.f32(params.OracleConfFilter)
	p.option(params.OracleMaxStaleness != nil)
	if params.OracleMaxStaleness != nil {
		p.i64(*params.OracleMaxStaleness)
	}
	p.i64(params.QuoteLotSize)
	p.i64(params.BaseLotSize)
	p.i64(params.MakerFee)
	p.i64(params.TakerFee)
	p.i64(params.TimeExpiry)

	accounts := solana.AccountMetaSlice{
		meta(accs.Market, true, true),
		meta(accs.MarketAuthority, false, false),
		meta(accs.Bids, true, false),
		meta(accs.Asks, true, false),
		meta(accs.EventHeap, true, false),
		meta(accs.Payer, true, true),
		meta(accs.MarketBaseVault, true, false),
		meta(accs.MarketQuoteVault, true, false),
		meta(accs.BaseMint, false, false),
		meta(accs.QuoteMint, false, false),
		meta(solana.SystemProgramID, false, false),
		optMeta(programID, accs.OracleA, false),
		optMeta(programID, accs.OracleB, false),
		meta(accs.CollectFeeAdmin, false, false),
		optMeta(programID, accs.OpenOrdersAdmin, false),
		optMeta(programID, accs.ConsumeEventsAdmin, false),
		optMeta(programID, accs.CloseMarketAdmin, false),
		meta(accs.EventAuthority, false, false),
		meta(programID, false, false),
		meta(solana.TokenProgramID, false, false),
		meta(solana.SPLAssociatedTokenAccountProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, p.bytes()), nil
}

// DepositAccounts is the account list for deposit.
type DepositAccounts struct {
	OpenOrders       solana.PublicKey
	Owner            solana.PublicKey
	Market           solana.PublicKey
	UserBaseAccount  solana.PublicKey
	UserQuoteAccount solana.PublicKey
	MarketBaseVault  solana.PublicKey
	MarketQuoteVault solana.PublicKey
}

// Deposit builds the deposit instruction moving collateral from the owner's
// token accounts into the market vaults.
func Deposit(programID solana.PublicKey, accs DepositAccounts, baseAmount, quoteAmount uint64) (solana.Instruction, error) {
	p := newPayload(depositDisc)
	p.u64(baseAmount)
	p.u64(quoteAmount)

	accounts := solana.AccountMetaSlice{
		meta(accs.OpenOrders, true, false),
		meta(accs.Owner, false, true),
		meta(accs.Market, true, false),
		meta(accs.UserBaseAccount, true, false),
		meta(accs.UserQuoteAccount, true, false),
		meta(accs.MarketBaseVault, true, false),
		meta(accs.MarketQuoteVault, true, false),
		meta(solana.TokenProgramID, false, false),
	}
	return solana.NewInstruction(programID, accounts, p.bytes()), nil
}
