// Package client implements the OpenBook v2 trading client facade. A
// Client binds an owner key to one market: construction fetches the market
// snapshot, derives the owner's collateral accounts, and resolves (or
// creates) the owner's open-orders account; after that every order
// operation is a one-shot call that builds a fresh signed transaction.
//
// The market snapshot is captured once at construction and reused for all
// conversions and instruction building; it does not track later on-chain
// parameter changes. Construct a new Client to observe them.
package client

import (
	"context"
	"math/big"
	"sort"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"openbook-trader/internal/addr"
	"openbook-trader/internal/convert"
	"openbook-trader/internal/errors"
	"openbook-trader/internal/gateway"
	"openbook-trader/internal/instruction"
	"openbook-trader/internal/models"
	"openbook-trader/internal/txn"
)

const (
	// OrderExpiryHorizon is added to the construction time of every order.
	OrderExpiryHorizon = 86_400 * time.Second

	// placeOrderFillLimit caps resting-order matches per place_order call.
	placeOrderFillLimit = 12

	// cancelAllLimit caps orders removed per cancel_all_orders call.
	cancelAllLimit = 255

	// DefaultAccountName is the logical open-orders account name used when
	// the caller does not pick one.
	DefaultAccountName = "default"
)

// Config carries everything a Client needs at construction.
type Config struct {
	// ProgramID overrides the OpenBook v2 program; zero means mainnet.
	ProgramID solana.PublicKey

	// Market is the address of the market to trade.
	Market solana.PublicKey

	// Owner signs every transaction and pays fees.
	Owner solana.PrivateKey

	// OpenOrders, when set, skips open-orders account resolution.
	OpenOrders *solana.PublicKey

	// AccountName is the logical name used to discover or create the
	// owner's open-orders account. Defaults to DefaultAccountName.
	AccountName string

	// OrderIDs supplies client order identifiers; defaults to a
	// randomly-seeded session source.
	OrderIDs OrderIDSource

	Logger zerolog.Logger
}

// Client is the facade over conversion, address derivation, instruction
// building and transaction assembly for one market and one owner.
type Client struct {
	gw        gateway.StateGateway
	programID solana.PublicKey
	owner     solana.PrivateKey

	marketID solana.PublicKey
	market   *models.Market
	mktCtx   *convert.MarketContext

	baseATA    solana.PublicKey
	quoteATA   solana.PublicKey
	openOrders solana.PublicKey

	accountName string
	orderIDs    OrderIDSource
	logger      zerolog.Logger
}

// New constructs a ready Client or fails entirely; there is no partially
// initialized state. See the package comment for the construction sequence.
func New(ctx context.Context, gw gateway.StateGateway, cfg Config) (*Client, error) {
	if cfg.Owner == nil {
		return nil, errors.Wrap(errors.ErrKeypairInvalid, "client construction")
	}
	programID := cfg.ProgramID
	if programID.IsZero() {
		programID = models.DefaultProgramID
	}
	accountName := cfg.AccountName
	if accountName == "" {
		accountName = DefaultAccountName
	}
	orderIDs := cfg.OrderIDs
	if orderIDs == nil {
		source, err := NewSessionIDSource()
		if err != nil {
			return nil, err
		}
		orderIDs = source
	}

	market, err := gw.FetchMarket(ctx, cfg.Market)
	if err != nil {
		return nil, err
	}

	ownerKey := cfg.Owner.PublicKey()
	baseATA, err := addr.AssociatedTokenAccount(ownerKey, market.BaseMint)
	if err != nil {
		return nil, errors.Wrap(err, "derive base token account")
	}
	quoteATA, err := addr.AssociatedTokenAccount(ownerKey, market.QuoteMint)
	if err != nil {
		return nil, errors.Wrap(err, "derive quote token account")
	}

	marketCtx, err := convert.NewMarketContext(cfg.Market, market)
	if err != nil {
		return nil, err
	}

	c := &Client{
		gw:          gw,
		programID:   programID,
		owner:       cfg.Owner,
		marketID:    cfg.Market,
		market:      market,
		mktCtx:      marketCtx,
		baseATA:     baseATA,
		quoteATA:    quoteATA,
		accountName: accountName,
		orderIDs:    orderIDs,
		logger:      cfg.Logger,
	}

	if cfg.OpenOrders != nil {
		c.openOrders = *cfg.OpenOrders
	} else {
		resolved, err := c.FindOrCreateOpenOrders(ctx)
		if err != nil {
			return nil, err
		}
		c.openOrders = resolved
	}

	c.logger.Debug().
		Str("market", cfg.Market.String()).
		Str("owner", ownerKey.String()).
		Str("open_orders", c.openOrders.String()).
		Msg("client ready")

	return c, nil
}

// Owner returns the owner's public key.
func (c *Client) Owner() solana.PublicKey {
	return c.owner.PublicKey()
}

// OpenOrders returns the resolved open-orders account address.
func (c *Client) OpenOrders() solana.PublicKey {
	return c.openOrders
}

// BaseTokenAccount returns the owner's associated base token account.
func (c *Client) BaseTokenAccount() solana.PublicKey {
	return c.baseATA
}

// QuoteTokenAccount returns the owner's associated quote token account.
func (c *Client) QuoteTokenAccount() solana.PublicKey {
	return c.quoteATA
}

// Market returns the market snapshot captured at construction.
func (c *Client) Market() *models.Market {
	return c.market
}

// MarketContext returns the conversion context over the snapshot.
func (c *Client) MarketContext() *convert.MarketContext {
	return c.mktCtx
}

// PlaceLimitOrder builds a signed post-only limit order transaction for
// quoteSizeUSD whole quote tokens at the given limit price. It returns the
// transaction and the client order id usable for CancelOrderByClientID
// bookkeeping. The transaction must be submitted promptly: its blockhash
// expires.
func (c *Client) PlaceLimitOrder(ctx context.Context, limitPrice decimal.Decimal, quoteSizeUSD uint64, side models.Side) (*solana.Transaction, uint64, error) {
	return c.placeOrder(ctx, limitPrice, quoteSizeUSD, side)
}

// PlaceMarketOrder currently builds the same post-only instruction as
// PlaceLimitOrder.
// TODO: switch to the take-order instruction once the engine's market
// order path is wired in.
func (c *Client) PlaceMarketOrder(ctx context.Context, limitPrice decimal.Decimal, quoteSizeUSD uint64, side models.Side) (*solana.Transaction, uint64, error) {
	return c.placeOrder(ctx, limitPrice, quoteSizeUSD, side)
}

func (c *Client) placeOrder(ctx context.Context, limitPrice decimal.Decimal, quoteSizeUSD uint64, side models.Side) (*solana.Transaction, uint64, error) {
	priceLots, err := c.mktCtx.PriceToLots(limitPrice)
	if err != nil {
		return nil, 0, err
	}
	maxQuoteLots := c.mktCtx.MaxQuoteLotsIncludingFeesFromUSD(quoteSizeUSD)
	baseSize, err := c.mktCtx.BaseSizeFromQuote(quoteSizeUSD, limitPrice)
	if err != nil {
		return nil, 0, err
	}
	maxBaseLots := c.mktCtx.MaxBaseLots(baseSize)

	userTokenAccount := c.quoteATA
	if side == models.SideAsk {
		userTokenAccount = c.baseATA
	}

	order := models.Order{
		Side:                      side,
		PriceLots:                 priceLots,
		MaxBaseLots:               int64(maxBaseLots),
		MaxQuoteLotsIncludingFees: int64(maxQuoteLots),
		ClientOrderID:             c.orderIDs.Next(),
		OrderType:                 models.OrderTypePostOnly,
		ExpiryTimestamp:           uint64(time.Now().Add(OrderExpiryHorizon).Unix()),
		SelfTradeBehavior:         models.SelfTradeAbortTransaction,
		Limit:                     placeOrderFillLimit,
	}

	c.logger.Debug().
		Str("side", side.String()).
		Int64("price_lots", order.PriceLots).
		Int64("max_base_lots", order.MaxBaseLots).
		Int64("max_quote_lots", order.MaxQuoteLotsIncludingFees).
		Uint64("client_order_id", order.ClientOrderID).
		Msg("placing order")

	ix, err := instruction.PlaceOrder(c.programID, instruction.PlaceOrderAccounts{
		OpenOrders:       c.openOrders,
		OpenOrdersAdmin:  optional(c.market.OpenOrdersAdmin),
		Signer:           c.Owner(),
		UserTokenAccount: userTokenAccount,
		Market:           c.marketID,
		Bids:             c.market.Bids,
		Asks:             c.market.Asks,
		EventHeap:        c.market.EventHeap,
		MarketVault:      c.market.VaultBySide(side),
		OracleA:          optional(c.market.OracleA),
		OracleB:          optional(c.market.OracleB),
	}, order)
	if err != nil {
		return nil, 0, err
	}

	tx, err := c.assemble(ctx, ix)
	if err != nil {
		return nil, 0, err
	}
	return tx, order.ClientOrderID, nil
}

// CancelOrder builds a signed transaction canceling one resting order by
// its u128 engine order id.
func (c *Client) CancelOrder(ctx context.Context, orderID *big.Int) (*solana.Transaction, error) {
	ix, err := instruction.CancelOrder(c.programID, c.cancelAccounts(), orderID)
	if err != nil {
		return nil, err
	}
	return c.assemble(ctx, ix)
}

// CancelOrderByClientID builds a signed transaction canceling one resting
// order by the client order id issued at placement.
func (c *Client) CancelOrderByClientID(ctx context.Context, clientOrderID uint64) (*solana.Transaction, error) {
	ix, err := instruction.CancelOrderByClientID(c.programID, c.cancelAccounts(), clientOrderID)
	if err != nil {
		return nil, err
	}
	return c.assemble(ctx, ix)
}

// CancelAllOrders builds a signed transaction canceling every resting
// order on both sides.
func (c *Client) CancelAllOrders(ctx context.Context) (*solana.Transaction, error) {
	ix, err := instruction.CancelAllOrders(c.programID, c.cancelAccounts(), nil, cancelAllLimit)
	if err != nil {
		return nil, err
	}
	return c.assemble(ctx, ix)
}

func (c *Client) cancelAccounts() instruction.CancelOrderAccounts {
	return instruction.CancelOrderAccounts{
		OpenOrders: c.openOrders,
		Signer:     c.Owner(),
		Market:     c.marketID,
		Bids:       c.market.Bids,
		Asks:       c.market.Asks,
	}
}

// FindOrCreateOpenOrders resolves the owner's open-orders account by
// logical name, creating it when absent. The scan-then-create sequence is
// not transactional: a concurrent creator racing on the same owner makes
// the remote engine reject the duplicate account number, which surfaces
// here as a ResolutionError and can be retried.
func (c *Client) FindOrCreateOpenOrders(ctx context.Context) (solana.PublicKey, error) {
	owner := c.Owner()

	refs, err := c.gw.FetchOpenOrdersAccounts(ctx, c.programID, owner)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if ref := matchByName(refs, c.accountName); ref != nil {
		return ref.Address, nil
	}

	accountNum := nextAccountNum(refs)
	tx, err := c.CreateOpenOrdersAccountTx(ctx, accountNum, c.accountName)
	if err != nil {
		return solana.PublicKey{}, errors.NewResolutionError(owner.String(), c.accountName, accountNum, err)
	}
	if _, err := c.gw.SubmitTransaction(ctx, tx); err != nil {
		return solana.PublicKey{}, errors.NewResolutionError(owner.String(), c.accountName, accountNum, err)
	}

	refs, err = c.gw.FetchOpenOrdersAccounts(ctx, c.programID, owner)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if ref := matchByName(refs, c.accountName); ref != nil {
		c.logger.Info().
			Str("open_orders", ref.Address.String()).
			Uint32("account_num", accountNum).
			Msg("created open orders account")
		return ref.Address, nil
	}
	return solana.PublicKey{}, errors.NewResolutionError(owner.String(), c.accountName, accountNum, errors.ErrOpenOrdersNotFound)
}

func matchByName(refs []gateway.OpenOrdersRef, name string) *gateway.OpenOrdersRef {
	for i := range refs {
		if refs[i].Account.Name() == name {
			return &refs[i]
		}
	}
	return nil
}

// nextAccountNum is one greater than the owner's current maximum, zero
// when the owner has no accounts yet.
func nextAccountNum(refs []gateway.OpenOrdersRef) uint32 {
	if len(refs) == 0 {
		return 0
	}
	sorted := make([]gateway.OpenOrdersRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Account.AccountNum < sorted[j].Account.AccountNum
	})
	return sorted[len(sorted)-1].Account.AccountNum + 1
}

// CreateOpenOrdersAccountTx builds a signed transaction creating the
// owner's numbered open-orders account under the given logical name.
func (c *Client) CreateOpenOrdersAccountTx(ctx context.Context, accountNum uint32, name string) (*solana.Transaction, error) {
	owner := c.Owner()

	indexer, err := addr.OpenOrdersIndexer(c.programID, owner)
	if err != nil {
		return nil, errors.Wrap(err, "derive open orders indexer")
	}
	account, err := addr.OpenOrdersAccount(c.programID, owner, accountNum)
	if err != nil {
		return nil, errors.Wrap(err, "derive open orders account")
	}

	ix, err := instruction.CreateOpenOrdersAccount(c.programID, instruction.CreateOpenOrdersAccounts{
		Owner:      owner,
		Indexer:    indexer,
		OpenOrders: account,
		Payer:      owner,
		Market:     c.marketID,
	}, name)
	if err != nil {
		return nil, err
	}
	return c.assemble(ctx, ix)
}

// CreateMarket builds a signed transaction registering a new market. The
// owner pays; the owner's associated token accounts serve as the market
// vault references.
func (c *Client) CreateMarket(ctx context.Context, accs instruction.CreateMarketAccounts, params instruction.CreateMarketParams) (*solana.Transaction, error) {
	accs.Payer = c.Owner()
	accs.MarketBaseVault = c.baseATA
	accs.MarketQuoteVault = c.quoteATA

	ix, err := instruction.CreateMarket(c.programID, accs, params)
	if err != nil {
		return nil, err
	}
	return c.assemble(ctx, ix)
}

// Deposit builds a signed transaction moving collateral into the market
// vaults.
func (c *Client) Deposit(ctx context.Context, baseAmount, quoteAmount uint64) (*solana.Transaction, error) {
	ix, err := instruction.Deposit(c.programID, instruction.DepositAccounts{
		OpenOrders:       c.openOrders,
		Owner:            c.Owner(),
		Market:           c.marketID,
		UserBaseAccount:  c.baseATA,
		UserQuoteAccount: c.quoteATA,
		MarketBaseVault:  c.market.BaseVault,
		MarketQuoteVault: c.market.QuoteVault,
	}, baseAmount, quoteAmount)
	if err != nil {
		return nil, err
	}
	return c.assemble(ctx, ix)
}

// TokenBalance returns the human-scaled balance of one of the owner's
// token accounts.
func (c *Client) TokenBalance(ctx context.Context, account solana.PublicKey) (decimal.Decimal, error) {
	return c.gw.TokenBalance(ctx, account)
}

// Submit hands a signed transaction to the gateway.
func (c *Client) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	return c.gw.SubmitTransaction(ctx, tx)
}

// assemble fetches a fresh blockhash and wraps the instructions into a
// transaction signed by the owner.
func (c *Client) assemble(ctx context.Context, instructions ...solana.Instruction) (*solana.Transaction, error) {
	recent, err := c.gw.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}
	return txn.Assemble(instructions, c.Owner(), c.owner, recent)
}

// optional maps the zero key to an absent optional account.
func optional(key solana.PublicKey) *solana.PublicKey {
	if key.IsZero() {
		return nil
	}
	return &key
}
