package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"openbook-trader/internal/client"
	"openbook-trader/internal/errors"
	"openbook-trader/internal/models"
	"openbook-trader/internal/store"
	"openbook-trader/pkg/utils"
)

const commandTimeout = 60 * time.Second

// addTradeCommands adds trading commands.
func addTradeCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newBuyCmd(app))
	rootCmd.AddCommand(newSellCmd(app))
	rootCmd.AddCommand(newCancelCmd(app))
	rootCmd.AddCommand(newCancelAllCmd(app))
	rootCmd.AddCommand(newDepositCmd(app))
	rootCmd.AddCommand(newBalanceCmd(app))
}

func newBuyCmd(app *App) *cobra.Command {
	return newPlaceCmd(app, models.SideBid, "buy", "Place a post-only bid")
}

func newSellCmd(app *App) *cobra.Command {
	return newPlaceCmd(app, models.SideAsk, "sell", "Place a post-only ask")
}

func newPlaceCmd(app *App, side models.Side, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <price> <quote-size-usd>",
		Short: short,
		Long: short + ` on the configured market.

The price is quoted in whole quote tokens per whole base token. The size
is the order value in whole USD; the base quantity is derived from it at
the limit price.`,
		Example: fmt.Sprintf("  openbook %s 142.50 1000", use),
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			price, err := decimal.NewFromString(args[0])
			if err != nil {
				output.Error("Invalid price: %s", args[0])
				return err
			}
			quoteSize, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil || quoteSize == 0 {
				output.Error("Invalid quote size: %s", args[1])
				return fmt.Errorf("invalid quote size")
			}

			cl, err := app.newClient(ctx, cmd)
			if err != nil {
				output.Error("Client setup failed: %v", err)
				return err
			}

			output.Bold("Order Preview")
			output.Printf("  Market:  %s\n", cl.Market().Name())
			output.Printf("  Side:    %s\n", output.SideString(side.String()))
			output.Printf("  Price:   %s\n", utils.FormatUSD(price))
			output.Printf("  Size:    %s\n", utils.FormatUSD(decimal.NewFromUint64(quoteSize)))
			output.Println()

			var clientOrderID uint64
			sig, err := submitWithRetry(ctx, cl, func() (*solana.Transaction, error) {
				tx, id, err := cl.PlaceLimitOrder(ctx, price, quoteSize, side)
				clientOrderID = id
				return tx, err
			})
			if err != nil {
				output.Error("Order failed: %v", err)
				return err
			}

			app.journalOrder(ctx, cl, clientOrderID, side, price, quoteSize, sig)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"signature":       sig.String(),
					"client_order_id": clientOrderID,
				})
			}

			output.Success("✓ Order submitted")
			output.Printf("  Signature:       %s\n", sig)
			output.Printf("  Client Order ID: %d\n", clientOrderID)
			return nil
		},
	}
	return cmd
}

func newCancelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel [order-id]",
		Short: "Cancel a resting order",
		Long: `Cancel a resting order, either by the u128 order id assigned by the
matching engine or, with --client-id, by the client order id issued at
placement. Cancels by client id are reflected in the local journal.`,
		Example: "  openbook cancel 340282366920938463463374607431768211455\n  openbook cancel --client-id 1042",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			byClientID := cmd.Flags().Changed("client-id")
			clientID, _ := cmd.Flags().GetUint64("client-id")
			if !byClientID && len(args) == 0 {
				err := fmt.Errorf("an engine order id or --client-id is required")
				output.Error("%v", err)
				return err
			}

			var orderID models.OrderID
			if !byClientID {
				var err error
				orderID, err = models.ParseOrderID(args[0])
				if err != nil {
					output.Error("Invalid order id: %s", args[0])
					return err
				}
			}

			cl, err := app.newClient(ctx, cmd)
			if err != nil {
				output.Error("Client setup failed: %v", err)
				return err
			}

			sig, err := submitWithRetry(ctx, cl, func() (*solana.Transaction, error) {
				if byClientID {
					return cl.CancelOrderByClientID(ctx, clientID)
				}
				return cl.CancelOrder(ctx, orderID)
			})
			if err != nil {
				output.Error("Cancel failed: %v", err)
				return err
			}

			if byClientID && app.Journal != nil {
				if err := app.Journal.MarkCancelled(ctx, cl.Market().Name(), clientID); err != nil {
					app.Logger.Warn().Err(err).Msg("Failed to update journal")
				}
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"signature": sig.String()})
			}
			output.Success("✓ Cancel submitted")
			output.Printf("  Signature: %s\n", sig)
			return nil
		},
	}
	cmd.Flags().Uint64("client-id", 0, "cancel by client order id instead of engine order id")
	return cmd
}

func newCancelAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel-all",
		Short: "Cancel all resting orders on both sides",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			cl, err := app.newClient(ctx, cmd)
			if err != nil {
				output.Error("Client setup failed: %v", err)
				return err
			}

			sig, err := submitWithRetry(ctx, cl, func() (*solana.Transaction, error) {
				return cl.CancelAllOrders(ctx)
			})
			if err != nil {
				output.Error("Cancel failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"signature": sig.String()})
			}
			output.Success("✓ Cancel-all submitted")
			output.Printf("  Signature: %s\n", sig)
			return nil
		},
	}
}

func newDepositCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <base-amount> <quote-amount>",
		Short: "Deposit collateral into the market vaults",
		Long: `Deposit collateral from the owner's token accounts into the market
vaults. Amounts are in whole tokens and are scaled by the market's mint
decimals.`,
		Example: "  openbook deposit 1.5 200",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			base, err := decimal.NewFromString(args[0])
			if err != nil {
				output.Error("Invalid base amount: %s", args[0])
				return err
			}
			quote, err := decimal.NewFromString(args[1])
			if err != nil {
				output.Error("Invalid quote amount: %s", args[1])
				return err
			}

			cl, err := app.newClient(ctx, cmd)
			if err != nil {
				output.Error("Client setup failed: %v", err)
				return err
			}

			market := cl.Market()
			baseNative := base.Shift(int32(market.BaseDecimals))
			quoteNative := quote.Shift(int32(market.QuoteDecimals))
			if !baseNative.IsInteger() || !quoteNative.IsInteger() || baseNative.IsNegative() || quoteNative.IsNegative() {
				output.Error("Amounts must be non-negative with at most the mint's decimal places")
				return fmt.Errorf("invalid deposit amounts")
			}

			sig, err := submitWithRetry(ctx, cl, func() (*solana.Transaction, error) {
				return cl.Deposit(ctx, uint64(baseNative.IntPart()), uint64(quoteNative.IntPart()))
			})
			if err != nil {
				output.Error("Deposit failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"signature": sig.String()})
			}
			output.Success("✓ Deposit submitted")
			output.Printf("  Signature: %s\n", sig)
			return nil
		},
	}
}

func newBalanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the owner's base and quote token balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			cl, err := app.newClient(ctx, cmd)
			if err != nil {
				output.Error("Client setup failed: %v", err)
				return err
			}

			baseBalance, err := cl.TokenBalance(ctx, cl.BaseTokenAccount())
			if err != nil {
				output.Error("Base balance lookup failed: %v", err)
				return err
			}
			quoteBalance, err := cl.TokenBalance(ctx, cl.QuoteTokenAccount())
			if err != nil {
				output.Error("Quote balance lookup failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{
					"base":  baseBalance.String(),
					"quote": quoteBalance.String(),
				})
			}

			output.Bold("Balances on %s", cl.Market().Name())
			output.Printf("  Base:  %s\n", baseBalance)
			output.Printf("  Quote: %s\n", quoteBalance)
			return nil
		},
	}
}

// submitWithRetry rebuilds and resubmits the transaction on failure. Each
// attempt assembles a fresh transaction, so an expired blockhash is
// replaced on the next try.
func submitWithRetry(ctx context.Context, cl *client.Client, build func() (*solana.Transaction, error)) (solana.Signature, error) {
	cfg := utils.DefaultRetryConfig()
	cfg.Retryable = retryableSubmitError
	return utils.RetryWithResult(ctx, cfg, func() (solana.Signature, error) {
		tx, err := build()
		if err != nil {
			return solana.Signature{}, err
		}
		return cl.Submit(ctx, tx)
	})
}

// retryableSubmitError limits retries to remote gateway failures;
// conversion and encoding errors are deterministic, and an open circuit
// rejects until its timeout passes.
func retryableSubmitError(err error) bool {
	var gwErr *errors.GatewayError
	return errors.As(err, &gwErr)
}

func (app *App) journalOrder(ctx context.Context, cl *client.Client, clientOrderID uint64, side models.Side, price decimal.Decimal, quoteSize uint64, sig solana.Signature) {
	if app.Journal == nil {
		return
	}
	err := app.Journal.RecordOrder(ctx, &store.OrderRecord{
		Timestamp:     time.Now(),
		Market:        cl.Market().Name(),
		OpenOrders:    cl.OpenOrders().String(),
		ClientOrderID: clientOrderID,
		Side:          side.String(),
		Price:         price.String(),
		QuoteSizeUSD:  quoteSize,
		Signature:     sig.String(),
		Status:        store.StatusSubmitted,
	})
	if err != nil {
		app.Logger.Warn().Err(err).Msg("Failed to journal order")
	}
}
