package cli

import (
	"context"

	"github.com/spf13/cobra"

	"openbook-trader/pkg/utils"
)

// addMarketCommands adds market inspection commands.
func addMarketCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newMarketCmd(app))
}

func newMarketCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Market inspection",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the configured market's parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			gw, err := app.gateway()
			if err != nil {
				output.Error("Gateway setup failed: %v", err)
				return err
			}
			address, err := app.marketAddress(cmd)
			if err != nil {
				output.Error("%v", err)
				return err
			}

			market, err := gw.FetchMarket(ctx, address)
			if err != nil {
				output.Error("Market fetch failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"address":        address.String(),
					"name":           market.Name(),
					"base_mint":      market.BaseMint.String(),
					"quote_mint":     market.QuoteMint.String(),
					"base_decimals":  market.BaseDecimals,
					"quote_decimals": market.QuoteDecimals,
					"base_lot_size":  market.BaseLotSize,
					"quote_lot_size": market.QuoteLotSize,
					"maker_fee":      market.MakerFee,
					"taker_fee":      market.TakerFee,
					"time_expiry":    market.TimeExpiry,
					"has_oracle_a":   market.HasOracleA(),
					"has_oracle_b":   market.HasOracleB(),
				})
			}

			output.Bold("Market %s", market.Name())
			output.Printf("  Address:        %s\n", address)
			output.Printf("  Base Mint:      %s\n", market.BaseMint)
			output.Printf("  Quote Mint:     %s\n", market.QuoteMint)
			output.Printf("  Base Decimals:  %d\n", market.BaseDecimals)
			output.Printf("  Quote Decimals: %d\n", market.QuoteDecimals)
			output.Printf("  Base Lot Size:  %s\n", utils.FormatQuantity(market.BaseLotSize))
			output.Printf("  Quote Lot Size: %s\n", utils.FormatQuantity(market.QuoteLotSize))
			output.Printf("  Maker Fee:      %d\n", market.MakerFee)
			output.Printf("  Taker Fee:      %d\n", market.TakerFee)
			if market.HasOracleA() {
				output.Printf("  Oracle A:       %s\n", market.OracleA)
			}
			if market.HasOracleB() {
				output.Printf("  Oracle B:       %s\n", market.OracleB)
			}
			return nil
		},
	})

	return cmd
}
