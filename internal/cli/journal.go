package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"openbook-trader/internal/store"
)

// addJournalCommands adds order journal commands.
func addJournalCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newJournalCmd(app))
}

func newJournalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Local order journal",
		Long:  "Inspect orders recorded by this client. The journal is local bookkeeping, not on-chain state.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List journalled orders, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				err := fmt.Errorf("journal disabled in configuration")
				output.Error("%v", err)
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			market, _ := cmd.Flags().GetString("filter-market")
			side, _ := cmd.Flags().GetString("side")
			status, _ := cmd.Flags().GetString("status")
			limit, _ := cmd.Flags().GetInt("limit")

			records, err := app.Journal.GetOrders(ctx, store.OrderFilter{
				Market: market,
				Side:   side,
				Status: store.OrderStatus(status),
				Limit:  limit,
			})
			if err != nil {
				output.Error("Journal query failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Dim("No journalled orders")
				return nil
			}

			table := NewTable(output, "TIME", "MARKET", "SIDE", "PRICE", "SIZE", "CLIENT ID", "STATUS")
			for _, rec := range records {
				table.AddRow(
					rec.Timestamp.Format("2006-01-02 15:04:05"),
					rec.Market,
					output.SideString(rec.Side),
					rec.Price,
					fmt.Sprintf("%d", rec.QuoteSizeUSD),
					fmt.Sprintf("%d", rec.ClientOrderID),
					string(rec.Status),
				)
			}
			table.Render()
			return nil
		},
	}
	listCmd.Flags().String("filter-market", "", "filter by market name")
	listCmd.Flags().String("side", "", "filter by side (bid, ask)")
	listCmd.Flags().String("status", "", "filter by status (SUBMITTED, CANCELLED)")
	listCmd.Flags().Int("limit", 50, "maximum records to show")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "mark-cancelled <market> <client-order-id>",
		Short: "Mark a journalled order as cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Journal == nil {
				err := fmt.Errorf("journal disabled in configuration")
				output.Error("%v", err)
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			clientOrderID, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				output.Error("Invalid client order id: %s", args[1])
				return err
			}

			if err := app.Journal.MarkCancelled(ctx, args[0], clientOrderID); err != nil {
				output.Error("Update failed: %v", err)
				return err
			}
			output.Success("✓ Marked cancelled")
			return nil
		},
	})

	return cmd
}
