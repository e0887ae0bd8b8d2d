package cli

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"openbook-trader/internal/config"
	"openbook-trader/internal/models"
)

// addAccountCommands adds open-orders account commands.
func addAccountCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newAccountCmd(app))
}

func newAccountCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Open-orders account management",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the owner's open-orders accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			gw, err := app.gateway()
			if err != nil {
				output.Error("Gateway setup failed: %v", err)
				return err
			}
			if app.Config.Trading.KeypairPath == "" {
				err := fmt.Errorf("no keypair configured; set trading.keypair_path")
				output.Error("%v", err)
				return err
			}
			owner, err := config.LoadKeypair(app.Config.Trading.KeypairPath)
			if err != nil {
				output.Error("Keypair load failed: %v", err)
				return err
			}

			programID := defaultProgramID(app)
			refs, err := gw.FetchOpenOrdersAccounts(ctx, programID, owner.PublicKey())
			if err != nil {
				output.Error("Account scan failed: %v", err)
				return err
			}

			if output.IsJSON() {
				type entry struct {
					Address    string `json:"address"`
					Name       string `json:"name"`
					Market     string `json:"market"`
					AccountNum uint32 `json:"account_num"`
				}
				entries := make([]entry, 0, len(refs))
				for _, ref := range refs {
					entries = append(entries, entry{
						Address:    ref.Address.String(),
						Name:       ref.Account.Name(),
						Market:     ref.Account.Market.String(),
						AccountNum: ref.Account.AccountNum,
					})
				}
				return output.JSON(entries)
			}

			if len(refs) == 0 {
				output.Dim("No open-orders accounts found")
				return nil
			}

			table := NewTable(output, "NUM", "NAME", "ADDRESS", "MARKET")
			for _, ref := range refs {
				table.AddRow(
					fmt.Sprintf("%d", ref.Account.AccountNum),
					ref.Account.Name(),
					ref.Address.String(),
					ref.Account.Market.String(),
				)
			}
			table.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "resolve",
		Short: "Resolve the named open-orders account, creating it if missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
			defer cancel()

			cl, err := app.newClient(ctx, cmd)
			if err != nil {
				output.Error("Client setup failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{"open_orders": cl.OpenOrders().String()})
			}
			output.Success("✓ Open-orders account ready")
			output.Printf("  Address: %s\n", cl.OpenOrders())
			return nil
		},
	})

	return cmd
}

func defaultProgramID(app *App) solana.PublicKey {
	if app.Config.Trading.ProgramID != "" {
		if id, err := solana.PublicKeyFromBase58(app.Config.Trading.ProgramID); err == nil {
			return id
		}
	}
	return models.DefaultProgramID
}
