// Package cli provides the command-line interface for the trading client.
package cli

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"openbook-trader/internal/client"
	"openbook-trader/internal/config"
	"openbook-trader/internal/errors"
	"openbook-trader/internal/gateway"
	"openbook-trader/internal/logging"
	"openbook-trader/internal/resilience"
	"openbook-trader/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Journal store.Journal
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Initialize the order journal
	if cfg.Journal.Enabled {
		journal, err := store.NewSQLiteJournal(cfg.Journal.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize journal, orders will not be recorded")
		} else {
			app.Journal = journal
			logger.Debug().Str("path", cfg.Journal.Path).Msg("Order journal initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "openbook",
		Short: "OpenBook Trader - Solana order book trading CLI",
		Long: `OpenBook Trader places and cancels orders on OpenBook v2 markets.

It builds, signs, and submits transactions against the on-chain order book
program, resolving the owner's open-orders account automatically.

Use 'openbook help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/openbook-trader)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("market", "", "market address (overrides config)")

	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addMarketCommands(rootCmd, app)
	addAccountCommands(rootCmd, app)
	addJournalCommands(rootCmd, app)

	return rootCmd
}

// gateway builds the RPC gateway from the configured endpoint.
func (app *App) gateway() (gateway.StateGateway, error) {
	commitment, err := gateway.ParseCommitment(app.Config.RPC.Commitment)
	if err != nil {
		return nil, err
	}
	rpc := gateway.NewRPC(app.Config.RPC.URL, commitment)
	return gateway.NewResilient(rpc, resilience.DefaultCircuitBreakerConfig()), nil
}

// marketAddress resolves the market address from the flag or config.
func (app *App) marketAddress(cmd *cobra.Command) (solana.PublicKey, error) {
	market, _ := cmd.Flags().GetString("market")
	if market == "" {
		market = app.Config.Trading.Market
	}
	if market == "" {
		return solana.PublicKey{}, errors.Wrap(errors.ErrConfigInvalid, "no market configured; set trading.market or pass --market")
	}
	return solana.PublicKeyFromBase58(market)
}

// newClient builds a trading client bound to the configured market and owner.
func (app *App) newClient(ctx context.Context, cmd *cobra.Command) (*client.Client, error) {
	gw, err := app.gateway()
	if err != nil {
		return nil, err
	}

	market, err := app.marketAddress(cmd)
	if err != nil {
		return nil, err
	}

	if app.Config.Trading.KeypairPath == "" {
		return nil, errors.Wrap(errors.ErrConfigInvalid, "no keypair configured; set trading.keypair_path")
	}
	owner, err := config.LoadKeypair(app.Config.Trading.KeypairPath)
	if err != nil {
		return nil, err
	}

	clientCfg := client.Config{
		Market:      market,
		Owner:       owner,
		AccountName: app.Config.Trading.AccountName,
		Logger:      app.Logger,
	}
	if app.Config.Trading.ProgramID != "" {
		programID, err := solana.PublicKeyFromBase58(app.Config.Trading.ProgramID)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "invalid program_id: %v", err)
		}
		clientCfg.ProgramID = programID
	}
	if app.Config.Trading.OpenOrders != "" {
		openOrders, err := solana.PublicKeyFromBase58(app.Config.Trading.OpenOrders)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "invalid open_orders: %v", err)
		}
		clientCfg.OpenOrders = &openOrders
	}

	return client.New(ctx, gw, clientCfg)
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"version": Version})
			} else {
				output.Printf("OpenBook Trader v%s\n", Version)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("RPC Configuration")
	output.Printf("  URL:        %s\n", cfg.RPC.URL)
	output.Printf("  Commitment: %s\n", cfg.RPC.Commitment)
	output.Println()

	output.Bold("Trading Configuration")
	output.Printf("  Program ID:   %s\n", orDefault(cfg.Trading.ProgramID, "(mainnet default)"))
	output.Printf("  Market:       %s\n", orDefault(cfg.Trading.Market, "(not set)"))
	output.Printf("  Keypair:      %s\n", orDefault(cfg.Trading.KeypairPath, "(not set)"))
	output.Printf("  Open Orders:  %s\n", orDefault(cfg.Trading.OpenOrders, "(auto)"))
	output.Printf("  Account Name: %s\n", cfg.Trading.AccountName)
	output.Println()

	output.Bold("Journal")
	output.Printf("  Enabled: %v\n", cfg.Journal.Enabled)
	output.Printf("  Path:    %s\n", cfg.Journal.Path)

	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
