package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradergym/internal/config"
	"tradergym/internal/importer"
	"tradergym/internal/logging"
	"tradergym/internal/notify"
	"tradergym/internal/store"
)

// Version information
const (
	Version   = "0.3.0"
	BuildDate = "2025-08-15"
)

// App holds the application dependencies.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.DataStore
	Notifier notify.Notifier
	Parser   *importer.AIParser
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Notifier: notify.NewNoOpNotifier(),
	}

	dataStore, err := store.NewSQLiteStore(cfg.Journal.DatabasePath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, most commands will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Journal.DatabasePath).Msg("SQLite store initialized")
	}

	if cfg.Notifications.Enabled {
		app.Notifier = notify.NewMultiNotifier(&cfg.Notifications)
		logger.Debug().Msg("Notifications enabled")
	}

	if cfg.HasParser() {
		parser, err := importer.NewAIParser(
			cfg.Credentials.OpenAI.APIKey,
			cfg.Parser.Model,
			cfg.Parser.Temperature,
			cfg.Parser.MaxTokens,
			cfg.Parser.RatePerMinute,
		)
		if err != nil {
			logger.Warn().Err(err).Msg("AI parser unavailable")
		} else {
			app.Parser = parser
			logger.Debug().Str("model", cfg.Parser.Model).Msg("AI journal parser initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "tradergym",
		Short: "TraderGym - discipline-first trading journal",
		Long: `TraderGym is a trading journal that treats discipline as the tradable edge.

It sizes positions from a per-account risk protocol, gates each session on a
morning readiness check, and scores every day on execution discipline rather
than P&L alone.

Use 'tradergym help <command>' for more information about a command.`,
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
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/tradergym)")
	rootCmd.PersistentFlags().String("account", cfg.Journal.DefaultAccount, "account ID to operate on")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newSizeCmd(app))
	rootCmd.AddCommand(newAccountCmd(app))
	rootCmd.AddCommand(newPrepCmd(app))
	rootCmd.AddCommand(newScoresCmd(app))
	rootCmd.AddCommand(newProjectCmd(app))
	rootCmd.AddCommand(newJournalCmd(app))

	return rootCmd
}

// accountID resolves the account flag, falling back to the configured
// default.
func (app *App) accountID(cmd *cobra.Command) string {
	id, _ := cmd.Flags().GetString("account")
	if id == "" {
		id = app.Config.Journal.DefaultAccount
	}
	return id
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("TraderGym v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
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
				// Credentials never leave the credentials file.
				redacted := *app.Config
				redacted.Credentials = config.Credentials{}
				return output.JSON(redacted)
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
		Short: "Validate configuration files",
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
	output.Bold("Journal Configuration")
	output.Printf("  Default Account: %s\n", cfg.Journal.DefaultAccount)
	output.Printf("  Database:        %s\n", cfg.Journal.DatabasePath)
	output.Printf("  Challenge Goal:  %s\n", FormatUSD(cfg.Journal.ChallengeGoal))
	output.Println()

	output.Bold("Fallback Risk Profile")
	output.Printf("  Max Daily Risk:  %s\n", FormatUSD(cfg.Risk.MaxDailyRisk))
	output.Printf("  Trades/Day:      %d\n", cfg.Risk.MaxTradesPerDay)
	output.Printf("  Contracts/Trade: %d\n", cfg.Risk.MaxContractsPerTrade)
	output.Printf("  Calc Mode:       %s\n", cfg.Risk.CalcMode)
	output.Printf("  Target Mode:     %s\n", cfg.Risk.TargetMode)
	output.Printf("  R:R:             %s\n", FormatRiskReward(cfg.Risk.RRRatio))
	output.Printf("  Instrument:      %s\n", cfg.Risk.PreferredInstrument)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:         %v\n", cfg.Notifications.Enabled)
	output.Printf("  Level:           %s\n", cfg.Notifications.Level)
	output.Printf("  Webhook:         %v\n", cfg.Notifications.Webhook.Enabled)
	output.Printf("  Telegram:        %v\n", cfg.Notifications.Telegram.Enabled)
	output.Println()

	output.Bold("AI Parser")
	output.Printf("  Model:           %s\n", cfg.Parser.Model)
	output.Printf("  Configured:      %v\n", cfg.HasParser())

	return nil
}
