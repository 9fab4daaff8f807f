package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stableex/sx.dmdvaults/internal/config"
	"github.com/stableex/sx.dmdvaults/internal/core/vault"
	"github.com/stableex/sx.dmdvaults/internal/logging"
	"github.com/stableex/sx.dmdvaults/internal/storage"
)

var (
	// Global flags
	configFile string
	debug      bool
	verbose    bool
	quiet      bool

	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dmdvaults",
	Short: "dmd vaults price and liquidity oracle",
	Long: `dmdvaults quotes swaps against the dmd vaults. It reads the vault
reserves, REX positions and staking rows from a ledger store, applies the
withdrawal fee and gates withdrawals of staked vault tokens.`,
	Version:           "0.1.0-dev",
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable normally suppressed debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
}

// initConfig loads the configuration file and environment, then installs
// the logger. Command line verbosity flags override the configured level.
func initConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.LoadConfig(configFile)
	if err != nil {
		return err
	}

	switch {
	case debug || verbose:
		loaded.Log.Level = "debug"
	case quiet:
		loaded.Log.Level = "error"
	}

	l, err := logging.Setup(loaded.Log)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	logger.Debug("configuration loaded", "path", loaded.GetConfigPath(), "ledger_db", loaded.LedgerDB.String())
	return nil
}

// withLedger opens the configured ledger store for the duration of fn.
func withLedger(ctx context.Context, fn func(*storage.Ledger) error) (err error) {
	ledger, err := storage.OpenLedger(ctx, cfg.LedgerDB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ledger.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return fn(ledger)
}

func newOracle(ledger *storage.Ledger) (*vault.Oracle, error) {
	return vault.NewOracle(ledger,
		vault.WithFee(cfg.Oracle.FeePips),
		vault.WithCacheSize(cfg.Oracle.ValuationCacheSize),
		vault.WithLogger(logger),
	)
}

// withOracle opens the ledger and runs fn against an oracle over it.
func withOracle(ctx context.Context, fn func(*vault.Oracle) error) error {
	return withLedger(ctx, func(ledger *storage.Ledger) error {
		oracle, err := newOracle(ledger)
		if err != nil {
			return err
		}
		return fn(oracle)
	})
}
