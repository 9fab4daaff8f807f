package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stableex/sx.dmdvaults/internal/server"
	"github.com/stableex/sx.dmdvaults/internal/storage"
)

var (
	// Server flags
	port     int
	bindAddr string
	seedFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the oracle query server",
	Long: `Start the dmdvaults server which provides:
- GET /{method} and POST /rpc endpoints for reserves, quote, value and fee
- WebSocket endpoint at /ws
- Prometheus metrics at /metrics
- Health check endpoint at /health`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&bindAddr, "bind", "", "address to bind to (overrides server.bind)")
	serveCmd.Flags().StringVar(&seedFile, "seed", "", "YAML fixture written to the ledger before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	srvCfg := cfg.Server
	if cmd.Flags().Changed("port") {
		srvCfg.Port = port
	}
	if cmd.Flags().Changed("bind") {
		srvCfg.Bind = bindAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withLedger(ctx, func(ledger *storage.Ledger) error {
		if seedFile != "" {
			if _, err := seed(ctx, ledger, seedFile); err != nil {
				return err
			}
		}

		oracle, err := newOracle(ledger)
		if err != nil {
			return err
		}

		srv := server.New(oracle, server.Options{
			Timeout:       srvCfg.WriteTimeout,
			EnableWS:      srvCfg.EnableWS,
			EnableMetrics: srvCfg.EnableMetrics,
		}, logger)

		logger.Info("starting dmdvaults",
			"addr", srvCfg.GetBindAddress(),
			"ledger_db", cfg.LedgerDB.String(),
			"fee_pips", oracle.Fee(),
			"ws", srvCfg.EnableWS,
			"metrics", srvCfg.EnableMetrics,
		)
		return srv.Run(ctx, srvCfg.GetBindAddress(), srvCfg.ReadTimeout, srvCfg.WriteTimeout)
	})
}
