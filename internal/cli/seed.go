package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stableex/sx.dmdvaults/internal/core/ledger/fixture"
	"github.com/stableex/sx.dmdvaults/internal/core/ledger/view"
	"github.com/stableex/sx.dmdvaults/internal/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed <fixture.yaml>",
	Short: "Write ledger rows from a YAML fixture",
	Long: `Load supplies, balances, REX rows, stakes and pending redemptions from a
YAML fixture and write them to the configured ledger store in one batch.
Existing rows with the same keys are overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(cmd.Context(), func(ledger *storage.Ledger) error {
			n, err := seed(cmd.Context(), ledger, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows\n", n)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seed(ctx context.Context, ledger *storage.Ledger, path string) (int, error) {
	f, err := fixture.Load(path)
	if err != nil {
		return 0, err
	}
	n, err := fixture.Apply(ctx, view.NewWriter(ledger), f)
	if err != nil {
		return 0, fmt.Errorf("failed to seed ledger: %w", err)
	}
	logger.Info("ledger seeded", "rows", n, "fixture", path)
	return n, nil
}
