package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stableex/sx.dmdvaults/internal/core/asset"
	"github.com/stableex/sx.dmdvaults/internal/core/vault"
)

var (
	// Reserves flags
	sortSymbol string
	allVaults  bool
	sortBase   bool
)

var reservesCmd = &cobra.Command{
	Use:   "reserves [vault]",
	Short: "Print the reserve pair of a vault",
	Long: `Print the reserves of a vault, the --sort symbol first. Without --sort the
backed token comes first. With --all every vault is printed, base first
when --base is set.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if allVaults {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runReserves,
}

var quoteCmd = &cobra.Command{
	Use:     "quote <vault> <amount in> <out symbol>",
	Short:   "Quote a swap against a vault",
	Example: `  dmdvaults quote legacy "1.0000 EOS" DEOS`,
	Args:    cobra.ExactArgs(3),
	RunE:    runQuote,
}

var valueCmd = &cobra.Command{
	Use:   "value <account>",
	Short: "Print the base asset value of an account's REX position",
	Args:  cobra.ExactArgs(1),
	RunE:  runValue,
}

var feeCmd = &cobra.Command{
	Use:   "fee",
	Short: "Print the configured withdrawal fee in pips",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", cfg.Oracle.FeePips)
	},
}

func init() {
	rootCmd.AddCommand(reservesCmd, quoteCmd, valueCmd, feeCmd)

	reservesCmd.Flags().StringVar(&sortSymbol, "sort", "", "symbol code to print first")
	reservesCmd.Flags().BoolVar(&allVaults, "all", false, "print every vault")
	reservesCmd.Flags().BoolVar(&sortBase, "base", false, "with --all, print the base symbol first")
}

func runReserves(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	return withOracle(cmd.Context(), func(oracle *vault.Oracle) error {
		if allVaults {
			pairs, err := oracle.AllReserves(cmd.Context(), sortBase)
			if err != nil {
				return err
			}
			for _, id := range vault.IDs() {
				fmt.Fprintf(out, "%s: %s\n", id, pairs[id])
			}
			return nil
		}

		id, err := vault.ParseID(args[0])
		if err != nil {
			return err
		}
		b, err := vault.Lookup(id)
		if err != nil {
			return err
		}
		sort := b.Backed.Symbol
		if sortSymbol != "" {
			if sort, err = b.SymbolByCode(sortSymbol); err != nil {
				return err
			}
		}

		return oracle.Invoke(cmd.Context(), func(s *vault.Session) error {
			pair, err := s.Reserves(id, sort)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s\n", id, pair)
			return nil
		})
	})
}

func runQuote(cmd *cobra.Command, args []string) error {
	id, err := vault.ParseID(args[0])
	if err != nil {
		return err
	}
	b, err := vault.Lookup(id)
	if err != nil {
		return err
	}
	in, err := b.ParseAsset(args[1])
	if err != nil {
		return err
	}
	sym, err := b.SymbolByCode(args[2])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return withOracle(cmd.Context(), func(oracle *vault.Oracle) error {
		return oracle.Invoke(cmd.Context(), func(s *vault.Session) error {
			res, err := s.Quote(id, in, sym)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s -> %s (%s, fee %d pips)\n", res.In, res.Out, res.Reason, res.Fee)
			return nil
		})
	})
}

func runValue(cmd *cobra.Command, args []string) error {
	account, err := asset.ParseName(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return withOracle(cmd.Context(), func(oracle *vault.Oracle) error {
		return oracle.Invoke(cmd.Context(), func(s *vault.Session) error {
			v, err := s.ResourceValue(account)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s\n", account, v)
			return nil
		})
	})
}
