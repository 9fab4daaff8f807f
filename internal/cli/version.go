package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/stableex/sx.dmdvaults/internal/core/vault"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for dmdvaults including the default fee and Go version.`,
	// no configuration is needed to print the version
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "dmdvaults version %s\n", rootCmd.Version)
		fmt.Fprintf(out, "Default fee: %d pips\n", vault.DefaultFee)
		fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
