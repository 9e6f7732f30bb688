package commands

import (
	"github.com/spf13/cobra"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "buchhaltung",
		Short:   "Double-entry bookkeeping with annual statements",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("dir", ".", "ledger directory")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountsCommand(),
		newPostCommand(),
		newBalanceCommand(),
		newTrialBalanceCommand(),
		newReportCommand(),
		newCloseCommand(),
		newReverseCommand(),
		newLogCommand(),
	)

	return rootCmd
}
