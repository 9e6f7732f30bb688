package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/statement"
)

func newAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Chart of accounts",
	}
	cmd.AddCommand(newAccountsListCommand(), newAccountsReclassifyCommand())
	return cmd
}

func newAccountsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with their type and statement category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tTYPE\tCATEGORY")
			for _, a := range b.Chart().All() {
				name := a.Name
				if a.Subledger {
					name += " (OP)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Code, name, a.Type, statement.Label(statement.Classify(a)))
			}
			return tw.Flush()
		},
	}
}

func newAccountsReclassifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reclassify <code> <type>",
		Short: "Change the type of an account without postings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ := model.AccountType(args[1])
			if !typ.Valid() {
				return fmt.Errorf("unknown account type %q", args[1])
			}
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}
			if err := b.Reclassify(args[0], typ); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %s is now %s\n", args[0], typ)
			return nil
		},
	}
}
