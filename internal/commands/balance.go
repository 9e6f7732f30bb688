package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/ledger"
)

func newBalanceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Account and contact balances",
	}
	cmd.AddCommand(newBalanceAccountCommand(), newBalanceContactCommand())
	return cmd
}

func newBalanceAccountCommand() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "account <code>",
		Short: "Show opening, month, year-to-date and ending balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(asOf)
			if err != nil {
				return err
			}
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}
			acct, err := b.Account(args[0])
			if err != nil {
				return err
			}
			stats, err := b.AccountStats(acct.ID, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", acct.Code, acct.Name, acct.Type)
			return writeStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD (default today)")
	return cmd
}

func newBalanceContactCommand() *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   "contact <id>",
		Short: "Show the open-item balance of a customer or vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseDate(asOf)
			if err != nil {
				return err
			}
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}
			stats, err := b.ContactStats(args[0], date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Contact %s\n", args[0])
			return writeStats(cmd.OutOrStdout(), stats)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD (default today)")
	return cmd
}

func writeStats(w io.Writer, s ledger.LedgerStats) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "as of\t%s\t\n", s.AsOf.Format("2006-01-02"))
	fmt.Fprintf(tw, "opening balance\t%s\t\n", s.OpeningBalance.StringFixed(2))
	fmt.Fprintf(tw, "debit month\t%s\t\n", s.DebitMonth.StringFixed(2))
	fmt.Fprintf(tw, "credit month\t%s\t\n", s.CreditMonth.StringFixed(2))
	fmt.Fprintf(tw, "debit YTD\t%s\t\n", s.DebitYTD.StringFixed(2))
	fmt.Fprintf(tw, "credit YTD\t%s\t\n", s.CreditYTD.StringFixed(2))
	fmt.Fprintf(tw, "net change YTD\t%s\t\n", s.NetYTD().StringFixed(2))
	fmt.Fprintf(tw, "ending balance\t%s\t\n", s.EndingBalance.StringFixed(2))
	return tw.Flush()
}

func newTrialBalanceCommand() *cobra.Command {
	var asOf string
	var all bool
	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "List the balances of all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			date, err := parseDate(asOf)
			if err != nil {
				return err
			}
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}
			rows, err := b.TrialBalance(date)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "CODE\tNAME\tOPENING\tDEBIT YTD\tCREDIT YTD\tENDING\t")
			for _, r := range rows {
				s := r.Stats
				if !all && s.OpeningBalance.IsZero() && s.DebitYTD.IsZero() && s.CreditYTD.IsZero() {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Account.Code, r.Account.Name,
					s.OpeningBalance.StringFixed(2), s.DebitYTD.StringFixed(2), s.CreditYTD.StringFixed(2), s.EndingBalance.StringFixed(2))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "as-of date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&all, "all", false, "include accounts without activity")
	return cmd
}
