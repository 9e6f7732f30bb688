package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/accounts"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

func newCloseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close a fiscal year by carrying balances forward",
	}
	cmd.AddCommand(
		newCloseStepCommand("preview", "Show the carry-forward entry without booking it"),
		newCloseStepCommand("book", "Book the carry-forward entry into the following year"),
		newCloseStepCommand("cancel", "Cancel the carry-forward entry so the year can be closed again"),
	)
	return cmd
}

func newCloseStepCommand(step, short string) *cobra.Command {
	return &cobra.Command{
		Use:   step + " <year>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}

			var txn model.Transaction
			switch step {
			case "preview":
				txn, err = b.PreviewClosing(year)
			case "book":
				txn, err = b.BookClosing(year)
			case "cancel":
				txn, err = b.CancelClosing(year)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch step {
			case "book":
				fmt.Fprintf(out, "Booked opening entry %s for %d\n", txn.ID, year+1)
			case "cancel":
				fmt.Fprintf(out, "Booked cancellation %s of %s\n", txn.ID, txn.ReversesID)
			}
			return writeTransaction(out, txn, b.Chart())
		},
	}
}

func writeTransaction(w io.Writer, txn model.Transaction, chart *accounts.Service) error {
	fmt.Fprintf(w, "%s %s %s %s\n", txn.Date.Format("2006-01-02"), txn.Reference, txn.Kind, txn.Description)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ACCOUNT\tNAME\tDEBIT\tCREDIT\t")
	for _, l := range txn.Lines {
		name := ""
		code := fmt.Sprint(l.AccountID)
		if a, ok := chart.Get(l.AccountID); ok {
			code, name = a.Code, a.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", code, name, l.Debit.StringFixed(2), l.Credit.StringFixed(2))
	}
	debit, credit := txn.Totals()
	fmt.Fprintf(tw, "\t\t%s\t%s\t\n", debit.StringFixed(2), credit.StringFixed(2))
	return tw.Flush()
}
