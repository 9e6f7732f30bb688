package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/statement"
)

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Annual statements",
	}
	cmd.AddCommand(
		newStatementCommand("pl", "Profit and loss statement", writeProfitAndLoss),
		newStatementCommand("bs", "Balance sheet", writeBalanceSheet),
	)
	return cmd
}

func newStatementCommand(use, short string, write func(io.Writer, statement.YearData, decimal.Decimal) error) *cobra.Command {
	var asOf string
	cmd := &cobra.Command{
		Use:   use + " <year>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			var date time.Time
			if asOf != "" {
				if date, err = parseDate(asOf); err != nil {
					return err
				}
			}
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}
			y, err := b.Statements(year, date)
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), y, b.SheetTolerance())
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "cut-off date within the year YYYY-MM-DD (default December 31)")
	return cmd
}

// writeTree prints each side of a tree: totals with their children indented,
// then the side's sum.
func writeTree(tw *tabwriter.Writer, tree statement.Tree, y statement.YearData) {
	for _, side := range tree.Sides {
		fmt.Fprintf(tw, "%s\t\t\n", side.Name)
		for _, n := range side.Nodes {
			fmt.Fprintf(tw, "  %s\t%s\t\n", n.Label(), y.Value(n.ID()).StringFixed(2))
			if tot, ok := n.(statement.Total); ok {
				for _, c := range tot.Children {
					fmt.Fprintf(tw, "    %s\t%s\t\n", c.Name, y.Value(c.Key).StringFixed(2))
				}
			}
		}
	}
}

func writeProfitAndLoss(w io.Writer, y statement.YearData, _ decimal.Decimal) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s %d (bis %s)\t\t\n", statement.ProfitAndLoss.Name, y.Window.Year, y.Window.AsOf.Format("2006-01-02"))
	writeTree(tw, statement.ProfitAndLoss, y)
	fmt.Fprintf(tw, "%s\t%s\t\n", statement.Label(statement.CurrentYearResult), y.NetResult.StringFixed(2))
	return tw.Flush()
}

func writeBalanceSheet(w io.Writer, y statement.YearData, tol decimal.Decimal) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s %s\t\t\n", statement.BalanceSheet.Name, y.Window.AsOf.Format("2006-01-02"))
	writeTree(tw, statement.BalanceSheet, y)
	fmt.Fprintf(tw, "Summe Aktiva\t%s\t\n", y.SumAssets.StringFixed(2))
	fmt.Fprintf(tw, "Summe Passiva\t%s\t\n", y.SumLiabilitiesAndEquity.StringFixed(2))
	if v := y.Value(statement.CarryForward); !v.IsZero() {
		fmt.Fprintf(tw, "%s\t%s\t\n", statement.CarryForwardMemo.Name, v.StringFixed(2))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !y.Balanced(tol) {
		fmt.Fprintf(w, "WARNING: balance sheet does not balance, difference %s\n", y.Discrepancy().StringFixed(2))
	}
	return nil
}
