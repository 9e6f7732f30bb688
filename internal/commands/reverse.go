package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

func newReverseCommand() *cobra.Command {
	var reason, date string
	cmd := &cobra.Command{
		Use:   "reverse <transaction-id>",
		Short: "Reverse a transaction by negating its amounts (Generalstorno)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var on time.Time
			if date != "" {
				d, err := parseDate(date)
				if err != nil {
					return err
				}
				on = d
			}
			b, err := openBooks(cmd)
			if err != nil {
				return err
			}

			var rev model.Transaction
			if on.IsZero() {
				rev, err = b.Reverse(args[0], reason)
			} else {
				rev, err = b.ReverseOn(args[0], reason, on)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked reversal %s of %s\n", rev.ID, rev.ReversesID)
			return writeTransaction(cmd.OutOrStdout(), rev, b.Chart())
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason for the reversal (required)")
	_ = cmd.MarkFlagRequired("reason")
	cmd.Flags().StringVar(&date, "date", "", "reversal date YYYY-MM-DD (default the original's date)")
	return cmd
}
