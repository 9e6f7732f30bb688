package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/journal"
	"github.com/herbertschlicht/Buchhaltungsprofi-sub000/internal/model"
)

func newPostCommand() *cobra.Command {
	var (
		date, debit, credit, amount string
		params                      journal.PostParams
		kind                        string
	)

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Book an amount from one account to another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if params.Date, err = parseDate(date); err != nil {
				return err
			}
			if params.Amount, err = decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("amount %q: %w", amount, err)
			}
			params.Kind = model.TransactionKind(kind)
			if !params.Kind.Valid() {
				return fmt.Errorf("unknown kind %q", kind)
			}

			b, err := openBooks(cmd)
			if err != nil {
				return err
			}
			dr, err := b.Account(debit)
			if err != nil {
				return err
			}
			cr, err := b.Account(credit)
			if err != nil {
				return err
			}
			params.DebitAccount, params.CreditAccount = dr.ID, cr.ID

			txn, err := b.Post(params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Booked %s: %s an %s %s\n", txn.ID, dr.Code, cr.Code, params.Amount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "booking date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&debit, "debit", "", "debit account code (required)")
	cmd.Flags().StringVar(&credit, "credit", "", "credit account code (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&kind, "kind", string(model.KindStandard), "transaction kind")
	cmd.Flags().StringVar(&params.Description, "description", "", "booking text")
	cmd.Flags().StringVar(&params.ContactID, "contact", "", "customer or vendor ID")
	cmd.Flags().StringVar(&params.Reference, "reference", "", "document reference")
	cmd.Flags().StringVar(&params.DocumentID, "document", "", "originating document ID")
	for _, f := range []string{"debit", "credit", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}
