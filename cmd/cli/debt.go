package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/kasa/internal/adapter/http/dto"
)

func debtCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debt",
		Short: "Debts and their payments",
	}

	cmd.AddCommand(
		debtAddCmd(c),
		debtPayCmd(c),
		debtUnpayCmd(c),
		debtDeleteCmd(c),
		debtListCmd(c),
		debtOutstandingCmd(c),
	)
	return cmd
}

func debtAddCmd(c *client) *cobra.Command {
	var (
		req     dto.DebtRequest
		due     string
		private bool
	)

	cmd := &cobra.Command{
		Use:   "add <creditor> <debtor> <amount>",
		Short: "Add a debt",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			req.Creditor, req.Debtor, req.Amount = args[0], args[1], amount

			if due != "" {
				t, err := parseTimeFlag(due, time.Now())
				if err != nil {
					return err
				}
				req.DueDate = &t
			}
			if cmd.Flags().Changed("private") {
				common := !private
				req.CommonExpense = &common
			}

			var resp dto.DebtResultResponse
			if err := c.call(cmd, http.MethodPost, "/debts/", nil, &req, &resp); err != nil || c.jsonOut {
				return err
			}

			printDebt(cmd.OutOrStdout(), resp.Debt)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Currency, "currency", "CZK", "Currency (CZK, EUR, USD)")
	cmd.Flags().StringVar(&req.Description, "desc", "", "Description")
	cmd.Flags().StringVar(&due, "due", "", "Due date")
	cmd.Flags().BoolVar(&private, "private", false, "Not a common expense")
	return cmd
}

func debtPayCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <id> <amount>",
		Short: "Record a manual payment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			var resp dto.DebtResultResponse
			path := "/debts/" + url.PathEscape(args[0]) + "/payments"
			if err := c.call(cmd, http.MethodPost, path, nil, &dto.PaymentRequest{Amount: amount}, &resp); err != nil || c.jsonOut {
				return err
			}

			printDebt(cmd.OutOrStdout(), resp.Debt)
			return nil
		},
	}
}

func debtUnpayCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "unpay <id> <payment-id>",
		Short: "Delete a manual payment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.DebtResultResponse
			path := "/debts/" + url.PathEscape(args[0]) + "/payments/" + url.PathEscape(args[1])
			if err := c.call(cmd, http.MethodDelete, path, nil, nil, &resp); err != nil || c.jsonOut {
				return err
			}

			printDebt(cmd.OutOrStdout(), resp.Debt)
			return nil
		},
	}
}

func debtDeleteCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a debt; payments already made stay spent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteResource(cmd, c, "/debts/"+url.PathEscape(args[0]))
		},
	}
}

func debtListCmd(c *client) *cobra.Command {
	var (
		person, currency string
		open, common     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List debts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "person", person)
			setIf(q, "currency", currency)
			if cmd.Flags().Changed("open") {
				q.Set("open", fmt.Sprint(open))
			}
			if cmd.Flags().Changed("common") {
				q.Set("common", fmt.Sprint(common))
			}

			var debts []*dto.DebtResponse
			if err := c.call(cmd, http.MethodGet, "/debts/", q, nil, &debts); err != nil || c.jsonOut {
				return err
			}

			printDebtTable(cmd.OutOrStdout(), debts)
			return nil
		},
	}

	cmd.Flags().StringVar(&person, "person", "", "Creditor or debtor")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency")
	cmd.Flags().BoolVar(&open, "open", false, "Only unsettled (--open=false for settled)")
	cmd.Flags().BoolVar(&common, "common", false, "Only common expenses (--common=false for private)")
	return cmd
}

func debtOutstandingCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "outstanding",
		Short: "Unsettled totals per currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.OutstandingResponse
			if err := c.call(cmd, http.MethodGet, "/debts/outstanding", nil, nil, &resp); err != nil || c.jsonOut {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d open debt(s)\n", resp.Count)
			for _, cur := range sortedKeys(resp.Totals) {
				fmt.Fprintf(out, "  %s\n", money(resp.Totals[cur], cur))
			}
			return nil
		},
	}
}

func printDebt(w io.Writer, d *dto.DebtResponse) {
	if d == nil {
		return
	}
	state := "open"
	if d.Settled {
		state = "settled"
	}
	fmt.Fprintf(w, "Debt %s: %s owes %s %s, paid %s, remaining %s (%s)\n",
		d.ID, d.Debtor, d.Creditor, money(d.Amount, d.Currency),
		money(d.Paid, d.Currency), money(d.Remaining, d.Currency), state)
	for _, p := range d.Payments {
		kind := "manual"
		if p.Automatic {
			kind = "automatic"
		}
		fmt.Fprintf(w, "  %s %s %s %s\n", p.ID, shortTime(p.Date), money(p.Amount, d.Currency), kind)
	}
}

func printDebtTable(w io.Writer, debts []*dto.DebtResponse) {
	if len(debts) == 0 {
		fmt.Fprintln(w, "No debts")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDEBTOR\tCREDITOR\tAMOUNT\tREMAINING\tDUE\tCOMMON\tDESCRIPTION")
	for _, d := range debts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.Debtor, d.Creditor, money(d.Amount, d.Currency), money(d.Remaining, d.Currency),
			optionalTime(d.DueDate), yesNo(d.CommonExpense), d.Description)
	}
	_ = tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
