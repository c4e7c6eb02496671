package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/iho/kasa/internal/adapter/http/dto"
)

func budgetCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Shared budget",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show shared balances and the rent reserve",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var resp dto.BudgetResponse
				if err := c.call(cmd, http.MethodGet, "/budget/", nil, nil, &resp); err != nil || c.jsonOut {
					return err
				}

				out := cmd.OutOrStdout()
				for _, cur := range sortedKeys(resp.Balances) {
					fmt.Fprintf(out, "%s balance: %s\n", cur, money(resp.Balances[cur], cur))
				}
				fmt.Fprintf(out, "Rent reserve: %s\n", money(resp.Reserve, "CZK"))
				fmt.Fprintf(out, "Available for debts: %s\n", money(resp.Available, "CZK"))
				return nil
			},
		},
		&cobra.Command{
			Use:   "settle",
			Short: "Pay open debts from the balance above the rent reserve",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var resp dto.SettleResponse
				if err := c.call(cmd, http.MethodPost, "/budget/settle", nil, nil, &resp); err != nil || c.jsonOut {
					return err
				}

				printSettlement(cmd.OutOrStdout(), resp.Settlement)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rent",
			Short: "Accrue this month's rent if today is the 1st",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				var resp dto.RentResponse
				if err := c.call(cmd, http.MethodPost, "/budget/rent", nil, nil, &resp); err != nil || c.jsonOut {
					return err
				}

				out := cmd.OutOrStdout()
				switch {
				case !resp.Accrued:
					fmt.Fprintln(out, "No rent accrued")
				case resp.Debt != nil:
					fmt.Fprintf(out, "Rent recorded as %s; balance too low, added debt\n", resp.Record.ID)
					printDebt(out, resp.Debt)
				default:
					fmt.Fprintf(out, "Rent %s paid from the shared balance\n", money(resp.Record.Amount, resp.Record.Currency))
				}
				return nil
			},
		},
	)
	return cmd
}
