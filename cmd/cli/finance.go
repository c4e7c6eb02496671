package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/iho/kasa/internal/adapter/http/dto"
)

func financeCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Income and expense records",
	}

	cmd.AddCommand(
		financeAddCmd(c),
		financeEditCmd(c),
		financeDeleteCmd(c),
		financeListCmd(c),
		financeSummaryCmd(c),
	)
	return cmd
}

func financeAddCmd(c *client) *cobra.Command {
	req := dto.RecordRequest{}

	cmd := &cobra.Command{
		Use:   "add <income|expense> <amount>",
		Short: "Add a finance record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			req.Kind, req.Amount = args[0], amount

			var resp dto.RecordResultResponse
			if err := c.call(cmd, http.MethodPost, "/finance/", nil, &req, &resp); err != nil || c.jsonOut {
				return err
			}

			printRecordResult(cmd.OutOrStdout(), &resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Currency, "currency", "CZK", "Currency (CZK, EUR, USD)")
	cmd.Flags().StringVar(&req.Category, "category", "", "Category")
	cmd.Flags().StringVar(&req.Description, "desc", "", "Description")
	return cmd
}

func financeEditCmd(c *client) *cobra.Command {
	var kind, amount, currency, category, desc string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a finance record; unset flags keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/finance/" + url.PathEscape(args[0])

			var current dto.RecordResponse
			if err := c.get(cmd, path, &current); err != nil {
				return err
			}

			req := dto.RecordRequest{
				Kind:        current.Kind,
				Amount:      current.Amount,
				Description: current.Description,
				Category:    current.Category,
				Currency:    current.Currency,
			}

			changed := cmd.Flags().Changed
			if changed("kind") {
				req.Kind = kind
			}
			if changed("amount") {
				d, err := parseAmount(amount)
				if err != nil {
					return err
				}
				req.Amount = d
			}
			if changed("currency") {
				req.Currency = currency
			}
			if changed("category") {
				req.Category = category
			}
			if changed("desc") {
				req.Description = desc
			}

			var resp dto.RecordResultResponse
			if err := c.call(cmd, http.MethodPut, path, nil, &req, &resp); err != nil || c.jsonOut {
				return err
			}

			printRecordResult(cmd.OutOrStdout(), &resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	return cmd
}

func financeDeleteCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a finance record, reversing its offset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteResource(cmd, c, "/finance/"+url.PathEscape(args[0]))
		},
	}
}

func financeListCmd(c *client) *cobra.Command {
	var (
		kind, currency, category, month string
		limit                           int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List finance records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "kind", kind)
			setIf(q, "currency", currency)
			setIf(q, "category", category)
			setIf(q, "month", month)
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			var records []*dto.RecordResponse
			if err := c.call(cmd, http.MethodGet, "/finance/", q, nil, &records); err != nil || c.jsonOut {
				return err
			}

			printRecordTable(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "income or expense")
	cmd.Flags().StringVar(&currency, "currency", "", "Currency")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Only the most recent N records")
	return cmd
}

func financeSummaryCmd(c *client) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Monthly totals per currency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			setIf(q, "month", month)

			var resp dto.MonthlySummaryResponse
			if err := c.call(cmd, http.MethodGet, "/finance/summary", q, nil, &resp); err != nil || c.jsonOut {
				return err
			}

			printMonthlySummary(cmd.OutOrStdout(), &resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM), default current")
	return cmd
}

func printRecordResult(w io.Writer, resp *dto.RecordResultResponse) {
	r := resp.Record
	fmt.Fprintf(w, "Recorded %s %s in %s as %s\n", r.Kind, money(r.Amount, r.Currency), r.Category, r.ID)
	if resp.Offset {
		fmt.Fprintln(w, "Offset against today's earnings: subtracted from the shared balance")
	}
}

func printRecordTable(w io.Writer, records []*dto.RecordResponse) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No records")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tKIND\tAMOUNT\tCATEGORY\tDESCRIPTION\tOFFSET")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, shortTime(r.Date), r.Kind, money(r.Amount, r.Currency), r.Category, r.Description, yesNo(r.OffsetApplied))
	}
	_ = tw.Flush()
}

func printMonthlySummary(w io.Writer, s *dto.MonthlySummaryResponse) {
	fmt.Fprintf(w, "%04d-%02d: %d record(s)\n", s.Year, s.Month, s.Count)

	currencies := make([]string, 0, len(s.Currencies))
	for c := range s.Currencies {
		currencies = append(currencies, c)
	}
	sort.Strings(currencies)

	for _, c := range currencies {
		t := s.Currencies[c]
		fmt.Fprintf(w, "%s  income %s  expense %s  net %s\n", c, money(t.Income, c), money(t.Expense, c), money(t.Net, c))

		categories := make([]string, 0, len(t.ByCategory))
		for name := range t.ByCategory {
			categories = append(categories, name)
		}
		sort.Strings(categories)
		for _, name := range categories {
			fmt.Fprintf(w, "  %-16s %s\n", name, money(t.ByCategory[name], c))
		}
	}
}
