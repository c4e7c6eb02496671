package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/kasa/internal/adapter/http/dto"
)

func sessionCmd(c *client) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Finished work sessions",
	}

	cmd.AddCommand(
		sessionAddCmd(c),
		sessionEditCmd(c),
		sessionDeleteCmd(c),
		sessionListCmd(c),
		sessionSummaryCmd(c),
	)
	return cmd
}

// sessionFlags holds the flags shared by add and edit.
type sessionFlags struct {
	person, activity, sub, note string
	start, end                  string
	rate, deduction             string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.person, "person", "", "Person")
	cmd.Flags().StringVar(&f.activity, "activity", "", "Activity")
	cmd.Flags().StringVar(&f.sub, "sub", "", "Subcategory")
	cmd.Flags().StringVar(&f.note, "note", "", "Note")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time")
	cmd.Flags().StringVar(&f.end, "end", "", "End time")
	cmd.Flags().StringVar(&f.rate, "rate", "", "Hourly rate override")
	cmd.Flags().StringVar(&f.deduction, "deduction", "", "Deduction rate override")
}

// apply copies every flag that was set onto req.
func (f *sessionFlags) apply(cmd *cobra.Command, req *dto.SessionRequest, now time.Time) error {
	changed := cmd.Flags().Changed

	if changed("person") {
		req.Person = f.person
	}
	if changed("activity") {
		req.Activity = f.activity
	}
	if changed("sub") {
		req.Subcategory = f.sub
	}
	if changed("note") {
		req.Note = f.note
	}
	if changed("start") {
		t, err := parseTimeFlag(f.start, now)
		if err != nil {
			return err
		}
		req.Start = t
	}
	if changed("end") {
		t, err := parseTimeFlag(f.end, now)
		if err != nil {
			return err
		}
		req.End = t
	}
	if changed("rate") {
		d, err := parseAmount(f.rate)
		if err != nil {
			return err
		}
		req.HourlyRate = &d
	}
	if changed("deduction") {
		d, err := parseAmount(f.deduction)
		if err != nil {
			return err
		}
		req.DeductionRate = &d
	}
	return nil
}

func sessionAddCmd(c *client) *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a finished session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var req dto.SessionRequest
			if err := flags.apply(cmd, &req, time.Now()); err != nil {
				return err
			}

			var resp dto.SessionResultResponse
			if err := c.call(cmd, http.MethodPost, "/sessions/", nil, &req, &resp); err != nil || c.jsonOut {
				return err
			}

			printSession(cmd.OutOrStdout(), resp.Session)
			printSettlement(cmd.OutOrStdout(), resp.Settlement)
			return nil
		},
	}

	flags.register(cmd)
	for _, name := range []string{"person", "activity", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func sessionEditCmd(c *client) *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a finished session; unset flags keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/sessions/" + url.PathEscape(args[0])

			var current dto.SessionResponse
			if err := c.get(cmd, path, &current); err != nil {
				return err
			}
			if current.End == nil {
				return fmt.Errorf("session %s is still running; stop the timer first", current.ID)
			}

			req := dto.SessionRequest{
				Person:        current.Person,
				Activity:      current.Activity,
				Subcategory:   current.Subcategory,
				Note:          current.Note,
				Start:         current.Start,
				End:           *current.End,
				HourlyRate:    &current.HourlyRate,
				DeductionRate: &current.DeductionRate,
			}
			if err := flags.apply(cmd, &req, time.Now()); err != nil {
				return err
			}

			var resp dto.SessionResultResponse
			if err := c.call(cmd, http.MethodPut, path, nil, &req, &resp); err != nil || c.jsonOut {
				return err
			}

			printSession(cmd.OutOrStdout(), resp.Session)
			printSettlement(cmd.OutOrStdout(), resp.Settlement)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func sessionDeleteCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return deleteResource(cmd, c, "/sessions/"+url.PathEscape(args[0]))
		},
	}
}

// sessionFilter holds the list and summary filters.
type sessionFilter struct {
	person, from, to, month string
}

func (f *sessionFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.person, "person", "", "Only this person")
	cmd.Flags().StringVar(&f.from, "from", "", "Start on or after (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Start before (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.month, "month", "", "Whole month (YYYY-MM)")
}

func (f *sessionFilter) query() url.Values {
	q := url.Values{}
	setIf(q, "person", f.person)
	setIf(q, "from", f.from)
	setIf(q, "to", f.to)
	setIf(q, "month", f.month)
	return q
}

func sessionListCmd(c *client) *cobra.Command {
	var (
		filter sessionFilter
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := filter.query()
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}

			var sessions []*dto.SessionResponse
			if err := c.call(cmd, http.MethodGet, "/sessions/", q, nil, &sessions); err != nil || c.jsonOut {
				return err
			}

			printSessionTable(cmd.OutOrStdout(), sessions)
			return nil
		},
	}

	filter.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Only the most recent N sessions")
	return cmd
}

func sessionSummaryCmd(c *client) *cobra.Command {
	var filter sessionFilter

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Totals over finished sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SessionSummaryResponse
			if err := c.call(cmd, http.MethodGet, "/sessions/summary", filter.query(), nil, &resp); err != nil || c.jsonOut {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d session(s), %s h, earned %s, deduction %s\n",
				resp.Count, resp.Hours.StringFixed(2), money(resp.Earnings, "CZK"), money(resp.Deduction, "CZK"))
			return nil
		},
	}

	filter.register(cmd)
	return cmd
}

func printSessionTable(w io.Writer, sessions []*dto.SessionResponse) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPERSON\tACTIVITY\tSTART\tEND\tHOURS\tEARNED\tDEDUCTION")
	hours := decimal.Zero
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Person, s.Activity, shortTime(s.Start), optionalTime(s.End),
			s.Hours.StringFixed(2), money(s.Earnings, ""), money(s.Deduction, ""))
		hours = hours.Add(s.Hours)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d session(s), %s h\n", len(sessions), hours.StringFixed(2))
}

func setIf(q url.Values, key, val string) {
	if val != "" {
		q.Set(key, val)
	}
}

func deleteResource(cmd *cobra.Command, c *client, path string) error {
	var resp dto.DeletedResponse
	if err := c.call(cmd, http.MethodDelete, path, nil, nil, &resp); err != nil || c.jsonOut {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", resp.ID)
	return nil
}
