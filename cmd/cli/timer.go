package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/infrastructure/scheduler"
)

func timerCmd(c *client, displayTick time.Duration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Work timer",
	}

	cmd.AddCommand(timerStartCmd(c), timerStopCmd(c), timerStatusCmd(c), timerWatchCmd(c, displayTick))
	return cmd
}

func timerStartCmd(c *client) *cobra.Command {
	var req dto.StartTimerRequest

	cmd := &cobra.Command{
		Use:   "start <person> <activity>",
		Short: "Start the timer, stopping a running session first",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Person, req.Activity = args[0], args[1]

			var resp dto.SessionResultResponse
			if err := c.call(cmd, http.MethodPost, "/timer/start", nil, &req, &resp); err != nil || c.jsonOut {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Stopped != nil {
				fmt.Fprintf(out, "Stopped %s (%s): deduction %s\n", resp.Stopped.ID, resp.Stopped.Activity, money(resp.Stopped.Deduction, "CZK"))
				printSettlement(out, resp.Settlement)
			}
			fmt.Fprintf(out, "Started %s for %s at %s\n", resp.Session.Activity, resp.Session.Person, shortTime(resp.Session.Start))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Subcategory, "sub", "", "Subcategory")
	cmd.Flags().StringVar(&req.Note, "note", "", "Note")
	return cmd
}

func timerStopCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running session and settle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SessionResultResponse
			if err := c.call(cmd, http.MethodPost, "/timer/stop", nil, nil, &resp); err != nil || c.jsonOut {
				return err
			}

			out := cmd.OutOrStdout()
			printSession(out, resp.Session)
			printSettlement(out, resp.Settlement)
			return nil
		},
	}
}

func timerStatusCmd(c *client) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TimerResponse
			if err := c.call(cmd, http.MethodGet, "/timer/", nil, nil, &resp); err != nil || c.jsonOut {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), timerLine(&resp, time.Now()))
			return nil
		},
	}
}

func timerWatchCmd(c *client, displayTick time.Duration) *cobra.Command {
	var tick time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the running session, refreshed every tick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			redraw := isTerminal(out)

			runner := scheduler.NewRunner(scheduler.Config{
				Name:     "timer-watch",
				Interval: tick,
				Logger:   zerolog.New(cmd.ErrOrStderr()).Level(zerolog.ErrorLevel),
				Job: func(ctx context.Context) error {
					var resp dto.TimerResponse
					raw, err := c.do(ctx, cmd, http.MethodGet, "/timer/", nil, nil)
					if err != nil {
						return err
					}
					if err := json.Unmarshal(raw, &resp); err != nil {
						return fmt.Errorf("failed to parse response: %w", err)
					}
					return renderTimer(out, &resp, redraw)
				},
			})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			err := runner.Start(ctx)
			if redraw {
				fmt.Fprintln(out)
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().DurationVar(&tick, "tick", displayTick, "Refresh interval")
	return cmd
}

func renderTimer(w io.Writer, resp *dto.TimerResponse, redraw bool) error {
	line := timerLine(resp, time.Now())
	if redraw {
		_, err := fmt.Fprintf(w, "\r\033[K%s", line)
		return err
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func timerLine(resp *dto.TimerResponse, now time.Time) string {
	if !resp.Running || resp.Session == nil {
		return "Timer is not running"
	}
	s := resp.Session
	return fmt.Sprintf("%s: %s running %s (started %s), earned %s, deduction %s",
		s.Person, s.Activity, resp.Elapsed, ago(s.Start, now),
		money(resp.Earnings, "CZK"), money(resp.Deduction, "CZK"))
}

func printSession(w io.Writer, s *dto.SessionResponse) {
	if s == nil {
		return
	}
	end := "running"
	if s.End != nil {
		end = shortTime(*s.End)
	}
	fmt.Fprintf(w, "Session %s: %s %s, %s -> %s, %s h, earned %s, deduction %s\n",
		s.ID, s.Person, s.Activity, shortTime(s.Start), end,
		s.Hours.StringFixed(2), money(s.Earnings, "CZK"), money(s.Deduction, "CZK"))
}

func printSettlement(w io.Writer, s *dto.SettlementResponse) {
	if s == nil {
		return
	}
	if len(s.Payments) == 0 {
		fmt.Fprintf(w, "Shared balance: %s\n", money(s.BalanceAfter, "CZK"))
		return
	}
	fmt.Fprintf(w, "Settled %s across %d debt(s); shared balance %s -> %s\n",
		money(s.Total, "CZK"), len(s.Payments), money(s.BalanceBefore, "CZK"), money(s.BalanceAfter, "CZK"))
	for _, p := range s.Payments {
		fmt.Fprintf(w, "  paid %s on debt %s\n", money(p.Amount, "CZK"), p.DebtID)
	}
}
