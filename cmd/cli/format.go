package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/shopspring/decimal"
)

// money formats an amount with thousands separators and two decimals.
func money(d decimal.Decimal, currency string) string {
	rounded := d.Round(2)
	whole, frac, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")
	n, _ := strconv.ParseInt(whole, 10, 64)

	s := humanize.Comma(n) + "." + frac
	if rounded.IsNegative() {
		s = "-" + s
	}
	return strings.TrimSpace(s + " " + currency)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func shortTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return shortTime(*t)
}

// ago renders t relative to now, e.g. "3 hours ago".
func ago(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// parseTimeFlag accepts RFC 3339, "YYYY-MM-DD HH:MM", "YYYY-MM-DD" or a bare
// "HH:MM" on the day of now. Local forms use now's location.
func parseTimeFlag(val string, now time.Time) (time.Time, error) {
	val = strings.TrimSpace(val)
	loc := now.Location()

	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02 15:04", val, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, val, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("15:04", val, loc); err == nil {
		y, m, d := now.Date()
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc), nil
	}

	return time.Time{}, fmt.Errorf("invalid time %q: want RFC 3339, YYYY-MM-DD HH:MM, YYYY-MM-DD or HH:MM", val)
}

func parseAmount(val string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(val), ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", val)
	}
	return d, nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
