package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(cfg cliConfig) *cobra.Command {
	c := &client{}

	rootCmd := &cobra.Command{
		Use:           "kasa",
		Short:         "Household time and money CLI",
		Long:          `A command line interface for the kasa API: work timer, finance records, debts and the shared budget.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&c.baseURL, "url", cfg.URL, "Base URL of the kasa API")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", cfg.Timeout, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "Print raw JSON responses")

	rootCmd.AddCommand(
		timerCmd(c, cfg.DisplayTick),
		sessionCmd(c),
		financeCmd(c),
		debtCmd(c),
		budgetCmd(c),
	)

	return rootCmd
}
