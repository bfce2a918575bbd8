package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "donations",
	Short: "Donations gateway service",
	Long:  "A gateway service for donation payment reconciliation: payment selection, settlement verification, and payment initiation against the donations backend.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
