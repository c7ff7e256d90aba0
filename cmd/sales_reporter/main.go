// Package main provides the entry point for the sales-reporter CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sales_reporter",
	Short: "Weekly sales reporting and order notification tools",
	Long:  "sales_reporter aggregates a week of sales, renders a best-sellers PDF report, stores and emails it, and relays new-order notifications to the store operators.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
