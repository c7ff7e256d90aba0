package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/storekit/sales-reporter/internal/db"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "List recently generated reports",
	RunE:  runHistoryCmd,
}

var (
	historyConfigPath string
	historyLimit      int
)

func init() {
	historyCommand.Flags().StringVar(&historyConfigPath, "config", "", "Path to config.json file")
	historyCommand.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of entries to list")
	rootCmd.AddCommand(historyCommand)
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, historyConfigPath)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	reports, err := database.RecentReports(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Println("No reports generated yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tPATH")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\n", r.CreatedAt.Format(time.RFC3339), r.FilePath)
	}
	return w.Flush()
}
