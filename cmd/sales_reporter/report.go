package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/storekit/sales-reporter/internal/assets"
	"github.com/storekit/sales-reporter/internal/config"
	"github.com/storekit/sales-reporter/internal/db"
	"github.com/storekit/sales-reporter/internal/delivery"
	"github.com/storekit/sales-reporter/internal/observability"
	"github.com/storekit/sales-reporter/internal/pipeline"
	"github.com/storekit/sales-reporter/internal/storage"
)

var reportCommand = &cobra.Command{
	Use:   "report",
	Short: "Run one weekly sales report pipeline invocation",
	Long: `Aggregates the trailing week of delivered orders, ranks the best-selling
items, renders a PDF report with product images, stores it, records its
metadata, and emails it to the configured recipient.

Intended to be invoked by an external weekly scheduler. Configuration can be
loaded from a JSON file using --config; command-line flags override config
file values, which override environment variables.`,
	RunE: runReportCmd,
}

var (
	reportConfigPath     string
	reportDatabaseURL    string
	reportBucket         string
	reportRegion         string
	reportTimezone       string
	reportEligibleStatus string
	reportTopK           int
	reportVerbose        bool
)

func init() {
	reportCommand.Flags().StringVar(&reportConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	reportCommand.Flags().StringVar(&reportDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	reportCommand.Flags().StringVar(&reportBucket, "bucket", "", "S3 bucket for report artifacts (defaults to S3_BUCKET env var)")
	reportCommand.Flags().StringVar(&reportRegion, "region", "", "S3 region (defaults to S3_REGION env var)")
	reportCommand.Flags().StringVar(&reportTimezone, "timezone", "", "IANA timezone for the reporting window (defaults to UTC)")
	reportCommand.Flags().StringVar(&reportEligibleStatus, "eligible-status", "", "Order status counted by the report")
	reportCommand.Flags().IntVar(&reportTopK, "top-k", 0, "Number of best sellers to include")
	reportCommand.Flags().BoolVarP(&reportVerbose, "verbose", "v", false, "Print a formatted run summary")

	rootCmd.AddCommand(reportCommand)
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, reportConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateReport(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	store, err := storage.New(ctx, cfg.S3Bucket, cfg.S3Region)
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	dispatcher := delivery.NewDispatcher(delivery.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
	}, cfg.ReportSender, cfg.ReportRecipient)

	res, runErr := pipeline.Run(ctx, pipeline.Options{
		Orders:         database,
		Products:       database,
		Assets:         assets.NewFetcher(0, log),
		Store:          store,
		Metadata:       database,
		Dispatcher:     dispatcher,
		EligibleStatus: cfg.EligibleStatus,
		TopK:           cfg.TopK,
		Location:       loc,
		Log:            log,
	})

	if cfg.Verbose && res != nil {
		printer := observability.NewPrinter(os.Stdout)
		printer.PrintSelection(res.Window, res.Selection)
		printer.PrintRunResult(res)
	}

	// The scheduler decides whether and when to retry; we just surface
	// the failure.
	return runErr
}

// loadConfig merges config file, explicit flags, environment, and
// defaults, in that priority order.
func loadConfig(cmd *cobra.Command, path string) (*config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = reportDatabaseURL
	}
	if cmd.Flags().Changed("bucket") {
		cfg.S3Bucket = reportBucket
	}
	if cmd.Flags().Changed("region") {
		cfg.S3Region = reportRegion
	}
	if cmd.Flags().Changed("timezone") {
		cfg.ReportTimezone = reportTimezone
	}
	if cmd.Flags().Changed("eligible-status") {
		cfg.EligibleStatus = reportEligibleStatus
	}
	if cmd.Flags().Changed("top-k") {
		cfg.TopK = reportTopK
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = reportVerbose
	}

	cfg.FillFromEnv()
	cfg.ApplyDefaults()
	return &cfg, nil
}
