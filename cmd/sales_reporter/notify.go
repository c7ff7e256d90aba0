package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/storekit/sales-reporter/internal/db"
	"github.com/storekit/sales-reporter/internal/mq"
	"github.com/storekit/sales-reporter/internal/notify"
)

var notifyCommand = &cobra.Command{
	Use:   "notify",
	Short: "Run the new-order notification relay",
	Long: `Consumes order-created events from the message broker, resolves each
purchaser's contact number, and forwards a notification to the configured
recipient numbers over WhatsApp. Runs until interrupted.`,
	RunE: runNotifyCmd,
}

var notifyConfigPath string

func init() {
	notifyCommand.Flags().StringVar(&notifyConfigPath, "config", "", "Path to config.json file")
	rootCmd.AddCommand(notifyCommand)
}

func runNotifyCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd, notifyConfigPath)
	if err != nil {
		return err
	}
	if err := cfg.ValidateNotify(); err != nil {
		return err
	}

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	broker, err := mq.Dial(cfg.AMQPURL)
	if err != nil {
		return err
	}
	defer broker.Close()

	if err := broker.DeclareOrderQueue(cfg.OrderQueue); err != nil {
		return err
	}
	deliveries, err := broker.Consume(cfg.OrderQueue, "sales-reporter-notify", 1)
	if err != nil {
		return err
	}

	sender := notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	relay := notify.NewRelay(database, sender, cfg.NotifyRecipients, log)

	log.Info("notification relay started",
		slog.String("queue", cfg.OrderQueue),
		slog.Int("recipients", len(cfg.NotifyRecipients)))

	err = relay.Run(ctx, deliveries)
	if errors.Is(err, context.Canceled) {
		log.Info("notification relay stopped")
		return nil
	}
	return err
}
