// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/storekit/sales-reporter/internal/types"
)

// Config represents the process configuration. It can be loaded from a
// JSON file, filled from environment variables, or a mix of both; CLI
// flags override whatever was loaded. It is constructed once at startup
// and passed by parameter — nothing reads it from package scope.
type Config struct {
	// Stores
	DatabaseURL string `json:"database_url,omitempty"`
	S3Bucket    string `json:"s3_bucket,omitempty"`
	S3Region    string `json:"s3_region,omitempty"`

	// Delivery
	SMTPHost        string `json:"smtp_host,omitempty"`
	SMTPPort        int    `json:"smtp_port,omitempty"`
	SMTPUsername    string `json:"smtp_username,omitempty"`
	SMTPPassword    string `json:"smtp_password,omitempty"`
	ReportSender    string `json:"report_sender,omitempty" validate:"omitempty,email"`
	ReportRecipient string `json:"report_recipient,omitempty" validate:"omitempty,email"`

	// Report behavior
	ReportTimezone string `json:"report_timezone,omitempty"` // IANA zone for the window; defaults to UTC
	EligibleStatus string `json:"eligible_status,omitempty"` // order status counted by the report
	TopK           int    `json:"top_k,omitempty"`           // number of best sellers in the report

	// Notification relay
	AMQPURL          string   `json:"amqp_url,omitempty"`
	OrderQueue       string   `json:"order_queue,omitempty"`
	TwilioAccountSID string   `json:"twilio_account_sid,omitempty"`
	TwilioAuthToken  string   `json:"twilio_auth_token,omitempty"`
	TwilioFrom       string   `json:"twilio_from,omitempty"` // WhatsApp-enabled sender number
	NotifyRecipients []string `json:"notify_recipients,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Defaults applied when neither file, env, nor flags set a value.
const (
	DefaultEligibleStatus = types.OrderStatusDelivered
	DefaultTopK           = 3
	DefaultSMTPPort       = 587
	DefaultOrderQueue     = "orders.created"
)

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FillFromEnv fills empty fields from environment variables. File and
// flag values take priority over the environment.
func (c *Config) FillFromEnv() {
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.S3Bucket, "S3_BUCKET")
	setString(&c.S3Region, "S3_REGION")
	setString(&c.SMTPHost, "SMTP_HOST")
	setString(&c.SMTPUsername, "SMTP_USERNAME")
	setString(&c.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.ReportSender, "REPORT_SENDER")
	setString(&c.ReportRecipient, "REPORT_RECIPIENT")
	setString(&c.ReportTimezone, "REPORT_TIMEZONE")
	setString(&c.AMQPURL, "AMQP_URL")
	setString(&c.OrderQueue, "ORDER_QUEUE")
	setString(&c.TwilioAccountSID, "TWILIO_ACCOUNT_SID")
	setString(&c.TwilioAuthToken, "TWILIO_AUTH_TOKEN")
	setString(&c.TwilioFrom, "TWILIO_FROM")

	if c.SMTPPort == 0 {
		if v, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && v > 0 {
			c.SMTPPort = v
		}
	}
	if len(c.NotifyRecipients) == 0 {
		if v := os.Getenv("NOTIFY_RECIPIENTS"); v != "" {
			for _, r := range strings.Split(v, ",") {
				if r = strings.TrimSpace(r); r != "" {
					c.NotifyRecipients = append(c.NotifyRecipients, r)
				}
			}
		}
	}
}

// ApplyDefaults fills remaining empty fields with package defaults.
func (c *Config) ApplyDefaults() {
	if c.EligibleStatus == "" {
		c.EligibleStatus = DefaultEligibleStatus
	}
	if c.TopK == 0 {
		c.TopK = DefaultTopK
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = DefaultSMTPPort
	}
	if c.OrderQueue == "" {
		c.OrderQueue = DefaultOrderQueue
	}
}

// Location resolves the configured report timezone, defaulting to UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.ReportTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return nil, fmt.Errorf("config error: invalid report_timezone %q: %w", c.ReportTimezone, err)
	}
	return loc, nil
}

// ValidateReport checks the fields the report pipeline requires.
func (c *Config) ValidateReport() error {
	if err := c.validateFormats(); err != nil {
		return err
	}
	required := map[string]string{
		"database_url":     c.DatabaseURL,
		"s3_bucket":        c.S3Bucket,
		"s3_region":        c.S3Region,
		"smtp_host":        c.SMTPHost,
		"report_sender":    c.ReportSender,
		"report_recipient": c.ReportRecipient,
	}
	if err := requireAll(required); err != nil {
		return err
	}
	if c.TopK < 0 {
		return fmt.Errorf("config error: 'top_k' must be non-negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// ValidateNotify checks the fields the notification relay requires.
func (c *Config) ValidateNotify() error {
	required := map[string]string{
		"database_url":       c.DatabaseURL,
		"amqp_url":           c.AMQPURL,
		"twilio_account_sid": c.TwilioAccountSID,
		"twilio_auth_token":  c.TwilioAuthToken,
		"twilio_from":        c.TwilioFrom,
	}
	if err := requireAll(required); err != nil {
		return err
	}
	if len(c.NotifyRecipients) == 0 {
		return fmt.Errorf("config error: 'notify_recipients' must list at least one number")
	}
	return nil
}

// validateFormats runs struct-tag validation (email formats).
func (c *Config) validateFormats() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

func requireAll(fields map[string]string) error {
	// Deterministic order keeps error messages stable for tests.
	keys := []string{
		"database_url", "s3_bucket", "s3_region", "smtp_host",
		"report_sender", "report_recipient", "amqp_url",
		"twilio_account_sid", "twilio_auth_token", "twilio_from",
	}
	for _, k := range keys {
		if v, present := fields[k]; present && v == "" {
			return fmt.Errorf("config error: '%s' is required", k)
		}
	}
	return nil
}

func setString(dst *string, env string) {
	if *dst == "" {
		*dst = os.Getenv(env)
	}
}
