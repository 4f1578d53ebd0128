// Package config loads the process configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tracker/internal/core"
)

const dateLayout = "2006-01-02"

type Config struct {
	// Ingest source
	Source    string // "csv" or "sheets"
	CSVPath   string
	ReportDir string

	// Database
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
	Enqueue      bool

	// Worker
	IngestInterval time.Duration

	// Challenge calendar
	ChallengeEpoch time.Time
	CutoverDate    time.Time

	// Google Sheets source
	GoogleSpreadsheetID string
	GoogleSheetName     string
}

func Load() *Config {
	cal := core.DefaultCalendar()

	return &Config{
		Source:    getEnv("TRACKER_SOURCE", "csv"),
		CSVPath:   getEnv("TRACKER_CSV_PATH", "./data/harvest_time_report.csv"),
		ReportDir: getEnv("TRACKER_REPORT_DIR", "./outputs"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tracker.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tracker"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ingest_entries"),
		Enqueue:      getEnvBool("TRACKER_ENQUEUE", false),

		IngestInterval: getEnvDuration("INGEST_INTERVAL", 30*time.Minute),

		ChallengeEpoch: getEnvDate("CHALLENGE_EPOCH", cal.Epoch),
		CutoverDate:    getEnvDate("CT_TYPE_CUTOVER", cal.Cutover),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", ""),
	}
}

// Calendar returns the challenge calendar configured for this process.
func (c *Config) Calendar() core.Calendar {
	return core.Calendar{Epoch: c.ChallengeEpoch, Cutover: c.CutoverDate}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	var errors []string

	validSources := []string{"csv", "sheets"}
	isValidSource := false
	for _, s := range validSources {
		if c.Source == s {
			isValidSource = true
			break
		}
	}
	if !isValidSource {
		errors = append(errors, fmt.Sprintf("invalid source '%s': must be one of %v", c.Source, validSources))
	}

	if c.Source == "csv" && c.CSVPath == "" {
		errors = append(errors, "CSV path cannot be empty when using the csv source")
	}
	if c.Source == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using the sheets source")
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if err := c.Calendar().Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid challenge calendar: %v", err))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}
	if c.Enqueue && c.AMQPURL == "" {
		errors = append(errors, "TRACKER_ENQUEUE requires an AMQP URL")
	}

	if c.IngestInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid ingest interval %v: must be at least 1 second", c.IngestInterval))
	} else if c.IngestInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid ingest interval %v: must be at most 24 hours", c.IngestInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if d, err := time.Parse(dateLayout, value); err == nil {
			return d
		}
	}
	return defaultValue
}
