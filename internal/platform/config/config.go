package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// RateAccounts maps one tax rate to its revenue and tax-collected accounts.
type RateAccounts struct {
	Rate           decimal.Decimal
	RevenueAccount string
	TaxAccount     string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	JWTSecret     string
	CORSOrigins   []string

	// Signing
	SigningKeyPath       string
	SigningKeyPassphrase string `mapstructure:"SIGNING_KEY_PASSPHRASE"`
	SealedDocumentTypes  []string
	IntegrityClockSkew   time.Duration
	IntegrityMaxAge      time.Duration

	// Posting
	SalesJournalCode     string
	ReceivableAccount    string
	ExemptRevenueAccount string
	RateAccounts         []RateAccounts

	// Audit
	AuditRedactionMaxLength int
	BusinessHourStart       int
	BusinessHourEnd         int
	BusinessTimezone        *time.Location
	FlagWeekends            bool
	BulkDeleteThreshold     int
	BulkDeleteWindow        time.Duration

	// Export
	ExportDir       string
	ExportRateLimit string
	ChartCacheSize  int
	MigrationsPath  string
}

const defaultRateAccounts = "20:701000:445711,10:701100:445712,5.5:701200:445713,2.1:701300:445714"

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("SIGNING_KEY_PATH", "")
	viper.SetDefault("SIGNING_KEY_PASSPHRASE", "")
	viper.SetDefault("SEALED_DOCUMENT_TYPES", "invoice,credit_note,quote,ledger_entry")
	viper.SetDefault("INTEGRITY_CLOCK_SKEW", "5m")
	viper.SetDefault("INTEGRITY_MAX_AGE", "175320h") // 20 years
	viper.SetDefault("SALES_JOURNAL_CODE", "VT")
	viper.SetDefault("RECEIVABLE_ACCOUNT", "411000")
	viper.SetDefault("EXEMPT_REVENUE_ACCOUNT", "701900")
	viper.SetDefault("RATE_ACCOUNTS", defaultRateAccounts)
	viper.SetDefault("AUDIT_REDACTION_MAX_LENGTH", 1000)
	viper.SetDefault("BUSINESS_HOUR_START", 7)
	viper.SetDefault("BUSINESS_HOUR_END", 20)
	viper.SetDefault("BUSINESS_TIMEZONE", "Europe/Paris")
	viper.SetDefault("FLAG_WEEKENDS", true)
	viper.SetDefault("BULK_DELETE_THRESHOLD", 10)
	viper.SetDefault("BULK_DELETE_WINDOW", "5m")
	viper.SetDefault("EXPORT_DIR", "./exports")
	viper.SetDefault("EXPORT_RATE_LIMIT", "10-M")
	viper.SetDefault("CHART_CACHE_SIZE", 512)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		log.Println("Warning: JWT_SECRET not set. The HTTP API will reject every request.")
	}

	cfg.CORSOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.SigningKeyPath = viper.GetString("SIGNING_KEY_PATH")
	if cfg.SigningKeyPath == "" {
		log.Println("Warning: SIGNING_KEY_PATH not set. Sealing will fail with a configuration error.")
	}
	cfg.SigningKeyPassphrase = viper.GetString("SIGNING_KEY_PASSPHRASE")
	cfg.SealedDocumentTypes = splitList(viper.GetString("SEALED_DOCUMENT_TYPES"))

	cfg.IntegrityClockSkew = durationOrDefault("INTEGRITY_CLOCK_SKEW", 5*time.Minute)
	cfg.IntegrityMaxAge = durationOrDefault("INTEGRITY_MAX_AGE", 20*365*24*time.Hour)

	cfg.SalesJournalCode = viper.GetString("SALES_JOURNAL_CODE")
	cfg.ReceivableAccount = viper.GetString("RECEIVABLE_ACCOUNT")
	cfg.ExemptRevenueAccount = viper.GetString("EXEMPT_REVENUE_ACCOUNT")
	rates, err := ParseRateAccounts(viper.GetString("RATE_ACCOUNTS"))
	if err != nil {
		return nil, err
	}
	cfg.RateAccounts = rates

	cfg.AuditRedactionMaxLength = viper.GetInt("AUDIT_REDACTION_MAX_LENGTH")
	cfg.BusinessHourStart = viper.GetInt("BUSINESS_HOUR_START")
	cfg.BusinessHourEnd = viper.GetInt("BUSINESS_HOUR_END")
	if cfg.BusinessHourStart < 0 || cfg.BusinessHourEnd > 24 || cfg.BusinessHourStart >= cfg.BusinessHourEnd {
		return nil, fmt.Errorf("invalid business hours %d-%d", cfg.BusinessHourStart, cfg.BusinessHourEnd)
	}
	tzName := viper.GetString("BUSINESS_TIMEZONE")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: Invalid BUSINESS_TIMEZONE ('%s'). Defaulting to UTC.\n", tzName)
		loc = time.UTC
	}
	cfg.BusinessTimezone = loc
	cfg.FlagWeekends = viper.GetBool("FLAG_WEEKENDS")
	cfg.BulkDeleteThreshold = viper.GetInt("BULK_DELETE_THRESHOLD")
	cfg.BulkDeleteWindow = durationOrDefault("BULK_DELETE_WINDOW", 5*time.Minute)

	cfg.ExportDir = viper.GetString("EXPORT_DIR")
	cfg.ExportRateLimit = viper.GetString("EXPORT_RATE_LIMIT")
	cfg.ChartCacheSize = viper.GetInt("CHART_CACHE_SIZE")
	if cfg.ChartCacheSize <= 0 {
		cfg.ChartCacheSize = 512
		log.Printf("Warning: CHART_CACHE_SIZE must be positive. Defaulting to %d.\n", cfg.ChartCacheSize)
	}

	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	return cfg, nil
}

// ParseRateAccounts parses "rate:revenue:tax" triplets separated by commas.
func ParseRateAccounts(raw string) ([]RateAccounts, error) {
	var out []RateAccounts
	for _, item := range splitList(raw) {
		parts := strings.Split(item, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid RATE_ACCOUNTS item %q: want rate:revenue:tax", item)
		}
		rate, err := decimal.NewFromString(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_ACCOUNTS rate %q: %w", parts[0], err)
		}
		out = append(out, RateAccounts{Rate: rate, RevenueAccount: parts[1], TaxAccount: parts[2]})
	}
	return out, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
