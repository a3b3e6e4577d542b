package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"gamewin/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr     string
	GatewayToken string // Shared secret expected from the upstream gateway, empty disables the check

	// Ledger configuration
	TxTimeout     time.Duration // Upper bound for a single unit of work
	TxMaxAttempts int           // Attempts per unit of work on ErrConflict
	LockTimeout   time.Duration // Longest wait for a row lock inside a unit of work

	// Rewards configuration
	DailyBonusDil      int64
	DailyBonusCash     decimal.Decimal
	BonusTimezone      string // IANA zone used to decide the calendar day of a bonus claim
	DefaultSpinDilCost int64

	// Accounts
	BcryptCost int

	// Scheduler
	TournamentStartInterval time.Duration

	// NATS configuration
	NATSEnabled bool
	NATSServers string

	// Discord announcements
	DiscordToken           string
	DiscordAnnounceChannel string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelServiceName          string
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelExportIntervalMillis int

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL returns the complete database URL
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	if os.Getenv("ENVIRONMENT") != "test" {
		// .env is optional
		_ = godotenv.Load()
	}

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr:     getEnvWithDefault("HTTP_ADDR", ":5000"),
		GatewayToken: os.Getenv("GATEWAY_TOKEN"),

		TxTimeout:     5 * time.Second,
		TxMaxAttempts: 3,
		LockTimeout:   2 * time.Second,

		DailyBonusDil:      10,
		DailyBonusCash:     decimal.RequireFromString("5.00"),
		BonusTimezone:      getEnvWithDefault("BONUS_TIMEZONE", "UTC"),
		DefaultSpinDilCost: 10,

		BcryptCost: 12,

		TournamentStartInterval: time.Minute,

		NATSEnabled: os.Getenv("NATS_ENABLED") == "true",
		NATSServers: getEnvWithDefault("NATS_SERVERS", "nats://nats:4222"),

		DiscordToken:           os.Getenv("DISCORD_TOKEN"),
		DiscordAnnounceChannel: os.Getenv("DISCORD_ANNOUNCE_CHANNEL_ID"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "gamewin"),
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "otel-collector:4317"),
		OTelExportIntervalMillis: 30000,

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if timeout := os.Getenv("TX_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil {
			config.TxTimeout = parsed
		}
	}
	if attempts := os.Getenv("TX_MAX_ATTEMPTS"); attempts != "" {
		if parsed, err := strconv.Atoi(attempts); err == nil && parsed > 0 {
			config.TxMaxAttempts = parsed
		}
	}
	if timeout := os.Getenv("LOCK_TIMEOUT"); timeout != "" {
		if parsed, err := time.ParseDuration(timeout); err == nil {
			config.LockTimeout = parsed
		}
	}
	if dil := os.Getenv("DAILY_BONUS_DIL"); dil != "" {
		if parsed, err := strconv.ParseInt(dil, 10, 64); err == nil {
			config.DailyBonusDil = parsed
		}
	}
	if cash := os.Getenv("DAILY_BONUS_CASH"); cash != "" {
		parsed, err := decimal.NewFromString(cash)
		if err != nil {
			return nil, fmt.Errorf("invalid DAILY_BONUS_CASH %q: %w", cash, err)
		}
		config.DailyBonusCash = parsed
	}
	if cost := os.Getenv("DEFAULT_SPIN_DIL_COST"); cost != "" {
		if parsed, err := strconv.ParseInt(cost, 10, 64); err == nil {
			config.DefaultSpinDilCost = parsed
		}
	}
	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		if parsed, err := strconv.Atoi(cost); err == nil {
			config.BcryptCost = parsed
		}
	}
	if interval := os.Getenv("TOURNAMENT_START_INTERVAL"); interval != "" {
		if parsed, err := time.ParseDuration(interval); err == nil {
			config.TournamentStartInterval = parsed
		}
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil {
			config.OTelExportIntervalMillis = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if err := config.validate(); err != nil {
			return nil, err
		}
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	if c.DailyBonusCash.IsNegative() || c.DailyBonusDil < 0 {
		return fmt.Errorf("daily bonus amounts cannot be negative")
	}
	if c.DefaultSpinDilCost <= 0 {
		return fmt.Errorf("DEFAULT_SPIN_DIL_COST must be positive")
	}
	if _, err := time.LoadLocation(c.BonusTimezone); err != nil {
		return fmt.Errorf("invalid BONUS_TIMEZONE %q: %w", c.BonusTimezone, err)
	}
	if c.DiscordToken != "" && c.DiscordAnnounceChannel == "" {
		return fmt.Errorf("DISCORD_ANNOUNCE_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SetTestConfig sets a test configuration (only for use in tests)
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the configuration singleton (only for use in tests)
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a new test configuration with sensible defaults
func NewTestConfig() *Config {
	return &Config{
		Environment:             "test",
		HTTPAddr:                ":0",
		TxTimeout:               5 * time.Second,
		TxMaxAttempts:           3,
		LockTimeout:             2 * time.Second,
		DailyBonusDil:           10,
		DailyBonusCash:          decimal.RequireFromString("5.00"),
		BonusTimezone:           "UTC",
		DefaultSpinDilCost:      10,
		BcryptCost:              4, // bcrypt.MinCost
		TournamentStartInterval: time.Minute,
		OTelServiceName:         "gamewin-test",
		OTelExporterType:        "none",
		LogLevel:                "debug",
	}
}
