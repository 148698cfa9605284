package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	JWTSecret    string
	RateLimit    string // ulule/limiter formatted rate, e.g. "100-M"

	// Provider identity and capabilities.
	ProviderName         string
	MultiCurrencySupport bool
	MultiWorldSupport    bool
	SharedAccountSupport bool

	// Default scope used when a caller omits world/currency.
	DefaultWorld            string
	DefaultCurrency         string
	DefaultCurrencySingular string
	DefaultCurrencyPlural   string
	DefaultCurrencySymbol   string
	// CurrencyFractionalDigits is the rounding policy for the default
	// currency; -1 disables rounding.
	CurrencyFractionalDigits int

	// Ledger behavior.
	AllowNegativeBalances bool
	// MaxBalanceDigits caps balances at 10^n in absolute value; mutations
	// beyond the cap fail with overflow.
	MaxBalanceDigits int
	// LockTimeout bounds per-key lock acquisition; a timeout surfaces to the
	// caller as a retryable failure rather than a hang.
	LockTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("PROVIDER_NAME", "treasury")
	viper.SetDefault("MULTI_CURRENCY_SUPPORT", true)
	viper.SetDefault("MULTI_WORLD_SUPPORT", true)
	viper.SetDefault("SHARED_ACCOUNT_SUPPORT", true)
	viper.SetDefault("DEFAULT_WORLD", "world")
	viper.SetDefault("DEFAULT_CURRENCY", "coin")
	viper.SetDefault("DEFAULT_CURRENCY_SINGULAR", "Coin")
	viper.SetDefault("DEFAULT_CURRENCY_PLURAL", "Coins")
	viper.SetDefault("DEFAULT_CURRENCY_SYMBOL", "c")
	viper.SetDefault("CURRENCY_FRACTIONAL_DIGITS", 2)
	viper.SetDefault("ALLOW_NEGATIVE_BALANCES", false)
	viper.SetDefault("MAX_BALANCE_DIGITS", 15)
	viper.SetDefault("LOCK_TIMEOUT", "5s")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.ProviderName = viper.GetString("PROVIDER_NAME")
	cfg.MultiCurrencySupport = viper.GetBool("MULTI_CURRENCY_SUPPORT")
	cfg.MultiWorldSupport = viper.GetBool("MULTI_WORLD_SUPPORT")
	cfg.SharedAccountSupport = viper.GetBool("SHARED_ACCOUNT_SUPPORT")
	cfg.DefaultWorld = viper.GetString("DEFAULT_WORLD")
	cfg.DefaultCurrency = viper.GetString("DEFAULT_CURRENCY")
	cfg.DefaultCurrencySingular = viper.GetString("DEFAULT_CURRENCY_SINGULAR")
	cfg.DefaultCurrencyPlural = viper.GetString("DEFAULT_CURRENCY_PLURAL")
	cfg.DefaultCurrencySymbol = viper.GetString("DEFAULT_CURRENCY_SYMBOL")
	cfg.CurrencyFractionalDigits = viper.GetInt("CURRENCY_FRACTIONAL_DIGITS")
	cfg.AllowNegativeBalances = viper.GetBool("ALLOW_NEGATIVE_BALANCES")
	cfg.MaxBalanceDigits = viper.GetInt("MAX_BALANCE_DIGITS")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	lockTimeoutStr := viper.GetString("LOCK_TIMEOUT")
	lockTimeout, err := time.ParseDuration(lockTimeoutStr)
	if err != nil {
		log.Printf("Warning: Invalid LOCK_TIMEOUT duration format: '%s'. Defaulting to 5s. Error: %v\n", lockTimeoutStr, err)
		lockTimeout = 5 * time.Second
	}
	cfg.LockTimeout = lockTimeout

	return cfg, nil
}
