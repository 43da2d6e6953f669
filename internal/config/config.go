package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/octavehouse/storefront/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment   DeploymentConfig   `validate:"required"`
	Server       ServerConfig       `validate:"required"`
	Logging      LoggingConfig      `validate:"required"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Payment      PaymentConfig      `mapstructure:"payment"`
	DynamoDB     DynamoDBConfig     `mapstructure:"dynamodb"`
	Cache        CacheConfig        `mapstructure:"cache"`
	RateLimit    RateLimitConfig    `mapstructure:"ratelimit"`
	Notification NotificationConfig `mapstructure:"notification"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

// AuthConfig configures owner authentication for the admin console
type AuthConfig struct {
	// Secret is the HMAC signing secret for owner JWTs
	Secret string `mapstructure:"secret"`
	// OwnerEmails are the accounts allowed to perform admin actions
	OwnerEmails []string `mapstructure:"owner_emails"`
	// TokenExpiry bounds the validity of issued tokens
	TokenExpiry time.Duration `mapstructure:"token_expiry" default:"24h"`
}

// IsOwnerEmail reports whether the given email belongs to a store owner
func (c AuthConfig) IsOwnerEmail(email string) bool {
	for _, owner := range c.OwnerEmails {
		if strings.EqualFold(owner, email) {
			return true
		}
	}
	return false
}

// PaymentConfig configures the external payment processor integration
type PaymentConfig struct {
	// APIKey is the processor secret key used for checkout session creation
	APIKey string `mapstructure:"api_key"`
	// WebhookSecret is the shared secret used to verify inbound event signatures
	WebhookSecret string `mapstructure:"webhook_secret"`
	SuccessURL    string `mapstructure:"success_url"`
	CancelURL     string `mapstructure:"cancel_url"`
	// ShippingFlatRate is the flat shipping cost applied to every order
	ShippingFlatRate float64 `mapstructure:"shipping_flat_rate" default:"9.0"`
	Currency         string  `mapstructure:"currency" default:"eur"`
}

type DynamoDBConfig struct {
	InUse     bool   `mapstructure:"in_use"`
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	TableName string `mapstructure:"table_name" default:"storefront-ledgers"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ActionLimitConfig configures the sliding window for a single action type
type ActionLimitConfig struct {
	MaxAttempts   int           `mapstructure:"max_attempts"`
	Window        time.Duration `mapstructure:"window"`
	BlockDuration time.Duration `mapstructure:"block_duration"`
}

// RateLimitConfig holds per action sliding window settings
type RateLimitConfig struct {
	Login        ActionLimitConfig `mapstructure:"login"`
	Signup       ActionLimitConfig `mapstructure:"signup"`
	WaitlistJoin ActionLimitConfig `mapstructure:"waitlist_join"`
}

// ForAction returns the limit config for the given action type
func (c RateLimitConfig) ForAction(action types.RateLimitAction) ActionLimitConfig {
	switch action {
	case types.RateLimitActionLogin:
		return c.Login
	case types.RateLimitActionSignup:
		return c.Signup
	case types.RateLimitActionWaitlistJoin:
		return c.WaitlistJoin
	}
	return ActionLimitConfig{}
}

// NotificationConfig configures the fulfillment notification collaborator
type NotificationConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout" default:"10s"`
}

func NewConfig() (*Configuration, error) {
	// Load .env if present; real deployments rely on the environment
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.ModeLocal))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("payment.shipping_flat_rate", 9.0)
	v.SetDefault("payment.currency", "eur")
	v.SetDefault("dynamodb.table_name", "storefront-ledgers")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("notification.timeout", "10s")

	// Sliding window defaults per action type
	v.SetDefault("ratelimit.login.max_attempts", 5)
	v.SetDefault("ratelimit.login.window", "15m")
	v.SetDefault("ratelimit.login.block_duration", "30m")
	v.SetDefault("ratelimit.signup.max_attempts", 3)
	v.SetDefault("ratelimit.signup.window", "1h")
	v.SetDefault("ratelimit.signup.block_duration", "1h")
	v.SetDefault("ratelimit.waitlist_join.max_attempts", 3)
	v.SetDefault("ratelimit.waitlist_join.window", "1h")
	v.SetDefault("ratelimit.waitlist_join.block_duration", "24h")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and unit tests
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Payment: PaymentConfig{
			WebhookSecret:    "whsec_test_secret",
			ShippingFlatRate: 9.0,
			Currency:         "eur",
		},
		Cache: CacheConfig{Enabled: true},
		RateLimit: RateLimitConfig{
			Login:        ActionLimitConfig{MaxAttempts: 5, Window: 15 * time.Minute, BlockDuration: 30 * time.Minute},
			Signup:       ActionLimitConfig{MaxAttempts: 3, Window: time.Hour, BlockDuration: time.Hour},
			WaitlistJoin: ActionLimitConfig{MaxAttempts: 3, Window: time.Hour, BlockDuration: 24 * time.Hour},
		},
	}
}
