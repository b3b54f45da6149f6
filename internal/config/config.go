// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Ethereum   EthereumConfig   `mapstructure:"ethereum"`
	Router     RouterConfig     `mapstructure:"router"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Execution  ExecutionConfig  `mapstructure:"execution"`
	Batch      BatchConfig      `mapstructure:"batch"`
	GasStation GasStationConfig `mapstructure:"gas_station"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// EthereumConfig holds Ethereum node configuration.
type EthereumConfig struct {
	HTTPURL           string        `mapstructure:"http_url"`
	WebSocketURL      string        `mapstructure:"websocket_url"` // optional, head watcher polls without it
	ChainID           uint64        `mapstructure:"chain_id"`
	CallTimeout       time.Duration `mapstructure:"call_timeout"`
	ReadRetries       int           `mapstructure:"read_retries"`
	ReadRetryBackoff  time.Duration `mapstructure:"read_retry_backoff"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxReconnects     int           `mapstructure:"max_reconnects"`
	InitialBackoff    time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff        time.Duration `mapstructure:"max_backoff"`
}

// RouterConfig holds the AMM router contract addresses.
type RouterConfig struct {
	RouterAddress        string `mapstructure:"router_address"`
	WrappedNativeAddress string `mapstructure:"wrapped_native_address"`
}

// RouterAddressHex returns the router address as common.Address.
func (c *RouterConfig) RouterAddressHex() common.Address {
	return common.HexToAddress(c.RouterAddress)
}

// WrappedNativeHex returns the wrapped-native token address as common.Address.
func (c *RouterConfig) WrappedNativeHex() common.Address {
	return common.HexToAddress(c.WrappedNativeAddress)
}

// PricingConfig holds quoting and slippage policy settings. QuoteTTL
// bounds the reference sample cache; trade-size reads are never cached.
type PricingConfig struct {
	QuoteTTL       time.Duration `mapstructure:"quote_ttl"`
	MinSlippageBps int64         `mapstructure:"min_slippage_bps"`
	MaxSlippageBps int64         `mapstructure:"max_slippage_bps"`
}

// ExecutionConfig holds trade execution settings.
type ExecutionConfig struct {
	Deadline            time.Duration `mapstructure:"deadline"`
	ConfirmTimeout      time.Duration `mapstructure:"confirm_timeout"`
	ReceiptPollInterval time.Duration `mapstructure:"receipt_poll_interval"`
	MaxGasPriceGwei     int64         `mapstructure:"max_gas_price_gwei"`
	WalletKeys          []string      `mapstructure:"wallet_keys"` // hex private keys, env only - never logged
}

// DeadlineSeconds returns the swap deadline in whole seconds.
func (c *ExecutionConfig) DeadlineSeconds() int64 {
	return int64(c.Deadline / time.Second)
}

// MaxGasPriceWei returns the gas price ceiling in wei.
func (c *ExecutionConfig) MaxGasPriceWei() *big.Int {
	gwei := big.NewInt(c.MaxGasPriceGwei)
	return gwei.Mul(gwei, big.NewInt(1_000_000_000))
}

// BatchConfig holds batch orchestration defaults.
type BatchConfig struct {
	MaxConcurrent int           `mapstructure:"max_concurrent"`
	InterOpDelay  time.Duration `mapstructure:"inter_op_delay"`
	TUIMode       bool          `mapstructure:"-"` // Set at runtime, not from config file
	DryRun        bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// GasStationConfig holds the external gas price API fallback.
// An empty URL disables the fallback.
type GasStationConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("SWAPDESK")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SWAPDESK_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SWAPDESK_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SWAPDESK_LOG_LEVEL", "LOG_LEVEL")

	// Ethereum
	v.BindEnv("ethereum.http_url", "SWAPDESK_ETH_HTTP_URL", "ETH_HTTP_URL")
	v.BindEnv("ethereum.websocket_url", "SWAPDESK_ETH_WS_URL", "ETH_WS_URL")
	v.BindEnv("ethereum.chain_id", "SWAPDESK_ETH_CHAIN_ID", "ETH_CHAIN_ID")

	// Router
	v.BindEnv("router.router_address", "SWAPDESK_ROUTER", "ROUTER_ADDRESS")
	v.BindEnv("router.wrapped_native_address", "SWAPDESK_WRAPPED_NATIVE", "WRAPPED_NATIVE_ADDRESS")

	// Pricing
	v.BindEnv("pricing.min_slippage_bps", "SWAPDESK_MIN_SLIPPAGE_BPS")
	v.BindEnv("pricing.max_slippage_bps", "SWAPDESK_MAX_SLIPPAGE_BPS")

	// Execution
	v.BindEnv("execution.max_gas_price_gwei", "SWAPDESK_MAX_GAS_PRICE_GWEI")
	v.BindEnv("execution.wallet_keys", "SWAPDESK_WALLET_KEYS", "WALLET_KEYS")

	// Gas station
	v.BindEnv("gas_station.url", "SWAPDESK_GAS_STATION_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SWAPDESK_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SWAPDESK_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SWAPDESK_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "swapdesk")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Ethereum defaults
	v.SetDefault("ethereum.chain_id", 1)
	v.SetDefault("ethereum.call_timeout", "10s")
	v.SetDefault("ethereum.read_retries", 2)
	v.SetDefault("ethereum.read_retry_backoff", "250ms")
	v.SetDefault("ethereum.requests_per_minute", 600)
	v.SetDefault("ethereum.max_reconnects", 0) // infinite
	v.SetDefault("ethereum.initial_backoff", "1s")
	v.SetDefault("ethereum.max_backoff", "30s")

	// Router defaults (Uniswap V2 style, Ethereum Mainnet)
	v.SetDefault("router.router_address", "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	v.SetDefault("router.wrapped_native_address", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	// Pricing defaults
	v.SetDefault("pricing.quote_ttl", "30s")
	v.SetDefault("pricing.min_slippage_bps", 50)
	v.SetDefault("pricing.max_slippage_bps", 500)

	// Execution defaults
	v.SetDefault("execution.deadline", "120s")
	v.SetDefault("execution.confirm_timeout", "3m")
	v.SetDefault("execution.receipt_poll_interval", "2s")
	v.SetDefault("execution.max_gas_price_gwei", 300)

	// Batch defaults
	v.SetDefault("batch.max_concurrent", 4)
	v.SetDefault("batch.inter_op_delay", "500ms")

	// Gas station defaults
	v.SetDefault("gas_station.url", "")
	v.SetDefault("gas_station.timeout", "5s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "swapdesk")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Ethereum.HTTPURL == "" {
		return fmt.Errorf("ethereum.http_url is required")
	}
	if !common.IsHexAddress(c.Router.RouterAddress) {
		return fmt.Errorf("invalid router.router_address: %s", c.Router.RouterAddress)
	}
	if !common.IsHexAddress(c.Router.WrappedNativeAddress) {
		return fmt.Errorf("invalid router.wrapped_native_address: %s", c.Router.WrappedNativeAddress)
	}
	if c.Pricing.MinSlippageBps < 0 || c.Pricing.MaxSlippageBps <= 0 {
		return fmt.Errorf("slippage bounds must be positive")
	}
	if c.Pricing.MinSlippageBps > c.Pricing.MaxSlippageBps {
		return fmt.Errorf("pricing.min_slippage_bps (%d) exceeds pricing.max_slippage_bps (%d)",
			c.Pricing.MinSlippageBps, c.Pricing.MaxSlippageBps)
	}
	if c.Execution.Deadline <= 0 {
		return fmt.Errorf("execution.deadline must be positive")
	}
	if c.Execution.MaxGasPriceGwei <= 0 {
		return fmt.Errorf("execution.max_gas_price_gwei must be positive")
	}
	if c.Batch.MaxConcurrent < 1 {
		return fmt.Errorf("batch.max_concurrent must be at least 1")
	}
	return nil
}
