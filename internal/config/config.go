// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fd1az/smart-router/internal/asset"
)

// Venue names accepted by router.default_venue.
const (
	VenuePhoenix  = "phoenix"
	VenueOpenBook = "openbook"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Solana    SolanaConfig    `mapstructure:"solana"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Router    RouterConfig    `mapstructure:"router"`
	Assets    AssetsConfig    `mapstructure:"assets"`
	Phoenix   PhoenixConfig   `mapstructure:"phoenix"`
	OpenBook  OpenBookConfig  `mapstructure:"openbook"`
	Sink      SinkConfig      `mapstructure:"sink"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// SolanaConfig holds the JSON-RPC node settings used for account reads.
type SolanaConfig struct {
	RPCURL            string        `mapstructure:"rpc_url"`
	Commitment        string        `mapstructure:"commitment"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// GatewayConfig holds the signing/execution gateway that submits IOC orders.
type GatewayConfig struct {
	URL     string        `mapstructure:"url"`
	Method  string        `mapstructure:"method"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RouterConfig holds routing policy and the trader's accounts.
type RouterConfig struct {
	DefaultVenue    string `mapstructure:"default_venue"`
	RequireTwoSided bool   `mapstructure:"require_two_sided"`
	Owner           string `mapstructure:"owner"`
	BaseAccount     string `mapstructure:"base_account"`
	QuoteAccount    string `mapstructure:"quote_account"`
}

// OwnerKey returns the trader wallet.
func (c *RouterConfig) OwnerKey() asset.Pubkey {
	return asset.MustParsePubkey(c.Owner)
}

// BaseAccountKey returns the trader's base token account.
func (c *RouterConfig) BaseAccountKey() asset.Pubkey {
	return asset.MustParsePubkey(c.BaseAccount)
}

// QuoteAccountKey returns the trader's quote token account.
func (c *RouterConfig) QuoteAccountKey() asset.Pubkey {
	return asset.MustParsePubkey(c.QuoteAccount)
}

// AssetConfig describes one side of the traded pair.
type AssetConfig struct {
	Symbol   string `mapstructure:"symbol"`
	Mint     string `mapstructure:"mint"`
	Decimals uint8  `mapstructure:"decimals"`
}

// Asset builds the asset described by c.
func (c *AssetConfig) Asset() *asset.Asset {
	return asset.NewAsset(asset.MustParsePubkey(c.Mint), c.Symbol, c.Decimals)
}

// AssetsConfig holds the base and quote assets.
type AssetsConfig struct {
	Base  AssetConfig `mapstructure:"base"`
	Quote AssetConfig `mapstructure:"quote"`
}

// PhoenixConfig holds the ladder venue market account.
type PhoenixConfig struct {
	Market string `mapstructure:"market"`
}

// MarketKey returns the market account.
func (c *PhoenixConfig) MarketKey() asset.Pubkey {
	return asset.MustParsePubkey(c.Market)
}

// OpenBookConfig holds the tree venue market and slab accounts.
type OpenBookConfig struct {
	Market string `mapstructure:"market"`
	Bids   string `mapstructure:"bids"`
	Asks   string `mapstructure:"asks"`
}

// MarketKey returns the market account.
func (c *OpenBookConfig) MarketKey() asset.Pubkey {
	return asset.MustParsePubkey(c.Market)
}

// BidsKey returns the bids slab account.
func (c *OpenBookConfig) BidsKey() asset.Pubkey {
	return asset.MustParsePubkey(c.Bids)
}

// AsksKey returns the asks slab account.
func (c *OpenBookConfig) AsksKey() asset.Pubkey {
	return asset.MustParsePubkey(c.Asks)
}

// SinkConfig selects where outcome records go.
type SinkConfig struct {
	Console     bool   `mapstructure:"console"`
	RedisURL    string `mapstructure:"redis_url"`
	RedisStream string `mapstructure:"redis_stream"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	Provider       string `mapstructure:"provider"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("ROUTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

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
	v.BindEnv("app.name", "ROUTER_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ROUTER_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ROUTER_LOG_LEVEL", "LOG_LEVEL")

	// Solana
	v.BindEnv("solana.rpc_url", "ROUTER_SOLANA_RPC_URL", "SOLANA_RPC_URL")
	v.BindEnv("solana.commitment", "ROUTER_SOLANA_COMMITMENT")

	// Gateway
	v.BindEnv("gateway.url", "ROUTER_GATEWAY_URL", "GATEWAY_URL")

	// Router
	v.BindEnv("router.default_venue", "ROUTER_DEFAULT_VENUE")
	v.BindEnv("router.owner", "ROUTER_OWNER", "WALLET_PUBKEY")
	v.BindEnv("router.base_account", "ROUTER_BASE_ACCOUNT")
	v.BindEnv("router.quote_account", "ROUTER_QUOTE_ACCOUNT")

	// Markets
	v.BindEnv("phoenix.market", "ROUTER_PHOENIX_MARKET")
	v.BindEnv("openbook.market", "ROUTER_OPENBOOK_MARKET")
	v.BindEnv("openbook.bids", "ROUTER_OPENBOOK_BIDS")
	v.BindEnv("openbook.asks", "ROUTER_OPENBOOK_ASKS")

	// Sink
	v.BindEnv("sink.redis_url", "ROUTER_REDIS_URL", "REDIS_URL")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ROUTER_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ROUTER_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ROUTER_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "smart-router")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Solana defaults
	v.SetDefault("solana.rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("solana.commitment", "confirmed")
	v.SetDefault("solana.requests_per_minute", 600)
	v.SetDefault("solana.timeout", "10s")

	// Gateway defaults
	v.SetDefault("gateway.method", "router_submitOrder")
	v.SetDefault("gateway.timeout", "30s")

	// Router defaults
	v.SetDefault("router.default_venue", VenuePhoenix)
	v.SetDefault("router.require_two_sided", false)

	// SOL/USDC defaults
	v.SetDefault("assets.base.symbol", "SOL")
	v.SetDefault("assets.base.mint", asset.MintWrappedSOL)
	v.SetDefault("assets.base.decimals", 9)
	v.SetDefault("assets.quote.symbol", "USDC")
	v.SetDefault("assets.quote.mint", asset.MintUSDC)
	v.SetDefault("assets.quote.decimals", 6)

	// Sink defaults
	v.SetDefault("sink.console", true)
	v.SetDefault("sink.redis_stream", "router:outcomes")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "smart-router")
	v.SetDefault("telemetry.provider", "zipkin")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Solana.RPCURL == "" {
		return fmt.Errorf("solana.rpc_url is required")
	}
	if c.Gateway.URL == "" {
		return fmt.Errorf("gateway.url is required")
	}
	if c.Gateway.Method == "" {
		return fmt.Errorf("gateway.method is required")
	}

	switch c.Router.DefaultVenue {
	case VenuePhoenix, VenueOpenBook:
	default:
		return fmt.Errorf("router.default_venue must be %q or %q, got %q", VenuePhoenix, VenueOpenBook, c.Router.DefaultVenue)
	}

	keys := []struct {
		name  string
		value string
	}{
		{"router.owner", c.Router.Owner},
		{"router.base_account", c.Router.BaseAccount},
		{"router.quote_account", c.Router.QuoteAccount},
		{"assets.base.mint", c.Assets.Base.Mint},
		{"assets.quote.mint", c.Assets.Quote.Mint},
		{"phoenix.market", c.Phoenix.Market},
		{"openbook.market", c.OpenBook.Market},
		{"openbook.bids", c.OpenBook.Bids},
		{"openbook.asks", c.OpenBook.Asks},
	}
	for _, k := range keys {
		if k.value == "" {
			return fmt.Errorf("%s is required", k.name)
		}
		if _, err := asset.ParsePubkey(k.value); err != nil {
			return fmt.Errorf("invalid %s: %w", k.name, err)
		}
	}

	for name, a := range map[string]AssetConfig{"base": c.Assets.Base, "quote": c.Assets.Quote} {
		if a.Symbol == "" {
			return fmt.Errorf("assets.%s.symbol is required", name)
		}
		if a.Decimals > asset.MaxDecimals {
			return fmt.Errorf("assets.%s.decimals must be <= %d", name, asset.MaxDecimals)
		}
	}
	if c.Assets.Base.Mint == c.Assets.Quote.Mint {
		return fmt.Errorf("assets.base.mint and assets.quote.mint must differ")
	}

	if c.Solana.RequestsPerMinute <= 0 {
		return fmt.Errorf("solana.requests_per_minute must be positive")
	}
	return nil
}
