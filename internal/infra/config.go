package infra

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"quicky/internal/domain"
)

const defaultTimeoutSec = 10

// Config holds everything the tool needs for one invocation. It is built
// once by LoadConfig and treated as read-only afterwards.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		Bybit struct {
			RestURL        string `yaml:"rest_url"`
			TestnetRestURL string `yaml:"testnet_rest_url"`

			// Exactly one credential pair is active at a time, selected by
			// UseTestnet. The inactive pair may be left empty.
			APIKey           string `yaml:"api_key"`
			APISecret        string `yaml:"api_secret"`
			TestnetAPIKey    string `yaml:"testnet_api_key"`
			TestnetAPISecret string `yaml:"testnet_api_secret"`

			UseTestnet bool `yaml:"use_testnet"`
			TimeoutSec int  `yaml:"timeout_sec"`
		} `yaml:"bybit"`
	} `yaml:"api"`

	Trading TradingConfig `yaml:"trading"`

	Journal struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"` // empty selects the per-user default
	} `yaml:"journal"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// TradingConfig holds the pricing inputs for order placement.
type TradingConfig struct {
	// StopLossPcnt is a percentage: 0.2 means 0.2%.
	StopLossPcnt decimal.Decimal
	// TickSteps maps symbol (case-sensitive) to its tick size. An order
	// against a symbol missing here fails before any network call.
	TickSteps map[string]decimal.Decimal
}

// UnmarshalYAML decodes the trading section, parsing prices as decimals.
// Values are written as quoted strings in the file so they survive yaml
// float handling intact.
func (t *TradingConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		StopLossPcnt string            `yaml:"stop_loss_pcnt"`
		TickSteps    map[string]string `yaml:"tick_steps"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	pcnt, err := decimal.NewFromString(raw.StopLossPcnt)
	if err != nil {
		return fmt.Errorf("stop_loss_pcnt: %w", err)
	}
	t.StopLossPcnt = pcnt

	t.TickSteps = make(map[string]decimal.Decimal, len(raw.TickSteps))
	for symbol, s := range raw.TickSteps {
		tick, err := decimal.NewFromString(s)
		if err != nil {
			return fmt.Errorf("tick_steps.%s: %w", symbol, err)
		}
		t.TickSteps[symbol] = tick
	}
	return nil
}

// LoadConfig reads and parses the configuration file, applies environment
// overrides for credentials (including a .env file when present), and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Field: "file", Err: err}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &domain.ConfigError{Field: "yaml", Err: err}
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// overrideWithEnv lets credentials come from the environment so secrets
// never have to live in the config file. The variable names match the
// exchange-prefixed convention.
func overrideWithEnv(cfg *Config) {
	if key := os.Getenv("BYBIT_API_KEY"); key != "" {
		cfg.API.Bybit.APIKey = key
	}
	if secret := os.Getenv("BYBIT_API_SECRET"); secret != "" {
		cfg.API.Bybit.APISecret = secret
	}
	if key := os.Getenv("BYBIT_TESTNET_API_KEY"); key != "" {
		cfg.API.Bybit.TestnetAPIKey = key
	}
	if secret := os.Getenv("BYBIT_TESTNET_API_SECRET"); secret != "" {
		cfg.API.Bybit.TestnetAPISecret = secret
	}
}

// Validate checks configuration validity. Only the active credential pair is
// required to be present.
func (c *Config) Validate() error {
	if !strings.HasPrefix(c.API.Bybit.RestURL, "https://") {
		return &domain.ConfigError{Field: "api.bybit.rest_url", Err: fmt.Errorf("must be https, got %q", c.API.Bybit.RestURL)}
	}
	if !strings.HasPrefix(c.API.Bybit.TestnetRestURL, "https://") {
		return &domain.ConfigError{Field: "api.bybit.testnet_rest_url", Err: fmt.Errorf("must be https, got %q", c.API.Bybit.TestnetRestURL)}
	}
	if c.API.Bybit.TimeoutSec < 0 {
		return &domain.ConfigError{Field: "api.bybit.timeout_sec", Err: errors.New("cannot be negative")}
	}

	key, secret := c.ActiveKeyPair()
	if key == "" || secret == "" {
		field := "api.bybit.api_key"
		if c.API.Bybit.UseTestnet {
			field = "api.bybit.testnet_api_key"
		}
		return &domain.ConfigError{Field: field, Err: errors.New("active credential pair is not set")}
	}

	if c.Trading.StopLossPcnt.Sign() <= 0 || c.Trading.StopLossPcnt.GreaterThanOrEqual(decimal.New(100, 0)) {
		return &domain.ConfigError{Field: "trading.stop_loss_pcnt", Err: fmt.Errorf("must be in (0, 100), got %s", c.Trading.StopLossPcnt)}
	}
	if len(c.Trading.TickSteps) == 0 {
		return &domain.ConfigError{Field: "trading.tick_steps", Err: errors.New("at least one symbol is required")}
	}
	for symbol, tick := range c.Trading.TickSteps {
		if tick.Sign() <= 0 {
			return &domain.ConfigError{Field: "trading.tick_steps." + symbol, Err: fmt.Errorf("tick size must be positive, got %s", tick)}
		}
	}

	return nil
}

// ActiveKeyPair returns the credential pair selected by the environment flag.
func (c *Config) ActiveKeyPair() (key, secret string) {
	if c.API.Bybit.UseTestnet {
		return c.API.Bybit.TestnetAPIKey, c.API.Bybit.TestnetAPISecret
	}
	return c.API.Bybit.APIKey, c.API.Bybit.APISecret
}

// ActiveBaseURL returns the REST base URL selected by the environment flag.
func (c *Config) ActiveBaseURL() string {
	if c.API.Bybit.UseTestnet {
		return c.API.Bybit.TestnetRestURL
	}
	return c.API.Bybit.RestURL
}

// HTTPTimeout returns the configured request timeout. Every network call is
// bounded by this; there is no unbounded wait.
func (c *Config) HTTPTimeout() time.Duration {
	sec := c.API.Bybit.TimeoutSec
	if sec == 0 {
		sec = defaultTimeoutSec
	}
	return time.Duration(sec) * time.Second
}
