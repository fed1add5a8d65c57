// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	Authority         string `mapstructure:"authority"`
	AssetRate         uint64 `mapstructure:"asset_rate"`
	CreatorSellDelay  int64  `mapstructure:"creator_sell_delay"`
	GraduateThreshold uint64 `mapstructure:"graduate_threshold"`
	BuyFeeBps         uint32 `mapstructure:"buy_fee_bps"`
	SellFeeBps        uint32 `mapstructure:"sell_fee_bps"`
	WebhookURL        string `mapstructure:"webhook_url"`
	PostgresURL       string `mapstructure:"postgres_url"`
	EventBuffer       int    `mapstructure:"event_buffer"`
	DebugLogging      bool   `mapstructure:"debug_logging"`
	LogFile           string `mapstructure:"log_file"`
}

const (
	DefaultAssetRate   = 7
	DefaultBuyFeeBps   = 5000
	DefaultSellFeeBps  = 5000
	DefaultEventBuffer = 100
	DefaultLogFile     = "launchpad.log"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"asset_rate":   DefaultAssetRate,
		"buy_fee_bps":  DefaultBuyFeeBps,
		"sell_fee_bps": DefaultSellFeeBps,
		"event_buffer": DefaultEventBuffer,
		"log_file":     DefaultLogFile,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.Authority == "" {
		return errors.New("missing authority in configuration")
	}
	if err := validateNumericParams(cfg); err != nil {
		return err
	}
	if cfg.WebhookURL != "" {
		if err := validateURLWithCache(cfg.WebhookURL, "https"); err != nil {
			return errors.New("webhook URL must use HTTPS")
		}
	}
	return nil
}

func validateNumericParams(cfg *Config) error {
	if cfg.AssetRate == 0 {
		return errors.New("invalid asset_rate")
	}
	if cfg.GraduateThreshold == 0 {
		return errors.New("invalid graduate_threshold")
	}
	if cfg.CreatorSellDelay <= 0 {
		return errors.New("invalid creator_sell_delay")
	}
	if cfg.EventBuffer <= 0 {
		return errors.New("invalid event_buffer")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envAuthority := v.GetString("AUTHORITY")
	if envAuthority != "" {
		cfg.Authority = envAuthority
	}

	envPostgres := v.GetString("POSTGRES_URL")
	if envPostgres != "" {
		cfg.PostgresURL = envPostgres
	}
	return nil
}
