package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	Cache  CacheConfig  `mapstructure:"cache" yaml:"cache"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Census CensusConfig `mapstructure:"census" yaml:"census"`
	Search SearchConfig `mapstructure:"search" yaml:"search"`

	Port string `mapstructure:"port" yaml:"port"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type CacheConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type StoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
}

// CensusConfig points at the demographic statistics service. The URL carries
// the full column selection; the region builder depends on its column order.
type CensusConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// SearchConfig points at the business-listing search service and carries the
// credentials sent with every request.
type SearchConfig struct {
	BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	Term      string `mapstructure:"term" yaml:"term"`
	Limit     int    `mapstructure:"limit" yaml:"limit"`
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`
	From      string `mapstructure:"from" yaml:"from"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	v := viper.New()

	// Set Defaults
	v.SetDefault("port", "8080")
	v.SetDefault("log.path", "bizatlas.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", true)
	v.SetDefault("cache.path", "cache.json")
	v.SetDefault("store.sqlite_path", "data/bizatlas.db")
	v.SetDefault("census.url", "https://api.census.gov/data/2019/acs/acs1/profile?get=NAME,DP05_0037PE,DP05_0065PE,DP02_0067PE,DP03_0062E&for=state:*")
	v.SetDefault("search.base_url", "https://api.yelp.com/v3/businesses/search")
	v.SetDefault("search.term", "black-owned")
	v.SetDefault("search.limit", 50)
	v.SetDefault("search.user_agent", "bizatlas")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	// Support Environment Variables
	v.SetEnvPrefix("BIZATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Census.URL == "" {
		return fmt.Errorf("census.url is required")
	}
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if c.Search.Limit < 1 || c.Search.Limit > 50 {
		return fmt.Errorf("search.limit must be between 1 and 50, got %d", c.Search.Limit)
	}
	return nil
}
