package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	ProviderScrape = "scrape"
	ProviderPAAPI  = "paapi"
)

type Config struct {
	Affiliate AffiliateConfig
	Fetcher   FetcherConfig
	PAAPI     PAAPIConfig
	Post      PostConfig
	Logging   LoggingConfig
}

type AffiliateConfig struct {
	TrackingTag string
}

type FetcherConfig struct {
	Provider       string
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	PauseMin       time.Duration
	PauseMax       time.Duration
	UserAgent      string
	AcceptLanguage string
	MaxItems       int
}

type PAAPIConfig struct {
	AccessKey string
	SecretKey string
	Host      string
	Region    string
}

type PostConfig struct {
	Keywords   string
	ContentDir string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Affiliate: AffiliateConfig{
			TrackingTag: os.Getenv("ASSOCIATE_TAG"),
		},
		Fetcher: FetcherConfig{
			Provider:       getEnvOrDefault("PRODUCT_PROVIDER", ProviderScrape),
			BaseURL:        getEnvOrDefault("AMAZON_BASE_URL", "https://www.amazon.co.jp"),
			Timeout:        getDurationOrDefault("FETCH_TIMEOUT", 10*time.Second),
			MaxRetries:     getIntOrDefault("FETCH_MAX_RETRIES", 3),
			RetryDelay:     getDurationOrDefault("FETCH_RETRY_DELAY", 2*time.Second),
			PauseMin:       getDurationOrDefault("FETCH_PAUSE_MIN", 1*time.Second),
			PauseMax:       getDurationOrDefault("FETCH_PAUSE_MAX", 3*time.Second),
			UserAgent:      os.Getenv("FETCH_USER_AGENT"),
			AcceptLanguage: getEnvOrDefault("FETCH_ACCEPT_LANGUAGE", "ja-JP,ja;q=0.9,en;q=0.8"),
			MaxItems:       getIntOrDefault("FETCH_MAX_ITEMS", 5),
		},
		PAAPI: PAAPIConfig{
			AccessKey: os.Getenv("PAAPI_ACCESS_KEY"),
			SecretKey: os.Getenv("PAAPI_SECRET_KEY"),
			Host:      getEnvOrDefault("PAAPI_HOST", "webservices.amazon.co.jp"),
			Region:    getEnvOrDefault("PAAPI_REGION", "us-west-2"),
		},
		Post: PostConfig{
			Keywords:   getEnvOrDefault("SEARCH_KEYWORDS", "PCモニター 4K"),
			ContentDir: getEnvOrDefault("CONTENT_DIR", "content/posts"),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Affiliate.TrackingTag == "" {
		return fmt.Errorf("ASSOCIATE_TAG must be set")
	}

	switch c.Fetcher.Provider {
	case ProviderScrape:
	case ProviderPAAPI:
		if c.PAAPI.AccessKey == "" || c.PAAPI.SecretKey == "" {
			return fmt.Errorf("PAAPI_ACCESS_KEY and PAAPI_SECRET_KEY must be set for the paapi provider")
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Fetcher.Provider)
	}

	if c.Fetcher.MaxRetries < 1 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be at least 1")
	}

	if c.Fetcher.PauseMin > c.Fetcher.PauseMax {
		return fmt.Errorf("FETCH_PAUSE_MIN cannot be greater than FETCH_PAUSE_MAX")
	}

	if c.Fetcher.MaxItems < 1 {
		return fmt.Errorf("FETCH_MAX_ITEMS must be at least 1")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
