package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maltedev/amazon-ranking-post/internal/config"
	"github.com/maltedev/amazon-ranking-post/internal/generator"
	"github.com/maltedev/amazon-ranking-post/internal/parser"
	"github.com/maltedev/amazon-ranking-post/internal/provider"
	"github.com/maltedev/amazon-ranking-post/internal/ratelimit"
	"github.com/maltedev/amazon-ranking-post/internal/retry"
)

var (
	urlFile    string
	keywords   string
	contentDir string
)

var rootCmd = &cobra.Command{
	Use:   "postgen",
	Short: "Generates Amazon ranking posts as Markdown.",
}

var generateCmd = &cobra.Command{
	Use:   "generate --file <urls.txt>",
	Short: "Fetches the listed products and writes a ranking post.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		gen := generator.New(buildProvider(cfg), buildLimiter(cfg), generatorOptions(cfg))

		path, err := gen.Run(ctx, urlFile)
		if err != nil {
			return err
		}

		slog.Info("post written", "path", path)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Sources products by keyword via the Product Advertising API and writes a ranking post.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Fetcher.Provider != config.ProviderPAAPI {
			return fmt.Errorf("search requires PRODUCT_PROVIDER=%s", config.ProviderPAAPI)
		}

		ctx, cancel := signalContext()
		defer cancel()

		paapi := buildPAAPI(cfg)
		records, err := paapi.SearchItems(ctx, cfg.Post.Keywords, cfg.Fetcher.MaxItems)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			return generator.ErrNoRecords
		}

		gen := generator.New(paapi, ratelimit.None{}, generatorOptions(cfg))

		path, err := gen.WritePost(records)
		if err != nil {
			return err
		}

		slog.Info("post written", "path", path, "records", len(records))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&urlFile, "file", "urls.txt", "File containing product URLs, one per line.")
	rootCmd.PersistentFlags().StringVar(&keywords, "keywords", "", "Override SEARCH_KEYWORDS for the post title and slug.")
	rootCmd.PersistentFlags().StringVar(&contentDir, "output-dir", "", "Override CONTENT_DIR for the generated file.")
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(searchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if keywords != "" {
		cfg.Post.Keywords = keywords
	}
	if contentDir != "" {
		cfg.Post.ContentDir = contentDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogger(cfg.Logging)
	return cfg, nil
}

func setupLogger(cfg config.LoggingConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func retryPolicy(cfg *config.Config) retry.Policy {
	return retry.Policy{
		MaxAttempts: cfg.Fetcher.MaxRetries,
		Backoff:     retry.LinearBackoff(cfg.Fetcher.RetryDelay),
	}
}

func buildProvider(cfg *config.Config) provider.ProductProvider {
	if cfg.Fetcher.Provider == config.ProviderPAAPI {
		return buildPAAPI(cfg)
	}

	return provider.NewScrapeProvider(provider.ScrapeOptions{
		TrackingTag:    cfg.Affiliate.TrackingTag,
		BaseURL:        cfg.Fetcher.BaseURL,
		Timeout:        cfg.Fetcher.Timeout,
		UserAgent:      cfg.Fetcher.UserAgent,
		AcceptLanguage: cfg.Fetcher.AcceptLanguage,
		Retry:          retryPolicy(cfg),
	}, parser.NewAmazonParser())
}

func buildPAAPI(cfg *config.Config) *provider.PAAPIProvider {
	return provider.NewPAAPIProvider(provider.PAAPIOptions{
		AccessKey:   cfg.PAAPI.AccessKey,
		SecretKey:   cfg.PAAPI.SecretKey,
		TrackingTag: cfg.Affiliate.TrackingTag,
		Host:        cfg.PAAPI.Host,
		Region:      cfg.PAAPI.Region,
		BaseURL:     cfg.Fetcher.BaseURL,
		Timeout:     cfg.Fetcher.Timeout,
		Retry:       retryPolicy(cfg),
	})
}

func buildLimiter(cfg *config.Config) ratelimit.RateLimiter {
	return ratelimit.NewPauseRateLimiter(cfg.Fetcher.PauseMin, cfg.Fetcher.PauseMax)
}

func generatorOptions(cfg *config.Config) generator.Options {
	return generator.Options{
		Keywords:   cfg.Post.Keywords,
		ContentDir: cfg.Post.ContentDir,
		MaxItems:   cfg.Fetcher.MaxItems,
	}
}
