package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/maltedev/amazon-ranking-post/internal/models"
	"github.com/maltedev/amazon-ranking-post/internal/parser"
	"github.com/maltedev/amazon-ranking-post/internal/retry"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type ScrapeOptions struct {
	TrackingTag    string
	BaseURL        string
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string
	Retry          retry.Policy
}

// ScrapeProvider is the reference ProductProvider: a plain HTTP GET against
// the canonical product page, with bounded retry on transport failures and
// bot challenges.
type ScrapeProvider struct {
	client      *resty.Client
	parser      parser.Parser
	logger      *slog.Logger
	retry       retry.Policy
	trackingTag string
	baseURL     string
}

func NewScrapeProvider(opts ScrapeOptions, p parser.Parser) *ScrapeProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.AcceptLanguage == "" {
		opts.AcceptLanguage = "ja-JP,ja;q=0.9,en;q=0.8"
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultPolicy()
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept-Language", opts.AcceptLanguage)

	return &ScrapeProvider{
		client:      client,
		parser:      p,
		logger:      slog.Default().With("component", "scrape_provider"),
		retry:       opts.Retry,
		trackingTag: opts.TrackingTag,
		baseURL:     opts.BaseURL,
	}
}

func (s *ScrapeProvider) Fetch(ctx context.Context, rawURL string) (*models.ProductRecord, error) {
	asin, err := ExtractASIN(rawURL)
	if err != nil {
		return nil, err
	}

	pageURL := CanonicalURL(s.baseURL, asin)
	s.logger.Info("fetching product", "asin", asin, "url", pageURL)

	var record *models.ProductRecord
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		resp, err := s.client.R().SetContext(ctx).Get(pageURL)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("unexpected status %d", resp.StatusCode())
		}

		html := resp.String()
		if s.parser.IsBotChallenge(html) {
			s.logger.Warn("bot challenge page", "asin", asin)
			return errBotChallenge
		}

		extraction, err := s.parser.ParseProductPage(html)
		if err != nil {
			return retry.Permanent(fmt.Errorf("%w: %v", ErrIncompleteExtraction, err))
		}
		if extraction.Title == "" || extraction.Price == "" {
			return retry.Permanent(ErrIncompleteExtraction)
		}

		record, err = models.NewProductRecord(
			asin,
			extraction.Title,
			extraction.Price,
			extraction.ImageURL,
			AffiliateURL(s.baseURL, asin, s.trackingTag),
		)
		if err != nil {
			return retry.Permanent(err)
		}
		return nil
	})

	switch {
	case err == nil:
		return record, nil
	case errors.Is(err, ErrIncompleteExtraction):
		return nil, err
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		return nil, fmt.Errorf("%w: %v", ErrTransportExhausted, err)
	}
}
