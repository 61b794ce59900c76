package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/maltedev/amazon-ranking-post/internal/models"
	"github.com/maltedev/amazon-ranking-post/internal/retry"
)

// Resources requested from the Product Advertising API. The V2 offer
// listing is the one that carries the localized display amount.
var paapiResources = []string{
	"Images.Primary.Medium",
	"ItemInfo.Title",
	"OffersV2.Listings.Price",
}

type PAAPIOptions struct {
	AccessKey   string
	SecretKey   string
	TrackingTag string
	Host        string
	Region      string
	Marketplace string
	BaseURL     string
	// Endpoint overrides the https://Host prefix, for tests.
	Endpoint string
	Timeout     time.Duration
	Retry       retry.Policy
}

// PAAPIProvider implements ProductProvider against the Product Advertising
// API instead of scraping, resolving the same ASIN the scraper would and
// returning records with identical affiliate links.
type PAAPIProvider struct {
	client *resty.Client
	signer *requestSigner
	logger *slog.Logger
	retry  retry.Policy
	opts   PAAPIOptions
}

func NewPAAPIProvider(opts PAAPIOptions) *PAAPIProvider {
	if opts.Host == "" {
		opts.Host = "webservices.amazon.co.jp"
	}
	if opts.Region == "" {
		opts.Region = "us-west-2"
	}
	if opts.Marketplace == "" {
		opts.Marketplace = "www.amazon.co.jp"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = retry.DefaultPolicy()
	}

	return &PAAPIProvider{
		client: resty.New().SetTimeout(opts.Timeout),
		signer: newRequestSigner(opts.AccessKey, opts.SecretKey, opts.Region),
		logger: slog.Default().With("component", "paapi_provider"),
		retry:  opts.Retry,
		opts:   opts,
	}
}

type apiItem struct {
	ASIN     string `json:"ASIN"`
	ItemInfo struct {
		Title struct {
			DisplayValue string `json:"DisplayValue"`
		} `json:"Title"`
	} `json:"ItemInfo"`
	Images struct {
		Primary struct {
			Medium struct {
				URL string `json:"URL"`
			} `json:"Medium"`
		} `json:"Primary"`
	} `json:"Images"`
	OffersV2 struct {
		Listings []struct {
			Price struct {
				DisplayAmount string `json:"DisplayAmount"`
			} `json:"Price"`
		} `json:"Listings"`
	} `json:"OffersV2"`
}

type getItemsResponse struct {
	ItemsResult struct {
		Items []apiItem `json:"Items"`
	} `json:"ItemsResult"`
}

type searchItemsResponse struct {
	SearchResult struct {
		Items []apiItem `json:"Items"`
	} `json:"SearchResult"`
}

func (p *PAAPIProvider) Fetch(ctx context.Context, rawURL string) (*models.ProductRecord, error) {
	asin, err := ExtractASIN(rawURL)
	if err != nil {
		return nil, err
	}

	p.logger.Info("fetching product via API", "asin", asin)

	payload := map[string]any{
		"ItemIds":     []string{asin},
		"Resources":   paapiResources,
		"PartnerTag":  p.opts.TrackingTag,
		"PartnerType": "Associates",
		"Marketplace": p.opts.Marketplace,
	}

	var record *models.ProductRecord
	err = p.retry.Do(ctx, func(ctx context.Context) error {
		body, err := p.call(ctx, "GetItems", payload)
		if err != nil {
			return err
		}

		var result getItemsResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		if len(result.ItemsResult.Items) == 0 {
			return retry.Permanent(fmt.Errorf("%w: item %s not returned", ErrIncompleteExtraction, asin))
		}

		record, err = p.toRecord(result.ItemsResult.Items[0])
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

// SearchItems looks products up by keyword, the way the API-backed runs
// source candidates when no URL list is supplied. Offerless items are
// skipped; at most limit priced records come back, in result order.
func (p *PAAPIProvider) SearchItems(ctx context.Context, keywords string, limit int) ([]*models.ProductRecord, error) {
	payload := map[string]any{
		"Keywords":    keywords,
		"ItemCount":   10,
		"Resources":   paapiResources,
		"PartnerTag":  p.opts.TrackingTag,
		"PartnerType": "Associates",
		"Marketplace": p.opts.Marketplace,
	}

	var records []*models.ProductRecord
	err := p.retry.Do(ctx, func(ctx context.Context) error {
		body, err := p.call(ctx, "SearchItems", payload)
		if err != nil {
			return err
		}

		var result searchItemsResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}

		records = records[:0]
		for _, item := range result.SearchResult.Items {
			record, err := p.toRecord(item)
			if err != nil {
				p.logger.Warn("skipping item without price", "asin", item.ASIN)
				continue
			}
			records = append(records, record)
			if len(records) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrTransportExhausted, err)
	}

	return records, nil
}

func (p *PAAPIProvider) call(ctx context.Context, operation string, payload map[string]any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("failed to encode request: %w", err))
	}

	path := "/paapi5/" + strings.ToLower(operation)
	target := "com.amazon.paapi5.v1.ProductAdvertisingAPIv1." + operation
	headers := p.signer.sign(p.opts.Host, path, target, body, time.Now())

	endpoint := p.opts.Endpoint
	if endpoint == "" {
		endpoint = "https://" + p.opts.Host
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Post(endpoint + path)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	switch {
	case resp.IsSuccess():
		return resp.Body(), nil
	case resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= 500:
		return nil, fmt.Errorf("retryable status %d", resp.StatusCode())
	default:
		return nil, retry.Permanent(fmt.Errorf("API error status %d: %s", resp.StatusCode(), resp.String()))
	}
}

func (p *PAAPIProvider) toRecord(item apiItem) (*models.ProductRecord, error) {
	price := ""
	if len(item.OffersV2.Listings) > 0 {
		price = item.OffersV2.Listings[0].Price.DisplayAmount
	}
	if price == "" || item.ItemInfo.Title.DisplayValue == "" {
		return nil, ErrIncompleteExtraction
	}

	return models.NewProductRecord(
		item.ASIN,
		item.ItemInfo.Title.DisplayValue,
		price,
		item.Images.Primary.Medium.URL,
		AffiliateURL(p.opts.BaseURL, item.ASIN, p.opts.TrackingTag),
	)
}
