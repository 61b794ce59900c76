package provider

import (
	"context"
	"errors"

	"github.com/maltedev/amazon-ranking-post/internal/models"
)

var (
	// ErrInvalidURL means the input carried no recognizable catalog
	// identifier; no network call was made.
	ErrInvalidURL = errors.New("no ASIN found in URL")

	// ErrTransportExhausted means every attempt failed on transport,
	// status or a bot challenge.
	ErrTransportExhausted = errors.New("fetch attempts exhausted")

	// ErrIncompleteExtraction means the page was fetched but lacked a
	// title or price. Retrying will not help, so it is surfaced after a
	// single attempt.
	ErrIncompleteExtraction = errors.New("page is missing title or price")

	errBotChallenge = errors.New("bot challenge page returned")
)

// ProductProvider turns one raw product-page URL into a ProductRecord.
// Implementations exist for direct page scraping and for the Product
// Advertising API; callers select one by configuration.
type ProductProvider interface {
	Fetch(ctx context.Context, rawURL string) (*models.ProductRecord, error)
}
