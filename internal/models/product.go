package models

import (
	"errors"
	"time"
)

var (
	ErrMissingTitle = errors.New("product record requires a title")
	ErrMissingPrice = errors.New("product record requires a price")
)

// ProductRecord is one ranked entry in a generated post. Price keeps the
// display string exactly as the source rendered it (e.g. "￥34,800").
type ProductRecord struct {
	ASIN         string    `json:"asin"`
	Title        string    `json:"title"`
	Price        string    `json:"price"`
	ImageURL     string    `json:"image_url,omitempty"`
	AffiliateURL string    `json:"affiliate_url"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// NewProductRecord builds a record, rejecting partial extractions. ImageURL
// may be empty; title and price may not.
func NewProductRecord(asin, title, price, imageURL, affiliateURL string) (*ProductRecord, error) {
	if title == "" {
		return nil, ErrMissingTitle
	}
	if price == "" {
		return nil, ErrMissingPrice
	}

	return &ProductRecord{
		ASIN:         asin,
		Title:        title,
		Price:        price,
		ImageURL:     imageURL,
		AffiliateURL: affiliateURL,
		FetchedAt:    time.Now(),
	}, nil
}

func (r *ProductRecord) HasImage() bool {
	return r.ImageURL != ""
}
