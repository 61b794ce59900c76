package provider

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const DefaultBaseURL = "https://www.amazon.co.jp"

// ASINs appear in the /dp/ or /gp/product/ path segment of listing URLs.
// Everything else in the input (query noise, tracking params, path slugs)
// is irrelevant to identifying the product.
var asinPattern = regexp.MustCompile(`(?i)/(?:dp|gp/product|product)/([A-Z0-9]{10})(?:[/?#]|$)`)

// ExtractASIN pulls the 10-character catalog identifier out of a raw
// product-page URL.
func ExtractASIN(rawURL string) (string, error) {
	matches := asinPattern.FindStringSubmatch(rawURL)
	if len(matches) < 2 {
		return "", ErrInvalidURL
	}
	return strings.ToUpper(matches[1]), nil
}

// CanonicalURL is the normalized page address for an ASIN. Two inputs that
// share an ASIN canonicalize identically regardless of how they were
// written.
func CanonicalURL(baseURL, asin string) string {
	return fmt.Sprintf("%s/dp/%s", strings.TrimRight(baseURL, "/"), asin)
}

// AffiliateURL annotates the canonical URL with the tracking tag.
func AffiliateURL(baseURL, asin, trackingTag string) string {
	return fmt.Sprintf("%s?tag=%s", CanonicalURL(baseURL, asin), url.QueryEscape(trackingTag))
}
