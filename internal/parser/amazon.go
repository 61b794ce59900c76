package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Markers that identify Amazon's anti-automation interstitial instead of a
// product page.
var botChallengeMarkers = []string{
	"api-services-support@amazon.com",
	"captchacharacters",
	"validateCaptcha",
}

type AmazonParser struct {
	priceSelectors []string
	imageSelectors []string
}

func NewAmazonParser() *AmazonParser {
	return &AmazonParser{
		priceSelectors: []string{
			".a-price .a-offscreen",
			"span.a-price.a-text-price.a-size-medium.apexPriceToPay",
			"#priceblock_dealprice",
			"#priceblock_ourprice",
			".a-price-whole",
		},
		imageSelectors: []string{
			"#landingImage",
			"#imgBlkFront",
			"#main-image",
		},
	}
}

// ParseProductPage extracts title, price and image from a rendered product
// page. Absent fields come back empty rather than as errors.
func (p *AmazonParser) ParseProductPage(html string) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &Extraction{
		Title:    p.extractTitle(doc),
		Price:    p.extractPrice(doc),
		ImageURL: p.extractImage(doc),
	}, nil
}

// IsBotChallenge reports whether the page is a captcha/robot interstitial
// rather than product content.
func (p *AmazonParser) IsBotChallenge(html string) bool {
	for _, marker := range botChallengeMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	title := strings.ToLower(doc.Find("title").Text())
	return strings.Contains(title, "robot check")
}

func (p *AmazonParser) extractTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("#productTitle").Text())
}

func (p *AmazonParser) extractPrice(doc *goquery.Document) string {
	for _, selector := range p.priceSelectors {
		priceText := strings.TrimSpace(doc.Find(selector).First().Text())
		if priceText != "" {
			return priceText
		}
	}
	return ""
}

func (p *AmazonParser) extractImage(doc *goquery.Document) string {
	for _, selector := range p.imageSelectors {
		img := doc.Find(selector).First()

		if src, exists := img.Attr("data-old-hires"); exists && src != "" {
			return src
		}
		if src, exists := img.Attr("src"); exists && src != "" {
			return src
		}
	}
	return ""
}
