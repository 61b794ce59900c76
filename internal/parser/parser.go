package parser

// Extraction is the structural read of one product page. Any of the three
// fields may be empty; the caller decides what is fatal.
type Extraction struct {
	Title    string
	Price    string
	ImageURL string
}

type Parser interface {
	ParseProductPage(html string) (*Extraction, error)
	IsBotChallenge(html string) bool
}
