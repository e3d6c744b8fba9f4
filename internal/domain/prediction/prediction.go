package prediction

import (
	"strings"
)

// Entity labels produced by the extractor.
const (
	LabelProduct   = "product"
	LabelAttribute = "attribute"
	LabelColor     = "color"
	LabelPrice     = "price"
)

// DefaultLabels is the label schema requested from extractors.
var DefaultLabels = []string{LabelProduct, LabelAttribute, LabelColor, LabelPrice}

// Entity is a single span recognized in the query text.
type Entity struct {
	Text  string  `json:"text"`
	Label string  `json:"label"`
	Score float64 `json:"score,omitempty"`
}

// Prediction is the structured intent extracted from a free-text query.
// Created per request and discarded after the query is answered.
type Prediction struct {
	Text      string   `json:"text"`
	Product   string   `json:"product,omitempty"`
	PriceFrom *float64 `json:"price_from,omitempty"`
	PriceTo   *float64 `json:"price_to,omitempty"`
	Colors    []string `json:"colors"`
	Attrs     []string `json:"attrs"`
}

// New returns an empty prediction for text.
func New(text string) Prediction {
	return Prediction{Text: text, Colors: []string{}, Attrs: []string{}}
}

// IsValid reports whether the prediction names a product. Only valid
// predictions can be translated into a search query.
func (p *Prediction) IsValid() bool {
	return strings.TrimSpace(p.Product) != ""
}

// HasPrice reports whether at least one price bound is present.
func (p *Prediction) HasPrice() bool {
	return p.PriceFrom != nil || p.PriceTo != nil
}

// FromEntities assembles a prediction from extractor output.
//
// The last product entity wins. Attribute and color entities are split into
// colors and attrs by vocabulary membership. Price entities go through
// ParsePrices. Unknown labels are ignored.
func FromEntities(text string, entities []Entity) Prediction {
	p := New(text)
	var prices []string

	for _, e := range entities {
		value := strings.TrimSpace(e.Text)
		if value == "" {
			continue
		}
		switch strings.ToLower(e.Label) {
		case LabelProduct:
			p.Product = value
		case LabelAttribute, LabelColor:
			p.addToken(value)
		case LabelPrice:
			prices = append(prices, value)
		}
	}

	p.PriceFrom, p.PriceTo = ParsePrices(prices)
	return p
}

func (p *Prediction) addToken(token string) {
	if IsColor(token) {
		c := strings.ToLower(token)
		for _, existing := range p.Colors {
			if existing == c {
				return
			}
		}
		p.Colors = append(p.Colors, c)
		return
	}
	p.Attrs = append(p.Attrs, token)
}
