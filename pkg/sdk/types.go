package nersearch

import (
	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

// Entity labels understood by the query translator.
const (
	LabelProduct   = prediction.LabelProduct
	LabelAttribute = prediction.LabelAttribute
	LabelColor     = prediction.LabelColor
	LabelPrice     = prediction.LabelPrice
)

// Product is a catalog record.
type Product struct {
	Title       string
	ProductType string
	Price       float64
	Colors      []string
	Attrs       []string
}

// Entity is a labeled span returned by an Extractor.
type Entity struct {
	Text  string
	Label string
	Score float64
}

// Prediction is the structured intent extracted from a query.
// Product is empty when no product was recognized.
type Prediction struct {
	Text      string
	Product   string
	PriceFrom *float64
	PriceTo   *float64
	Colors    []string
	Attrs     []string
}

// SearchResult carries the prediction and the matching products, best first.
type SearchResult struct {
	Prediction Prediction
	Products   []Product
}

// IngestStats summarizes an ingest call.
type IngestStats struct {
	Indexed int
	Skipped int
	Failed  int
}

func productToDomain(p Product) domprod.Product {
	return domprod.Product{
		Title:       p.Title,
		ProductType: p.ProductType,
		Price:       p.Price,
		Colors:      p.Colors,
		Attrs:       p.Attrs,
	}
}

func productFromDomain(p domprod.Product) Product {
	n := p.Normalized()
	return Product{
		Title:       n.Title,
		ProductType: n.ProductType,
		Price:       n.Price,
		Colors:      n.Colors,
		Attrs:       n.Attrs,
	}
}

func predictionFromDomain(p *prediction.Prediction) Prediction {
	return Prediction{
		Text:      p.Text,
		Product:   p.Product,
		PriceFrom: p.PriceFrom,
		PriceTo:   p.PriceTo,
		Colors:    p.Colors,
		Attrs:     p.Attrs,
	}
}
