package product

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/nersearch/internal/db"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

// productDoc is the stored source. The catch-all field is never written.
type productDoc struct {
	Title       string   `json:"title"`
	ProductType string   `json:"product_type"`
	Price       float64  `json:"price"`
	Colors      []string `json:"colors"`
	Attrs       []string `json:"attrs"`
}

func toDocument(p domprod.Product) (db.Document, error) {
	n := p.Normalized()
	src, err := json.Marshal(productDoc{
		Title:       n.Title,
		ProductType: n.ProductType,
		Price:       n.Price,
		Colors:      n.Colors,
		Attrs:       n.Attrs,
	})
	if err != nil {
		return db.Document{}, fmt.Errorf("marshal product: %w", err)
	}
	return db.Document{ID: p.ID(), Source: src}, nil
}

func fromHit(h db.Hit) (domprod.Product, error) {
	var d productDoc
	if err := json.Unmarshal(h.Source, &d); err != nil {
		return domprod.Product{}, fmt.Errorf("unmarshal hit %s: %w", h.ID, err)
	}
	return domprod.Product{
		Title:       d.Title,
		ProductType: d.ProductType,
		Price:       d.Price,
		Colors:      d.Colors,
		Attrs:       d.Attrs,
	}.Normalized(), nil
}
