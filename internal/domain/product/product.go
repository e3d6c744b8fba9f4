package product

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
)

// idNamespace scopes deterministic product IDs.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("nersearch:product"))

// Product is a catalog record as stored in the document store.
// Products are never mutated after ingest.
type Product struct {
	Title       string   `json:"title"`
	ProductType string   `json:"product_type"`
	Price       float64  `json:"price"`
	Colors      []string `json:"colors"`
	Attrs       []string `json:"attrs"`
}

// Validate checks required fields: title, product type and a non-negative price.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(p.ProductType) == "" {
		return fmt.Errorf("product_type is required")
	}
	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return fmt.Errorf("price must be a finite number")
	}
	if p.Price < 0 {
		return fmt.Errorf("price must be non-negative, got %g", p.Price)
	}
	return nil
}

// ID returns a deterministic document ID derived from title and product type,
// so re-ingesting the same record resolves to the same document.
func (p *Product) ID() string {
	key := strings.ToLower(strings.TrimSpace(p.Title)) + "|" + strings.ToLower(strings.TrimSpace(p.ProductType))
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}

// Normalized returns a copy with nil slices replaced by empty ones,
// so JSON output always carries arrays. Colors are trimmed and lowercased
// to match the color vocabulary used by predictions.
func (p Product) Normalized() Product {
	colors := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = strings.ToLower(strings.TrimSpace(c))
	}
	p.Colors = colors
	if p.Attrs == nil {
		p.Attrs = []string{}
	}
	return p
}

// Document field names shared by the index mapping and query translation.
const (
	FieldTitle       = "title"
	FieldProductType = "product_type"
	FieldPrice       = "price"
	FieldColors      = "colors"
	FieldAttrs       = "attrs"
	// FieldAll is the catch-all text field filled from every descriptive field.
	FieldAll = "all"
)

// IngestStats summarizes a bulk ingest.
type IngestStats struct {
	Indexed int `json:"indexed"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
