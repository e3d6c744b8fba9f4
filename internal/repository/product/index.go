package product

import (
	"github.com/kailas-cloud/nersearch/internal/db"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

// DefaultIndexName is used when no index name is configured.
const DefaultIndexName = "products"

// ProductIndex returns the catalog mapping: descriptive fields are copied
// into the catalog-wide "all" text field, price stays a plain float.
func ProductIndex(name string) (*db.IndexDefinition, error) {
	if name == "" {
		name = DefaultIndexName
	}
	return db.NewIndex(name).
		Prefix(name+":").
		Text(domprod.FieldTitle, domprod.FieldAll).
		Text(domprod.FieldProductType, domprod.FieldAll).
		Keyword(domprod.FieldColors, domprod.FieldAll).
		Keyword(domprod.FieldAttrs, domprod.FieldAll).
		Numeric(domprod.FieldPrice).
		Text(domprod.FieldAll).
		Build()
}
