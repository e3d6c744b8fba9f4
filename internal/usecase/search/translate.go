package search

import (
	"strings"

	"github.com/kailas-cloud/nersearch/internal/domain/prediction"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
	"github.com/kailas-cloud/nersearch/internal/domain/search/query"
)

// Translate builds the boolean product query for a valid prediction.
//
// The product goes to a scored match on title. Colors become an any-of
// exact filter, price bounds a range filter. Free attributes only boost
// relevance through the catch-all field. Bounds are used as given, even
// when from exceeds to.
//
// The caller must check p.IsValid first.
func Translate(p prediction.Prediction) query.Bool {
	must := make([]query.Clause, 0, 3)
	must = append(must, query.Match(domprod.FieldTitle, p.Product))

	if len(p.Colors) > 0 {
		must = append(must, query.Terms(domprod.FieldColors, p.Colors...))
	}

	if p.HasPrice() {
		must = append(must, query.Range(domprod.FieldPrice, p.PriceFrom, p.PriceTo))
	}

	var should []query.Clause
	if len(p.Attrs) > 0 {
		should = []query.Clause{query.Match(domprod.FieldAll, strings.Join(p.Attrs, " "))}
	}

	return query.NewBool(must, should)
}
