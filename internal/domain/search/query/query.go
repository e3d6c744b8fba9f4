package query

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind identifies a clause type.
type Kind int

// Clause kinds.
const (
	KindMatch Kind = iota + 1
	KindTerms
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindMatch:
		return "match"
	case KindTerms:
		return "terms"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Bool is a boolean query: every must clause has to match, should clauses
// only contribute to scoring.
type Bool struct {
	must   []Clause
	should []Clause
}

// NewBool creates a boolean query from must and should clauses.
func NewBool(must, should []Clause) Bool {
	return Bool{must: must, should: should}
}

// Must returns the required clauses.
func (b Bool) Must() []Clause { return b.must }

// Should returns the scoring-only clauses.
func (b Bool) Should() []Clause { return b.should }

// IsEmpty reports whether the query has no clauses.
func (b Bool) IsEmpty() bool { return len(b.must) == 0 && len(b.should) == 0 }

// String renders a compact, backend-neutral form used in logs.
func (b Bool) String() string {
	parts := make([]string, 0, 2)
	if len(b.must) > 0 {
		parts = append(parts, "must("+joinClauses(b.must)+")")
	}
	if len(b.should) > 0 {
		parts = append(parts, "should("+joinClauses(b.should)+")")
	}
	return "bool{" + strings.Join(parts, " ") + "}"
}

func joinClauses(cs []Clause) string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return strings.Join(out, " ")
}

// Clause is a single leaf condition on one field.
type Clause struct {
	kind   Kind
	field  string
	text   string
	values []string
	gte    *float64
	lte    *float64
}

// Match creates a relevance-scored full-text clause. Any analyzed term of
// text may match.
func Match(field, text string) Clause {
	return Clause{kind: KindMatch, field: field, text: text}
}

// Terms creates an exact any-of clause over keyword values. values is copied.
func Terms(field string, values ...string) Clause {
	return Clause{kind: KindTerms, field: field, values: slices.Clone(values)}
}

// Range creates an inclusive numeric range clause. Either bound may be nil.
// Bounds are kept as given, so gte > lte is representable.
func Range(field string, gte, lte *float64) Clause {
	return Clause{kind: KindRange, field: field, gte: gte, lte: lte}
}

// Kind returns the clause type.
func (c Clause) Kind() Kind { return c.kind }

// Field returns the target field name.
func (c Clause) Field() string { return c.field }

// Text returns the match text.
func (c Clause) Text() string { return c.text }

// Values returns a copy of the terms values.
func (c Clause) Values() []string { return slices.Clone(c.values) }

// GTE returns the lower inclusive bound.
func (c Clause) GTE() *float64 { return c.gte }

// LTE returns the upper inclusive bound.
func (c Clause) LTE() *float64 { return c.lte }

func (c Clause) String() string {
	switch c.kind {
	case KindMatch:
		return fmt.Sprintf("match(%s:%q)", c.field, c.text)
	case KindTerms:
		return fmt.Sprintf("terms(%s:[%s])", c.field, strings.Join(c.values, ","))
	case KindRange:
		return fmt.Sprintf("range(%s:[%s,%s])", c.field, bound(c.gte, "-inf"), bound(c.lte, "+inf"))
	default:
		return "unknown"
	}
}

func bound(v *float64, open string) string {
	if v == nil {
		return open
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
