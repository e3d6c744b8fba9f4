package prediction

import (
	"strconv"
	"strings"
)

// ParsePrice strips every rune that is not a digit or a period and parses
// the remainder as a float. ok is false when nothing parseable is left.
func ParsePrice(token string) (float64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, token)
	if cleaned == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParsePrices converts raw price tokens into optional bounds.
// Unparseable tokens are dropped. One surviving value is an upper bound,
// two are lower then upper; any other count yields no bounds.
func ParsePrices(tokens []string) (from, to *float64) {
	values := make([]float64, 0, len(tokens))
	for _, t := range tokens {
		if v, ok := ParsePrice(t); ok {
			values = append(values, v)
		}
	}

	switch len(values) {
	case 1:
		return nil, &values[0]
	case 2:
		return &values[0], &values[1]
	default:
		return nil, nil
	}
}
