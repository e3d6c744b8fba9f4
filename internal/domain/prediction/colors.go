package prediction

import "strings"

// colorVocabulary is the fixed set of tokens treated as colors.
var colorVocabulary = map[string]struct{}{
	"black": {}, "white": {}, "grey": {}, "gray": {}, "silver": {},
	"red": {}, "maroon": {}, "burgundy": {}, "pink": {}, "purple": {},
	"orange": {}, "yellow": {}, "gold": {}, "beige": {}, "tan": {},
	"brown": {}, "khaki": {}, "olive": {}, "green": {}, "teal": {},
	"turquoise": {}, "blue": {}, "navy": {}, "charcoal": {}, "cream": {},
}

// IsColor reports whether token belongs to the color vocabulary (case-insensitive).
func IsColor(token string) bool {
	_, ok := colorVocabulary[strings.ToLower(strings.TrimSpace(token))]
	return ok
}
