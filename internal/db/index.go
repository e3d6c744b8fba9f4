package db

import (
	"fmt"
	"strconv"
)

// IndexFieldType enumerates supported index field kinds.
type IndexFieldType int

const (
	// IndexFieldText is an analyzed full-text field.
	IndexFieldText IndexFieldType = iota
	// IndexFieldKeyword is an exact-match, multi-valued field.
	IndexFieldKeyword
	// IndexFieldNumeric is a float field supporting ranges.
	IndexFieldNumeric
)

func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldText:
		return "text"
	case IndexFieldKeyword:
		return "keyword"
	case IndexFieldNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// DefaultTagSeparator joins keyword values in hash-backed stores.
const DefaultTagSeparator = ","

// IndexField describes a single field in an index schema.
type IndexField struct {
	Name string
	Type IndexFieldType

	// CopyTo lists text fields that receive this field's values at write time.
	CopyTo []string

	// Keyword options
	TagSeparator string
}

// Separator returns the keyword separator, falling back to DefaultTagSeparator.
func (f *IndexField) Separator() string {
	if f.TagSeparator == "" {
		return DefaultTagSeparator
	}
	return f.TagSeparator
}

// IndexDefinition is a complete index schema.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
//
// Copy targets must exist, must be text fields and must not copy further.
// A field never copies into itself.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return fmt.Errorf("%w: index name is required", ErrInvalidIndex)
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("%w: index name contains invalid characters", ErrInvalidIndex)
	}
	if len(idx.Fields) == 0 {
		return fmt.Errorf("%w: at least one field is required", ErrInvalidIndex)
	}

	seen := make(map[string]*IndexField, len(idx.Fields))
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return fmt.Errorf("%w: field name is required at index %s", ErrInvalidIndex, strconv.Itoa(i))
		}
		if !IsValidIdentifier(f.Name) {
			return fmt.Errorf("%w: field name %q contains invalid characters", ErrInvalidIndex, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field name: %s", ErrInvalidIndex, f.Name)
		}
		seen[f.Name] = f
	}

	for i := range idx.Fields {
		f := &idx.Fields[i]
		for _, target := range f.CopyTo {
			if target == f.Name {
				return fmt.Errorf("%w: field %s copies to itself", ErrInvalidIndex, f.Name)
			}
			t, ok := seen[target]
			if !ok {
				return fmt.Errorf("%w: field %s copies to unknown field %s", ErrInvalidIndex, f.Name, target)
			}
			if t.Type != IndexFieldText {
				return fmt.Errorf("%w: copy target %s must be a text field", ErrInvalidIndex, target)
			}
			if len(t.CopyTo) > 0 {
				return fmt.Errorf("%w: copy target %s must not copy further", ErrInvalidIndex, target)
			}
		}
	}

	return nil
}

// Field looks up a field by name.
func (idx *IndexDefinition) Field(name string) (*IndexField, bool) {
	for i := range idx.Fields {
		if idx.Fields[i].Name == name {
			return &idx.Fields[i], true
		}
	}
	return nil, false
}

// IsCopyTarget reports whether name receives copied values from other fields.
func (idx *IndexDefinition) IsCopyTarget(name string) bool {
	return len(idx.CopySources(name)) > 0
}

// CopySources returns the fields copying into target, in schema order.
func (idx *IndexDefinition) CopySources(target string) []*IndexField {
	var out []*IndexField
	for i := range idx.Fields {
		for _, t := range idx.Fields[i].CopyTo {
			if t == target {
				out = append(out, &idx.Fields[i])
				break
			}
		}
	}
	return out
}

// KeyPrefix returns the document key prefix for hash-backed stores.
func (idx *IndexDefinition) KeyPrefix() string {
	if len(idx.Prefixes) > 0 {
		return idx.Prefixes[0]
	}
	return idx.Name + ":"
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
