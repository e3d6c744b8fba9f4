package db

import (
	"errors"
	"strings"
	"testing"
)

func TestIndexBuilder_Simple(t *testing.T) {
	idx := NewIndex("products").
		Prefix("products:").
		Text("title", "all").
		Keyword("colors", "all").
		Numeric("price").
		Text("all").
		MustBuild()

	if idx.Name != "products" {
		t.Errorf("name = %q, want products", idx.Name)
	}
	if len(idx.Fields) != 4 {
		t.Fatalf("fields count = %d, want 4", len(idx.Fields))
	}
	if idx.Fields[0].Name != "title" || idx.Fields[0].Type != IndexFieldText {
		t.Errorf("field[0] = %+v, want title TEXT", idx.Fields[0])
	}
	if idx.Fields[1].Type != IndexFieldKeyword || idx.Fields[1].CopyTo[0] != "all" {
		t.Errorf("field[1] = %+v, want colors KEYWORD copy_to all", idx.Fields[1])
	}
	if idx.Fields[2].Type != IndexFieldNumeric {
		t.Errorf("field[2] = %+v, want price NUMERIC", idx.Fields[2])
	}
}

func TestIndexBuilder_BuildError(t *testing.T) {
	_, err := NewIndex("bad name!").Text("title").Build()
	if err == nil {
		t.Fatal("expected error for invalid name")
	}
	if !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestIndexBuilder_MustBuildPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewIndex("").MustBuild()
}

func TestIndexBuilder_BuildReturnsCopy(t *testing.T) {
	b := NewIndex("idx").Text("a")
	first := b.MustBuild()
	b.Text("b")
	if len(first.Fields) != 1 {
		t.Errorf("earlier definition mutated: %d fields", len(first.Fields))
	}
}

func TestIndexDefinition_String(t *testing.T) {
	idx := NewIndex("products").
		Prefix("products:").
		Text("title", "all").
		Numeric("price").
		Text("all").
		MustBuild()

	s := idx.String()
	for _, want := range []string{"INDEX products", "PREFIX products:", "title TEXT COPY_TO all", "price NUMERIC", "all TEXT"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
