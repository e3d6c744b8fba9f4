package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kailas-cloud/nersearch/internal/domain"
	domprod "github.com/kailas-cloud/nersearch/internal/domain/product"
)

// LoadProducts decodes a JSON array of products, or a stream of
// newline-delimited product objects. Unknown fields are rejected.
func LoadProducts(r io.Reader) ([]domprod.Product, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read products: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.DisallowUnknownFields()

	if first == '[' {
		var products []domprod.Product
		if err := dec.Decode(&products); err != nil {
			return nil, fmt.Errorf("%w: decode array: %w", domain.ErrInvalidProduct, err)
		}
		return products, nil
	}

	var products []domprod.Product
	for {
		var p domprod.Product
		err := dec.Decode(&p)
		if errors.Is(err, io.EOF) {
			return products, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: decode record %d: %w", domain.ErrInvalidProduct, len(products), err)
		}
		products = append(products, p)
	}
}

// LoadFile opens path and decodes its products.
func LoadFile(path string) ([]domprod.Product, error) {
	f, err := os.Open(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	products, err := LoadProducts(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return products, nil
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err //nolint:wrapcheck // wrapped by caller
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return 0, err //nolint:wrapcheck // wrapped by caller
		}
		return b, nil
	}
}
