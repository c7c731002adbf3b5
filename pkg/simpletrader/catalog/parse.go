package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// Parse decodes a price list document of the form
//
//	{"categories": {"Weapons": {"Rifle": 1200, "Paint": {"Red": 10, "Blue": 12}}}}
//
// keeping categories, items and variants in document order. Keys other than
// "categories" at the top level are ignored.
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var cat *Catalog
	for dec.More() {
		key, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if key != "categories" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, invalid("top-level key %q: %v", key, err)
			}
			continue
		}
		if cat != nil {
			return nil, invalid("duplicate key %q", key)
		}
		if cat, err = parseCategories(dec); err != nil {
			return nil, err
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, invalid("trailing data after document")
	}
	if cat == nil {
		return nil, invalid("missing %q", "categories")
	}
	return cat, nil
}

func parseCategories(dec *json.Decoder) (*Catalog, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	c := &Catalog{index: make(map[string]*Category)}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if _, dup := c.index[name]; dup {
			return nil, invalid("duplicate category %q", name)
		}
		category, err := parseItems(dec, name)
		if err != nil {
			return nil, err
		}
		c.categories = append(c.categories, category)
		c.index[name] = category
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return c, nil
}

func parseItems(dec *json.Decoder, categoryName string) (*Category, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	category := &Category{Name: categoryName, index: make(map[string]*Item)}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if _, dup := category.index[name]; dup {
			return nil, invalid("duplicate item %q in category %q", name, categoryName)
		}

		tok, err := dec.Token()
		if err != nil {
			return nil, invalid("item %q: %v", name, err)
		}

		item := &Item{Name: name}
		switch t := tok.(type) {
		case json.Number:
			if item.Base, err = parsePrice(t); err != nil {
				return nil, invalid("item %q: %v", name, err)
			}
		case json.Delim:
			if t != '{' {
				return nil, invalid("item %q: expected price or variant object", name)
			}
			if item.Variants, err = parseVariants(dec, name); err != nil {
				return nil, err
			}
			if len(item.Variants) == 0 {
				return nil, invalid("item %q has an empty variant object", name)
			}
		default:
			return nil, invalid("item %q: expected price or variant object", name)
		}

		category.Items = append(category.Items, item)
		category.index[name] = item
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return category, nil
}

// parseVariants reads the body of a variant object whose opening brace has
// already been consumed.
func parseVariants(dec *json.Decoder, itemName string) ([]VariantPrice, error) {
	var variants []VariantPrice
	seen := make(map[string]struct{})
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[name]; dup {
			return nil, invalid("duplicate variant %q for item %q", name, itemName)
		}
		seen[name] = struct{}{}

		tok, err := dec.Token()
		if err != nil {
			return nil, invalid("variant %q: %v", name, err)
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, invalid("variant %q of item %q: price must be a number", name, itemName)
		}
		price, err := parsePrice(num)
		if err != nil {
			return nil, invalid("variant %q of item %q: %v", name, itemName, err)
		}
		variants = append(variants, VariantPrice{Name: name, Price: price})
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	return variants, nil
}

func parsePrice(n json.Number) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Decimal{}, err
	}
	if d.IsNegative() {
		return decimal.Decimal{}, errors.New("price cannot be negative")
	}
	return d, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", invalid("%v", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", invalid("expected object key, got %v", tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return invalid("%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return invalid("expected %q, got %v", want, tok)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPriceList, fmt.Sprintf(format, args...))
}
