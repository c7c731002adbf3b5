// Package catalog models the trader price list: categories of items, each
// priced either flat or per variant.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tendant/simple-trader/pkg/simpletrader/variant"
)

// SellDivisor is applied to the base price when the trader buys from a player.
const SellDivisor = 3

// Error types
var (
	// ErrInvalidPriceList indicates the price list document could not be decoded
	ErrInvalidPriceList = errors.New("invalid price list")

	// ErrUnknownCategory indicates a category is not in the price list
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownItem indicates an item is not in the given category
	ErrUnknownItem = errors.New("unknown item")

	// ErrUnknownVariant indicates a variant is not defined for the item
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrVariantsUnsupported indicates a non-default variant was requested for a flat-priced item
	ErrVariantsUnsupported = errors.New("item does not support variants")

	// ErrInvalidMode indicates an unrecognised trade mode
	ErrInvalidMode = errors.New("invalid trade mode")
)

// Mode is the direction of a trade.
type Mode string

const (
	ModeBuy  Mode = "buy"
	ModeSell Mode = "sell"
)

// ParseMode converts s to a Mode. An empty string means ModeBuy.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeBuy:
		return ModeBuy, nil
	case ModeSell:
		return ModeSell, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeBuy || m == ModeSell
}

// Apply converts a base price into the unit price for this mode.
func (m Mode) Apply(base decimal.Decimal) decimal.Decimal {
	if m == ModeSell {
		return base.Div(decimal.NewFromInt(SellDivisor)).Round(2)
	}
	return base
}

// VariantPrice is the price of a single variant of an item.
type VariantPrice struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Item is a priced entry in a category. Items either carry a flat base price
// or a list of variant prices, never both.
type Item struct {
	Name     string          `json:"name"`
	Base     decimal.Decimal `json:"base,omitempty"`
	Variants []VariantPrice  `json:"variants,omitempty"`
}

// Keys returns the item's variant names in price list order. Flat items have none.
func (i *Item) Keys() []string {
	if i == nil {
		return nil
	}
	keys := make([]string, 0, len(i.Variants))
	for _, v := range i.Variants {
		keys = append(keys, v.Name)
	}
	return keys
}

// HasVariants reports whether the item is priced per variant.
func (i *Item) HasVariants() bool {
	return i != nil && len(i.Variants) > 0
}

func (i *Item) variantPrice(name string) (decimal.Decimal, bool) {
	for _, v := range i.Variants {
		if v.Name == name {
			return v.Price, true
		}
	}
	return decimal.Decimal{}, false
}

// Category groups items under a name.
type Category struct {
	Name  string  `json:"name"`
	Items []*Item `json:"items"`

	index map[string]*Item
}

// Catalog is an immutable, insertion-ordered price list.
type Catalog struct {
	categories []*Category
	index      map[string]*Category
}

// Quote is a resolved unit price for a category/item/variant in a mode.
type Quote struct {
	Category string          `json:"category"`
	Item     string          `json:"item"`
	Variant  string          `json:"variant"`
	Mode     Mode            `json:"mode"`
	Base     decimal.Decimal `json:"base"`
	Price    decimal.Decimal `json:"price"`
}

// Categories returns the category names in price list order.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.categories))
	for _, cat := range c.categories {
		names = append(names, cat.Name)
	}
	return names
}

// Items returns the item names of a category in price list order.
func (c *Catalog) Items(category string) ([]string, error) {
	cat, err := c.category(category)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cat.Items))
	for _, it := range cat.Items {
		names = append(names, it.Name)
	}
	return names, nil
}

// Item looks up an item by exact category and item name.
func (c *Catalog) Item(category, item string) (*Item, error) {
	cat, err := c.category(category)
	if err != nil {
		return nil, err
	}
	it, ok := cat.index[strings.TrimSpace(item)]
	if !ok {
		return nil, fmt.Errorf("%w '%s' in category '%s'", ErrUnknownItem, item, category)
	}
	return it, nil
}

// Variants lists the variants offered for an item, or ["Default"] for flat items.
func (c *Catalog) Variants(category, item string) ([]string, error) {
	it, err := c.Item(category, item)
	if err != nil {
		return nil, err
	}
	return variant.List(it), nil
}

// Price quotes the unit price for the given variant. Variant names match
// case-insensitively; flat items only accept the default variant, and an
// empty variant name is treated as the default for them.
func (c *Catalog) Price(category, item, variantName string, mode Mode) (Quote, error) {
	if !mode.Valid() {
		return Quote{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	it, err := c.Item(category, item)
	if err != nil {
		return Quote{}, err
	}

	variantName = strings.TrimSpace(variantName)
	q := Quote{Category: strings.TrimSpace(category), Item: it.Name, Mode: mode}

	if it.HasVariants() {
		name, ok := variant.Resolve(it.Keys(), variantName)
		if !ok {
			return Quote{}, fmt.Errorf("%w '%s' for item '%s'", ErrUnknownVariant, variantName, it.Name)
		}
		q.Variant = name
		q.Base, _ = it.variantPrice(name)
	} else {
		if variantName != "" && !variant.IsDefault(variantName) {
			return Quote{}, fmt.Errorf("%w: item '%s'", ErrVariantsUnsupported, it.Name)
		}
		q.Variant = variant.Default
		q.Base = it.Base
	}

	q.Price = mode.Apply(q.Base)
	return q, nil
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

func (c *Catalog) category(name string) (*Category, error) {
	cat, ok := c.index[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownCategory, name)
	}
	return cat, nil
}
