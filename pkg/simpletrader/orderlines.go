package simpletrader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// ParseOrderLines prices free-form order text against cat. Each non-blank
// line has the form
//
//	Category: Item: Variant xQuantity
//
// Parsing stops at the first bad line, which is reported as a *LineError
// carrying its 1-based line number. An empty mode means buying.
func ParseOrderLines(cat *catalog.Catalog, text string, mode catalog.Mode) (*ParsedOrder, error) {
	if cat == nil {
		return nil, ErrCatalogUnavailable
	}
	if mode == "" {
		mode = catalog.ModeBuy
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", catalog.ErrInvalidMode, mode)
	}

	parsed := &ParsedOrder{Mode: mode}
	for i, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimRight(raw, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		ol, err := parseOrderLine(cat, line, mode)
		if err != nil {
			return nil, &LineError{Line: i + 1, Text: line, Err: err}
		}
		parsed.Lines = append(parsed.Lines, ol)
	}

	if len(parsed.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	parsed.Total = sumLines(parsed.Lines)
	return parsed, nil
}

func parseOrderLine(cat *catalog.Catalog, line string, mode catalog.Mode) (OrderLine, error) {
	idx := strings.LastIndex(line, " x")
	if idx < 0 {
		return OrderLine{}, fmt.Errorf("%w: missing 'x' quantity format", ErrInvalidOrderLine)
	}
	left, qtyText := line[:idx], strings.TrimSpace(line[idx+2:])

	fields := strings.Split(left, ":")
	if len(fields) != 3 {
		return OrderLine{}, fmt.Errorf("%w: expected 'Category: Item: Variant'", ErrInvalidOrderLine)
	}

	quantity, err := strconv.Atoi(qtyText)
	if err != nil {
		return OrderLine{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, qtyText)
	}
	if quantity <= 0 {
		return OrderLine{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, quantity)
	}

	q, err := cat.Price(
		strings.TrimSpace(fields[0]),
		strings.TrimSpace(fields[1]),
		strings.TrimSpace(fields[2]),
		mode,
	)
	if err != nil {
		return OrderLine{}, err
	}
	return newOrderLine(q, quantity), nil
}
