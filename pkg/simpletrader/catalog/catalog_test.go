package catalog_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
	"github.com/tendant/simple-trader/pkg/simpletrader/variant"
)

const priceList = `{
	"version": 2,
	"categories": {
		"Weapons": {
			"Rifle": 1200,
			"Pistol": 450.5
		},
		"Vehicles": {
			"Truck": {"Red": 9000, "Blue": 9500, "Camo": 12000},
			"Bike": 300
		}
	}
}`

func mustParse(t *testing.T, doc string) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return cat
}

func TestParse_PreservesDocumentOrder(t *testing.T) {
	cat := mustParse(t, priceList)

	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, []string{"Weapons", "Vehicles"}, cat.Categories())

	items, err := cat.Items("Vehicles")
	require.NoError(t, err)
	assert.Equal(t, []string{"Truck", "Bike"}, items)

	variants, err := cat.Variants("Vehicles", "Truck")
	require.NoError(t, err)
	assert.Equal(t, []string{"Red", "Blue", "Camo"}, variants)
}

func TestParse_TrailingWhitespace(t *testing.T) {
	cat := mustParse(t, priceList+"\n\t\n")
	assert.Equal(t, 2, cat.Len())
}

func TestVariants_FlatItemIsDefault(t *testing.T) {
	cat := mustParse(t, priceList)

	variants, err := cat.Variants("Weapons", "Rifle")
	require.NoError(t, err)
	assert.Equal(t, []string{variant.Default}, variants)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not an object", `[1, 2]`},
		{"missing categories", `{"version": 1}`},
		{"categories not an object", `{"categories": []}`},
		{"string price", `{"categories": {"A": {"B": "ten"}}}`},
		{"negative price", `{"categories": {"A": {"B": -1}}}`},
		{"nested variant object", `{"categories": {"A": {"B": {"Red": {"x": 1}}}}}`},
		{"empty variant object", `{"categories": {"A": {"B": {}}}}`},
		{"duplicate category", `{"categories": {"A": {"B": 1}, "A": {"C": 2}}}`},
		{"duplicate item", `{"categories": {"A": {"B": 1, "B": 2}}}`},
		{"duplicate variant", `{"categories": {"A": {"B": {"Red": 1, "Red": 2}}}}`},
		{"truncated", `{"categories": {"A": {"B": 1}`},
		{"trailing document", `{"categories": {"A": {"B": 10}}} {"garbage": [`},
		{"trailing value", `{"categories": {"A": {"B": 10}}} 5`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, catalog.ErrInvalidPriceList)
		})
	}
}

func TestPrice_Buy(t *testing.T) {
	cat := mustParse(t, priceList)

	q, err := cat.Price("Vehicles", "Truck", "blue", catalog.ModeBuy)
	require.NoError(t, err)
	assert.Equal(t, "Blue", q.Variant)
	assert.True(t, decimal.NewFromInt(9500).Equal(q.Price))

	q, err = cat.Price("Weapons", "Pistol", "default", catalog.ModeBuy)
	require.NoError(t, err)
	assert.Equal(t, variant.Default, q.Variant)
	assert.Equal(t, "450.5", q.Price.String())

	q, err = cat.Price("Weapons", "Rifle", "", catalog.ModeBuy)
	require.NoError(t, err)
	assert.Equal(t, variant.Default, q.Variant)
}

func TestPrice_SellDividesAndRounds(t *testing.T) {
	cat := mustParse(t, priceList)

	q, err := cat.Price("Weapons", "Rifle", "Default", catalog.ModeSell)
	require.NoError(t, err)
	assert.Equal(t, "400", q.Price.String())
	assert.Equal(t, "1200", q.Base.String())

	q, err = cat.Price("Vehicles", "Bike", "Default", catalog.ModeSell)
	require.NoError(t, err)
	assert.Equal(t, "100", q.Price.String())

	q, err = cat.Price("Vehicles", "Truck", "Blue", catalog.ModeSell)
	require.NoError(t, err)
	assert.Equal(t, "3166.67", q.Price.String())
}

func TestPrice_Errors(t *testing.T) {
	cat := mustParse(t, priceList)

	_, err := cat.Price("Food", "Apple", "Default", catalog.ModeBuy)
	assert.ErrorIs(t, err, catalog.ErrUnknownCategory)

	_, err = cat.Price("Weapons", "Bow", "Default", catalog.ModeBuy)
	assert.ErrorIs(t, err, catalog.ErrUnknownItem)

	_, err = cat.Price("Vehicles", "Truck", "Green", catalog.ModeBuy)
	assert.ErrorIs(t, err, catalog.ErrUnknownVariant)

	_, err = cat.Price("Vehicles", "Truck", "", catalog.ModeBuy)
	assert.ErrorIs(t, err, catalog.ErrUnknownVariant)

	_, err = cat.Price("Weapons", "Rifle", "Gold", catalog.ModeBuy)
	assert.ErrorIs(t, err, catalog.ErrVariantsUnsupported)

	_, err = cat.Price("Weapons", "Rifle", "Default", catalog.Mode("rent"))
	assert.ErrorIs(t, err, catalog.ErrInvalidMode)
}

func TestParseMode(t *testing.T) {
	m, err := catalog.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, catalog.ModeBuy, m)

	m, err = catalog.ParseMode(" SELL ")
	require.NoError(t, err)
	assert.Equal(t, catalog.ModeSell, m)

	_, err = catalog.ParseMode("trade")
	assert.ErrorIs(t, err, catalog.ErrInvalidMode)
}
