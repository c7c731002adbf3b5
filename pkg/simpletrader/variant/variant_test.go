package variant_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tendant/simple-trader/pkg/simpletrader/variant"
)

type orderedKeys []string

func (o orderedKeys) Keys() []string { return o }

func TestList_FallsBackToDefault(t *testing.T) {
	var nilMap map[string]int
	var nilPtr *map[string]int

	tests := []struct {
		name     string
		itemData any
	}{
		{"nil", nil},
		{"int", 42},
		{"float", 12.5},
		{"string", "Red"},
		{"bool", true},
		{"nil map", nilMap},
		{"nil pointer", nilPtr},
		{"empty map", map[string]any{}},
		{"empty keyed", orderedKeys{}},
		{"slice", []string{"Red", "Blue"}},
		{"array", [2]int{1, 2}},
		{"int keyed map", map[int]string{1: "one"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{variant.Default}, variant.List(tt.itemData))
		})
	}
}

func TestList_KeyedPreservesOrder(t *testing.T) {
	keys := orderedKeys{"Red", "Blue", "Amber"}
	assert.Equal(t, []string{"Red", "Blue", "Amber"}, variant.List(keys))
}

func TestList_GoMapSortedKeys(t *testing.T) {
	item := map[string]any{"Red": 10, "Blue": 12}
	assert.Equal(t, []string{"Blue", "Red"}, variant.List(item))
	assert.Equal(t, []string{"Blue", "Red"}, variant.List(&item))
}

func TestList_Idempotent(t *testing.T) {
	keys := orderedKeys{"Red", "Blue"}
	first := variant.List(keys)
	first[0] = "mutated"
	second := variant.List(keys)

	assert.Equal(t, []string{"Red", "Blue"}, second)
	assert.Equal(t, orderedKeys{"Red", "Blue"}, keys)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, variant.ShapeAbsent, variant.Classify(nil))
	assert.Equal(t, variant.ShapeAbsent, variant.Classify(7))
	assert.Equal(t, variant.ShapeKeyed, variant.Classify(map[string]int{"a": 1}))
	assert.Equal(t, variant.ShapeKeyed, variant.Classify(orderedKeys{"a"}))
	assert.Equal(t, variant.ShapeArrayLike, variant.Classify([]int{1}))
	assert.Equal(t, "array", variant.ShapeArrayLike.String())
}

func TestMatches(t *testing.T) {
	variants := []string{"Red", "Blue"}

	tests := []struct {
		name   string
		choice string
		want   bool
	}{
		{"empty choice", "", false},
		{"lower case", "red", true},
		{"upper case", "BLUE", true},
		{"exact", "Red", true},
		{"unknown", "Green", false},
		{"prefix only", "Re", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, variant.Matches(variants, tt.choice))
		})
	}
}

func TestMatches_EmptyChoiceAgainstAnyList(t *testing.T) {
	assert.False(t, variant.Matches(nil, ""))
	assert.False(t, variant.Matches([]string{""}, ""))
	assert.False(t, variant.Matches([]string{variant.Default}, ""))
}

func TestMatches_CaseSymmetry(t *testing.T) {
	variants := []string{"Red", "dark Blue", "ÉCLAIR", variant.Default}
	for _, v := range variants {
		assert.Equal(t,
			variant.Matches(variants, strings.ToUpper(v)),
			variant.Matches(variants, strings.ToLower(v)),
			"variant %q", v)
	}
}

func TestResolve_ReturnsCanonicalSpelling(t *testing.T) {
	got, ok := variant.Resolve([]string{"Red", "Blue"}, "bLuE")
	assert.True(t, ok)
	assert.Equal(t, "Blue", got)

	_, ok = variant.Resolve([]string{"Red"}, "Green")
	assert.False(t, ok)
}

func TestIsDefault(t *testing.T) {
	assert.True(t, variant.IsDefault("default"))
	assert.True(t, variant.IsDefault("DEFAULT"))
	assert.False(t, variant.IsDefault(""))
	assert.False(t, variant.IsDefault("Red"))
}
