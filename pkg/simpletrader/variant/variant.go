// Package variant enumerates the variant names of a catalog item and matches
// user-supplied variant choices against them.
//
// Both functions are pure and safe for concurrent use.
package variant

import (
	"reflect"
	"strings"

	"golang.org/x/exp/slices"
)

// Default is the synthetic variant name used when an item defines no variants.
const Default = "Default"

// Shape classifies the item data handed to List.
type Shape int

const (
	// ShapeAbsent covers nil, nil pointers and primitive values.
	ShapeAbsent Shape = iota
	// ShapeKeyed covers maps with string keys and values implementing Keyed.
	ShapeKeyed
	// ShapeArrayLike covers slices and arrays.
	ShapeArrayLike
)

func (s Shape) String() string {
	switch s {
	case ShapeKeyed:
		return "keyed"
	case ShapeArrayLike:
		return "array"
	default:
		return "absent"
	}
}

// Keyed is implemented by structures that keep their keys in insertion order.
type Keyed interface {
	Keys() []string
}

// Classify reports the shape of itemData.
func Classify(itemData any) Shape {
	if itemData == nil {
		return ShapeAbsent
	}
	if _, ok := itemData.(Keyed); ok {
		if isNilPointer(itemData) {
			return ShapeAbsent
		}
		return ShapeKeyed
	}

	v := reflect.ValueOf(itemData)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return ShapeAbsent
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() == reflect.String {
			return ShapeKeyed
		}
		return ShapeAbsent
	case reflect.Slice, reflect.Array:
		return ShapeArrayLike
	default:
		return ShapeAbsent
	}
}

// List returns the variant names defined by itemData.
//
// Keyed values report their own order; plain Go maps are sorted by key.
// Everything else, including slices and empty keyed structures, yields
// []string{Default}. The result is never empty and never aliases itemData.
func List(itemData any) []string {
	if Classify(itemData) != ShapeKeyed {
		return []string{Default}
	}

	var keys []string
	if k, ok := itemData.(Keyed); ok {
		keys = append(keys, k.Keys()...)
	} else {
		keys = mapKeys(itemData)
	}

	if len(keys) == 0 {
		return []string{Default}
	}
	return keys
}

// Matches reports whether choice names one of variants, ignoring case.
// An empty choice never matches.
func Matches(variants []string, choice string) bool {
	_, ok := Resolve(variants, choice)
	return ok
}

// Resolve returns the variant spelled the way variants spells it.
func Resolve(variants []string, choice string) (string, bool) {
	if choice == "" {
		return "", false
	}
	want := strings.ToLower(choice)
	for _, v := range variants {
		if strings.ToLower(v) == want {
			return v, true
		}
	}
	return "", false
}

// IsDefault reports whether name is the default variant, ignoring case.
func IsDefault(name string) bool {
	return name != "" && strings.ToLower(name) == strings.ToLower(Default)
}

func mapKeys(itemData any) []string {
	v := reflect.ValueOf(itemData)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	keys := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	slices.Sort(keys)
	return keys
}

func isNilPointer(x any) bool {
	v := reflect.ValueOf(x)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
