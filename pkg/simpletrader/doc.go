// Package simpletrader provides a reusable library for a game trader: a
// price list of categories, items and item variants, per-user carts, and
// an order workflow with pluggable repository and price list storage
// backends.
//
// It exposes a single Service interface. Repositories (memory, Postgres,
// bolt) and price list stores (memory, filesystem, S3) live in subpackages.
//
// Variants
//
// Items are priced either flat or per variant. Variant names are listed by
// the variant subpackage, which reports a single "Default" variant for flat
// items, and user choices are matched case-insensitively. Orders always
// record the variant spelled as the price list spells it.
package simpletrader
