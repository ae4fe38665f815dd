// Package cart implements the stock-aware shopping cart backing the
// customer-facing menu: line-item storage with derived totals, variant
// price/stock resolution, and validated quantity changes.
package cart

import (
	"github.com/shopspring/decimal"

	"github.com/ravnkild/eira/internal/domain"
)

// ResolvedVariant returns the effective variant for a line item, applying
// the fallback order in first-match-wins order:
//
//  1. an explicit variant snapshot on the reference
//  2. a by-id reference looked up in the item's variant list
//  3. the first entry of a non-empty variant list
//
// Returns false when none apply; the item's own price/stock fields are the
// final fallback.
func ResolvedVariant(item domain.LineItem) (domain.Variant, bool) {
	ref := item.VariantRef

	if ref.Kind == domain.VariantRefExplicit && ref.Variant != nil {
		return *ref.Variant, true
	}

	if ref.Kind == domain.VariantRefByID && ref.ID != "" {
		for _, v := range item.Variants {
			if v.ID == ref.ID {
				return v, true
			}
		}
	}

	if len(item.Variants) > 0 {
		return item.Variants[0], true
	}

	return domain.Variant{}, false
}

// UnitPrice returns the effective unit price for a line item.
func UnitPrice(item domain.LineItem) decimal.Decimal {
	if v, ok := ResolvedVariant(item); ok {
		return v.Price
	}
	return item.Price
}

// AvailableStock returns the available stock for a line item. Never negative:
// a malformed catalog entry degrades to 0 ("unavailable") at the decode
// boundary, and anything below zero is clamped here.
func AvailableStock(item domain.LineItem) int {
	stock := item.AvailableStock
	if v, ok := ResolvedVariant(item); ok {
		stock = v.AvailableStock
	}
	if stock < 0 {
		return 0
	}
	return stock
}

// ResolveRef picks the variant reference for a product being added to the
// cart. Resolution happens once here so every later read of the line item
// sees a single tagged reference instead of re-walking the fallback chain.
func ResolveRef(p domain.Product, variantID string) (domain.VariantRef, error) {
	if variantID != "" {
		for _, v := range p.Variants {
			if v.ID == variantID {
				return domain.ExplicitRef(v), nil
			}
		}
		return domain.VariantRef{}, domain.NotFound("cart.resolve_variant", "variant", variantID)
	}

	if len(p.Variants) > 0 {
		return domain.ExplicitRef(p.Variants[0]), nil
	}

	return domain.NoRef(), nil
}
