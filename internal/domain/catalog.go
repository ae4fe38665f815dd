package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CATALOG DOMAIN TYPES
// =============================================================================

// Variant is a purchasable sub-option of a product (e.g. a size) carrying
// its own price and stock. Prices and stock counts are parsed at the catalog
// boundary; inside the domain they are always strict numeric types.
type Variant struct {
	ID             string
	Name           string
	Price          decimal.Decimal
	AvailableStock int
}

// Product represents a menu product as last known from the remote catalog.
type Product struct {
	ID          string
	Name        string
	Image       string
	Description string

	// Variants preserves catalog order. May be empty for single-price products.
	Variants []Variant

	// Price and AvailableStock are the item-level fallbacks used when a
	// product carries no variants.
	Price          decimal.Decimal
	AvailableStock int
}

// SearchParams describes a paged product search against the remote catalog.
type SearchParams struct {
	Query      string
	Page       int
	PageSize   int
	LocationID string
}

// SearchResult is one page of catalog products.
type SearchResult struct {
	Items   []Product
	HasMore bool
}

// CatalogService provides paged product search by text query and location.
// The remote business-management API owns the catalog; this service only
// reads from it.
type CatalogService interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
}

// =============================================================================
// VARIANT REFERENCES
// =============================================================================

// VariantRefKind discriminates how a line item references its variant.
type VariantRefKind string

const (
	// VariantRefExplicit carries a full variant snapshot taken at add time.
	VariantRefExplicit VariantRefKind = "explicit"

	// VariantRefByID references a variant in the line item's variant list.
	VariantRefByID VariantRefKind = "by_id"

	// VariantRefNone means the item sells at its top-level price/stock.
	VariantRefNone VariantRefKind = "none"
)

// VariantRef is a single tagged variant reference, resolved once when a
// line item is added to the cart.
type VariantRef struct {
	Kind    VariantRefKind
	Variant *Variant // set when Kind == VariantRefExplicit
	ID      string   // set when Kind == VariantRefByID
}

// ExplicitRef builds a reference carrying a variant snapshot.
func ExplicitRef(v Variant) VariantRef {
	return VariantRef{Kind: VariantRefExplicit, Variant: &v}
}

// ByIDRef builds a reference that resolves against the item's variant list.
func ByIDRef(id string) VariantRef {
	return VariantRef{Kind: VariantRefByID, ID: id}
}

// NoRef builds an empty reference; the item's own price/stock apply.
func NoRef() VariantRef {
	return VariantRef{Kind: VariantRefNone}
}
