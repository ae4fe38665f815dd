package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrLineItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
	ErrEmptyCart        = &Error{Code: EINVALID, Message: "Cart is empty"}
)

// InsufficientStockError is returned when a quantity change would exceed the
// available stock of the resolved variant. Available carries the maximum so
// callers can surface an "only N available" notice.
type InsufficientStockError struct {
	CartItemID string
	Requested  int
	Available  int
}

// Error implements the error interface.
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("only %d available (requested %d)", e.Available, e.Requested)
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// CartItemID derives the stable identity key for a line item from the
// product/variant pairing. Two adds of the same pairing map to one row.
func CartItemID(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + ":" + variantID
}

// LineItem is one row in the cart: a product, an optional variant reference,
// and a quantity. Variant data is snapshotted from the catalog at add time.
type LineItem struct {
	// CartItemID uniquely identifies this row within the cart.
	CartItemID string

	ProductID   string
	Name        string
	Image       string
	Description string

	// Variants is the product's variant list as last known from the catalog
	// when this item was added. Order matters: the first entry is the
	// fallback when no variant is referenced explicitly or by id.
	Variants []Variant

	// VariantRef is the single tagged variant reference for this row.
	VariantRef VariantRef

	// Quantity is always >= 1 for a surviving line item.
	Quantity int

	// Price and AvailableStock are item-level fallbacks for products
	// without variants.
	Price          decimal.Decimal
	AvailableStock int
}

// =============================================================================
// CUSTOMER DETAILS
// =============================================================================

// Gender is the customer gender selection on the checkout form.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// CustomerDetails is the checkout form draft. All five fields must be
// non-empty for an order submission to be valid.
type CustomerDetails struct {
	FirstName    string `json:"firstName" validate:"required"`
	LastName     string `json:"lastName" validate:"required"`
	PhoneNumber  string `json:"phoneNumber" validate:"required"`
	Gender       Gender `json:"gender" validate:"required,oneof=MALE FEMALE"`
	EmailAddress string `json:"emailAddress" validate:"required,email"`
}

// CustomerDetailsPatch is a partial update to the customer draft. Nil fields
// are left untouched so the form can be filled one field at a time.
type CustomerDetailsPatch struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	PhoneNumber  *string `json:"phoneNumber"`
	Gender       *Gender `json:"gender"`
	EmailAddress *string `json:"emailAddress"`
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// CartSnapshot is the full serializable cart state sent to the order
// submission gateway.
type CartSnapshot struct {
	Items           []LineItem      `json:"items"`
	CustomerDetails CustomerDetails `json:"customerDetails"`
	GlobalComment   string          `json:"globalComment"`
}
