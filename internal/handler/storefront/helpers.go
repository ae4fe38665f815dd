package storefront

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/session"
)

// locationOf returns the business location a session is scoped to, for
// metric labels. Empty until the customer has visited a menu.
func locationOf(s *session.Session) string {
	return s.Flow.LocationID()
}

// errAsStock unwraps an insufficient-stock error, if that is what err is.
func errAsStock(err error) (*domain.InsufficientStockError, bool) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return stockErr, true
	}
	return nil, false
}

// currentSession resolves the caller's session from the cookie, creating a
// fresh one (and re-setting the cookie) when none exists.
func currentSession(w http.ResponseWriter, r *http.Request, sessions *session.Manager, secure bool) *session.Session {
	id := GetSessionIDFromCookie(r)
	s, created := sessions.GetOrCreate(id)
	if created {
		SetSessionCookie(w, s.ID, secure)
	}
	return s
}

// lineItemView is the JSON shape of one cart row, including the derived
// fields the menu UI needs to render quantity controls.
type lineItemView struct {
	CartItemID     string `json:"cartItemId"`
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Image          string `json:"image,omitempty"`
	Description    string `json:"description,omitempty"`
	VariantID      string `json:"variantId,omitempty"`
	VariantName    string `json:"variantName,omitempty"`
	UnitPrice      string `json:"unitPrice"`
	Quantity       int    `json:"quantity"`
	LineTotal      string `json:"lineTotal"`
	AvailableStock int    `json:"availableStock"`
	CanIncrease    bool   `json:"canIncrease"`
	QuickSet       []int  `json:"quickSetOptions,omitempty"`
}

// cartView is the JSON shape of the whole cart. Item count and total price
// are recomputed from the line items on every render.
type cartView struct {
	Items           []lineItemView         `json:"items"`
	ItemCount       int                    `json:"itemCount"`
	TotalPrice      string                 `json:"totalPrice"`
	IsOpen          bool                   `json:"isOpen"`
	GlobalComment   string                 `json:"globalComment"`
	CustomerDetails domain.CustomerDetails `json:"customerDetails"`
}

// renderCart builds the cart view from the session's store.
func renderCart(s *session.Session) cartView {
	items := s.Cart.Items()

	views := make([]lineItemView, 0, len(items))
	for _, item := range items {
		unit := cart.UnitPrice(item)
		view := lineItemView{
			CartItemID:     item.CartItemID,
			ProductID:      item.ProductID,
			Name:           item.Name,
			Image:          item.Image,
			Description:    item.Description,
			UnitPrice:      unit.StringFixed(2),
			Quantity:       item.Quantity,
			LineTotal:      unit.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
			AvailableStock: cart.AvailableStock(item),
			CanIncrease:    s.Cart.CanIncrease(item.CartItemID),
			QuickSet:       s.Quantities.QuickSetOptions(item.CartItemID),
		}
		if v, ok := cart.ResolvedVariant(item); ok {
			view.VariantID = v.ID
			view.VariantName = v.Name
		}
		views = append(views, view)
	}

	return cartView{
		Items:           views,
		ItemCount:       s.Cart.ItemCount(),
		TotalPrice:      s.Cart.TotalPrice().StringFixed(2),
		IsOpen:          s.Cart.IsOpen(),
		GlobalComment:   s.Cart.GlobalComment(),
		CustomerDetails: s.Cart.CustomerDetails(),
	}
}
