package storefront

import (
	"encoding/json"
	"net/http"

	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/handler"
	"github.com/ravnkild/eira/internal/session"
	"github.com/ravnkild/eira/internal/telemetry"
)

// CartHandler handles all cart-related storefront routes.
type CartHandler struct {
	sessions *session.Manager
	metrics  *telemetry.BusinessMetrics
	secure   bool
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(sessions *session.Manager, metrics *telemetry.BusinessMetrics, secure bool) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		metrics:  metrics,
		secure:   secure,
	}
}

// View handles GET /api/cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)
	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

// Add handles POST /api/cart/items. The product must have been seen on the
// menu during this session; its variants/price/stock are snapshotted into
// the new line item. Adding the same product/variant pairing again merges
// by summing quantities.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Invalid("cart.add_item", "Invalid request body"))
		return
	}
	if req.ProductID == "" {
		handler.RespondError(w, r, domain.Invalid("cart.add_item", "Missing product"))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, ok := s.Product(req.ProductID)
	if !ok {
		handler.RespondError(w, r, domain.NotFound("cart.add_item", "product", req.ProductID))
		return
	}

	if _, err := s.Cart.AddItem(product, req.Quantity, req.VariantID); err != nil {
		h.countStockRejection(s, err)
		handler.RespondError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CartItemsAdd.WithLabelValues(locationOf(s)).Inc()
	}

	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity handles PATCH /api/cart/items/{cartItemID}. A quantity below
// 1 removes the row; one above the available stock is rejected with a 409
// carrying the maximum.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)
	cartItemID := r.PathValue("cartItemID")

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Invalid("cart.set_quantity", "Invalid request body"))
		return
	}

	if err := s.Quantities.Set(cartItemID, req.Quantity); err != nil {
		h.countStockRejection(s, err)
		handler.RespondError(w, r, err)
		return
	}

	h.countCartUpdate(s, "set")
	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

type quantityInputRequest struct {
	Input string `json:"input"`
}

// quantityInputResponse reports what a typed-quantity commit did.
type quantityInputResponse struct {
	Quantity int      `json:"quantity"`
	Reverted bool     `json:"reverted"`
	Cart     cartView `json:"cart"`
}

// CommitQuantityInput handles POST /api/cart/items/{cartItemID}/quantity:
// the blur/Enter commit of a typed quantity. Non-numeric or sub-1 input
// reverts to the committed quantity without mutating the cart.
func (h *CartHandler) CommitQuantityInput(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)
	cartItemID := r.PathValue("cartItemID")

	var req quantityInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Invalid("cart.quantity_input", "Invalid request body"))
		return
	}

	s.Quantities.Stage(cartItemID, req.Input)
	result, err := s.Quantities.Commit(cartItemID)
	if err != nil {
		h.countStockRejection(s, err)
		handler.RespondError(w, r, err)
		return
	}

	if !result.Reverted {
		h.countCartUpdate(s, "set")
	}

	handler.RespondJSON(w, r, http.StatusOK, quantityInputResponse{
		Quantity: result.Quantity,
		Reverted: result.Reverted,
		Cart:     renderCart(s),
	})
}

// Increment handles POST /api/cart/items/{cartItemID}/increment.
func (h *CartHandler) Increment(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	if err := s.Quantities.Increment(r.PathValue("cartItemID")); err != nil {
		h.countStockRejection(s, err)
		handler.RespondError(w, r, err)
		return
	}

	h.countCartUpdate(s, "increment")
	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

// Decrement handles POST /api/cart/items/{cartItemID}/decrement. Reaching
// zero removes the row.
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	if err := s.Quantities.Decrement(r.PathValue("cartItemID")); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	h.countCartUpdate(s, "decrement")
	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

// Remove handles DELETE /api/cart/items/{cartItemID}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	if err := s.Cart.RemoveItem(r.PathValue("cartItemID")); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	h.countCartUpdate(s, "remove")
	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

// Toggle handles POST /api/cart/toggle (sidebar visibility).
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)
	s.Cart.ToggleVisibility()
	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

type commentRequest struct {
	Comment string `json:"comment"`
}

// Comment handles PUT /api/cart/comment (free-text order comment).
func (h *CartHandler) Comment(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handler.RespondError(w, r, domain.Invalid("cart.comment", "Invalid request body"))
		return
	}

	s.Cart.UpdateGlobalComment(req.Comment)
	handler.RespondJSON(w, r, http.StatusOK, renderCart(s))
}

func (h *CartHandler) countCartUpdate(s *session.Session, action string) {
	if h.metrics != nil {
		h.metrics.CartUpdated.WithLabelValues(locationOf(s), action).Inc()
	}
}

func (h *CartHandler) countStockRejection(s *session.Session, err error) {
	if h.metrics == nil {
		return
	}
	if _, ok := errAsStock(err); ok {
		h.metrics.StockRejections.WithLabelValues(locationOf(s)).Inc()
	}
}
