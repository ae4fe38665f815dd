package storefront

import (
	"encoding/json"
	"net/http"

	"github.com/ravnkild/eira/internal/checkout"
	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/handler"
	"github.com/ravnkild/eira/internal/session"
)

// CheckoutHandler drives the checkout flow over HTTP.
type CheckoutHandler struct {
	sessions *session.Manager
	secure   bool
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(sessions *session.Manager, secure bool) *CheckoutHandler {
	return &CheckoutHandler{
		sessions: sessions,
		secure:   secure,
	}
}

// checkoutStateResponse is the JSON shape of the flow's visible state.
type checkoutStateResponse struct {
	State      domain.CheckoutState `json:"state"`
	Notice     *checkout.Notice     `json:"notice,omitempty"`
	RedirectTo string               `json:"redirectTo,omitempty"`
	Cart       cartView             `json:"cart"`
}

func (h *CheckoutHandler) stateResponse(s *session.Session) checkoutStateResponse {
	return checkoutStateResponse{
		State:      s.Flow.State(),
		Notice:     s.Flow.Notice(),
		RedirectTo: s.Flow.RedirectTarget(),
		Cart:       renderCart(s),
	}
}

// State handles GET /api/checkout.
func (h *CheckoutHandler) State(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)
	handler.RespondJSON(w, r, http.StatusOK, h.stateResponse(s))
}

// Proceed handles POST /api/checkout ("Proceed to Checkout"). Rejected
// with 400 on an empty cart: the empty-state view offers no proceed action.
func (h *CheckoutHandler) Proceed(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	if err := s.Flow.Proceed(); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, r, http.StatusOK, h.stateResponse(s))
}

// Back handles POST /api/checkout/back ("Back to Cart"). The customer
// draft is retained.
func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	if err := s.Flow.BackToCart(); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, r, http.StatusOK, h.stateResponse(s))
}

// UpdateCustomer handles PUT /api/checkout/customer with a partial
// customer-details patch; absent fields are left untouched.
func (h *CheckoutHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	var patch domain.CustomerDetailsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		handler.RespondError(w, r, domain.Invalid("checkout.customer", "Invalid request body"))
		return
	}

	s.Cart.UpdateCustomerDetails(patch)
	handler.RespondJSON(w, r, http.StatusOK, h.stateResponse(s))
}

// Submit handles POST /api/checkout/submit. Guard violations (invalid
// form, submission already in flight, wrong state) are 4xx responses and
// never reach the gateway; a gateway failure returns 200 with
// success=false and the flow back on the customer form, data intact.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	s := currentSession(w, r, h.sessions, h.secure)

	outcome, err := s.Flow.Submit(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, r, http.StatusOK, struct {
		checkout.Outcome
		State  domain.CheckoutState `json:"state"`
		Notice *checkout.Notice     `json:"notice,omitempty"`
		Cart   cartView             `json:"cart"`
	}{
		Outcome: *outcome,
		State:   s.Flow.State(),
		Notice:  s.Flow.Notice(),
		Cart:    renderCart(s),
	})
}
