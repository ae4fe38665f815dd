// Package checkout implements the four-state checkout flow controller that
// coordinates cart mutations with the order submission gateway: Browsing,
// CustomerForm, Submitting and Succeeded, plus the error path back to the
// form with everything intact.
package checkout

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/telemetry"
)

// DefaultRedirectDelay is how long the success overlay shows before the
// view navigates back to the location's menu.
const DefaultRedirectDelay = 3 * time.Second

// NoticeKind classifies a user-visible notice raised by the flow.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is a toast-style message for the customer.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Message string     `json:"message"`
}

// Outcome reports the result of a submission attempt.
type Outcome struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// Config wires a Flow to its collaborators.
type Config struct {
	Cart    *cart.Store
	Gateway domain.OrderGateway
	Logger  *slog.Logger
	Metrics *telemetry.BusinessMetrics

	// LocationID is the business location whose menu the customer is
	// browsing; the post-success redirect targets its menu route.
	LocationID string

	// RedirectDelay overrides DefaultRedirectDelay (tests use a short one).
	RedirectDelay time.Duration

	// OnRedirect runs when the post-success timer fires. It never runs
	// after Close.
	OnRedirect func(target string)
}

// Flow drives one customer's checkout. All transitions are guarded; the
// Submitting state doubles as the mutual-exclusion guard against a second
// submission while one is outstanding.
type Flow struct {
	cfg      Config
	validate *validator.Validate

	mu         sync.Mutex
	state      domain.CheckoutState
	notice     *Notice
	redirectTo string
	timer      *time.Timer
	closed     bool
}

// NewFlow creates a flow in the Browsing state.
func NewFlow(cfg Config) *Flow {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = DefaultRedirectDelay
	}

	v := validator.New()
	// Report field errors under their JSON names so they line up with the
	// form the customer sees.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Flow{
		cfg:      cfg,
		validate: v,
		state:    domain.StateBrowsing,
	}
}

// State returns the current flow state.
func (f *Flow) State() domain.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Notice returns the latest user-visible notice, if any.
func (f *Flow) Notice() *Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// RedirectTarget returns the pending post-success redirect route, or empty.
func (f *Flow) RedirectTarget() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirectTo
}

// SetLocation updates the business location backing the redirect route.
func (f *Flow) SetLocation(locationID string) {
	f.mu.Lock()
	f.cfg.LocationID = locationID
	f.mu.Unlock()
}

// LocationID returns the business location this flow is scoped to.
func (f *Flow) LocationID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg.LocationID
}

// Proceed transitions Browsing -> CustomerForm. Guarded by a non-empty
// cart: an empty cart shows an empty-state view and offers no proceed
// action, so the transition is rejected.
func (f *Flow) Proceed() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != domain.StateBrowsing {
		return domain.Invalid("checkout.proceed", "Checkout already in progress")
	}
	if f.cfg.Cart.ItemCount() == 0 {
		return domain.ErrEmptyCart
	}

	f.state = domain.StateCustomerForm
	f.notice = nil

	if f.cfg.Metrics != nil {
		f.cfg.Metrics.CheckoutStarted.WithLabelValues(f.cfg.LocationID).Inc()
		f.cfg.Metrics.CartValue.WithLabelValues(f.cfg.LocationID).
			Observe(f.cfg.Cart.TotalPrice().InexactFloat64())
	}
	return nil
}

// BackToCart transitions CustomerForm -> Browsing with no state loss; the
// customer-detail draft lives in the cart store and is retained.
func (f *Flow) BackToCart() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != domain.StateCustomerForm {
		return domain.Invalid("checkout.back", "Not on the customer form")
	}

	f.state = domain.StateBrowsing
	f.notice = nil
	return nil
}

// Submit sends the cart snapshot to the order gateway.
//
// Guards: the flow must be on the customer form, no submission may already
// be in flight, and the customer details must validate (all five fields
// non-empty, email well-formed). Guard violations return an error and the
// gateway is never called.
//
// A gateway error response, a transport error, or an unrecognized response
// shape all land on the same failure path: the flow returns to the customer
// form with a failure notice and all entered data intact. On success the
// side effects run in order: success notice, close sidebar, clear cart,
// success overlay state, then the delayed redirect to the location's menu.
func (f *Flow) Submit(ctx context.Context) (*Outcome, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, domain.Conflict("checkout.submit", "Checkout is no longer active")
	}
	if f.state == domain.StateSubmitting {
		f.mu.Unlock()
		return nil, domain.Conflict("checkout.submit", "A submission is already in progress")
	}
	if f.state != domain.StateCustomerForm {
		f.mu.Unlock()
		return nil, domain.Invalid("checkout.submit", "Not on the customer form")
	}

	details := f.cfg.Cart.CustomerDetails()
	if err := f.validate.Struct(details); err != nil {
		f.mu.Unlock()
		return nil, f.validationError(err)
	}

	snapshot := f.cfg.Cart.Snapshot()
	if len(snapshot.Items) == 0 {
		f.mu.Unlock()
		return nil, domain.ErrEmptyCart
	}
	totalPrice := f.cfg.Cart.TotalPrice()
	itemCount := f.cfg.Cart.ItemCount()
	locationID := f.cfg.LocationID

	f.state = domain.StateSubmitting
	f.mu.Unlock()

	start := time.Now()
	result, err := f.cfg.Gateway.Submit(ctx, snapshot)
	latency := time.Since(start)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		f.state = domain.StateCustomerForm
		return nil, domain.Conflict("checkout.submit", "Checkout is no longer active")
	}

	if err != nil || result == nil || result.Type != domain.ResponseSuccess {
		return f.failLocked(result, err, locationID, latency), nil
	}

	// Success: notice, close sidebar, clear cart, overlay, delayed redirect.
	message := result.Message
	if message == "" {
		message = "Order submitted successfully"
	}
	f.notice = &Notice{Kind: NoticeSuccess, Message: message}
	f.cfg.Cart.SetOpen(false)
	f.cfg.Cart.Clear()
	f.state = domain.StateSucceeded
	f.redirectTo = "/menu/" + locationID
	f.scheduleRedirectLocked()

	if f.cfg.Metrics != nil {
		f.cfg.Metrics.CheckoutCompleted.WithLabelValues(locationID).Inc()
		f.cfg.Metrics.OrderValue.WithLabelValues(locationID).Observe(totalPrice.InexactFloat64())
		f.cfg.Metrics.OrderItemCount.WithLabelValues(locationID).Observe(float64(itemCount))
		f.cfg.Metrics.CartCleared.WithLabelValues(locationID).Inc()
		f.cfg.Metrics.GatewayLatency.WithLabelValues(locationID, "success").Observe(latency.Seconds())
	}

	f.cfg.Logger.Info("order submitted",
		"location_id", locationID,
		"item_count", itemCount,
		"total_price", totalPrice.String(),
	)

	return &Outcome{Success: true, Message: message, RedirectTo: f.redirectTo}, nil
}

// failLocked records a failed submission and returns the flow to the
// customer form without touching cart contents or the customer draft.
func (f *Flow) failLocked(result *domain.SubmissionResult, err error, locationID string, latency time.Duration) *Outcome {
	reason := "malformed"
	message := "Order submission failed. Please try again."

	switch {
	case err != nil:
		reason = "transport"
		f.cfg.Logger.Error("order submission failed", "error", err, "location_id", locationID)
		telemetry.CaptureErrorWithLocation(err, locationID, nil)
	case result != nil && result.Type == domain.ResponseError:
		reason = "gateway_error"
		if result.Message != "" {
			message = result.Message
		}
		f.cfg.Logger.Info("order rejected by gateway", "message", result.Message, "location_id", locationID)
	default:
		f.cfg.Logger.Error("unexpected gateway response shape", "location_id", locationID)
	}

	f.state = domain.StateCustomerForm
	f.notice = &Notice{Kind: NoticeError, Message: message}

	if f.cfg.Metrics != nil {
		f.cfg.Metrics.CheckoutFailed.WithLabelValues(locationID, reason).Inc()
		f.cfg.Metrics.GatewayLatency.WithLabelValues(locationID, "error").Observe(latency.Seconds())
	}

	return &Outcome{Success: false, Message: message}
}

// scheduleRedirectLocked arms the post-success navigation timer. The timer
// is owned by the flow and cancelled by Close so it can never fire against
// a torn-down view.
func (f *Flow) scheduleRedirectLocked() {
	if f.timer != nil {
		f.timer.Stop()
	}

	target := f.redirectTo
	f.timer = time.AfterFunc(f.cfg.RedirectDelay, func() {
		f.mu.Lock()
		if f.closed || f.state != domain.StateSucceeded {
			f.mu.Unlock()
			return
		}
		// The view has navigated back to the menu; start fresh.
		f.state = domain.StateBrowsing
		f.redirectTo = ""
		f.notice = nil
		onRedirect := f.cfg.OnRedirect
		f.mu.Unlock()

		if onRedirect != nil {
			onRedirect(target)
		}
	})
}

// Close tears the flow down, cancelling any pending redirect timer.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// validationError converts validator errors into field-level domain errors.
func (f *Flow) validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return domain.Invalid("checkout.submit", "Invalid customer details")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "is required"
		case "email":
			fields[fe.Field()] = "must be a valid email address"
		case "oneof":
			fields[fe.Field()] = "must be MALE or FEMALE"
		default:
			fields[fe.Field()] = "is invalid"
		}
	}

	return &domain.ValidationError{Op: "checkout.submit", Fields: fields}
}
