package domain

import (
	"context"
)

// =============================================================================
// CHECKOUT FLOW
// =============================================================================

// CheckoutState is one of the four rendered states of the checkout flow.
// The error path after a failed submission is not a distinct state: the flow
// returns to StateCustomerForm with a failure notice.
type CheckoutState string

const (
	// StateBrowsing is the initial state: cart sidebar open, line items editable.
	StateBrowsing CheckoutState = "browsing"

	// StateCustomerForm collects the customer details.
	StateCustomerForm CheckoutState = "customer_form"

	// StateSubmitting means a submission request is in flight. It acts as a
	// mutual-exclusion guard: no second submission can start while one is
	// outstanding.
	StateSubmitting CheckoutState = "submitting"

	// StateSucceeded is terminal for a checkout attempt. The cart has been
	// cleared and a redirect back to the menu is pending.
	StateSucceeded CheckoutState = "succeeded"
)

// =============================================================================
// ORDER SUBMISSION GATEWAY
// =============================================================================

// ResponseType classifies a gateway submission response.
type ResponseType string

const (
	ResponseSuccess ResponseType = "success"
	ResponseError   ResponseType = "error"
)

// SubmissionResult is the structured outcome of an order submission.
// Any response whose type is neither success nor error must be treated as a
// generic failure by the caller, never as success.
type SubmissionResult struct {
	Type    ResponseType `json:"responseType"`
	Message string       `json:"message"`
}

// OrderGateway accepts a cart snapshot and returns a structured result.
// Implementations must return a transport error (not a fabricated success)
// when the backend cannot be reached.
type OrderGateway interface {
	Submit(ctx context.Context, snapshot CartSnapshot) (*SubmissionResult, error)
}
