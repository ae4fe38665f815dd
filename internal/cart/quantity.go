package cart

import (
	"strconv"
	"strings"
	"sync"

	"github.com/ravnkild/eira/internal/domain"
)

// quickSetPresets are the quantity shortcuts offered for high-stock items.
var quickSetPresets = []int{10, 25, 50, 100}

// quickSetThreshold is the minimum available stock before shortcuts appear.
const quickSetThreshold = 10

// QuantityController validates and applies quantity changes against the
// stock resolved for each line item, and manages the per-item draft buffer
// for direct numeric entry so intermediate keystrokes never mutate the cart.
type QuantityController struct {
	store *Store

	mu     sync.Mutex
	drafts map[string]string
}

// NewQuantityController creates a controller bound to one cart.
func NewQuantityController(store *Store) *QuantityController {
	return &QuantityController{
		store:  store,
		drafts: make(map[string]string),
	}
}

// Set commits a quantity change. Below 1 removes the item; above the
// resolved stock is rejected with an InsufficientStockError.
func (q *QuantityController) Set(cartItemID string, quantity int) error {
	return q.store.SetQuantity(cartItemID, quantity)
}

// Increment raises the quantity by one.
func (q *QuantityController) Increment(cartItemID string) error {
	return q.store.Increment(cartItemID)
}

// Decrement lowers the quantity by one; reaching zero removes the item.
func (q *QuantityController) Decrement(cartItemID string) error {
	return q.store.Decrement(cartItemID)
}

// CanIncrease reports whether the increment control should be enabled.
func (q *QuantityController) CanIncrease(cartItemID string) bool {
	return q.store.CanIncrease(cartItemID)
}

// Stage records a typed-but-uncommitted quantity for a line item. The raw
// text is kept verbatim; nothing is parsed or applied until Commit.
func (q *QuantityController) Stage(cartItemID, raw string) {
	q.mu.Lock()
	q.drafts[cartItemID] = raw
	q.mu.Unlock()
}

// Draft returns the staged value for a line item, if any.
func (q *QuantityController) Draft(cartItemID string) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	raw, ok := q.drafts[cartItemID]
	return raw, ok
}

// CommitResult reports the outcome of committing a draft.
type CommitResult struct {
	// Quantity is the line item's quantity after the commit.
	Quantity int

	// Reverted is true when the draft was non-numeric or below 1 and the
	// buffer was reset to the last committed quantity without mutating
	// the cart.
	Reverted bool
}

// Commit parses the staged value for a line item (on blur or Enter) and
// routes valid quantities through Set. A non-numeric or sub-1 draft resets
// the buffer to the committed quantity; there is no silent coercion to an
// arbitrary number. The buffer entry is cleared in every case.
//
// A stock-exceeded rejection surfaces as an error while the stored quantity
// stays untouched.
func (q *QuantityController) Commit(cartItemID string) (CommitResult, error) {
	q.mu.Lock()
	raw, staged := q.drafts[cartItemID]
	delete(q.drafts, cartItemID)
	q.mu.Unlock()

	item, ok := q.store.Item(cartItemID)
	if !ok {
		return CommitResult{}, domain.ErrLineItemNotFound
	}

	if !staged {
		return CommitResult{Quantity: item.Quantity}, nil
	}

	parsed, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || parsed < 1 {
		return CommitResult{Quantity: item.Quantity, Reverted: true}, nil
	}

	if err := q.store.SetQuantity(cartItemID, parsed); err != nil {
		return CommitResult{Quantity: item.Quantity}, err
	}

	return CommitResult{Quantity: parsed}, nil
}

// QuickSetOptions returns the preset quantity shortcuts for a line item:
// offered only when the resolved stock is at least 10, and filtered to
// presets the stock can satisfy. Each preset routes through Set.
func (q *QuantityController) QuickSetOptions(cartItemID string) []int {
	item, ok := q.store.Item(cartItemID)
	if !ok {
		return nil
	}

	stock := AvailableStock(item)
	if stock < quickSetThreshold {
		return nil
	}

	options := make([]int, 0, len(quickSetPresets))
	for _, preset := range quickSetPresets {
		if preset <= stock {
			options = append(options, preset)
		}
	}
	return options
}
