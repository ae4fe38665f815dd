package cart

import (
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ravnkild/eira/internal/domain"
)

// Store is the single source of truth for one customer's cart: an ordered
// collection of line items, the customer-detail draft, a free-text order
// comment, and the sidebar visibility flag. Derived aggregates (item count,
// total price) are recomputed from the items on every read, never cached.
//
// A Store is confined to one session but may be touched by concurrent
// requests from the same client, so every operation takes the lock.
type Store struct {
	mu       sync.Mutex
	items    []domain.LineItem // insertion order is display order
	customer domain.CustomerDetails
	comment  string
	open     bool

	subs   map[int]func()
	nextID int
}

// NewStore creates an empty cart.
func NewStore() *Store {
	return &Store{
		subs: make(map[int]func()),
	}
}

// Subscribe registers fn to run after every cart mutation. View fragments
// (line-item rows, footer totals, badge) use this to re-read derived state.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify runs subscribers. Callers must not hold the lock.
func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// AddItem adds a product (optionally a specific variant) to the cart. If a
// line item for the same product/variant pairing already exists, quantities
// are merged by summing rather than creating a duplicate row. The change is
// all-or-nothing: a merge that would exceed the available stock is rejected
// and the existing row is left untouched.
//
// Adding also opens the cart sidebar.
func (s *Store) AddItem(p domain.Product, quantity int, variantID string) (*domain.LineItem, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	ref, err := ResolveRef(p, variantID)
	if err != nil {
		return nil, err
	}

	// Key by the resolved variant, so an implicit add (empty variant ID
	// defaulting to the first variant) and an explicit add of that same
	// variant land on one row.
	resolvedVariantID := variantID
	if ref.Variant != nil {
		resolvedVariantID = ref.Variant.ID
	}
	id := domain.CartItemID(p.ID, resolvedVariantID)

	s.mu.Lock()

	if idx := s.indexOf(id); idx >= 0 {
		item := s.items[idx]
		newQty := item.Quantity + quantity
		if stock := AvailableStock(item); newQty > stock {
			s.mu.Unlock()
			return nil, &domain.InsufficientStockError{
				CartItemID: id,
				Requested:  newQty,
				Available:  stock,
			}
		}
		s.items[idx].Quantity = newQty
		s.open = true
		merged := s.items[idx]
		s.mu.Unlock()
		s.notify()
		return &merged, nil
	}

	item := domain.LineItem{
		CartItemID:     id,
		ProductID:      p.ID,
		Name:           p.Name,
		Image:          p.Image,
		Description:    p.Description,
		Variants:       slices.Clone(p.Variants),
		VariantRef:     ref,
		Quantity:       quantity,
		Price:          p.Price,
		AvailableStock: p.AvailableStock,
	}

	if stock := AvailableStock(item); quantity > stock {
		s.mu.Unlock()
		return nil, &domain.InsufficientStockError{
			CartItemID: id,
			Requested:  quantity,
			Available:  stock,
		}
	}

	s.items = append(s.items, item)
	s.open = true
	s.mu.Unlock()
	s.notify()
	return &item, nil
}

// RemoveItem removes a line item by its cart item ID.
func (s *Store) RemoveItem(cartItemID string) error {
	s.mu.Lock()
	idx := s.indexOf(cartItemID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrLineItemNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetQuantity commits a quantity change for a line item. A quantity below 1
// removes the item instead of persisting a zero. A quantity above the
// resolved available stock is rejected with an InsufficientStockError and
// the stored quantity is left untouched.
func (s *Store) SetQuantity(cartItemID string, quantity int) error {
	if quantity < 1 {
		return s.RemoveItem(cartItemID)
	}

	s.mu.Lock()
	idx := s.indexOf(cartItemID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrLineItemNotFound
	}

	if stock := AvailableStock(s.items[idx]); quantity > stock {
		s.mu.Unlock()
		return &domain.InsufficientStockError{
			CartItemID: cartItemID,
			Requested:  quantity,
			Available:  stock,
		}
	}

	s.items[idx].Quantity = quantity
	s.mu.Unlock()
	s.notify()
	return nil
}

// Increment raises a line item's quantity by one.
func (s *Store) Increment(cartItemID string) error {
	s.mu.Lock()
	idx := s.indexOf(cartItemID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrLineItemNotFound
	}
	current := s.items[idx].Quantity
	s.mu.Unlock()

	return s.SetQuantity(cartItemID, current+1)
}

// Decrement lowers a line item's quantity by one; reaching zero removes it.
func (s *Store) Decrement(cartItemID string) error {
	s.mu.Lock()
	idx := s.indexOf(cartItemID)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrLineItemNotFound
	}
	current := s.items[idx].Quantity
	s.mu.Unlock()

	return s.SetQuantity(cartItemID, current-1)
}

// CanIncrease reports whether a line item's quantity may grow. Drives the
// increment control and the "maximum reached" notice.
func (s *Store) CanIncrease(cartItemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(cartItemID)
	if idx < 0 {
		return false
	}
	return s.items[idx].Quantity < AvailableStock(s.items[idx])
}

// Item returns a copy of one line item.
func (s *Store) Item(cartItemID string) (domain.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(cartItemID)
	if idx < 0 {
		return domain.LineItem{}, false
	}
	return s.items[idx], true
}

// Items returns a copy of all line items in insertion order.
func (s *Store) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// ItemCount is the sum of quantities across all line items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// TotalPrice is the sum over items of resolved unit price times quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, item := range s.items {
		line := UnitPrice(item).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// UpdateCustomerDetails applies a partial update to the customer draft.
// Nil fields are left untouched.
func (s *Store) UpdateCustomerDetails(patch domain.CustomerDetailsPatch) {
	s.mu.Lock()
	if patch.FirstName != nil {
		s.customer.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		s.customer.LastName = *patch.LastName
	}
	if patch.PhoneNumber != nil {
		s.customer.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Gender != nil {
		s.customer.Gender = *patch.Gender
	}
	if patch.EmailAddress != nil {
		s.customer.EmailAddress = *patch.EmailAddress
	}
	s.mu.Unlock()
	s.notify()
}

// CustomerDetails returns the current customer draft.
func (s *Store) CustomerDetails() domain.CustomerDetails {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer
}

// UpdateGlobalComment sets the free-text order comment.
func (s *Store) UpdateGlobalComment(text string) {
	s.mu.Lock()
	s.comment = text
	s.mu.Unlock()
	s.notify()
}

// GlobalComment returns the free-text order comment.
func (s *Store) GlobalComment() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.comment
}

// ToggleVisibility flips the sidebar flag and returns the new value.
func (s *Store) ToggleVisibility() bool {
	s.mu.Lock()
	s.open = !s.open
	open := s.open
	s.mu.Unlock()
	s.notify()
	return open
}

// SetOpen sets the sidebar flag.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	s.open = open
	s.mu.Unlock()
	s.notify()
}

// IsOpen reports the sidebar flag.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Clear resets the line items. Invoked as part of a successful checkout,
// never silently. The customer draft and comment reset with the items: the
// order they belonged to has been accepted.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.customer = domain.CustomerDetails{}
	s.comment = ""
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns the full serializable cart state for order submission.
func (s *Store) Snapshot() domain.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.CartSnapshot{
		Items:           slices.Clone(s.items),
		CustomerDetails: s.customer,
		GlobalComment:   s.comment,
	}
}

// indexOf returns the position of a line item, or -1. Callers hold the lock.
func (s *Store) indexOf(cartItemID string) int {
	for i, item := range s.items {
		if item.CartItemID == cartItemID {
			return i
		}
	}
	return -1
}
