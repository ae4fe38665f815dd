package cart_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/domain"
)

func bulkBeans(stock int) domain.Product {
	return domain.Product{
		ID:   "beans",
		Name: "House Blend Beans",
		Variants: []domain.Variant{
			variant("v-250g", "250g", "9.00", stock),
		},
	}
}

func newControllerWithItem(t *testing.T, stock, quantity int) (*cart.QuantityController, string) {
	t.Helper()
	s := cart.NewStore()
	item, err := s.AddItem(bulkBeans(stock), quantity, "v-250g")
	require.NoError(t, err)
	return cart.NewQuantityController(s), item.CartItemID
}

func TestQuantityController_Commit_ValidDraft(t *testing.T) {
	qc, id := newControllerWithItem(t, 50, 2)

	qc.Stage(id, " 12 ")
	result, err := qc.Commit(id)

	require.NoError(t, err)
	assert.Equal(t, 12, result.Quantity)
	assert.False(t, result.Reverted)

	_, staged := qc.Draft(id)
	assert.False(t, staged, "buffer must be cleared after commit")
}

func TestQuantityController_Commit_RevertsInvalidDrafts(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"non-numeric", "abc"},
		{"empty", ""},
		{"zero", "0"},
		{"negative", "-4"},
		{"decimal", "3.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc, id := newControllerWithItem(t, 50, 7)

			qc.Stage(id, tt.raw)
			result, err := qc.Commit(id)

			require.NoError(t, err)
			assert.True(t, result.Reverted)
			assert.Equal(t, 7, result.Quantity, "buffer resets to the committed quantity")

			_, staged := qc.Draft(id)
			assert.False(t, staged)
		})
	}
}

func TestQuantityController_Commit_StockExceededKeepsQuantity(t *testing.T) {
	qc, id := newControllerWithItem(t, 10, 4)

	qc.Stage(id, "25")
	result, err := qc.Commit(id)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 4, result.Quantity)

	_, staged := qc.Draft(id)
	assert.False(t, staged, "buffer is cleared even on rejection")
}

func TestQuantityController_Commit_NothingStaged(t *testing.T) {
	qc, id := newControllerWithItem(t, 10, 4)

	result, err := qc.Commit(id)

	require.NoError(t, err)
	assert.Equal(t, 4, result.Quantity)
	assert.False(t, result.Reverted)
}

func TestQuantityController_Commit_UnknownItem(t *testing.T) {
	qc := cart.NewQuantityController(cart.NewStore())

	_, err := qc.Commit("missing")
	assert.ErrorIs(t, err, domain.ErrLineItemNotFound)
}

func TestQuantityController_QuickSetOptions(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		want  []int
	}{
		{"below threshold", 9, nil},
		{"at threshold", 10, []int{10}},
		{"mid range", 60, []int{10, 25, 50}},
		{"all presets", 150, []int{10, 25, 50, 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qc, id := newControllerWithItem(t, tt.stock, 1)
			assert.Equal(t, tt.want, qc.QuickSetOptions(id))
		})
	}
}

func TestQuantityController_QuickSetOptions_UnknownItem(t *testing.T) {
	qc := cart.NewQuantityController(cart.NewStore())
	assert.Nil(t, qc.QuickSetOptions("missing"))
}

func TestQuantityController_SetAndSteppers(t *testing.T) {
	qc, id := newControllerWithItem(t, 10, 2)

	require.NoError(t, qc.Increment(id))
	require.NoError(t, qc.Increment(id))
	require.NoError(t, qc.Decrement(id))
	require.NoError(t, qc.Set(id, 9))

	assert.True(t, qc.CanIncrease(id))
	require.NoError(t, qc.Increment(id))
	assert.False(t, qc.CanIncrease(id))
}
