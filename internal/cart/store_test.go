package cart_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/domain"
)

func espresso() domain.Product {
	return domain.Product{
		ID:          "espresso",
		Name:        "Espresso",
		Description: "Double shot",
		Variants: []domain.Variant{
			variant("v-single", "Single", "2.50", 20),
			variant("v-double", "Double", "3.50", 5),
		},
	}
}

func flatWhite() domain.Product {
	return domain.Product{
		ID:             "flat-white",
		Name:           "Flat White",
		Price:          decimal.RequireFromString("4.00"),
		AvailableStock: 3,
	}
}

func TestStore_AddItem_MergesSameProductVariant(t *testing.T) {
	s := cart.NewStore()

	_, err := s.AddItem(espresso(), 2, "v-single")
	require.NoError(t, err)

	item, err := s.AddItem(espresso(), 3, "v-single")
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)
	assert.Len(t, s.Items(), 1, "same product/variant pairing must merge, not duplicate")
	assert.Equal(t, 5, s.ItemCount())
}

func TestStore_AddItem_DefaultVariantMergesWithExplicit(t *testing.T) {
	s := cart.NewStore()

	// Empty variant ID defaults to the first variant
	_, err := s.AddItem(espresso(), 2, "")
	require.NoError(t, err)

	item, err := s.AddItem(espresso(), 1, "v-single")
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)
	items := s.Items()
	require.Len(t, items, 1, "implicit and explicit spellings of the same variant must merge")
	assert.Equal(t, "espresso:v-single", items[0].CartItemID)
}

func TestStore_AddItem_DifferentVariantsStaySeparate(t *testing.T) {
	s := cart.NewStore()

	_, err := s.AddItem(espresso(), 1, "v-single")
	require.NoError(t, err)
	_, err = s.AddItem(espresso(), 1, "v-double")
	require.NoError(t, err)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "espresso:v-single", items[0].CartItemID)
	assert.Equal(t, "espresso:v-double", items[1].CartItemID)
}

func TestStore_AddItem_MergeExceedingStockRejected(t *testing.T) {
	s := cart.NewStore()

	_, err := s.AddItem(espresso(), 4, "v-double") // stock 5
	require.NoError(t, err)

	_, err = s.AddItem(espresso(), 2, "v-double")
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	// The existing row is untouched
	item, ok := s.Item("espresso:v-double")
	require.True(t, ok)
	assert.Equal(t, 4, item.Quantity)
}

func TestStore_AddItem_OpensSidebar(t *testing.T) {
	s := cart.NewStore()
	assert.False(t, s.IsOpen())

	_, err := s.AddItem(flatWhite(), 1, "")
	require.NoError(t, err)

	assert.True(t, s.IsOpen())
}

func TestStore_AddItem_RejectsZeroQuantity(t *testing.T) {
	s := cart.NewStore()

	_, err := s.AddItem(flatWhite(), 0, "")
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Empty(t, s.Items())
}

func TestStore_SetQuantity_AboveStockLeavesQuantityUntouched(t *testing.T) {
	s := cart.NewStore()
	item, err := s.AddItem(flatWhite(), 2, "") // stock 3
	require.NoError(t, err)

	err = s.SetQuantity(item.CartItemID, 7)
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 7, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	got, ok := s.Item(item.CartItemID)
	require.True(t, ok)
	assert.Equal(t, 2, got.Quantity)
}

func TestStore_SetQuantity_BelowOneRemovesItem(t *testing.T) {
	s := cart.NewStore()
	item, err := s.AddItem(flatWhite(), 2, "")
	require.NoError(t, err)

	require.NoError(t, s.SetQuantity(item.CartItemID, 0))

	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.ItemCount())
}

func TestStore_Decrement_ToZeroRemovesItem(t *testing.T) {
	s := cart.NewStore()
	item, err := s.AddItem(flatWhite(), 1, "")
	require.NoError(t, err)

	require.NoError(t, s.Decrement(item.CartItemID))

	_, ok := s.Item(item.CartItemID)
	assert.False(t, ok)
}

func TestStore_Increment_StopsAtStock(t *testing.T) {
	s := cart.NewStore()
	item, err := s.AddItem(flatWhite(), 3, "") // stock 3
	require.NoError(t, err)

	assert.False(t, s.CanIncrease(item.CartItemID))

	err = s.Increment(item.CartItemID)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
}

func TestStore_TotalPrice_RecomputedFromItems(t *testing.T) {
	s := cart.NewStore()

	_, err := s.AddItem(espresso(), 2, "v-single") // 2 x 2.50
	require.NoError(t, err)
	_, err = s.AddItem(flatWhite(), 1, "") // 1 x 4.00
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("9.00").Equal(s.TotalPrice()))
	assert.Equal(t, 3, s.ItemCount())

	require.NoError(t, s.SetQuantity("espresso:v-single", 1))
	assert.True(t, decimal.RequireFromString("6.50").Equal(s.TotalPrice()))

	require.NoError(t, s.RemoveItem("flat-white"))
	assert.True(t, decimal.RequireFromString("2.50").Equal(s.TotalPrice()))
}

func TestStore_UpdateCustomerDetails_PartialPatch(t *testing.T) {
	s := cart.NewStore()

	first := "Nora"
	email := "nora@example.com"
	s.UpdateCustomerDetails(domain.CustomerDetailsPatch{
		FirstName:    &first,
		EmailAddress: &email,
	})

	last := "Berg"
	s.UpdateCustomerDetails(domain.CustomerDetailsPatch{LastName: &last})

	got := s.CustomerDetails()
	assert.Equal(t, "Nora", got.FirstName)
	assert.Equal(t, "Berg", got.LastName)
	assert.Equal(t, "nora@example.com", got.EmailAddress, "absent fields must stay untouched")
}

func TestStore_Clear_ResetsItemsDraftAndComment(t *testing.T) {
	s := cart.NewStore()
	_, err := s.AddItem(flatWhite(), 1, "")
	require.NoError(t, err)

	first := "Nora"
	s.UpdateCustomerDetails(domain.CustomerDetailsPatch{FirstName: &first})
	s.UpdateGlobalComment("extra hot")

	s.Clear()

	assert.Empty(t, s.Items())
	assert.Equal(t, domain.CustomerDetails{}, s.CustomerDetails())
	assert.Empty(t, s.GlobalComment())
}

func TestStore_ToggleVisibility(t *testing.T) {
	s := cart.NewStore()

	assert.True(t, s.ToggleVisibility())
	assert.False(t, s.ToggleVisibility())
}

func TestStore_Subscribe_NotifiedOnMutation(t *testing.T) {
	s := cart.NewStore()

	calls := 0
	unsubscribe := s.Subscribe(func() { calls++ })

	_, err := s.AddItem(flatWhite(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	unsubscribe()
	s.UpdateGlobalComment("no foam")
	assert.Equal(t, 1, calls, "unsubscribed observer must not fire")
}

func TestStore_RemoveItem_Unknown(t *testing.T) {
	s := cart.NewStore()

	err := s.RemoveItem("missing")
	assert.ErrorIs(t, err, domain.ErrLineItemNotFound)
}
