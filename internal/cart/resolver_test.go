package cart_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/domain"
)

func variant(id, name string, price string, stock int) domain.Variant {
	return domain.Variant{
		ID:             id,
		Name:           name,
		Price:          decimal.RequireFromString(price),
		AvailableStock: stock,
	}
}

func TestResolvedVariant_FallbackOrder(t *testing.T) {
	small := variant("v-small", "Small", "4.50", 8)
	large := variant("v-large", "Large", "6.00", 3)
	explicit := variant("v-explicit", "Snapshot", "5.25", 12)

	tests := []struct {
		name     string
		item     domain.LineItem
		want     domain.Variant
		resolved bool
	}{
		{
			name: "explicit snapshot wins over variant list",
			item: domain.LineItem{
				Variants:   []domain.Variant{small, large},
				VariantRef: domain.ExplicitRef(explicit),
			},
			want:     explicit,
			resolved: true,
		},
		{
			name: "by-id reference looked up in variant list",
			item: domain.LineItem{
				Variants:   []domain.Variant{small, large},
				VariantRef: domain.ByIDRef("v-large"),
			},
			want:     large,
			resolved: true,
		},
		{
			name: "unknown by-id reference falls back to first variant",
			item: domain.LineItem{
				Variants:   []domain.Variant{small, large},
				VariantRef: domain.ByIDRef("v-missing"),
			},
			want:     small,
			resolved: true,
		},
		{
			name: "no reference uses first variant",
			item: domain.LineItem{
				Variants:   []domain.Variant{small, large},
				VariantRef: domain.NoRef(),
			},
			want:     small,
			resolved: true,
		},
		{
			name: "empty variant list resolves nothing",
			item: domain.LineItem{
				VariantRef: domain.NoRef(),
			},
			resolved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cart.ResolvedVariant(tt.item)
			assert.Equal(t, tt.resolved, ok)
			if tt.resolved {
				assert.Equal(t, tt.want.ID, got.ID)
				assert.True(t, tt.want.Price.Equal(got.Price))
			}
		})
	}
}

func TestUnitPrice_ItemLevelFallback(t *testing.T) {
	item := domain.LineItem{
		Price:      decimal.RequireFromString("7.95"),
		VariantRef: domain.NoRef(),
	}

	assert.True(t, decimal.RequireFromString("7.95").Equal(cart.UnitPrice(item)))
}

func TestUnitPrice_UsesResolvedVariant(t *testing.T) {
	item := domain.LineItem{
		Price:      decimal.RequireFromString("7.95"),
		Variants:   []domain.Variant{variant("v1", "Small", "4.50", 5)},
		VariantRef: domain.NoRef(),
	}

	assert.True(t, decimal.RequireFromString("4.50").Equal(cart.UnitPrice(item)))
}

func TestAvailableStock_NeverNegative(t *testing.T) {
	item := domain.LineItem{
		AvailableStock: -3,
		VariantRef:     domain.NoRef(),
	}

	assert.Equal(t, 0, cart.AvailableStock(item))
}

func TestResolveRef_ExplicitVariant(t *testing.T) {
	p := domain.Product{
		ID:       "p1",
		Variants: []domain.Variant{variant("v1", "Small", "4.50", 5), variant("v2", "Large", "6.00", 2)},
	}

	ref, err := cart.ResolveRef(p, "v2")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantRefExplicit, ref.Kind)
	require.NotNil(t, ref.Variant)
	assert.Equal(t, "v2", ref.Variant.ID)
}

func TestResolveRef_UnknownVariantRejected(t *testing.T) {
	p := domain.Product{
		ID:       "p1",
		Variants: []domain.Variant{variant("v1", "Small", "4.50", 5)},
	}

	_, err := cart.ResolveRef(p, "v-missing")
	require.Error(t, err)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestResolveRef_DefaultsToFirstVariant(t *testing.T) {
	p := domain.Product{
		ID:       "p1",
		Variants: []domain.Variant{variant("v1", "Small", "4.50", 5), variant("v2", "Large", "6.00", 2)},
	}

	ref, err := cart.ResolveRef(p, "")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantRefExplicit, ref.Kind)
	require.NotNil(t, ref.Variant)
	assert.Equal(t, "v1", ref.Variant.ID)
}

func TestResolveRef_NoVariants(t *testing.T) {
	p := domain.Product{ID: "p1"}

	ref, err := cart.ResolveRef(p, "")
	require.NoError(t, err)
	assert.Equal(t, domain.VariantRefNone, ref.Kind)
}
