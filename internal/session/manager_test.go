package session_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/checkout"
	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/gateway"
	"github.com/ravnkild/eira/internal/session"
)

func newManager(t *testing.T, ttl time.Duration) *session.Manager {
	t.Helper()
	m := session.NewManager(func(store *cart.Store) *checkout.Flow {
		return checkout.NewFlow(checkout.Config{
			Cart:    store,
			Gateway: gateway.NewMock(),
		})
	}, ttl, nil)
	t.Cleanup(m.Stop)
	return m
}

func TestManager_GetOrCreate(t *testing.T) {
	m := newManager(t, time.Hour)

	s, created := m.GetOrCreate("")
	require.True(t, created)
	require.NotEmpty(t, s.ID)
	require.NotNil(t, s.Cart)
	require.NotNil(t, s.Quantities)
	require.NotNil(t, s.Flow)

	again, created := m.GetOrCreate(s.ID)
	assert.False(t, created)
	assert.Same(t, s, again, "known IDs return the same session")
	assert.Equal(t, 1, m.Len())
}

func TestManager_GetOrCreate_UnknownIDGetsFreshSession(t *testing.T) {
	m := newManager(t, time.Hour)

	s, created := m.GetOrCreate("stale-cookie-value")
	require.True(t, created)
	assert.NotEqual(t, "stale-cookie-value", s.ID, "unknown IDs are replaced, never adopted")
}

func TestManager_Get_EmptyID(t *testing.T) {
	m := newManager(t, time.Hour)

	_, ok := m.Get("")
	assert.False(t, ok)
}

func TestManager_Stop_Idempotent(t *testing.T) {
	m := newManager(t, time.Hour)
	m.GetOrCreate("")

	m.Stop()
	m.Stop()

	assert.Equal(t, 0, m.Len())
}

func TestSession_RememberProducts(t *testing.T) {
	m := newManager(t, time.Hour)
	s, _ := m.GetOrCreate("")

	s.RememberProducts([]domain.Product{
		{ID: "p1", Name: "Latte", Price: decimal.RequireFromString("4.50")},
		{ID: "p2", Name: "Mocha", Price: decimal.RequireFromString("4.80")},
	})

	p, ok := s.Product("p2")
	require.True(t, ok)
	assert.Equal(t, "Mocha", p.Name)

	_, ok = s.Product("p3")
	assert.False(t, ok)

	// Later pages overwrite earlier snapshots of the same product
	s.RememberProducts([]domain.Product{
		{ID: "p1", Name: "Latte", Price: decimal.RequireFromString("5.00")},
	})
	p, ok = s.Product("p1")
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("5.00").Equal(p.Price))
}

func TestSession_SetLocation(t *testing.T) {
	m := newManager(t, time.Hour)
	s, _ := m.GetOrCreate("")

	s.SetLocation("loc-3")
	assert.Equal(t, "loc-3", s.Flow.LocationID())
}
