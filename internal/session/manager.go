// Package session tracks one cart and checkout flow per browser session.
// The cart is deliberately confined to a single session: persistence and
// cross-device sync are owned by the remote business-management API, not
// this storefront.
package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ravnkild/eira/internal/cart"
	"github.com/ravnkild/eira/internal/checkout"
	"github.com/ravnkild/eira/internal/domain"
)

// DefaultTTL is how long an idle session survives before the sweeper
// reclaims it.
const DefaultTTL = time.Hour

// Session bundles the per-customer state: the cart store, its quantity
// controller, and the checkout flow driving submission.
type Session struct {
	ID         string
	Cart       *cart.Store
	Quantities *cart.QuantityController
	Flow       *checkout.Flow

	lastSeen time.Time // guarded by the manager's mutex

	mu       sync.Mutex
	products map[string]domain.Product
}

// SetLocation records the business location whose menu this session is
// browsing; the checkout flow redirects there after a successful order.
func (s *Session) SetLocation(locationID string) {
	s.Flow.SetLocation(locationID)
}

// RememberProducts caches catalog products the session has seen on the
// menu, so an add-to-cart request can snapshot variants/price/stock data
// without a second catalog round trip.
func (s *Session) RememberProducts(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.products == nil {
		s.products = make(map[string]domain.Product, len(products))
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
}

// Product returns a previously seen catalog product.
func (s *Session) Product(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	return p, ok
}

// FlowFactory builds a checkout flow for a freshly created cart.
type FlowFactory func(store *cart.Store) *checkout.Flow

// Manager owns all live sessions, keyed by the session cookie value.
type Manager struct {
	factory FlowFactory
	ttl     time.Duration
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	done chan struct{}
	once sync.Once
}

// NewManager creates a session manager and starts its idle-session sweeper.
func NewManager(factory FlowFactory, ttl time.Duration, logger *slog.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		factory:  factory,
		ttl:      ttl,
		logger:   logger,
		sessions: make(map[string]*Session),
		done:     make(chan struct{}),
	}

	go m.sweep()

	return m
}

// Get returns an existing session and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = time.Now()
	return s, true
}

// GetOrCreate returns the session for id, creating a fresh one (with a new
// ID) when id is empty or unknown. The second return value reports whether
// a new session was created, so callers know to re-set the cookie.
func (m *Manager) GetOrCreate(id string) (*Session, bool) {
	if s, ok := m.Get(id); ok {
		return s, false
	}

	store := cart.NewStore()
	s := &Session{
		ID:         uuid.New().String(),
		Cart:       store,
		Quantities: cart.NewQuantityController(store),
		Flow:       m.factory(store),
		lastSeen:   time.Now(),
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("session created", "session_id", s.ID)
	return s, true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stop shuts the sweeper down and closes every live flow so no pending
// redirect timer can fire after shutdown.
func (m *Manager) Stop() {
	m.once.Do(func() {
		close(m.done)
	})

	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		s.Flow.Close()
		delete(m.sessions, id)
	}
}

// sweep reclaims idle sessions, closing their flows.
func (m *Manager) sweep() {
	interval := m.ttl / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-m.ttl)

			m.mu.Lock()
			var expired []*Session
			for id, s := range m.sessions {
				if s.lastSeen.Before(cutoff) {
					expired = append(expired, s)
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()

			for _, s := range expired {
				s.Flow.Close()
				m.logger.Debug("session expired", "session_id", s.ID)
			}
		}
	}
}
