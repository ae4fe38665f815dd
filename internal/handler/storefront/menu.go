// Package storefront contains the customer-facing HTTP handlers: the
// product menu, the shopping cart, and the checkout flow.
package storefront

import (
	"net/http"
	"strconv"

	"github.com/ravnkild/eira/internal/catalog"
	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/handler"
	"github.com/ravnkild/eira/internal/session"
	"github.com/ravnkild/eira/internal/telemetry"
)

// MenuHandler serves the paged product menu for a business location.
type MenuHandler struct {
	catalog  domain.CatalogService
	sessions *session.Manager
	metrics  *telemetry.BusinessMetrics
	secure   bool
}

// NewMenuHandler creates a menu handler.
func NewMenuHandler(catalogSvc domain.CatalogService, sessions *session.Manager, metrics *telemetry.BusinessMetrics, secure bool) *MenuHandler {
	return &MenuHandler{
		catalog:  catalogSvc,
		sessions: sessions,
		metrics:  metrics,
		secure:   secure,
	}
}

// variantView and productView are the wire shapes of menu entries. Prices
// render as fixed-point strings, like the cart views.
type variantView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	AvailableStock int    `json:"availableStock"`
}

type productView struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Image          string        `json:"image,omitempty"`
	Description    string        `json:"description,omitempty"`
	Variants       []variantView `json:"variants,omitempty"`
	Price          string        `json:"price"`
	AvailableStock int           `json:"availableStock"`
}

// menuResponse is one page of the product menu.
type menuResponse struct {
	LocationID string        `json:"locationId"`
	Query      string        `json:"query"`
	Page       int           `json:"page"`
	Items      []productView `json:"items"`
	HasMore    bool          `json:"hasMore"`
}

func renderMenuItems(products []domain.Product) []productView {
	views := make([]productView, 0, len(products))
	for _, p := range products {
		view := productView{
			ID:             p.ID,
			Name:           p.Name,
			Image:          p.Image,
			Description:    p.Description,
			Price:          p.Price.StringFixed(2),
			AvailableStock: p.AvailableStock,
		}
		for _, v := range p.Variants {
			view.Variants = append(view.Variants, variantView{
				ID:             v.ID,
				Name:           v.Name,
				Price:          v.Price.StringFixed(2),
				AvailableStock: v.AvailableStock,
			})
		}
		views = append(views, view)
	}
	return views
}

// View handles GET /menu/{locationID}.
// Query parameters: q (text search), page, page_size.
func (h *MenuHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	locationID := r.PathValue("locationID")
	if locationID == "" {
		handler.RespondError(w, r, domain.Invalid("menu.view", "Missing location"))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = catalog.DefaultPageSize
	}
	query := r.URL.Query().Get("q")

	result, err := h.catalog.Search(ctx, domain.SearchParams{
		Query:      query,
		Page:       page,
		PageSize:   pageSize,
		LocationID: locationID,
	})
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	s := currentSession(w, r, h.sessions, h.secure)
	s.SetLocation(locationID)
	s.RememberProducts(result.Items)

	if h.metrics != nil {
		h.metrics.MenuSearches.WithLabelValues(locationID).Inc()
	}

	handler.RespondJSON(w, r, http.StatusOK, menuResponse{
		LocationID: locationID,
		Query:      query,
		Page:       page,
		Items:      renderMenuItems(result.Items),
		HasMore:    result.HasMore,
	})
}
