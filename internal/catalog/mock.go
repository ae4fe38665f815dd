package catalog

import (
	"context"
	"fmt"

	"github.com/ravnkild/eira/internal/domain"
)

// Mock is a catalog service for testing. Without a SearchFunc it pages
// through the Products slice.
type Mock struct {
	// SearchFunc allows customizing search behavior per test.
	SearchFunc func(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error)

	// Products backs the default paging behavior.
	Products []domain.Product

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

// NewMock creates a mock catalog seeded with products.
func NewMock(products ...domain.Product) *Mock {
	return &Mock{Products: products}
}

// Search implements domain.CatalogService.
func (m *Mock) Search(ctx context.Context, params domain.SearchParams) (*domain.SearchResult, error) {
	m.CallLog = append(m.CallLog, fmt.Sprintf("Search(%q, %d, %d, %s)",
		params.Query, params.Page, params.PageSize, params.LocationID))

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, params)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	size := params.PageSize
	if size < 1 {
		size = DefaultPageSize
	}

	start := (page - 1) * size
	if start >= len(m.Products) {
		return &domain.SearchResult{}, nil
	}

	end := start + size
	if end > len(m.Products) {
		end = len(m.Products)
	}

	return &domain.SearchResult{
		Items:   m.Products[start:end],
		HasMore: end < len(m.Products),
	}, nil
}

var _ domain.CatalogService = (*Mock)(nil)
