package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravnkild/eira/internal/catalog"
	"github.com/ravnkild/eira/internal/domain"
)

func TestClient_Search(t *testing.T) {
	var gotRequest *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequest = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": [
				{"id": "p1", "name": "Mocha", "price": "4.80", "stock": 15, "variants": []}
			],
			"hasMore": true
		}`))
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)

	result, err := c.Search(context.Background(), domain.SearchParams{
		Query:      "mocha",
		Page:       2,
		PageSize:   5,
		LocationID: "loc-7",
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Mocha", result.Items[0].Name)
	assert.True(t, decimal.RequireFromString("4.80").Equal(result.Items[0].Price))
	assert.Equal(t, 15, result.Items[0].AvailableStock)
	assert.True(t, result.HasMore)

	require.NotNil(t, gotRequest)
	assert.Equal(t, "/products", gotRequest.URL.Path)
	q := gotRequest.URL.Query()
	assert.Equal(t, "mocha", q.Get("query"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "5", q.Get("page_size"))
	assert.Equal(t, "loc-7", q.Get("location_id"))
	assert.Equal(t, "Bearer test-key", gotRequest.Header.Get("Authorization"))
}

func TestClient_Search_DefaultsPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "20", q.Get("page_size"))
		w.Write([]byte(`{"items": [], "hasMore": false}`))
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{BaseURL: srv.URL}, nil)

	result, err := c.Search(context.Background(), domain.SearchParams{LocationID: "loc-1"})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.False(t, result.HasMore)
}

func TestClient_Search_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{BaseURL: srv.URL}, nil)

	_, err := c.Search(context.Background(), domain.SearchParams{})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}

func TestClient_Search_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := catalog.NewClient(catalog.Config{BaseURL: srv.URL}, nil)

	_, err := c.Search(context.Background(), domain.SearchParams{})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}

func TestClient_Search_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{BaseURL: srv.URL}, nil)

	_, err := c.Search(context.Background(), domain.SearchParams{})
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}
