package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravnkild/eira/internal/domain"
	"github.com/ravnkild/eira/internal/gateway"
)

func sampleSnapshot() domain.CartSnapshot {
	return domain.CartSnapshot{
		Items: []domain.LineItem{
			{
				CartItemID: "latte",
				ProductID:  "latte",
				Name:       "Latte",
				Quantity:   2,
				Price:      decimal.RequireFromString("4.50"),
				VariantRef: domain.NoRef(),
			},
		},
		CustomerDetails: domain.CustomerDetails{
			FirstName:    "Nora",
			LastName:     "Berg",
			PhoneNumber:  "+4791234567",
			Gender:       domain.GenderFemale,
			EmailAddress: "nora@example.com",
		},
		GlobalComment: "no sugar",
	}
}

func TestClient_Submit_Success(t *testing.T) {
	var gotBody map[string]any
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotBody))
		w.Write([]byte(`{"responseType": "success", "message": "Order received"}`))
	}))
	defer srv.Close()

	c := gateway.NewClient(gateway.Config{BaseURL: srv.URL, APIKey: "key"}, nil)

	result, err := c.Submit(context.Background(), sampleSnapshot())
	require.NoError(t, err)

	assert.Equal(t, domain.ResponseSuccess, result.Type)
	assert.Equal(t, "Order received", result.Message)

	assert.Equal(t, "Bearer key", gotHeaders.Get("Authorization"))
	assert.NotEmpty(t, gotHeaders.Get("X-Client-Reference"))
	assert.Equal(t, "no sugar", gotBody["globalComment"])
}

func TestClient_Submit_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"responseType": "error", "message": "Location closed"}`))
	}))
	defer srv.Close()

	c := gateway.NewClient(gateway.Config{BaseURL: srv.URL}, nil)

	result, err := c.Submit(context.Background(), sampleSnapshot())
	require.NoError(t, err, "a decoded error response is data, not a transport failure")
	assert.Equal(t, domain.ResponseError, result.Type)
	assert.Equal(t, "Location closed", result.Message)
}

func TestClient_Submit_UnknownResponseTypePassedThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"responseType": "accepted_partially", "message": "huh"}`))
	}))
	defer srv.Close()

	c := gateway.NewClient(gateway.Config{BaseURL: srv.URL}, nil)

	result, err := c.Submit(context.Background(), sampleSnapshot())
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseType("accepted_partially"), result.Type,
		"unknown response types must never be coerced into a success")
}

func TestClient_Submit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := gateway.NewClient(gateway.Config{BaseURL: srv.URL}, nil)

	_, err := c.Submit(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}

func TestClient_Submit_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway timeout</html>`))
	}))
	defer srv.Close()

	c := gateway.NewClient(gateway.Config{BaseURL: srv.URL}, nil)

	_, err := c.Submit(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))
}
