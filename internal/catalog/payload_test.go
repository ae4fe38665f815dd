package catalog

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestFlexDecimal_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"number", `12.5`, "12.5"},
		{"integer", `7`, "7"},
		{"numeric string", `"4.50"`, "4.5"},
		{"integer string", `"30"`, "30"},
		{"padded string", `" 9.95 "`, "9.95"},
		{"empty string", `""`, "0"},
		{"null", `null`, "0"},
		{"garbage string", `"abc"`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexDecimal
			if err := json.Unmarshal([]byte(tt.json), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := decimal.RequireFromString(tt.want)
			if !f.value.Equal(want) {
				t.Errorf("got %s, want %s", f.value, want)
			}
		})
	}
}

func TestFlexInt_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"number", `30`, 30},
		{"numeric string", `"12"`, 12},
		{"negative clamped", `-5`, 0},
		{"garbage string", `"lots"`, 0},
		{"null", `null`, 0},
		{"float truncated", `4.9`, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexInt
			if err := json.Unmarshal([]byte(tt.json), &f); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.value != tt.want {
				t.Errorf("got %d, want %d", f.value, tt.want)
			}
		})
	}
}

func TestProductPayload_ToDomain(t *testing.T) {
	raw := `{
		"id": "p1",
		"name": "Cold Brew",
		"image": "/img/cold-brew.png",
		"description": "Slow steeped",
		"price": "5.00",
		"stock": "8",
		"variants": [
			{"id": "v1", "name": "Small", "price": 4.5, "availableStock": "20"},
			{"id": "v2", "name": "Large", "price": "bad", "availableStock": -3}
		]
	}`

	var p productPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := p.toDomain()

	if got.ID != "p1" || got.Name != "Cold Brew" {
		t.Errorf("identity fields not mapped: %+v", got)
	}
	if !got.Price.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("price = %s, want 5.00", got.Price)
	}
	if got.AvailableStock != 8 {
		t.Errorf("stock = %d, want 8", got.AvailableStock)
	}

	if len(got.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(got.Variants))
	}
	if got.Variants[0].AvailableStock != 20 {
		t.Errorf("variant stock = %d, want 20", got.Variants[0].AvailableStock)
	}
	// Malformed values degrade to zero instead of failing the search
	if !got.Variants[1].Price.IsZero() {
		t.Errorf("malformed price should degrade to zero, got %s", got.Variants[1].Price)
	}
	if got.Variants[1].AvailableStock != 0 {
		t.Errorf("negative stock should clamp to zero, got %d", got.Variants[1].AvailableStock)
	}
}
