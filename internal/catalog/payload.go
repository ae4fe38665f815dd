package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ravnkild/eira/internal/domain"
)

// searchPayload mirrors the API's paged search response.
type searchPayload struct {
	Items   []productPayload `json:"items"`
	HasMore bool             `json:"hasMore"`
}

// productPayload mirrors one catalog product on the wire. The API is loose
// about numeric types, so price and stock fields use flexible decoders.
type productPayload struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Image       string           `json:"image"`
	Description string           `json:"description"`
	Price       flexDecimal      `json:"price"`
	Stock       flexInt          `json:"stock"`
	Variants    []variantPayload `json:"variants"`
}

type variantPayload struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Price          flexDecimal `json:"price"`
	AvailableStock flexInt     `json:"availableStock"`
}

func (p productPayload) toDomain() domain.Product {
	variants := make([]domain.Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, domain.Variant{
			ID:             v.ID,
			Name:           v.Name,
			Price:          v.Price.value,
			AvailableStock: v.AvailableStock.value,
		})
	}

	return domain.Product{
		ID:             p.ID,
		Name:           p.Name,
		Image:          p.Image,
		Description:    p.Description,
		Variants:       variants,
		Price:          p.Price.value,
		AvailableStock: p.Stock.value,
	}
}

// flexDecimal decodes a JSON number or numeric string into a decimal.
// Anything unparseable decodes to zero rather than failing the whole
// search: a malformed entry degrades to "unavailable".
type flexDecimal struct {
	value decimal.Decimal
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(bytes.TrimSpace(data), `"`)))
	if s == "" || s == "null" {
		f.value = decimal.Zero
		return nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		f.value = decimal.Zero
		return nil
	}

	f.value = d
	return nil
}

// flexInt decodes a JSON number or numeric string into a non-negative int,
// defaulting to zero on any parse failure.
type flexInt struct {
	value int
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var d flexDecimal
	if err := d.UnmarshalJSON(data); err != nil {
		f.value = 0
		return nil
	}

	n := int(d.value.IntPart())
	if n < 0 {
		n = 0
	}
	f.value = n
	return nil
}

// interface checks
var (
	_ json.Unmarshaler = (*flexDecimal)(nil)
	_ json.Unmarshaler = (*flexInt)(nil)
)
