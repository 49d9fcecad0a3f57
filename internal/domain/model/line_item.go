package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FlexibleID accepts identifiers encoded either as JSON strings or numbers.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *FlexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = FlexibleID(n.String())
	return nil
}

// String returns the identifier as text.
func (id FlexibleID) String() string {
	return string(id)
}

// LineItem is a cart or order line.
type LineItem struct {
	ID         FlexibleID `json:"id"`
	Title      string     `json:"title"`
	UnitPrice  float64    `json:"unit_price"`
	Quantity   int        `json:"quantity"`
	PictureURL string     `json:"picture_url,omitempty"`
}

// UnmarshalJSON accepts the storefront's legacy Spanish keys next to the canonical ones.
func (i *LineItem) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         FlexibleID   `json:"id"`
		ProductID  FlexibleID   `json:"product_id"`
		Title      string       `json:"title"`
		Name       string       `json:"name"`
		Nombre     string       `json:"nombre"`
		UnitPrice  *json.Number `json:"unit_price"`
		Price      *json.Number `json:"price"`
		Precio     *json.Number `json:"precio"`
		Quantity   *json.Number `json:"quantity"`
		Cantidad   *json.Number `json:"cantidad"`
		PictureURL string       `json:"picture_url"`
		Image      string       `json:"image"`
		Imagen     string       `json:"imagen"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*i = LineItem{
		ID:         firstID(raw.ID, raw.ProductID),
		Title:      firstString(raw.Title, raw.Name, raw.Nombre),
		PictureURL: firstString(raw.PictureURL, raw.Image, raw.Imagen),
	}
	if n := firstNumber(raw.UnitPrice, raw.Price, raw.Precio); n != nil {
		v, err := n.Float64()
		if err != nil {
			return err
		}
		i.UnitPrice = v
	}
	if n := firstNumber(raw.Quantity, raw.Cantidad); n != nil {
		v, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return err
		}
		i.Quantity = int(v)
	}
	return nil
}

func firstID(values ...FlexibleID) FlexibleID {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNumber(values ...*json.Number) *json.Number {
	for _, v := range values {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}
