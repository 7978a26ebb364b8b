package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. message repeats error in a human-readable form.
type errorResponse struct {
	Error   string       `json:"error"`
	Message string       `json:"message"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// --- Request / Response types ---

// numeric accepts a JSON number or a numeric string. Decoding never fails so
// that every bad field is reported by validation at once.
type numeric struct {
	present bool
	valid   bool
	value   float64
}

func (n *numeric) UnmarshalJSON(b []byte) error {
	*n = numeric{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	n.present = true

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		n.set(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			n.set(f)
		}
	}
	return nil
}

func (n *numeric) set(f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return
	}
	n.value, n.valid = f, true
}

// usable reports whether the value can take part in the price band rule.
func (n numeric) usable() bool {
	return n.present && n.valid && n.value >= 0
}

// text accepts any JSON value for a string field so a wrongly typed value is
// reported by validation instead of failing the whole decode.
type text struct {
	present bool
	valid   bool
	value   string
	raw     string
}

func (t *text) UnmarshalJSON(b []byte) error {
	*t = text{}
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	t.present, t.raw = true, string(b)
	if err := json.Unmarshal(b, &t.value); err == nil {
		t.valid = true
	}
	return nil
}

// trim drops surrounding whitespace from a decoded string.
func (t *text) trim() {
	t.value = strings.TrimSpace(t.value)
}

type priceRequest struct {
	FishType    text    `json:"fish_type"    validate:"required,jsonstring,max=100" swaggertype:"string"`
	MinPrice    numeric `json:"min_price"    validate:"required,gte=0"              swaggertype:"number"`
	MaxPrice    numeric `json:"max_price"    validate:"required,gte=0"              swaggertype:"number"`
	AvgPrice    numeric `json:"avg_price"    validate:"required,gte=0"              swaggertype:"number"`
	DateUpdated text    `json:"date_updated" validate:"-"                           swaggertype:"string" example:"2026-01-22"`
}

type loginRequest struct {
	Username text `json:"username" validate:"required,jsonstring,max=100" swaggertype:"string"`
	Password text `json:"password" validate:"required,jsonstring,max=200" swaggertype:"string"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	DemoMode bool   `json:"demoMode,omitempty"`
}

type deleteResponse struct {
	OK bool `json:"ok"`
}

type healthResponse struct {
	OK       bool `json:"ok"`
	DemoMode bool `json:"demoMode"`
}
