package domain

import (
	"errors"
	"strings"
)

var ErrPriceNotFound = errors.New("fish price not found")

// FishPrice is a single price observation for a fish type.
type FishPrice struct {
	ID          int64   `json:"id"`
	FishType    string  `json:"fish_type"`
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	AvgPrice    float64 `json:"avg_price"`
	DateUpdated string  `json:"date_updated"`
}

// PriceInput carries the mutable fields of a FishPrice for create and update.
// DateUpdated is optional; an empty value means "not supplied".
type PriceInput struct {
	FishType    string
	MinPrice    float64
	MaxPrice    float64
	AvgPrice    float64
	DateUpdated string
}

// NormalizeFishType returns the trimmed fish type used for storage and lookups.
func NormalizeFishType(s string) string {
	return strings.TrimSpace(s)
}

// IsNewerThan reports whether p supersedes other in the latest-per-type view:
// a later date wins, and on equal dates the higher id wins.
func (p FishPrice) IsNewerThan(other FishPrice) bool {
	if p.DateUpdated != other.DateUpdated {
		return p.DateUpdated > other.DateUpdated
	}
	return p.ID > other.ID
}
