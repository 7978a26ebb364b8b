package handler

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

const maxFishTypeLen = 100

// toPriceInput maps a validated request onto the store input.
func toPriceInput(req priceRequest) domain.PriceInput {
	in := domain.PriceInput{
		FishType: domain.NormalizeFishType(req.FishType.value),
		MinPrice: req.MinPrice.value,
		MaxPrice: req.MaxPrice.value,
		AvgPrice: req.AvgPrice.value,
	}
	if req.DateUpdated.present {
		if t, ok := domain.ParseDate(req.DateUpdated.value); ok {
			in.DateUpdated = t.Format(domain.DateLayout)
		}
	}
	return in
}

// parseID reads a positive integer path id.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, invalidField("id", "id must be a positive integer")
	}
	return id, nil
}

// parseFishType reads a trimmed 1-100 character fish type path segment.
func parseFishType(raw string) (string, error) {
	t := domain.NormalizeFishType(raw)
	if n := utf8.RuneCountInString(t); n == 0 || n > maxFishTypeLen {
		return "", invalidField("fish_type", "fish_type must be between 1 and 100 characters")
	}
	return t, nil
}
