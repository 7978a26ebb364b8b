package handler

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
)

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field names in errors are the JSON names.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(numericValue, numeric{})
	v.RegisterCustomTypeFunc(textValue, text{})
	_ = v.RegisterValidation("jsonstring", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String
	})
	v.RegisterStructValidation(priceRequestRule, priceRequest{})

	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures are returned
// together as a *ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldError(fe)})
	}
	return out
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be a number greater than or equal to %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "jsonstring":
		return field + " must be a string"
	case "calendardate":
		return field + " must be a valid date (YYYY-MM-DD or ISO 8601)"
	case "priceband":
		if fe.Param() == bandMinMax {
			return "min_price must be less than or equal to max_price"
		}
		return "avg_price must be between min_price and max_price"
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

const (
	bandMinMax = "min_max"
	bandAvg    = "avg"
)

// priceRequestRule checks date_updated and the price band. The band rule
// enforces min_price <= avg_price <= max_price, reports any violation on
// avg_price and only runs once all three prices are usable numbers; otherwise
// the per-field rules already reject the payload.
func priceRequestRule(sl validator.StructLevel) {
	req := sl.Current().Interface().(priceRequest)

	if req.DateUpdated.present {
		if _, ok := domain.ParseDate(req.DateUpdated.value); !ok || !req.DateUpdated.valid {
			sl.ReportError(req.DateUpdated.value, "date_updated", "DateUpdated", "calendardate", "")
		}
	}

	if !req.MinPrice.usable() || !req.MaxPrice.usable() || !req.AvgPrice.usable() {
		return
	}
	lo, hi, avg := req.MinPrice.value, req.MaxPrice.value, req.AvgPrice.value
	switch {
	case lo > hi:
		sl.ReportError(req.AvgPrice.value, "avg_price", "AvgPrice", "priceband", bandMinMax)
	case avg < lo || avg > hi:
		sl.ReportError(req.AvgPrice.value, "avg_price", "AvgPrice", "priceband", bandAvg)
	}
}

// numericValue lets validator see a numeric field as a *float64. An absent
// field is nil so "required" fails while a present zero passes; an
// unparseable one points at NaN so "gte" fails.
func numericValue(field reflect.Value) any {
	n, ok := field.Interface().(numeric)
	if !ok || !n.present {
		return nil
	}
	v := math.NaN()
	if n.valid {
		v = n.value
	}
	return &v
}

// textValue lets validator see a text field as its string. An absent field is
// nil; a value of another JSON type is kept as its raw bytes so "jsonstring"
// rejects it.
func textValue(field reflect.Value) any {
	t, ok := field.Interface().(text)
	if !ok || !t.present {
		return nil
	}
	if !t.valid {
		return []byte(t.raw)
	}
	return t.value
}
