package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/api/handler"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/metrics"
)

// errorResponse is the canonical error envelope for all API errors. Message
// carries the same text as Error for clients that read "message".
type errorResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message"`
	Fields  []handler.FieldError `json:"fields,omitempty"`
}

func newErrorResponse(msg string) errorResponse {
	return errorResponse{Error: msg, Message: msg}
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Renders validation failures with every rejected field.
//   - Sends each authentication denial to the audit recorder and answers
//     with the same 403 body whatever the cause.
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger, audit ports.AuditRecorder) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, audit, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, audit ports.AuditRecorder, c echo.Context) (int, errorResponse) {
	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "validation failed", Message: ve.Error(), Fields: ve.Fields}
	}

	if errors.Is(err, domain.ErrAccessDenied) {
		recordDenial(err, audit, c)
		return http.StatusForbidden, newErrorResponse("access denied")
	}

	if errors.Is(err, domain.ErrPriceNotFound) {
		return http.StatusNotFound, newErrorResponse("not found")
	}

	// Echo's own errors (bind failures, 404 from router, rate limits, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, newErrorResponse(fmt.Sprintf("%v", he.Message))
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, newErrorResponse("internal server error")
}

func recordDenial(err error, audit ports.AuditRecorder, c echo.Context) {
	kind, detail := "access_denied", ""
	var d *domain.DenialError
	if errors.As(err, &d) {
		kind, detail = d.Kind, d.Detail
	}
	metrics.AuthDenialsTotal.WithLabelValues(kind).Inc()

	if audit == nil {
		return
	}
	audit.Record(domain.AuditEvent{
		TS:     time.Now().UTC(),
		Type:   kind,
		IP:     c.RealIP(),
		Path:   c.Request().URL.RequestURI(),
		Detail: detail,
	})
}
