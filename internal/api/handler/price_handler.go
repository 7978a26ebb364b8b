package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/domain"
	"github.com/antonetteqpkkkkk/Fish-Price-Monitoring-System/internal/core/ports"
)

// PriceHandler serves the public reads and admin writes of fish prices.
// Errors are returned to the central echo error handler.
type PriceHandler struct {
	service ports.PriceService
	log     zerolog.Logger
}

func NewPriceHandler(service ports.PriceService, log zerolog.Logger) *PriceHandler {
	return &PriceHandler{service: service, log: log}
}

// ListFishTypes handles GET /api/fish-types.
//
// @Summary      List fish types
// @Tags         prices
// @Produce      json
// @Success      200  {array}   string
// @Failure      500  {object}  errorResponse
// @Router       /api/fish-types [get]
func (h *PriceHandler) ListFishTypes(c echo.Context) error {
	types, err := h.service.ListFishTypes(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, types)
}

// ListLatest handles GET /api/fish-prices.
//
// @Summary      Latest price per fish type
// @Tags         prices
// @Produce      json
// @Success      200  {array}   domain.FishPrice
// @Failure      500  {object}  errorResponse
// @Router       /api/fish-prices [get]
func (h *PriceHandler) ListLatest(c echo.Context) error {
	rows, err := h.service.ListLatest(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// GetLatest handles GET /api/fish-prices/:type.
//
// @Summary      Latest price of one fish type
// @Tags         prices
// @Produce      json
// @Param        type  path      string  true  "Fish type (case-sensitive)"
// @Success      200   {object}  domain.FishPrice
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/fish-prices/{type} [get]
func (h *PriceHandler) GetLatest(c echo.Context) error {
	fishType, err := parseFishType(c.Param("type"))
	if err != nil {
		return err
	}
	row, err := h.service.GetLatest(c.Request().Context(), fishType)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, row)
}

// Create handles POST /api/fish-prices.
//
// @Summary      Create a price record
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      priceRequest  true  "Price record"
// @Success      201   {object}  domain.FishPrice
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/fish-prices [post]
func (h *PriceHandler) Create(c echo.Context) error {
	req, err := bindPrice(c)
	if err != nil {
		return err
	}

	row, err := h.service.Create(c.Request().Context(), toPriceInput(req))
	if err != nil {
		return err
	}

	h.log.Info().Str("admin", actor(c)).Int64("id", row.ID).Msg("admin created fish price")
	return c.JSON(http.StatusCreated, row)
}

// Update handles PUT /api/fish-prices/:id.
//
// @Summary      Replace a price record
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int           true  "Record id"
// @Param        body  body      priceRequest  true  "Price record"
// @Success      200   {object}  domain.FishPrice
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/fish-prices/{id} [put]
func (h *PriceHandler) Update(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	req, err := bindPrice(c)
	if err != nil {
		return err
	}

	row, err := h.service.Update(c.Request().Context(), id, toPriceInput(req))
	if err != nil {
		return err
	}

	h.log.Info().Str("admin", actor(c)).Int64("id", row.ID).Msg("admin updated fish price")
	return c.JSON(http.StatusOK, row)
}

// Delete handles DELETE /api/fish-prices/:id.
//
// @Summary      Delete a price record
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Record id"
// @Success      200  {object}  deleteResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/fish-prices/{id} [delete]
func (h *PriceHandler) Delete(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	h.log.Info().Str("admin", actor(c)).Int64("id", id).Msg("admin deleted fish price")
	return c.JSON(http.StatusOK, deleteResponse{OK: true})
}

func bindPrice(c echo.Context) (priceRequest, error) {
	var req priceRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	req.FishType.value = domain.NormalizeFishType(req.FishType.value)
	if err := c.Validate(&req); err != nil {
		return req, err
	}
	return req, nil
}
