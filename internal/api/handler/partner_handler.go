package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// PartnerHandler serves the partner board. All routes require the partner role.
type PartnerHandler struct {
	ledger ports.OrderLedger
	stats  ports.StatsService
	now    func() time.Time
}

func NewPartnerHandler(ledger ports.OrderLedger, stats ports.StatsService, now func() time.Time) *PartnerHandler {
	if now == nil {
		now = time.Now
	}
	return &PartnerHandler{ledger: ledger, stats: stats, now: now}
}

// ListOrders returns the orders on the partner's board: their own jobs plus
// every assigned order.
//
// @Summary      Partner board
// @Tags         partner
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/partner/orders [get]
func (h *PartnerHandler) ListOrders(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	orders, err := h.ledger.ListForPartner(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders, ""))
}

// Stats returns the partner's workload and earnings.
//
// @Summary      Partner statistics
// @Tags         partner
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  partnerStatsResponse
// @Router       /v1/partner/stats [get]
func (h *PartnerHandler) Stats(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.stats.Partner(c.Request().Context(), identity.ID, h.now())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPartnerStatsResponse(stats))
}

// SetStatus starts or completes a job. The partner becomes the order's partner.
//
// @Summary      Advance a job
// @Tags         partner
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Order ID"
// @Param        body  body      partnerStatusRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/partner/orders/{id}/status [patch]
func (h *PartnerHandler) SetStatus(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req partnerStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	status := domain.OrderStatus(req.Status)

	err = h.ledger.AdvanceByPartner(ctx, identity, id, status)
	recordTransition(status, err)
	if err != nil {
		return err
	}

	order, err := h.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}
