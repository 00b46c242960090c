package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kostmate/booking-api/internal/api/metrics"
	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// AdminHandler serves the back-office routes. All routes require the admin role.
type AdminHandler struct {
	ledger ports.OrderLedger
	stats  ports.StatsService
	events ports.EventService
}

func NewAdminHandler(ledger ports.OrderLedger, stats ports.StatsService, events ports.EventService) *AdminHandler {
	return &AdminHandler{ledger: ledger, stats: stats, events: events}
}

// ListOrders returns every order, optionally filtered by status.
//
// @Summary      List all orders
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Success      200     {object}  orderListResponse
// @Failure      403     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/admin/orders [get]
func (h *AdminHandler) ListOrders(c echo.Context) error {
	var filter ports.OrderFilter
	if s := c.QueryParam("status"); s != "" {
		status := domain.OrderStatus(s)
		if !status.Valid() {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown status filter")
		}
		filter.Status = status
	}

	orders, err := h.ledger.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders, ""))
}

// Stats returns platform-wide order statistics.
//
// @Summary      Platform statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminStatsResponse
// @Router       /v1/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.stats.Admin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAdminStatsResponse(stats))
}

// Assign hands an order to a partner and marks it paid.
//
// @Summary      Assign a partner
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Order ID"
// @Param        body  body      assignRequest  true  "Partner"
// @Success      200   {object}  orderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/orders/{id}/assign [post]
func (h *AdminHandler) Assign(c echo.Context) error {
	var req assignRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id := c.Param("id")
	err := h.ledger.AssignPartner(c.Request().Context(), id, req.PartnerID, req.PartnerName)
	recordTransition(domain.StatusAssigned, err)
	if err != nil {
		return err
	}
	return h.respondWithOrder(c, id)
}

// SetStatus overwrites an order's status. Setting "assigned" goes through
// the assignment flow and therefore also marks the order paid.
//
// @Summary      Change order status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Order ID"
// @Param        body  body      adminStatusRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/orders/{id}/status [patch]
func (h *AdminHandler) SetStatus(c echo.Context) error {
	var req adminStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	status := domain.OrderStatus(req.Status)

	var err error
	switch status {
	case domain.StatusAssigned:
		if req.PartnerID == "" || req.PartnerName == "" {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "partner_id and partner_name are required to assign")
		}
		err = h.ledger.AssignPartner(ctx, id, req.PartnerID, req.PartnerName)
	case domain.StatusCancelled:
		err = h.ledger.Cancel(ctx, id)
	default:
		err = h.ledger.SetStatus(ctx, id, status, req.PartnerID, req.PartnerName)
	}
	recordTransition(status, err)
	if err != nil {
		return err
	}
	return h.respondWithOrder(c, id)
}

// SetPayment overwrites an order's payment status.
//
// @Summary      Change payment status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Order ID"
// @Param        body  body      paymentRequest  true  "Payment status"
// @Success      200   {object}  orderResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/orders/{id}/payment [patch]
func (h *AdminHandler) SetPayment(c echo.Context) error {
	var req paymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id := c.Param("id")
	if err := h.ledger.SetPaymentStatus(c.Request().Context(), id, domain.PaymentStatus(req.PaymentStatus)); err != nil {
		return err
	}
	return h.respondWithOrder(c, id)
}

// Events returns the audit trail recorded for an order.
//
// @Summary      Order audit trail
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  orderEventsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/orders/{id}/events [get]
func (h *AdminHandler) Events(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	if _, err := h.ledger.GetByID(ctx, id); err != nil {
		return err
	}

	events, err := h.events.History(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderEventsResponse(id, events))
}

func (h *AdminHandler) respondWithOrder(c echo.Context, id string) error {
	order, err := h.ledger.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func recordTransition(status domain.OrderStatus, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
	}
	metrics.OrderTransitionsTotal.WithLabelValues(string(status), result).Inc()
}
