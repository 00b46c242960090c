package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kostmate/booking-api/internal/api/metrics"
	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

// OrderHandler serves the customer-facing booking routes.
type OrderHandler struct {
	ledger ports.OrderLedger
	stats  ports.StatsService
}

func NewOrderHandler(ledger ports.OrderLedger, stats ports.StatsService) *OrderHandler {
	return &OrderHandler{ledger: ledger, stats: stats}
}

// Catalog lists the bookable services and time slots.
//
// @Summary      Service catalog
// @Tags         orders
// @Produce      json
// @Success      200  {object}  catalogResponse
// @Router       /v1/services [get]
func (h *OrderHandler) Catalog(c echo.Context) error {
	return c.JSON(http.StatusOK, toCatalogResponse(domain.Catalog(), domain.TimeSlots()))
}

// Create books a service for the authenticated user.
// An optional Idempotency-Key header makes retries return the original order.
//
// @Summary      Book a service
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string              false  "Idempotency key"
// @Param        body             body      createOrderRequest  true   "Booking details"
// @Success      201              {object}  orderResponse
// @Success      200              {object}  orderResponse  "Replayed idempotent request"
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, ok := domain.FindCatalogItem(req.ServiceID)
	if !ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown service")
	}
	if !domain.IsTimeSlot(req.Time) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "unknown time slot")
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = identity.Address
	}
	if address == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "address is required")
	}

	ctx := c.Request().Context()
	result, err := h.ledger.CreateOrder(ctx, ports.CreateOrderInput{
		UserID:         identity.ID,
		Service:        item.Name,
		Details:        req.Details,
		Address:        address,
		Date:           req.Date,
		Time:           req.Time,
		Price:          item.Price,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	order, err := h.ledger.GetByID(ctx, result.OrderID)
	if err != nil {
		return err
	}
	if order.UserID != identity.ID {
		return domain.ErrForbidden
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	} else {
		metrics.OrdersCreatedTotal.WithLabelValues(item.ID).Inc()
	}

	c.Response().Header().Set(echo.HeaderLocation, "/v1/orders/"+order.ID)
	return c.JSON(status, toOrderResponse(order))
}

// ListMine returns the caller's orders in booking order. The optional
// highlight query parameter flags one order in the response.
//
// @Summary      Track my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        highlight  query     string  false  "Order id to highlight"
// @Success      200        {object}  orderListResponse
// @Failure      401        {object}  errorResponse
// @Router       /v1/orders [get]
func (h *OrderHandler) ListMine(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	orders, err := h.ledger.ListByOwner(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderListResponse(orders, c.QueryParam("highlight")))
}

// Get returns a single order. Users see their own orders, partners the
// orders visible on their board, admins everything.
//
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  orderResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.ledger.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !canView(identity, order) {
		return domain.ErrForbidden
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Review rates a completed order. Only the owner may review, and only once.
//
// @Summary      Review an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Order ID"
// @Param        body  body      reviewRequest  true  "Rating and comment"
// @Success      200   {object}  orderResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders/{id}/review [post]
func (h *OrderHandler) Review(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	id := c.Param("id")
	if err := h.ledger.SubmitReview(ctx, identity.ID, id, req.Rating, strings.TrimSpace(req.Comment)); err != nil {
		return err
	}
	metrics.ReviewsSubmittedTotal.WithLabelValues(strconv.Itoa(req.Rating)).Inc()

	order, err := h.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Dashboard summarises the caller's orders.
//
// @Summary      User dashboard
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard [get]
func (h *OrderHandler) Dashboard(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	stats, err := h.stats.User(ctx, identity.ID)
	if err != nil {
		return err
	}
	orders, err := h.ledger.ListByOwner(ctx, identity.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDashboardResponse(identity, stats, orders))
}

func canView(identity *domain.Identity, o *domain.Order) bool {
	switch identity.Role {
	case domain.RoleAdmin:
		return true
	case domain.RolePartner:
		return o.PartnerID == identity.ID || o.Status == domain.StatusAssigned
	default:
		return o.UserID == identity.ID
	}
}
