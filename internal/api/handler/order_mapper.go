package handler

import (
	"github.com/kostmate/booking-api/internal/core/domain"
	"github.com/kostmate/booking-api/internal/core/ports"
)

const recentOrdersLimit = 3

func toIdentityResponse(i *domain.Identity) *identityResponse {
	if i == nil {
		return nil
	}
	return &identityResponse{
		ID:      i.ID,
		Name:    i.Name,
		Email:   i.Email,
		Phone:   i.Phone,
		Address: i.Address,
		Role:    string(i.Role),
	}
}

func toCatalogResponse(items []domain.CatalogItem, slots []string) catalogResponse {
	out := catalogResponse{
		Services:  make([]catalogItemResponse, 0, len(items)),
		TimeSlots: slots,
	}
	for _, it := range items {
		out.Services = append(out.Services, catalogItemResponse(it))
	}
	return out
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		UserID:        o.UserID,
		Service:       o.Service,
		Details:       o.Details,
		Address:       o.Address,
		Date:          o.Date,
		Time:          o.Time,
		Status:        string(o.Status),
		PartnerID:     o.PartnerID,
		PartnerName:   o.PartnerName,
		Price:         o.Price,
		PaymentStatus: string(o.PaymentStatus),
		CreatedAt:     o.CreatedAt,
		Links: orderLinks{
			Self:  "/v1/orders/" + o.ID,
			Track: "/v1/orders?highlight=" + o.ID,
		},
	}
	if o.Review != nil {
		resp.Review = &reviewResponse{Rating: o.Review.Rating, Comment: o.Review.Comment}
	}
	if o.Reviewable() {
		resp.Links.Review = "/v1/orders/" + o.ID + "/review"
	}
	return resp
}

func toOrderListResponse(orders []*domain.Order, highlight string) orderListResponse {
	out := orderListResponse{
		Orders: make([]orderResponse, 0, len(orders)),
		Total:  len(orders),
	}
	for _, o := range orders {
		r := toOrderResponse(o)
		r.Highlighted = highlight != "" && o.ID == highlight
		out.Orders = append(out.Orders, r)
	}
	return out
}

func toOrderEventsResponse(orderID string, events []*domain.OrderEvent) orderEventsResponse {
	out := orderEventsResponse{
		OrderID: orderID,
		Events:  make([]orderEventResponse, 0, len(events)),
	}
	for _, ev := range events {
		out.Events = append(out.Events, orderEventResponse{
			Kind:           string(ev.Kind),
			Status:         string(ev.Status),
			PreviousStatus: string(ev.PreviousStatus),
			PaymentStatus:  string(ev.PaymentStatus),
			ActorID:        ev.ActorID,
			Timestamp:      ev.Timestamp,
		})
	}
	return out
}

func toAdminStatsResponse(s *ports.AdminStats) adminStatsResponse {
	return adminStatsResponse(*s)
}

func toPartnerStatsResponse(s *ports.PartnerStats) partnerStatsResponse {
	return partnerStatsResponse(*s)
}

// toDashboardResponse pairs the user's stats with the newest orders first.
func toDashboardResponse(identity *domain.Identity, s *ports.UserStats, orders []*domain.Order) dashboardResponse {
	recent := make([]orderResponse, 0, recentOrdersLimit)
	for i := len(orders) - 1; i >= 0 && len(recent) < recentOrdersLimit; i-- {
		recent = append(recent, toOrderResponse(orders[i]))
	}
	return dashboardResponse{
		User:            toIdentityResponse(identity),
		TotalOrders:     s.TotalOrders,
		ActiveOrders:    s.ActiveOrders,
		CompletedOrders: s.CompletedOrders,
		AverageRating:   s.AverageRating,
		RecentOrders:    recent,
	}
}
