package handler

import "time"

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type identityResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Role    string `json:"role"`
}

type authResponse struct {
	Token string            `json:"token,omitempty"`
	User  *identityResponse `json:"user"`
}

// --- Catalog ---

type catalogItemResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type catalogResponse struct {
	Services  []catalogItemResponse `json:"services"`
	TimeSlots []string              `json:"time_slots"`
}

// --- Orders ---

// createOrderRequest books a catalog service. Address falls back to the
// caller's profile address when omitted. Service and time are checked against
// the catalog by the handler.
type createOrderRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
	Details   string `json:"details"`
	Address   string `json:"address"`
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	Time      string `json:"time"       validate:"required"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type assignRequest struct {
	PartnerID   string `json:"partner_id"   validate:"required"`
	PartnerName string `json:"partner_name" validate:"required"`
}

type adminStatusRequest struct {
	Status      string `json:"status"       validate:"required,oneof=pending assigned in_progress completed cancelled"`
	PartnerID   string `json:"partner_id"`
	PartnerName string `json:"partner_name"`
}

type paymentRequest struct {
	PaymentStatus string `json:"payment_status" validate:"required,oneof=pending paid"`
}

type partnerStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=in_progress completed"`
}

type reviewResponse struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type orderLinks struct {
	Self   string `json:"self"`
	Track  string `json:"track"`
	Review string `json:"review,omitempty"`
}

type orderResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Service       string          `json:"service"`
	Details       string          `json:"details"`
	Address       string          `json:"address"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Status        string          `json:"status"`
	PartnerID     string          `json:"partner_id,omitempty"`
	PartnerName   string          `json:"partner_name,omitempty"`
	Price         float64         `json:"price"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	Review        *reviewResponse `json:"review,omitempty"`
	Highlighted   bool            `json:"highlighted,omitempty"`
	Links         orderLinks      `json:"_links"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Total  int             `json:"total"`
}

// --- Events ---

type orderEventResponse struct {
	Kind           string    `json:"kind"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	PaymentStatus  string    `json:"payment_status,omitempty"`
	ActorID        string    `json:"actor_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

type orderEventsResponse struct {
	OrderID string               `json:"order_id"`
	Events  []orderEventResponse `json:"events"`
}

// --- Stats ---

type adminStatsResponse struct {
	TotalOrders      int            `json:"total_orders"`
	ByStatus         map[string]int `json:"by_status"`
	PendingOrders    int            `json:"pending_orders"`
	InProgressOrders int            `json:"in_progress_orders"`
	CompletedOrders  int            `json:"completed_orders"`
	PaidOrders       int            `json:"paid_orders"`
	PlatformRevenue  float64        `json:"platform_revenue"`
	AverageRating    float64        `json:"average_rating"`
}

type partnerStatsResponse struct {
	TotalOrders      int     `json:"total_orders"`
	AssignedOrders   int     `json:"assigned_orders"`
	InProgressOrders int     `json:"in_progress_orders"`
	CompletedOrders  int     `json:"completed_orders"`
	TodayOrders      int     `json:"today_orders"`
	Earnings         float64 `json:"earnings"`
	AverageRating    float64 `json:"average_rating"`
}

type dashboardResponse struct {
	User            *identityResponse `json:"user"`
	TotalOrders     int               `json:"total_orders"`
	ActiveOrders    int               `json:"active_orders"`
	CompletedOrders int               `json:"completed_orders"`
	AverageRating   float64           `json:"average_rating"`
	RecentOrders    []orderResponse   `json:"recent_orders"`
}

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error string `json:"error"`
}
