package order

import "time"

// Status represents the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
// Terminal orders are removed from live driver/admin views.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// RequestStatus tracks driver assignment for an order's delivery job.
// It transitions pending -> accepted exactly once, set by at most one actor.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "Accepted"
)

// Item is a single ordered line item.
type Item struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Note     string  `json:"note,omitempty"`
}

// Order is the authoritative order record. It is created and mutated by the
// order-processing flow; this core observes it but never owns it.
type Order struct {
	ID            int64         `json:"id"`
	WebsiteID     int64         `json:"website_id"`
	OrderNumber   string        `json:"order_number"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	Address       string        `json:"address,omitempty"`
	Items         []Item        `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	DeliveryFee   float64       `json:"delivery_fee"`
	Total         float64       `json:"total"`
	Status        Status        `json:"status"`
	PaymentMethod string        `json:"payment_method"`
	PaymentStatus string        `json:"payment_status"`
	RequestStatus RequestStatus `json:"request_status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// DeliveryRequest is the delivery-dispatch projection of an order, created
// when a restaurant requests a courier for a zone.
type DeliveryRequest struct {
	ID        string    `json:"id"`
	WebsiteID int64     `json:"website_id"`
	ZoneID    int64     `json:"zone_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeviceRegistration associates an opaque push token with an admin or
// customer identity. It becomes invalid once the push gateway reports the
// token unregistered, and is then deleted from the registration store.
type DeviceRegistration struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationSettings holds per-restaurant channel enablement.
type NotificationSettings struct {
	WebsiteID       int64  `json:"website_id"`
	Enabled         bool   `json:"enabled"`
	EmailEnabled    bool   `json:"email_enabled"`
	PushEnabled     bool   `json:"push_enabled"`
	SMSEnabled      bool   `json:"sms_enabled"`
	WhatsAppEnabled bool   `json:"whatsapp_enabled"`
	Email           string `json:"email"`
}
