package sse

import (
	"github.com/orderkit/orderkit/pkg/order"
)

// EventType discriminates the stream payloads.
type EventType string

const (
	TypeConnected         EventType = "connected"
	TypeNewOrder          EventType = "new_order"
	TypeOrderStatusUpdate EventType = "order_status_update"
)

// Event is one stream message. The admin and customer audiences receive
// different shapes for the same state change: admins get the compact
// {orderId, status} form since their dashboard already holds the order,
// customers get the full order so a fresh tracking page can render from a
// single event.
type Event struct {
	Type    EventType    `json:"type"`
	Order   *order.Order `json:"order,omitempty"`
	OrderID int64        `json:"orderId,omitempty"`
	Status  order.Status `json:"status,omitempty"`
}

// Connected is the handshake event written on every new subscription.
func Connected() Event {
	return Event{Type: TypeConnected}
}

// NewOrder announces a freshly created order, carrying the full order.
func NewOrder(o order.Order) Event {
	return Event{Type: TypeNewOrder, Order: &o}
}

// AdminStatusUpdate is the admin-facing shape of a status change.
func AdminStatusUpdate(orderID int64, status order.Status) Event {
	return Event{Type: TypeOrderStatusUpdate, OrderID: orderID, Status: status}
}

// CustomerStatusUpdate is the customer-facing shape of a status change.
func CustomerStatusUpdate(o order.Order) Event {
	return Event{Type: TypeOrderStatusUpdate, Order: &o}
}
