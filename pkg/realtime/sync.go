package realtime

import (
	"context"
	"log/slog"

	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/order"
)

// PickupInfo is the restaurant pickup block nested into order projections so
// drivers see where to collect without a second lookup.
type PickupInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// PickupResolver looks up a restaurant's pickup info for projection nesting.
type PickupResolver func(ctx context.Context, websiteID int64) (*PickupInfo, error)

// Sync mirrors order and delivery-request state into the realtime store
// consumed by driver and admin apps, and arbitrates exclusive delivery-job
// acceptance through the store's conditional update.
//
// Everything except TryAcceptOrder is a best-effort mirror: failures are
// logged and swallowed so the order-creation flow that invoked the sync
// always completes. The projection may lag or, in rare failure windows, be
// missing entirely; it is never a transactional participant.
type Sync struct {
	store         ConditionalStore
	log           *slog.Logger
	resolvePickup PickupResolver
}

// SyncOption configures a Sync.
type SyncOption func(*Sync)

// WithSyncLogger sets the logger for best-effort failure reporting.
func WithSyncLogger(log *slog.Logger) SyncOption {
	return func(s *Sync) {
		if log != nil {
			s.log = log
		}
	}
}

// WithPickupResolver enables pickup-info nesting in order projections.
func WithPickupResolver(resolve PickupResolver) SyncOption {
	return func(s *Sync) {
		s.resolvePickup = resolve
	}
}

// NewSync creates the realtime mirror over the given store.
func NewSync(store ConditionalStore, opts ...SyncOption) *Sync {
	s := &Sync{
		store: store,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncOrder writes the sanitized order projection at
// orders/{website_id}/{order_number} with request_status initialized to
// pending so drivers can race to accept it.
func (s *Sync) SyncOrder(ctx context.Context, o order.Order) {
	projection := orderProjection(o)

	if s.resolvePickup != nil {
		pickup, err := s.resolvePickup(ctx, o.WebsiteID)
		if err != nil {
			s.log.LogAttrs(ctx, slog.LevelWarn, "Pickup info lookup failed, projecting without it",
				logger.WebsiteID(o.WebsiteID),
				logger.Error(err),
			)
		} else if pickup != nil {
			projection["pickup"] = pickup
		}
	}

	if err := s.store.Put(ctx, OrderPath(o.WebsiteID, o.OrderNumber), projection); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "Order projection write failed",
			logger.WebsiteID(o.WebsiteID),
			logger.OrderNumber(o.OrderNumber),
			logger.Error(err),
		)
	}
}

// SyncDeliveryRequest writes the delivery-dispatch projection at
// orders_delivery/{website_id}/{id}.
func (s *Sync) SyncDeliveryRequest(ctx context.Context, req order.DeliveryRequest) {
	projection := map[string]any{
		"id":         req.ID,
		"website_id": req.WebsiteID,
		"zone_id":    req.ZoneID,
		"status":     req.Status,
	}
	if !req.CreatedAt.IsZero() {
		projection["created_at"] = req.CreatedAt
	}
	if !req.UpdatedAt.IsZero() {
		projection["updated_at"] = req.UpdatedAt
	}

	if err := s.store.Put(ctx, DeliveryPath(req.WebsiteID, req.ID), projection); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "Delivery request projection write failed",
			logger.WebsiteID(req.WebsiteID),
			slog.String("request_id", req.ID),
			logger.Error(err),
		)
	}
}

// TryAcceptOrder atomically flips request_status from pending (or absent) to
// Accepted. It reports whether this call's update committed: exactly one of
// any number of concurrent callers across processes and devices observes
// true. The boolean is authoritative, so unlike the mirrors this method
// surfaces store errors to its caller.
func (s *Sync) TryAcceptOrder(ctx context.Context, websiteID int64, orderNumber string) (bool, error) {
	committed, err := s.store.CompareAndSwap(ctx,
		OrderPath(websiteID, orderNumber),
		"request_status",
		[]string{string(order.RequestPending)},
		string(order.RequestAccepted),
	)
	if err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "Order acceptance arbitration failed",
			logger.WebsiteID(websiteID),
			logger.OrderNumber(orderNumber),
			logger.Error(err),
		)
		return false, err
	}
	return committed, nil
}

// UpdateOrderStatus patches the projected status so live driver/admin views
// follow the lifecycle without a full rewrite.
func (s *Sync) UpdateOrderStatus(ctx context.Context, websiteID int64, orderNumber string, status order.Status) {
	patch := map[string]any{"status": string(status)}
	if err := s.store.Patch(ctx, OrderPath(websiteID, orderNumber), patch); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "Order status patch failed",
			logger.WebsiteID(websiteID),
			logger.OrderNumber(orderNumber),
			logger.Error(err),
		)
	}
}

// RemoveOrder deletes the projection once the order reaches a terminal
// state, so it disappears from live views without touching the
// source-of-truth.
func (s *Sync) RemoveOrder(ctx context.Context, websiteID int64, orderNumber string) {
	if err := s.store.Delete(ctx, OrderPath(websiteID, orderNumber)); err != nil {
		s.log.LogAttrs(ctx, slog.LevelError, "Order projection removal failed",
			logger.WebsiteID(websiteID),
			logger.OrderNumber(orderNumber),
			logger.Error(err),
		)
	}
}

// orderProjection builds the sanitized external view of an order: empty and
// zero fields dropped, line items nested, request_status defaulted to
// pending.
func orderProjection(o order.Order) map[string]any {
	projection := map[string]any{
		"order_number":   o.OrderNumber,
		"website_id":     o.WebsiteID,
		"customer_name":  o.CustomerName,
		"customer_phone": o.CustomerPhone,
		"status":         string(o.Status),
		"payment_method": o.PaymentMethod,
		"payment_status": o.PaymentStatus,
		"subtotal":       o.Subtotal,
		"delivery_fee":   o.DeliveryFee,
		"total":          o.Total,
	}

	requestStatus := o.RequestStatus
	if requestStatus == "" {
		requestStatus = order.RequestPending
	}
	projection["request_status"] = string(requestStatus)

	if o.CustomerEmail != "" {
		projection["customer_email"] = o.CustomerEmail
	}
	if o.Address != "" {
		projection["address"] = o.Address
	}
	if !o.CreatedAt.IsZero() {
		projection["created_at"] = o.CreatedAt
	}

	if len(o.Items) > 0 {
		items := make([]map[string]any, 0, len(o.Items))
		for _, item := range o.Items {
			entry := map[string]any{
				"id":       item.ID,
				"name":     item.Name,
				"quantity": item.Quantity,
				"price":    item.Price,
			}
			if item.Note != "" {
				entry["note"] = item.Note
			}
			items = append(items, entry)
		}
		projection["items"] = items
	}

	return projection
}
