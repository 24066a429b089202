package stream

import (
	"context"
	"log/slog"

	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/menucache"
	"github.com/orderkit/orderkit/pkg/notify"
	"github.com/orderkit/orderkit/pkg/order"
	"github.com/orderkit/orderkit/pkg/realtime"
	"github.com/orderkit/orderkit/pkg/sse"
)

// Announcer composes every reaction to an order event: notification fan-out,
// the realtime mirror, cache invalidation, and the live streams. The
// order-processing flow calls it after committing the authoritative record;
// nothing here can fail the flow, every side channel is best-effort.
type Announcer struct {
	notifier    *notify.Orchestrator
	mirror      *realtime.Sync
	broadcaster *sse.Broadcaster
	cache       *menucache.Service
	log         *slog.Logger
}

// AnnouncerOption configures an Announcer.
type AnnouncerOption func(*Announcer)

// WithAnnouncerLogger sets the logger used for outcome reporting.
func WithAnnouncerLogger(log *slog.Logger) AnnouncerOption {
	return func(a *Announcer) {
		if log != nil {
			a.log = log
		}
	}
}

func NewAnnouncer(
	notifier *notify.Orchestrator,
	mirror *realtime.Sync,
	broadcaster *sse.Broadcaster,
	cache *menucache.Service,
	opts ...AnnouncerOption,
) *Announcer {
	a := &Announcer{
		notifier:    notifier,
		mirror:      mirror,
		broadcaster: broadcaster,
		cache:       cache,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// PickupFromCache resolves the pickup block nested into order projections
// from the cached restaurant record, so the mirror rides the same
// cache-aside path as every other restaurant read.
func PickupFromCache(cache *menucache.Service) realtime.PickupResolver {
	return func(ctx context.Context, websiteID int64) (*realtime.PickupInfo, error) {
		restaurant, err := cache.Restaurant(ctx, websiteID)
		if err != nil {
			return nil, err
		}
		return &realtime.PickupInfo{
			Name:    restaurant.Name,
			Phone:   restaurant.Phone,
			Address: restaurant.Address,
		}, nil
	}
}

// AnnounceOrderCreated runs the full new-order fan-out: mirror the order to
// the realtime store, notify the restaurant, and push the order onto the
// admin stream. Channels are independent; one failing leaves the rest
// untouched.
func (a *Announcer) AnnounceOrderCreated(ctx context.Context, o order.Order) {
	a.mirror.SyncOrder(ctx, o)

	if delivered := a.notifier.SendOrderNotification(ctx, o); !delivered {
		a.log.LogAttrs(ctx, slog.LevelWarn, "Order created without any notification delivered",
			logger.WebsiteID(o.WebsiteID),
			logger.OrderNumber(o.OrderNumber),
		)
	}

	a.broadcaster.Broadcast(ctx, sse.AdminScope(o.WebsiteID), sse.NewOrder(o))
}

// AnnounceStatusChange propagates a committed status transition: both live
// streams get their audience's shape of the event, the realtime mirror is
// patched (or cleared for terminal states), and stale cached restaurant
// lists are dropped since open/closed ordering state may have shifted.
func (a *Announcer) AnnounceStatusChange(ctx context.Context, o order.Order) {
	a.broadcaster.Broadcast(ctx, sse.AdminScope(o.WebsiteID), sse.AdminStatusUpdate(o.ID, o.Status))
	a.broadcaster.Broadcast(ctx, sse.OrderScope(o.ID), sse.CustomerStatusUpdate(o))

	if o.Status.Terminal() {
		a.mirror.RemoveOrder(ctx, o.WebsiteID, o.OrderNumber)
	} else {
		a.mirror.UpdateOrderStatus(ctx, o.WebsiteID, o.OrderNumber, o.Status)
	}

	a.cache.InvalidateRestaurantLists(ctx)
}

// AnnounceDeliveryRequest mirrors a new delivery request for driver apps.
func (a *Announcer) AnnounceDeliveryRequest(ctx context.Context, req order.DeliveryRequest) {
	a.mirror.SyncDeliveryRequest(ctx, req)
}
