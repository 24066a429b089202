package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/orderkit/orderkit/pkg/async"
	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/order"
)

// Orchestrator fans a new-order notification out to every enabled channel.
// Channels run concurrently and in isolation: every one of them runs to
// completion no matter what its siblings do, and the aggregate result is
// success if any single channel delivered.
type Orchestrator struct {
	settings SettingsStore
	channels []Channel
	log      *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithOrchestratorLogger sets the logger used for outcome reporting.
func WithOrchestratorLogger(log *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

func NewOrchestrator(settings SettingsStore, channels []Channel, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		settings: settings,
		channels: channels,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// channelOutcome pairs a channel name with its delivery attempt for logging.
type channelOutcome struct {
	channel string
}

// SendOrderNotification notifies the restaurant about a new order through
// every channel its settings enable. It never returns an error: notification
// is a best-effort side channel and must not fail the order flow. The bool
// reports whether at least one channel delivered.
func (o *Orchestrator) SendOrderNotification(ctx context.Context, ord order.Order) bool {
	settings, err := o.settings.NotificationSettings(ctx, ord.WebsiteID)
	if err != nil {
		o.log.LogAttrs(ctx, slog.LevelError, "Failed to load notification settings, skipping notification",
			logger.WebsiteID(ord.WebsiteID),
			logger.OrderNumber(ord.OrderNumber),
			logger.Error(err),
		)
		return false
	}
	if !settings.Enabled {
		return false
	}

	var futures []*async.Future[channelOutcome]
	for _, ch := range o.channels {
		if !ch.Enabled(settings) {
			continue
		}
		futures = append(futures, async.Async(ctx, ch,
			func(ctx context.Context, ch Channel) (channelOutcome, error) {
				return channelOutcome{channel: ch.Name()}, ch.Send(ctx, ord, settings)
			}))
	}
	if len(futures) == 0 {
		return false
	}

	outcomes := async.Settle(futures...)
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			continue
		}
		level := slog.LevelWarn
		if errors.Is(outcome.Err, ErrChannelNotImplemented) {
			level = slog.LevelDebug
		}
		o.log.LogAttrs(ctx, level, "Notification channel failed",
			logger.Channel(outcome.Value.channel),
			logger.WebsiteID(ord.WebsiteID),
			logger.OrderNumber(ord.OrderNumber),
			logger.Error(outcome.Err),
		)
	}

	delivered := async.AnySucceeded(outcomes)
	if !delivered {
		o.log.LogAttrs(ctx, slog.LevelError, "All notification channels failed",
			logger.WebsiteID(ord.WebsiteID),
			logger.OrderNumber(ord.OrderNumber),
		)
	}
	return delivered
}
