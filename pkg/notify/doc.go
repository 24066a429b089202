// Package notify fans new-order notifications out to restaurants across
// email, push, and future SMS/WhatsApp channels.
//
// Delivery is strictly best-effort: the Orchestrator never returns an error,
// channels run concurrently and in isolation, and the aggregate result is
// success when any single channel delivered. A restaurant with notifications
// disabled, or with no channel enabled, is skipped silently.
//
// Channel enablement comes from per-restaurant NotificationSettings loaded
// through SettingsStore. The push channel additionally prunes device
// registrations the gateway reports as dead, via DeviceStore.
//
//	orchestrator := notify.NewOrchestrator(store, []notify.Channel{
//	    notify.NewEmailChannel(sender),
//	    notify.NewPushChannel(dispatcher, store, log),
//	    notify.NewSMSChannel(),
//	    notify.NewWhatsAppChannel(),
//	})
//
//	delivered := orchestrator.SendOrderNotification(ctx, order)
package notify
