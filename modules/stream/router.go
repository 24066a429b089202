package stream

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/sse"
)

// Router exposes the live event streams.
//
//	GET /restaurant/{websiteID}  admin dashboard stream for one restaurant
//	GET /order/{orderID}         customer tracking stream for one order
//
// Mount it under the path prefix the frontend expects:
//
//	r := chi.NewRouter()
//	r.Mount("/events", stream.Router(broadcaster, log))
func Router(broadcaster *sse.Broadcaster, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Get("/restaurant/{websiteID}", streamHandler(broadcaster, log, "websiteID", sse.AdminScope))
	r.Get("/order/{orderID}", streamHandler(broadcaster, log, "orderID", sse.OrderScope))
	return r
}

// streamHandler subscribes the request to the scope derived from its URL
// parameter and pumps frames until the client disconnects.
func streamHandler(broadcaster *sse.Broadcaster, log *slog.Logger, param string, scopeFor func(int64) sse.Scope) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
		if err != nil || id <= 0 {
			http.Error(w, "invalid identifier", http.StatusBadRequest)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		ctx := r.Context()
		conn, err := broadcaster.Subscribe(ctx, scopeFor(id))
		if err != nil {
			http.Error(w, "subscription failed", http.StatusInternalServerError)
			return
		}
		defer broadcaster.Unsubscribe(conn)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-ctx.Done():
				return
			case frame, ok := <-conn.Events:
				if !ok {
					// Dropped by the broadcaster for falling behind.
					return
				}
				if _, err := w.Write(frame); err != nil {
					log.LogAttrs(ctx, slog.LevelDebug, "SSE write failed, closing stream",
						slog.String("connection_id", conn.ID),
						logger.Error(err),
					)
					return
				}
				flusher.Flush()
			}
		}
	}
}
