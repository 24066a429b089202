package orders

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/orderkit/orderkit/modules/stream"
	"github.com/orderkit/orderkit/pkg/logger"
	"github.com/orderkit/orderkit/pkg/order"
	"github.com/orderkit/orderkit/pkg/realtime"
)

// Router exposes the internal order-event surface called by the
// order-processing flow and the driver app.
//
//	POST /announce/created                    fan a committed order out to all side channels
//	POST /announce/status                     propagate a committed status change
//	POST /announce/delivery                   mirror a new delivery request
//	POST /{websiteID}/{orderNumber}/accept    driver claims the delivery job
//
// Announce endpoints always answer 202: everything downstream is
// best-effort and the caller must not couple its flow to side-channel
// outcomes. The accept endpoint is the exception; its answer is
// authoritative and exactly one caller per order ever sees accepted=true.
func Router(announcer *stream.Announcer, mirror *realtime.Sync, log *slog.Logger) chi.Router {
	if log == nil {
		log = slog.Default()
	}
	h := &handlers{announcer: announcer, mirror: mirror, log: log}

	r := chi.NewRouter()
	r.Post("/announce/created", h.announceCreated)
	r.Post("/announce/status", h.announceStatus)
	r.Post("/announce/delivery", h.announceDelivery)
	r.Post("/{websiteID}/{orderNumber}/accept", h.accept)
	return r
}

type handlers struct {
	announcer *stream.Announcer
	mirror    *realtime.Sync
	log       *slog.Logger
}

func (h *handlers) announceCreated(w http.ResponseWriter, r *http.Request) {
	var o order.Order
	if !decode(w, r, &o) {
		return
	}
	h.announcer.AnnounceOrderCreated(r.Context(), o)
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) announceStatus(w http.ResponseWriter, r *http.Request) {
	var o order.Order
	if !decode(w, r, &o) {
		return
	}
	h.announcer.AnnounceStatusChange(r.Context(), o)
	w.WriteHeader(http.StatusAccepted)
}

func (h *handlers) announceDelivery(w http.ResponseWriter, r *http.Request) {
	var req order.DeliveryRequest
	if !decode(w, r, &req) {
		return
	}
	h.announcer.AnnounceDeliveryRequest(r.Context(), req)
	w.WriteHeader(http.StatusAccepted)
}

type acceptResponse struct {
	Accepted bool `json:"accepted"`
}

func (h *handlers) accept(w http.ResponseWriter, r *http.Request) {
	websiteID, err := strconv.ParseInt(chi.URLParam(r, "websiteID"), 10, 64)
	if err != nil || websiteID <= 0 {
		http.Error(w, "invalid restaurant id", http.StatusBadRequest)
		return
	}
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		http.Error(w, "invalid order number", http.StatusBadRequest)
		return
	}

	accepted, err := h.mirror.TryAcceptOrder(r.Context(), websiteID, orderNumber)
	if err != nil {
		h.log.LogAttrs(r.Context(), slog.LevelError, "Order acceptance failed",
			logger.WebsiteID(websiteID),
			logger.OrderNumber(orderNumber),
			logger.Error(err),
		)
		http.Error(w, "acceptance unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if !accepted {
		// Someone else already holds the job; the client must treat
		// this as final, not retry.
		w.WriteHeader(http.StatusConflict)
	}
	_ = json.NewEncoder(w).Encode(acceptResponse{Accepted: accepted})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return false
	}
	return true
}
