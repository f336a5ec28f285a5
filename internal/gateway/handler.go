package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/joao-fontenele/ajoloeats-notifier/internal/domain"
	"github.com/joao-fontenele/ajoloeats-notifier/internal/lifecycle"
)

const (
	requestIDHeader = "X-Request-Id"
	maxBodyBytes    = 64 << 10
)

// Publisher is satisfied by *messaging.Producer.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

type Handler struct {
	publisher Publisher
	logger    *slog.Logger
}

func NewHandler(publisher Publisher, logger *slog.Logger) *Handler {
	return &Handler{
		publisher: publisher,
		logger:    logger,
	}
}

// HandleCreateOrder publishes the order body unchanged to the order.placed
// topic, keyed by the request id, and answers with the fixed ack. The ack
// only means the order was queued.
func (h *Handler) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var order domain.OrderEvent
	if err := domain.Decode(body, &order); err != nil {
		h.logger.WarnContext(r.Context(), "rejected order", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid order")
		return
	}

	requestID := r.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	if err := h.publisher.Publish(r.Context(), string(lifecycle.EventOrderPlaced), requestID, body); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to publish order", "error", err, "request_id", requestID)
		h.writeError(w, http.StatusBadGateway, "order queue unavailable")
		return
	}

	h.logger.InfoContext(r.Context(), "order queued", "request_id", requestID, "order_id", domain.OrderIDFromRequestID(requestID))

	w.Header().Set(requestIDHeader, requestID)
	h.writeJSON(w, http.StatusOK, domain.OrderReceivedAck())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
