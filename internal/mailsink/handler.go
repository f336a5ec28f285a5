// Package mailsink is a Postmark-compatible stand-in used for local runs
// and integration tests. It accepts POST /email and keeps what it received.
package mailsink

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mrz1836/postmark"
)

const tokenHeader = "X-Postmark-Server-Token"

// Postmark error codes the sink reproduces.
const (
	codeMissingToken = 10
	codeInvalidTo    = 300
	codeBadRequest   = 402
)

type Handler struct {
	logger *slog.Logger
	token  string

	mu       sync.Mutex
	received []postmark.Email
}

// NewHandler builds a sink. An empty token accepts any token header, but the
// header itself is still required.
func NewHandler(token string, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		token:  token,
	}
}

func (h *Handler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	got := r.Header.Get(tokenHeader)
	if got == "" || (h.token != "" && got != h.token) {
		h.writeError(w, http.StatusUnauthorized, codeMissingToken, "Request does not contain a valid Server token.")
		return
	}

	var req postmark.Email
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusUnprocessableEntity, codeBadRequest, "Invalid JSON")
		return
	}
	if req.To == "" {
		h.writeError(w, http.StatusUnprocessableEntity, codeInvalidTo, "Invalid 'To' address: ''.")
		return
	}

	h.mu.Lock()
	h.received = append(h.received, req)
	h.mu.Unlock()

	h.logger.InfoContext(r.Context(), "email accepted", "to", req.To, "subject", req.Subject, "tag", req.Tag)

	h.writeJSON(w, http.StatusOK, postmark.EmailResponse{
		To:          req.To,
		SubmittedAt: time.Now().UTC(),
		MessageID:   uuid.NewString(),
		ErrorCode:   0,
		Message:     "OK",
	})
}

// HandleList returns every accepted message, oldest first.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Received())
}

func (h *Handler) Received() []postmark.Email {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]postmark.Email, len(h.received))
	copy(result, h.received)
	return result
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code int64, message string) {
	h.writeJSON(w, status, postmark.APIError{ErrorCode: code, Message: message})
}

// Routes registers the sink endpoints on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /email", h.HandleEmail)
	mux.HandleFunc("GET /messages", h.HandleList)
}
