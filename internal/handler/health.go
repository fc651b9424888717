// Package handler contains the HTTP handlers of the job board API.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (JSON, form, multipart, query, URL params)
//  2. Call the service with plain Go values
//  3. Map the result, or the error, onto the response envelope
//
// Business rules live in the service package. A handler never checks a
// role or talks to storage.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness, including database reachability.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HandleHealth answers 200 when the database responds within two seconds
// and 503 otherwise.
//
// HTTP: GET /healthz
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Error("health check failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusServiceUnavailable, Envelope{
			Success: false,
			Message: "Database unavailable",
			Errors:  []string{"database ping failed"},
		})
		return
	}
	writeOK(w, http.StatusOK, "OK", map[string]string{"status": "ok"})
}
