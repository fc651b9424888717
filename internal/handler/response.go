package handler

// RESPONSE ENVELOPE:
// Every response, success or failure, has the same shape:
//
//	{"success": true, "message": "Job created successfully", "object": {...}, "errors": null}
//
// List endpoints add the page coordinates:
//
//	{"success": true, "message": "...", "object": [...],
//	 "pagenumber": 2, "pagesize": 10, "totalsize": 25, "errors": null}
//
// The HTTP status code carries the error class; the envelope carries the
// human-readable message and the error list.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/service"
)

// Envelope is the standard response body.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Object  any      `json:"object"`
	Errors  []string `json:"errors"`
}

// PageEnvelope is the standard response body for paginated lists.
type PageEnvelope struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Object     any      `json:"object"`
	PageNumber int      `json:"pagenumber"`
	PageSize   int      `json:"pagesize"`
	TotalSize  int      `json:"totalsize"`
	Errors     []string `json:"errors"`
}

// writeJSON sends a JSON response with the given status code.
// Headers must be set before WriteHeader; anything after is ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

func writeOK(w http.ResponseWriter, status int, message string, object any) {
	writeJSON(w, status, Envelope{Success: true, Message: message, Object: object})
}

// writePage renders one page of items, mapped to their view type.
func writePage[T, V any](w http.ResponseWriter, message string, res *service.PageResult[T], view func(T) V) {
	items := make([]V, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, view(it))
	}
	writeJSON(w, http.StatusOK, PageEnvelope{
		Success:    true,
		Message:    message,
		Object:     items,
		PageNumber: res.Number,
		PageSize:   res.Size,
		TotalSize:  res.Total,
	})
}

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrUpload):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps a domain error to an HTTP status and a failure envelope.
//
// Only *apperror.AppError messages reach the client. Anything else is an
// infrastructure failure: it is logged with the request path and the client
// gets a generic 500, since raw messages can contain SQL or file paths.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := statusFor(err)
		if status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		writeJSON(w, status, Envelope{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Errors(),
		})
		return
	}

	logger.Error("request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeJSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "An internal error occurred",
		Errors:  []string{"internal error"},
	})
}
