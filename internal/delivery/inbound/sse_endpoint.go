package inbound

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// StreamOtpDisplay streams issued one-time codes to the requesting session
// using SSE. This is the on-screen display channel: it stands in for an
// out-of-band medium during development and demos, and answers 404 when the
// channel is switched off.
// @Summary Stream one-time code display
// @Description Streams issued codes for a session using Server-Sent Events (SSE). Only available when the display channel is enabled.
// @Tags Delivery
// @Produce text/event-stream
// @Param session_id query string true "Issuance session id"
// @Success 200 {string} string "SSE stream"
// @Failure 400 {string} string "session_id is required"
// @Failure 404 {string} string "Not found"
// @Failure 500 {string} string "streaming unsupported"
// @Router /api/v1/delivery/otp/stream [get]
func (h *HTTPEndpoint) StreamOtpDisplay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.uc.DisplayEnabled() {
		http.NotFound(w, r)
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		slog.ErrorContext(ctx, "failed to send response connected", "error", err)
		return
	}
	flusher.Flush()

	stream := h.uc.StreamOtpDisplay(ctx, sessionID)

	// heartbeat ping, so proxies won’t drop idle connections.
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case evt, ok := <-stream:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				slog.ErrorContext(ctx, "failed to marshal data", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: otp\ndata: %s\n\n", payload); err != nil {
				slog.ErrorContext(ctx, "failed to send response data", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
