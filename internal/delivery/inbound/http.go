package inbound

import (
	"net/http"

	"github.com/antonvb/authgate/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Delivery audit trail (need authenticated & authorization)
	r.GET("/api/v1/delivery/logs", end.ListLogs)

	// On-screen display channel (enabled via config)
	r.GETRaw("/api/v1/delivery/otp/stream", http.HandlerFunc(end.StreamOtpDisplay))
}
