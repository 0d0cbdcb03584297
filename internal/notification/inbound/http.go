package inbound

import (
	"net/http"

	"github.com/shiftbuddy/shiftbuddy/internal/pkg/router"
)

// RegisterHTTPEndpoint mounts the notification routes. All of them
// sit behind authentication; the stream route bypasses the JSON
// encoders because it writes SSE frames directly.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/notification/inbox", end.ListInbox)
	r.PATCH("/api/v1/notification/inbox/:id/read", end.MarkInboxRead)
	r.PUT("/api/v1/notification/inbox/read-all", end.MarkAllInboxRead)
	r.DELETE("/api/v1/notification/inbox/:id", end.DeleteInbox)

	r.GET("/api/v1/notification/categories", end.ListCategories)
	r.GET("/api/v1/notification/settings", end.ListSettings)
	r.PUT("/api/v1/notification/settings", end.UpdateSettings)

	r.GETRaw("/api/v1/notification/stream", http.HandlerFunc(end.StreamNotifications))
}
