package rest

import (
	"net/http"
	"strconv"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

const defaultFeedLimit = 20

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.notifications.ListForRecipient(r.Context(), actorID(r.Context()), 0)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, toNotificationResponse(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	updated, err := s.notifications.MarkAllRead(r.Context(), actorID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Marked as read", "updated": updated})
}

// handleGetFeed reads the caller's materialized timeline and hydrates it into
// full posts in one batch fetch.
func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	viewer := actorID(r.Context())

	limit := queryInt(r, "limit", defaultFeedLimit)
	offset := queryInt(r, "offset", 0)

	items, err := s.feed.GetTimeline(r.Context(), domain.FeedRequest{
		UserID: viewer,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.PostID)
	}

	posts, err := s.posts.GetPosts(r.Context(), ids, viewer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

func queryInt(r *http.Request, key string, fallback int64) int64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
