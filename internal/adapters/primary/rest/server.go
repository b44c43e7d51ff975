// Package rest is the HTTP boundary: it translates requests into calls on
// the core services and domain failures into status codes.
package rest

import (
	"net/http"

	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

type Server struct {
	identity      ports.IdentityService
	posts         ports.PostService
	graph         ports.GraphService
	notifications ports.NotificationService
	feed          ports.FeedService
}

func NewServer(
	identity ports.IdentityService,
	posts ports.PostService,
	graph ports.GraphService,
	notifications ports.NotificationService,
	feed ports.FeedService,
) *Server {
	return &Server{
		identity:      identity,
		posts:         posts,
		graph:         graph,
		notifications: notifications,
		feed:          feed,
	}
}

// Routes mounts the API onto a mux. Everything except /api/auth/* requires a
// Bearer token.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return requireAuth(s.identity, h)
	}

	// Auth
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	// Posts
	mux.HandleFunc("GET /api/posts", protected(s.handleListPosts))
	mux.HandleFunc("POST /api/posts", protected(s.handleCreatePost))
	mux.HandleFunc("GET /api/posts/{id}", protected(s.handleGetPost))
	mux.HandleFunc("DELETE /api/posts/{id}", protected(s.handleDeletePost))
	mux.HandleFunc("PUT /api/posts/like/{id}", protected(s.handleToggleLike))
	mux.HandleFunc("POST /api/posts/comment/{id}", protected(s.handleAddComment))
	mux.HandleFunc("DELETE /api/posts/comment/{postID}/{commentID}", protected(s.handleDeleteComment))

	// Users
	mux.HandleFunc("GET /api/users/search", protected(s.handleSearchUsers))
	mux.HandleFunc("GET /api/users/{id}", protected(s.handleGetProfile))
	mux.HandleFunc("PUT /api/users/follow/{id}", protected(s.handleToggleFollow))
	mux.HandleFunc("PUT /api/users/profile/update", protected(s.handleUpdateProfile))

	// Notifications
	mux.HandleFunc("GET /api/notifications", protected(s.handleListNotifications))
	mux.HandleFunc("PUT /api/notifications/read", protected(s.handleMarkAllRead))

	// Feed
	mux.HandleFunc("GET /api/feed", protected(s.handleGetFeed))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
