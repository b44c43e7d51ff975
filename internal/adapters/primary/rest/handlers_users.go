package rest

import (
	"net/http"

	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

type updateProfileRequest struct {
	Bio        *string `json:"bio"`
	ProfilePic *string `json:"profilePic"`
}

type profileResponse struct {
	User      userResponse   `json:"user"`
	Followers int64          `json:"followers"`
	Following int64          `json:"following"`
	Posts     []postResponse `json:"posts"`
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.identity.SearchUsers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u, false))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	user, err := s.identity.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	followers, following, err := s.graph.Counts(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	posts, err := s.posts.ListPostsByAuthor(r.Context(), userID, actorID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		User:      toUserResponse(user, false),
		Followers: followers,
		Following: following,
		Posts:     toPostResponses(posts),
	})
}

func (s *Server) handleToggleFollow(w http.ResponseWriter, r *http.Request) {
	result, err := s.graph.ToggleFollow(r.Context(), actorID(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	message := "Unfollowed"
	if result.Following {
		message = "Followed"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   message,
		"followers": result.FollowerCount,
		"following": result.FollowingCount,
	})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: "invalid request body"})
		return
	}

	user, err := s.identity.UpdateProfile(r.Context(), ports.UpdateProfileCmd{
		UserID:    actorID(r.Context()),
		Bio:       req.Bio,
		AvatarURL: req.ProfilePic,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user, true))
}
