package rest

import (
	"net/http"
)

type createPostRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

type addCommentRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: "invalid request body"})
		return
	}

	post, err := s.posts.CreatePost(r.Context(), actorID(r.Context()), req.Content, req.Image)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPostResponse(post))
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.posts.ListPosts(r.Context(), actorID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponses(posts))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.posts.GetPost(r.Context(), r.PathValue("id"), actorID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPostResponse(post))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	if err := s.posts.DeletePost(r.Context(), r.PathValue("id"), actorID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	liked, count, err := s.posts.ToggleLike(r.Context(), r.PathValue("id"), actorID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"likes": count, "liked": liked})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: "invalid request body"})
		return
	}

	comments, err := s.posts.AddComment(r.Context(), r.PathValue("id"), actorID(r.Context()), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponses(comments))
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	err := s.posts.DeleteComment(r.Context(), r.PathValue("postID"), r.PathValue("commentID"), actorID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}
