package rest

import (
	"net/http"

	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: "invalid request body"})
		return
	}
	if req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: "password is required"})
		return
	}

	resp, err := s.identity.Register(r.Context(), ports.RegisterCmd{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		User:         toUserResponse(resp.User, true),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: "invalid request body"})
		return
	}

	resp, err := s.identity.Login(r.Context(), ports.LoginCmd{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		User:         toUserResponse(resp.User, true),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	})
}
