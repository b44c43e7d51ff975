package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

// errorEnvelope matches the original API: every failure is {"message": "..."}.
type errorEnvelope struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError translates domain errors into status codes. The core never
// formats responses; this is the single boundary where that happens.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrCommentNotFound):
		writeJSON(w, http.StatusNotFound, errorEnvelope{Message: err.Error()})

	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorEnvelope{Message: err.Error()})

	case errors.Is(err, domain.ErrSelfFollow),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, domain.ErrEmptyPost),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidUsername):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{Message: err.Error()})

	case errors.Is(err, domain.ErrEmailAlreadyExists):
		writeJSON(w, http.StatusConflict, errorEnvelope{Message: err.Error()})

	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		writeJSON(w, http.StatusUnauthorized, errorEnvelope{Message: err.Error()})

	default:
		slog.Error("💥 Unexpected error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorEnvelope{Message: "internal server error"})
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
