package domain

import "errors"

// Sentinel errors for the whole core. Adapters translate driver failures into
// these at the repository boundary; the HTTP layer maps them to status codes.
var (
	// Not found (404)
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")

	// Forbidden (403)
	ErrForbidden = errors.New("actor does not own this resource")

	// Invalid operation / validation (400)
	ErrSelfFollow      = errors.New("you can't follow yourself")
	ErrEmptyComment    = errors.New("comment text cannot be empty")
	ErrEmptyPost       = errors.New("post must have text or image")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidUsername = errors.New("username must be at least 3 characters")

	// Auth (401 / 409)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)
