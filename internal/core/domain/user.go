package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Bio          string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the denormalized slice of a user that other entities embed
// on read (post author, comment author, notification sender).
type UserSummary struct {
	ID        string
	Username  string
	AvatarURL string
}

// NewUser is the only way to create a valid user: identity is generated here,
// invariants are checked here, not in the database.
func NewUser(email, username, passwordHash string) (*User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(strings.TrimSpace(username)) < 3 {
		return nil, ErrInvalidUsername
	}

	now := time.Now().UTC()
	return &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Username:     strings.TrimSpace(username),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}

// UpdateProfile applies the mutable profile fields. Nil means "leave as is".
func (u *User) UpdateProfile(bio, avatarURL *string) {
	if bio != nil {
		u.Bio = strings.TrimSpace(*bio)
	}
	if avatarURL != nil {
		u.AvatarURL = strings.TrimSpace(*avatarURL)
	}
	u.touch()
}

func (u *User) UpdatePassword(newHash string) {
	u.PasswordHash = newHash
	u.touch()
}

func (u *User) touch() {
	u.UpdatedAt = time.Now().UTC()
}
