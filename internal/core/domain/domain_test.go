package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Validation(t *testing.T) {
	u, err := NewUser("  Alice@Example.COM ", " alice ", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.ID)

	_, err = NewUser("not-an-email", "alice", "hash")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewUser("alice@example.com", "ab", "hash")
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestNewPost_RequiresContentOrImage(t *testing.T) {
	_, err := NewPost("alice", "   ", " ")
	assert.ErrorIs(t, err, ErrEmptyPost)

	p, err := NewPost("alice", "", "https://cdn/img.png")
	require.NoError(t, err)
	assert.Empty(t, p.Content)
	assert.Equal(t, "https://cdn/img.png", p.ImageURL)
}

func TestNewComment_TrimsAndValidates(t *testing.T) {
	_, err := NewComment("p1", "alice", " \t ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	c, err := NewComment("p1", "alice", "  nice post  ")
	require.NoError(t, err)
	assert.Equal(t, "nice post", c.Content)
	assert.Equal(t, "p1", c.PostID)
}
