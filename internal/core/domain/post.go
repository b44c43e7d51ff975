package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        string
	AuthorID  string
	Content   string
	ImageURL  string
	CreatedAt time.Time

	// Populated on read, never stored.
	Author    *UserSummary
	Comments  []*Comment
	LikeCount int
	Liked     bool // whether the viewer likes this post
}

// Comment lives inside exactly one post and is deleted by identity, never by
// position, so concurrent appends cannot shift the target.
type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time

	Author *UserSummary
}

// NewPost requires at least one of text content or an image reference.
func NewPost(authorID, content, imageURL string) (*Post, error) {
	content = strings.TrimSpace(content)
	imageURL = strings.TrimSpace(imageURL)
	if content == "" && imageURL == "" {
		return nil, ErrEmptyPost
	}

	return &Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewComment rejects blank text before any mutation happens.
func NewComment(postID, authorID, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	return &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   strings.TrimSpace(content),
		CreatedAt: time.Now().UTC(),
	}, nil
}
