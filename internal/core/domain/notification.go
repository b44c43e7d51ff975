package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	KindLike    NotificationKind = "like"
	KindComment NotificationKind = "comment"
	KindFollow  NotificationKind = "follow"
)

// Notification is immutable once persisted except for Read, which only ever
// flips false -> true and only in bulk.
type Notification struct {
	ID          string
	RecipientID string
	SenderID    string
	Kind        NotificationKind
	PostID      string // empty when the notification has no related post
	Read        bool
	CreatedAt   time.Time

	// Populated on read.
	Sender      *UserSummary
	PostExcerpt string
}

// NewNotification builds an unread notification. Self-action suppression is
// the dispatcher's responsibility, not enforced here.
func NewNotification(recipientID, senderID string, kind NotificationKind, postID string) *Notification {
	return &Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Kind:        kind,
		PostID:      postID,
		CreatedAt:   time.Now().UTC(),
	}
}

type ContentType string

const (
	TypePost  ContentType = "post"
	TypeImage ContentType = "image"
)

// FeedItem is one entry of a user's materialized timeline.
type FeedItem struct {
	PostID    string
	AuthorID  string
	Type      ContentType
	CreatedAt time.Time
}

// FeedRequest encapsulates timeline read criteria.
type FeedRequest struct {
	UserID string
	Limit  int64
	Offset int64
}
