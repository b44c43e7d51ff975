package ports

import (
	"context"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

// --- DRIVEN (what the core needs from the outside world) ---

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error

	// Search matches usernames by case-insensitive substring.
	Search(ctx context.Context, query string) ([]*domain.User, error)
}

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, postID, viewerID string) (*domain.Post, error)
	ListAll(ctx context.Context, viewerID string) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.Post, error)

	// GetPosts batch-fetches posts for timeline hydration.
	GetPosts(ctx context.Context, postIDs []string, viewerID string) ([]*domain.Post, error)

	// Delete removes the post and cascades its comments and likes.
	Delete(ctx context.Context, postID string) error

	// ToggleLike flips userID's membership in the post's like set as one
	// atomic conditional update and reports the resulting state.
	ToggleLike(ctx context.Context, postID, userID string) (liked bool, likeCount int, err error)

	AddComment(ctx context.Context, comment *domain.Comment) error
	GetComment(ctx context.Context, postID, commentID string) (*domain.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string) ([]*domain.Comment, error)
}

type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error

	// ListForRecipient returns newest first, each populated with the sender
	// summary and, when a post is referenced, a short excerpt of it.
	ListForRecipient(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)

	// MarkAllRead returns how many rows actually flipped to read.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// GraphRepository owns the FOLLOWS relation. A single directed edge is the
// authoritative source for both the follower and following sides, so the pair
// can never be half-updated.
type GraphRepository interface {
	// EnsureSchema creates constraints and indexes (idempotent).
	EnsureSchema(ctx context.Context) error

	CreateRelation(ctx context.Context, actorID, targetID string) error
	DeleteRelation(ctx context.Context, actorID, targetID string) error
	IsFollowing(ctx context.Context, actorID, targetID string) (bool, error)
	Counts(ctx context.Context, userID string) (followers, following int64, err error)

	// StreamFollowerIDs yields follower ids in batches for fan-out.
	StreamFollowerIDs(ctx context.Context, userID string, batchSize int, yield func([]string) error) error
}

type FeedRepository interface {
	AddToTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error
	RemoveFromTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error
	GetTimeline(ctx context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error)
}

type EventPublisher interface {
	PublishPostCreated(ctx context.Context, post *domain.Post) error
	PublishPostDeleted(ctx context.Context, post *domain.Post) error
	PublishNotificationCreated(ctx context.Context, n *domain.Notification) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(encodedHash, password string) error
}

type TokenProvider interface {
	GenerateTokens(user *domain.User) (access, refresh string, err error)
	Validate(token string) (userID string, err error)
}

// Connection is one live transport handle. Push must never block the caller:
// implementations queue the frame and drop it when the queue is full.
type Connection interface {
	ID() string
	Push(n *domain.Notification) error
}

// PresenceRegistry maps a user to their live connections. A user with zero
// connections is absent from the registry, not present with an empty set.
type PresenceRegistry interface {
	Register(userID string, conn Connection)
	Unregister(userID string, conn Connection)

	// Lookup never blocks and returns an empty slice for unknown users.
	Lookup(userID string) []Connection
}
