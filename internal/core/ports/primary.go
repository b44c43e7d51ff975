package ports

import (
	"context"
	"time"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

// --- DRIVING (what the core exposes to the HTTP/WS adapters) ---

type RegisterCmd struct {
	Email    string
	Username string
	Password string
}

type LoginCmd struct {
	Email    string
	Password string
}

type AuthResponse struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
}

type UpdateProfileCmd struct {
	UserID    string
	Bio       *string
	AvatarURL *string
}

type IdentityService interface {
	Register(ctx context.Context, cmd RegisterCmd) (*AuthResponse, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (string, error)

	GetUser(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCmd) (*domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]*domain.User, error)
}

type PostService interface {
	CreatePost(ctx context.Context, authorID, content, imageURL string) (*domain.Post, error)
	GetPost(ctx context.Context, postID, viewerID string) (*domain.Post, error)
	ListPosts(ctx context.Context, viewerID string) ([]*domain.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.Post, error)
	GetPosts(ctx context.Context, postIDs []string, viewerID string) ([]*domain.Post, error)
	DeletePost(ctx context.Context, postID, actorID string) error

	// ToggleLike alternates membership of actorID in the post's like set and
	// returns the new state plus cardinality.
	ToggleLike(ctx context.Context, postID, actorID string) (liked bool, likeCount int, err error)

	AddComment(ctx context.Context, postID, actorID, content string) ([]*domain.Comment, error)
	DeleteComment(ctx context.Context, postID, commentID, actorID string) error
}

// FollowResult mirrors what the original API returned after a follow toggle.
type FollowResult struct {
	Following      bool
	FollowerCount  int64 // target's followers
	FollowingCount int64 // actor's following
}

type GraphService interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error)
	Counts(ctx context.Context, userID string) (followers, following int64, err error)
}

// Notifier is the dispatcher: mutators call Emit after their primary mutation
// succeeded. Emit never fails the caller; persistence errors are logged and
// pushes are best effort.
type Notifier interface {
	Emit(ctx context.Context, recipientID, senderID string, kind domain.NotificationKind, postID string)
}

type NotificationService interface {
	Notifier

	ListForRecipient(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type FeedService interface {
	// DistributePost is called when a "post.created" event arrives.
	DistributePost(ctx context.Context, item *domain.FeedItem) error

	// RetractPost removes a deleted post from its followers' timelines.
	RetractPost(ctx context.Context, item *domain.FeedItem) error

	GetTimeline(ctx context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error)
}
