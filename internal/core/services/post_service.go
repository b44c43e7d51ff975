package services

import (
	"context"
	"log/slog"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

type postService struct {
	repo      ports.PostRepository
	notifier  ports.Notifier
	publisher ports.EventPublisher
}

func NewPostService(repo ports.PostRepository, notifier ports.Notifier, pub ports.EventPublisher) ports.PostService {
	return &postService{repo: repo, notifier: notifier, publisher: pub}
}

func (s *postService) CreatePost(ctx context.Context, authorID, content, imageURL string) (*domain.Post, error) {
	post, err := domain.NewPost(authorID, content, imageURL)
	if err != nil {
		return nil, err
	}

	// 1. Save first, it is the source of truth.
	if err := s.repo.Save(ctx, post); err != nil {
		return nil, err
	}

	// 2. Trigger the timeline fan-out. Best effort: the post exists either way.
	if err := s.publisher.PublishPostCreated(ctx, post); err != nil {
		slog.Warn("⚠️ post.created publish failed", "post_id", post.ID, "error", err)
	}

	// Re-read to hand back the author summary populated.
	return s.repo.FindByID(ctx, post.ID, authorID)
}

func (s *postService) GetPost(ctx context.Context, postID, viewerID string) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	post.Comments, err = s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *postService) ListPosts(ctx context.Context, viewerID string) ([]*domain.Post, error) {
	return s.repo.ListAll(ctx, viewerID)
}

func (s *postService) ListPostsByAuthor(ctx context.Context, authorID, viewerID string) ([]*domain.Post, error) {
	return s.repo.ListByAuthor(ctx, authorID, viewerID)
}

func (s *postService) GetPosts(ctx context.Context, postIDs []string, viewerID string) ([]*domain.Post, error) {
	if len(postIDs) == 0 {
		return []*domain.Post{}, nil
	}
	return s.repo.GetPosts(ctx, postIDs, viewerID)
}

func (s *postService) DeletePost(ctx context.Context, postID, actorID string) error {
	post, err := s.repo.FindByID(ctx, postID, actorID)
	if err != nil {
		return err
	}
	if post.AuthorID != actorID {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return err
	}

	// Deletions never notify; they only retract the post from timelines.
	if err := s.publisher.PublishPostDeleted(ctx, post); err != nil {
		slog.Warn("⚠️ post.deleted publish failed", "post_id", postID, "error", err)
	}
	return nil
}

// ToggleLike alternates the actor's membership in the like set. Only the
// transition into "liked" notifies the author; the unlike direction is silent.
func (s *postService) ToggleLike(ctx context.Context, postID, actorID string) (bool, int, error) {
	post, err := s.repo.FindByID(ctx, postID, actorID)
	if err != nil {
		return false, 0, err
	}

	liked, count, err := s.repo.ToggleLike(ctx, postID, actorID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		s.notifier.Emit(ctx, post.AuthorID, actorID, domain.KindLike, postID)
	}
	return liked, count, nil
}

// AddComment appends to the post's comment sequence and always notifies the
// author, no matter how many comments already exist.
func (s *postService) AddComment(ctx context.Context, postID, actorID, content string) ([]*domain.Comment, error) {
	comment, err := domain.NewComment(postID, actorID, content)
	if err != nil {
		return nil, err
	}

	post, err := s.repo.FindByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifier.Emit(ctx, post.AuthorID, actorID, domain.KindComment, postID)

	return s.repo.ListComments(ctx, postID)
}

func (s *postService) DeleteComment(ctx context.Context, postID, commentID, actorID string) error {
	comment, err := s.repo.GetComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != actorID {
		return domain.ErrForbidden
	}
	return s.repo.DeleteComment(ctx, postID, commentID)
}
