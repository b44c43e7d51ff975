package services

import (
	"context"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

type graphService struct {
	repo     ports.GraphRepository
	users    ports.UserRepository
	notifier ports.Notifier
}

func NewGraphService(repo ports.GraphRepository, users ports.UserRepository, notifier ports.Notifier) ports.GraphService {
	return &graphService{repo: repo, users: users, notifier: notifier}
}

// ToggleFollow alternates the FOLLOWS edge between actor and target. The edge
// is the single source of truth for both sides of the relation, so follower
// and following views can never diverge. Only the transition into "following"
// notifies the target.
func (s *graphService) ToggleFollow(ctx context.Context, actorID, targetID string) (*ports.FollowResult, error) {
	if actorID == targetID {
		return nil, domain.ErrSelfFollow
	}
	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	following, err := s.repo.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if following {
		if err := s.repo.DeleteRelation(ctx, actorID, targetID); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.CreateRelation(ctx, actorID, targetID); err != nil {
			return nil, err
		}
		s.notifier.Emit(ctx, targetID, actorID, domain.KindFollow, "")
	}

	targetFollowers, _, err := s.repo.Counts(ctx, targetID)
	if err != nil {
		return nil, err
	}
	_, actorFollowing, err := s.repo.Counts(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &ports.FollowResult{
		Following:      !following,
		FollowerCount:  targetFollowers,
		FollowingCount: actorFollowing,
	}, nil
}

func (s *graphService) Counts(ctx context.Context, userID string) (int64, int64, error) {
	return s.repo.Counts(ctx, userID)
}
