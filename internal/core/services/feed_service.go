package services

import (
	"context"
	"log/slog"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
	"github.com/swathi-reddy30/pulse-app/internal/core/ports"
)

// BatchSize bounds how many follower timelines one repository call touches.
const BatchSize = 1000

type feedService struct {
	repo  ports.FeedRepository
	graph ports.GraphRepository
}

func NewFeedService(repo ports.FeedRepository, graph ports.GraphRepository) ports.FeedService {
	return &feedService{repo: repo, graph: graph}
}

func (s *feedService) DistributePost(ctx context.Context, item *domain.FeedItem) error {
	slog.Info("📢 Fan-out starting", "post_id", item.PostID, "author_id", item.AuthorID)

	count := 0
	err := s.graph.StreamFollowerIDs(ctx, item.AuthorID, BatchSize, func(batch []string) error {
		count += len(batch)
		if err := s.repo.AddToTimelines(ctx, batch, item); err != nil {
			// A lost batch degrades one page of timelines, not the post itself.
			slog.Error("❌ Failed to push batch to redis", "error", err, "batch_size", len(batch))
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Info("✅ Fan-out complete", "post_id", item.PostID, "count", count)
	return nil
}

func (s *feedService) RetractPost(ctx context.Context, item *domain.FeedItem) error {
	return s.graph.StreamFollowerIDs(ctx, item.AuthorID, BatchSize, func(batch []string) error {
		if err := s.repo.RemoveFromTimelines(ctx, batch, item); err != nil {
			slog.Error("❌ Failed to retract batch from redis", "error", err, "batch_size", len(batch))
		}
		return nil
	})
}

func (s *feedService) GetTimeline(ctx context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error) {
	return s.repo.GetTimeline(ctx, req)
}
