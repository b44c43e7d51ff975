package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

type RedisFeedRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisFeedRepo(client *redis.Client) *RedisFeedRepo {
	return &RedisFeedRepo{
		client: client,
		ttl:    24 * 30 * time.Hour, // timelines are a cache, not an archive
	}
}

// member encodes "TYPE:AUTHOR_ID:POST_ID"; the same string must be produced
// on add and on remove or the ZRem misses.
func member(item *domain.FeedItem) string {
	return fmt.Sprintf("%s:%s:%s", item.Type, item.AuthorID, item.PostID)
}

func timelineKey(userID string) string {
	return "timeline:" + userID
}

// AddToTimelines pushes one post onto many follower timelines in a single
// pipeline round trip.
func (r *RedisFeedRepo) AddToTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error {
	pipe := r.client.Pipeline()

	m := member(item)
	score := float64(item.CreatedAt.Unix())

	for _, uid := range userIDs {
		key := timelineKey(uid)
		pipe.ZAdd(ctx, key, redis.Z{Score: score, Member: m})
		pipe.Expire(ctx, key, r.ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisFeedRepo) RemoveFromTimelines(ctx context.Context, userIDs []string, item *domain.FeedItem) error {
	pipe := r.client.Pipeline()
	m := member(item)
	for _, uid := range userIDs {
		pipe.ZRem(ctx, timelineKey(uid), m)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisFeedRepo) GetTimeline(ctx context.Context, req domain.FeedRequest) ([]*domain.FeedItem, error) {
	start := req.Offset
	stop := req.Offset + req.Limit - 1

	results, err := r.client.ZRevRangeWithScores(ctx, timelineKey(req.UserID), start, stop).Result()
	if err != nil {
		return nil, err
	}

	items := make([]*domain.FeedItem, 0, len(results))
	for _, z := range results {
		raw, ok := z.Member.(string)
		if !ok {
			continue
		}

		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			// Unknown format, skip rather than crash the whole page.
			continue
		}

		items = append(items, &domain.FeedItem{
			Type:      domain.ContentType(parts[0]),
			AuthorID:  parts[1],
			PostID:    parts[2],
			CreatedAt: time.Unix(int64(z.Score), 0).UTC(),
		})
	}
	return items, nil
}
