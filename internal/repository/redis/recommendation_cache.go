package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutorMarket/business/recommendation"
	"tutorMarket/domain"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 100

// RecommendationCache keeps finished recommendation lists as JSON blobs.
// Keys are built by the orchestrator and always start with the student
// prefix so a single student's entries can be dropped together.
type RecommendationCache struct {
	client *redis.Client
}

var _ recommendation.Cache = (*RecommendationCache)(nil)

func NewRecommendationCache(client *redis.Client) *RecommendationCache {
	return &RecommendationCache{
		client: client,
	}
}

func (c *RecommendationCache) Get(ctx context.Context, key string) ([]domain.ScoredCandidate, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get recommendations from Redis: %w", err)
	}

	var recs []domain.ScoredCandidate
	if err := json.Unmarshal(val, &recs); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached recommendations: %w", err)
	}

	return recs, true, nil
}

func (c *RecommendationCache) Set(ctx context.Context, key string, recs []domain.ScoredCandidate, ttl time.Duration) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store recommendations in Redis: %w", err)
	}

	return nil
}

func (c *RecommendationCache) InvalidateStudent(ctx context.Context, studentID uint) error {
	pattern := recommendation.StudentCachePrefix(studentID) + "*"

	iter := c.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached recommendations: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached recommendations: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete cached recommendations: %w", err)
		}
	}

	return nil
}
