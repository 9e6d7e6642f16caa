package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/fivetoolhq/fivetool-backend/internal/logger"
)

// ScoreCache is a cache-aside store for breakdowns. Recomputation is pure,
// so eviction is always safe; Get returning (nil, nil) means miss.
type ScoreCache interface {
	Get(ctx context.Context, assessmentID uuid.UUID) (*ScoreBreakdown, error)
	Set(ctx context.Context, breakdown *ScoreBreakdown) error
}

type redisScoreCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewRedisScoreCache(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) ScoreCache {
	return &redisScoreCache{
		log: baseLog.With("service", "RedisScoreCache"),
		rdb: rdb,
		ttl: ttl,
	}
}

func scoreCacheKey(assessmentID uuid.UUID) string {
	return "score:breakdown:" + assessmentID.String()
}

func (c *redisScoreCache) Get(ctx context.Context, assessmentID uuid.UUID) (*ScoreBreakdown, error) {
	raw, err := c.rdb.Get(ctx, scoreCacheKey(assessmentID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("score cache get: %w", err)
	}
	var breakdown ScoreBreakdown
	if err := json.Unmarshal(raw, &breakdown); err != nil {
		// Corrupt entry; treat as a miss and let the writer replace it.
		c.log.Warn("Dropping unreadable score cache entry", "assessment_id", assessmentID, "error", err)
		return nil, nil
	}
	return &breakdown, nil
}

func (c *redisScoreCache) Set(ctx context.Context, breakdown *ScoreBreakdown) error {
	raw, err := json.Marshal(breakdown)
	if err != nil {
		return fmt.Errorf("score cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, scoreCacheKey(breakdown.AssessmentID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("score cache set: %w", err)
	}
	return nil
}

type noopScoreCache struct{}

// NewNoopScoreCache disables caching; used when REDIS_ADDR is unset and in
// tests.
func NewNoopScoreCache() ScoreCache { return noopScoreCache{} }

func (noopScoreCache) Get(ctx context.Context, assessmentID uuid.UUID) (*ScoreBreakdown, error) {
	return nil, nil
}

func (noopScoreCache) Set(ctx context.Context, breakdown *ScoreBreakdown) error {
	return nil
}
