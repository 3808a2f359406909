package appointments

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/scheduling/pkg/logging"
)

// CachedRepository decorates a Repository with a short-lived Redis cache for
// conflict lookups. Updates invalidate every cached answer for the affected
// doctor. The transactional conflict re-check inside Update never reads the
// cache, so a stale entry can only make the advisory endpoint optimistic,
// never corrupt a write.
type CachedRepository struct {
	Repository
	redis  *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

// NewCachedRepository wraps repo with the Redis cache.
func NewCachedRepository(repo Repository, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedRepository {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedRepository{
		Repository: repo,
		redis:      redisClient,
		ttl:        ttl,
		logger:     logger.WithComponent("appointments_cache"),
	}
}

func conflictKey(doctorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) string {
	return fmt.Sprintf("appointments:conflicts:%s:%d:%d:%s",
		doctorID, start.UTC().Unix(), end.UTC().Unix(), excludeID)
}

// FindConflicts serves cached answers when present, falling back to the
// wrapped repository. Cache failures degrade to a direct lookup.
func (c *CachedRepository) FindConflicts(ctx context.Context, doctorID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (ConflictResult, error) {
	key := conflictKey(doctorID, start, end, excludeID)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var cached ConflictResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("conflict cache read failed", "error", err)
	}

	result, err := c.Repository.FindConflicts(ctx, doctorID, start, end, excludeID)
	if err != nil {
		return ConflictResult{}, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("conflict cache write failed", "error", err)
		}
	}
	return result, nil
}

// Update forwards to the wrapped repository and drops the doctor's cached
// conflict answers on success.
func (c *CachedRepository) Update(ctx context.Context, id uuid.UUID, fields UpdateFields) (*Appointment, error) {
	updated, err := c.Repository.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	pattern := fmt.Sprintf("appointments:conflicts:%s:*", updated.DoctorID)
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("conflict cache scan failed", "doctor_id", updated.DoctorID, "error", err)
		return updated, nil
	}
	if len(keys) > 0 {
		if err := c.redis.Del(ctx, keys...).Err(); err != nil {
			c.logger.Warn("conflict cache invalidation failed", "doctor_id", updated.DoctorID, "error", err)
		}
	}
	return updated, nil
}
