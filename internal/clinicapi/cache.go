package clinicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/clinicdesk/scheduling/internal/appointments"
	"github.com/clinicdesk/scheduling/internal/scheduling"
	"github.com/clinicdesk/scheduling/pkg/logging"
)

// DefaultConflictTTL bounds how stale a cached conflict answer may be.
const DefaultConflictTTL = 30 * time.Second

// ConflictCache decorates a ConflictChecker and Updater with a short-lived
// Redis cache for conflict answers. Queries marked Live always go to the
// wrapped checker so drag feedback never sees a cached result, and any
// successful update drops every cached answer for that doctor.
type ConflictCache struct {
	checker scheduling.ConflictChecker
	updater scheduling.Updater
	redis   *redis.Client
	ttl     time.Duration
	logger  *logging.Logger
}

// NewConflictCache wraps checker and updater with the Redis cache.
func NewConflictCache(checker scheduling.ConflictChecker, updater scheduling.Updater, redisClient *redis.Client, ttl time.Duration, logger *logging.Logger) *ConflictCache {
	if ttl <= 0 {
		ttl = DefaultConflictTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &ConflictCache{
		checker: checker,
		updater: updater,
		redis:   redisClient,
		ttl:     ttl,
		logger:  logger.WithComponent("conflict_cache"),
	}
}

func (c *ConflictCache) key(q scheduling.ConflictQuery) string {
	return fmt.Sprintf("scheduling:conflicts:%s:%d:%d:%s",
		q.DoctorID,
		q.StartTime.UTC().Unix(),
		q.EndTime.UTC().Unix(),
		q.ExcludeAppointmentID,
	)
}

func (c *ConflictCache) doctorPattern(doctorID uuid.UUID) string {
	return fmt.Sprintf("scheduling:conflicts:%s:*", doctorID)
}

// CheckConflicts serves cached answers when allowed, falling back to the
// wrapped checker. Cache failures degrade to a direct check, never an error.
func (c *ConflictCache) CheckConflicts(ctx context.Context, q scheduling.ConflictQuery) (appointments.ConflictResult, error) {
	if q.Live {
		return c.checker.CheckConflicts(ctx, q)
	}

	key := c.key(q)
	data, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var cached appointments.ConflictResult
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		// Unreadable entry, fall through and overwrite it.
	} else if err != redis.Nil {
		c.logger.Warn("conflict cache read failed", "error", err)
	}

	result, err := c.checker.CheckConflicts(ctx, q)
	if err != nil {
		return appointments.ConflictResult{}, err
	}

	if data, err := json.Marshal(result); err == nil {
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("conflict cache write failed", "error", err)
		}
	}
	return result, nil
}

// UpdateAppointment forwards to the wrapped updater and, on success, drops
// every cached conflict answer for the appointment's doctor so the next check
// sees the new calendar.
func (c *ConflictCache) UpdateAppointment(ctx context.Context, id uuid.UUID, fields appointments.UpdateFields) (*appointments.Appointment, error) {
	updated, err := c.updater.UpdateAppointment(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	c.invalidateDoctor(ctx, updated.DoctorID)
	return updated, nil
}

func (c *ConflictCache) invalidateDoctor(ctx context.Context, doctorID uuid.UUID) {
	iter := c.redis.Scan(ctx, 0, c.doctorPattern(doctorID), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("conflict cache scan failed", "doctor_id", doctorID, "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("conflict cache invalidation failed", "doctor_id", doctorID, "error", err)
		return
	}
	c.logger.Debug("conflict cache invalidated", "doctor_id", doctorID, "keys", len(keys))
}
