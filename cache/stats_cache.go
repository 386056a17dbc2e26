package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"musewave/model"

	"github.com/redis/go-redis/v9"
)

// Derived stats are cached with a short TTL. Engagement writes invalidate
// the affected keys so readers never see stale numbers for longer than the
// time between the write and its invalidation.

// UserStatsKey builds the Redis key for a user's stats.
func UserStatsKey(userID string) string {
	return fmt.Sprintf("stats:user:%s", userID)
}

// TrackStatsKey builds the Redis key for a track's stats.
func TrackStatsKey(trackID string) string {
	return fmt.Sprintf("stats:track:%s", trackID)
}

// GetUserStats returns cached user stats, or (nil, nil) on a cache miss.
func GetUserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	if RedisClient == nil {
		return nil, nil
	}

	data, err := RedisClient.Get(ctx, UserStatsKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached user stats: %w", err)
	}

	stats := &model.UserStats{}
	if err := json.Unmarshal(data, stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user stats: %w", err)
	}
	return stats, nil
}

// SetUserStats caches user stats for the given TTL.
func SetUserStats(ctx context.Context, stats *model.UserStats, ttl time.Duration) error {
	if RedisClient == nil || ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal user stats: %w", err)
	}
	return RedisClient.Set(ctx, UserStatsKey(stats.UserID), data, ttl).Err()
}

// GetTrackStats returns cached track stats, or (nil, nil) on a cache miss.
func GetTrackStats(ctx context.Context, trackID string) (*model.TrackStats, error) {
	if RedisClient == nil {
		return nil, nil
	}

	data, err := RedisClient.Get(ctx, TrackStatsKey(trackID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached track stats: %w", err)
	}

	stats := &model.TrackStats{}
	if err := json.Unmarshal(data, stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached track stats: %w", err)
	}
	return stats, nil
}

// SetTrackStats caches track stats for the given TTL.
func SetTrackStats(ctx context.Context, stats *model.TrackStats, ttl time.Duration) error {
	if RedisClient == nil || ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal track stats: %w", err)
	}
	return RedisClient.Set(ctx, TrackStatsKey(stats.TrackID), data, ttl).Err()
}

// InvalidateStats drops the cached stats for a track and its owner.
func InvalidateStats(ctx context.Context, trackID, ownerID string) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, TrackStatsKey(trackID), UserStatsKey(ownerID)).Err()
}

// InvalidateUserStats drops a user's cached stats.
func InvalidateUserStats(ctx context.Context, userID string) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, UserStatsKey(userID)).Err()
}
