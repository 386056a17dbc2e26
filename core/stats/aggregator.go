// Package stats derives user and track metrics from the denormalized
// counters and the raw play event log.
package stats

import (
	"context"
	"fmt"
	"time"

	"musewave/cache"
	"musewave/logger"
	"musewave/model"
	"musewave/repository"
)

// monthlyWindow is the trailing window used for monthly listeners,
// measured from wall-clock now.
const monthlyWindow = 30 * 24 * time.Hour

// Aggregator computes derived metrics. Track totals trust the engagement
// engine's incremental counters; follower counts and listener windows are
// computed live from the relationship and event tables.
type Aggregator struct {
	users      repository.UserRepository
	tracks     repository.TrackRepository
	engagement repository.EngagementRepository
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewAggregator creates a stats aggregator. cacheTTL of zero disables the
// Redis cache.
func NewAggregator(users repository.UserRepository, tracks repository.TrackRepository, eng repository.EngagementRepository, cacheTTL time.Duration) *Aggregator {
	return &Aggregator{
		users:      users,
		tracks:     tracks,
		engagement: eng,
		cacheTTL:   cacheTTL,
		now:        time.Now,
	}
}

// UserStats computes a user's aggregate metrics.
func (a *Aggregator) UserStats(ctx context.Context, userID string) (*model.UserStats, error) {
	user, err := a.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}

	if cached, err := cache.GetUserStats(ctx, userID); err != nil {
		logger.Warn("failed to read user stats cache", logger.ErrorField(err))
	} else if cached != nil {
		return cached, nil
	}

	tracks, err := a.tracks.GetTracksByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &model.UserStats{
		UserID:      userID,
		TotalTracks: int64(len(tracks)),
		UpdatedAt:   a.now(),
	}

	trackIDs := make([]string, 0, len(tracks))
	for _, track := range tracks {
		stats.TotalPlays += track.Plays
		stats.TotalLikes += track.Likes
		stats.TotalDownloads += track.Downloads
		trackIDs = append(trackIDs, track.ID)
	}

	stats.TotalFollowers, err = a.engagement.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalFollowing, err = a.engagement.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats.MonthlyListeners, err = a.engagement.CountDistinctListeners(ctx, trackIDs, a.now().Add(-monthlyWindow))
	if err != nil {
		return nil, err
	}

	if err := cache.SetUserStats(ctx, stats, a.cacheTTL); err != nil {
		logger.Warn("failed to write user stats cache", logger.ErrorField(err))
	}
	return stats, nil
}

// TrackStats computes a track's metrics from its play events. A track with
// no plays reports zero for every metric rather than an error.
func (a *Aggregator) TrackStats(ctx context.Context, trackID string) (*model.TrackStats, error) {
	track, err := a.tracks.GetTrackByID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("track %s: %w", trackID, model.ErrNotFound)
	}

	if cached, err := cache.GetTrackStats(ctx, trackID); err != nil {
		logger.Warn("failed to read track stats cache", logger.ErrorField(err))
	} else if cached != nil {
		return cached, nil
	}

	plays, err := a.engagement.GetPlaysByTrackID(ctx, trackID)
	if err != nil {
		return nil, err
	}

	stats := aggregatePlays(trackID, plays)
	stats.UpdatedAt = a.now()

	if err := cache.SetTrackStats(ctx, stats, a.cacheTTL); err != nil {
		logger.Warn("failed to write track stats cache", logger.ErrorField(err))
	}
	return stats, nil
}

// aggregatePlays folds the play events into the derived track metrics.
// Daily buckets use the UTC calendar date of each event. Anonymous plays
// count together as one listener.
func aggregatePlays(trackID string, plays []*model.Play) *model.TrackStats {
	stats := &model.TrackStats{
		TrackID:    trackID,
		DailyPlays: make(map[string]int64),
	}
	if len(plays) == 0 {
		return stats
	}

	listeners := make(map[string]struct{})
	var totalDuration float64
	var completed int64

	for _, play := range plays {
		date := play.CreatedAt.UTC().Format("2006-01-02")
		stats.DailyPlays[date]++

		listener := ""
		if play.UserID != nil {
			listener = *play.UserID
		}
		listeners[listener] = struct{}{}

		totalDuration += play.Duration
		if play.Completed {
			completed++
		}
	}

	total := int64(len(plays))
	stats.TotalUniqueListeners = int64(len(listeners))
	stats.AvgListenDuration = totalDuration / float64(total)
	stats.CompletionRate = float64(completed) / float64(total) * 100
	return stats
}
