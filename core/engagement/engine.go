// Package engagement implements the write side of the platform: likes,
// follows, plays and downloads, together with the denormalized counters on
// the owning track. All counter mutations go through here so they stay
// inseparable from the rows that justify them.
package engagement

import (
	"context"
	"fmt"

	"musewave/cache"
	"musewave/logger"
	"musewave/model"
	"musewave/repository"
)

// ClientMeta carries request metadata recorded on play and download events.
type ClientMeta struct {
	IPAddress string
	UserAgent string
}

// Engine validates engagement requests and delegates the atomic row+counter
// mutations to the engagement repository.
type Engine struct {
	users      repository.UserRepository
	tracks     repository.TrackRepository
	engagement repository.EngagementRepository
}

// NewEngine creates an engagement engine.
func NewEngine(users repository.UserRepository, tracks repository.TrackRepository, eng repository.EngagementRepository) *Engine {
	return &Engine{users: users, tracks: tracks, engagement: eng}
}

func (e *Engine) requireUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", userID, model.ErrNotFound)
	}
	return user, nil
}

func (e *Engine) requireTrack(ctx context.Context, trackID string) (*model.Track, error) {
	track, err := e.tracks.GetTrackByID(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("track %s: %w", trackID, model.ErrNotFound)
	}
	return track, nil
}

// Like records that a user likes a track. A repeat like returns the
// existing row with created=false and leaves the counter untouched.
func (e *Engine) Like(ctx context.Context, userID, trackID string) (*model.Like, bool, error) {
	if _, err := e.requireUser(ctx, userID); err != nil {
		return nil, false, err
	}
	track, err := e.requireTrack(ctx, trackID)
	if err != nil {
		return nil, false, err
	}

	like, created, err := e.engagement.GetOrCreateLike(ctx, userID, trackID)
	if err != nil {
		return nil, false, err
	}
	if created {
		e.invalidateStats(ctx, trackID, track.UserID)
		logger.Info("track liked",
			logger.String("trackId", trackID),
			logger.String("userId", userID))
	}
	return like, created, nil
}

// Unlike removes a user's like from a track. Returns model.ErrNotFound when
// no like exists; the counter is decremented only when a row was removed,
// and never below zero.
func (e *Engine) Unlike(ctx context.Context, userID, trackID string) error {
	if _, err := e.requireUser(ctx, userID); err != nil {
		return err
	}
	track, err := e.requireTrack(ctx, trackID)
	if err != nil {
		return err
	}

	if err := e.engagement.DeleteLike(ctx, userID, trackID); err != nil {
		return err
	}
	e.invalidateStats(ctx, trackID, track.UserID)
	return nil
}

// Follow records that follower follows following. Idempotent: a repeat call
// returns the existing edge with created=false. Self-follows are accepted;
// the model does not forbid follower == following.
func (e *Engine) Follow(ctx context.Context, followerID, followingID string) (*model.Follow, bool, error) {
	if _, err := e.requireUser(ctx, followerID); err != nil {
		return nil, false, err
	}
	if _, err := e.requireUser(ctx, followingID); err != nil {
		return nil, false, err
	}

	follow, created, err := e.engagement.GetOrCreateFollow(ctx, followerID, followingID)
	if err != nil {
		return nil, false, err
	}
	if created {
		if cerr := cache.InvalidateUserStats(ctx, followingID); cerr != nil {
			logger.Warn("failed to invalidate user stats cache", logger.ErrorField(cerr))
		}
		if cerr := cache.InvalidateUserStats(ctx, followerID); cerr != nil {
			logger.Warn("failed to invalidate user stats cache", logger.ErrorField(cerr))
		}
	}
	return follow, created, nil
}

// Unfollow removes the follow edge. Returns model.ErrNotFound when absent.
func (e *Engine) Unfollow(ctx context.Context, followerID, followingID string) error {
	if err := e.engagement.DeleteFollow(ctx, followerID, followingID); err != nil {
		return err
	}
	if cerr := cache.InvalidateUserStats(ctx, followingID); cerr != nil {
		logger.Warn("failed to invalidate user stats cache", logger.ErrorField(cerr))
	}
	if cerr := cache.InvalidateUserStats(ctx, followerID); cerr != nil {
		logger.Warn("failed to invalidate user stats cache", logger.ErrorField(cerr))
	}
	return nil
}

// RecordPlay appends a play event and increments the track's plays counter.
// Every call inserts a new event: replayed requests count again, since
// plays model raw playback events rather than unique listens. userID may be
// nil for anonymous playback.
func (e *Engine) RecordPlay(ctx context.Context, trackID string, userID *string, duration float64, completed bool, meta ClientMeta) (*model.Play, error) {
	track, err := e.requireTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		if _, err := e.requireUser(ctx, *userID); err != nil {
			return nil, err
		}
	}

	play := &model.Play{
		UserID:    userID,
		TrackID:   trackID,
		Duration:  duration,
		Completed: completed,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := e.engagement.CreatePlay(ctx, play); err != nil {
		return nil, err
	}
	e.invalidateStats(ctx, trackID, track.UserID)
	return play, nil
}

// RecordDownload appends a download event and increments the track's
// downloads counter.
func (e *Engine) RecordDownload(ctx context.Context, trackID string, userID *string, meta ClientMeta) (*model.Download, error) {
	track, err := e.requireTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	if userID != nil {
		if _, err := e.requireUser(ctx, *userID); err != nil {
			return nil, err
		}
	}

	download := &model.Download{
		UserID:    userID,
		TrackID:   trackID,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
	}
	if err := e.engagement.CreateDownload(ctx, download); err != nil {
		return nil, err
	}
	e.invalidateStats(ctx, trackID, track.UserID)
	return download, nil
}

// HasLiked reports whether the user has liked the track.
func (e *Engine) HasLiked(ctx context.Context, userID, trackID string) (bool, error) {
	return e.engagement.HasLiked(ctx, userID, trackID)
}

// IsFollowing reports whether follower follows following.
func (e *Engine) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return e.engagement.IsFollowing(ctx, followerID, followingID)
}

// invalidateStats drops cached stats for the track and its owner. Cache
// failures are logged, not surfaced: the cache self-heals via TTL.
func (e *Engine) invalidateStats(ctx context.Context, trackID, ownerID string) {
	if err := cache.InvalidateStats(ctx, trackID, ownerID); err != nil {
		logger.Warn("failed to invalidate stats cache",
			logger.String("trackId", trackID),
			logger.ErrorField(err))
	}
}
