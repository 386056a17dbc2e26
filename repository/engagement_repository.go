package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"musewave/model"

	"github.com/google/uuid"
)

// EngagementRepository defines the only write paths for likes, follows,
// plays and downloads. Every operation that touches a denormalized counter
// commits the relationship/event row and the counter update in a single
// transaction; the rows must never be mutated through any other path or the
// counters drift.
type EngagementRepository interface {
	GetOrCreateLike(ctx context.Context, userID, trackID string) (*model.Like, bool, error)
	DeleteLike(ctx context.Context, userID, trackID string) error
	HasLiked(ctx context.Context, userID, trackID string) (bool, error)
	GetLikesByUserID(ctx context.Context, userID string) ([]*model.Like, error)

	GetOrCreateFollow(ctx context.Context, followerID, followingID string) (*model.Follow, bool, error)
	DeleteFollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	GetFollowers(ctx context.Context, userID string) ([]*model.Follow, error)
	GetFollowing(ctx context.Context, userID string) ([]*model.Follow, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)

	CreatePlay(ctx context.Context, play *model.Play) error
	GetPlaysByTrackID(ctx context.Context, trackID string) ([]*model.Play, error)
	GetPlaysByUserID(ctx context.Context, userID string) ([]*model.Play, error)
	CountDistinctListeners(ctx context.Context, trackIDs []string, since time.Time) (int64, error)

	CreateDownload(ctx context.Context, download *model.Download) error
	GetDownloadsByTrackID(ctx context.Context, trackID string) ([]*model.Download, error)
}

// mysqlEngagementRepository implements EngagementRepository for MySQL.
type mysqlEngagementRepository struct {
	db *sql.DB
}

// NewMySQLEngagementRepository creates a new mysqlEngagementRepository.
func NewMySQLEngagementRepository(db *sql.DB) EngagementRepository {
	return &mysqlEngagementRepository{db: db}
}

// GetOrCreateLike inserts the like and increments the track's likes counter
// atomically. A duplicate insert is absorbed: the existing row is returned
// with created=false and the counter is left untouched.
func (r *mysqlEngagementRepository) GetOrCreateLike(ctx context.Context, userID, trackID string) (*model.Like, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin like transaction: %w", err)
	}
	defer tx.Rollback()

	like := &model.Like{
		ID:        uuid.NewString(),
		UserID:    userID,
		TrackID:   trackID,
		CreatedAt: time.Now(),
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO likes (id, user_id, track_id, created_at) VALUES (?, ?, ?, ?)",
		like.ID, like.UserID, like.TrackID, like.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			// Lost the race or a retried request: return the existing row.
			existing, ferr := r.getLike(ctx, userID, trackID)
			if ferr != nil {
				return nil, false, ferr
			}
			if existing == nil {
				return nil, false, fmt.Errorf("like for user %s track %s vanished after duplicate insert", userID, trackID)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to insert like: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE tracks SET likes = likes + 1, updated_at = ? WHERE id = ?",
		time.Now(), trackID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to increment likes counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit like transaction: %w", err)
	}
	return like, true, nil
}

// DeleteLike removes the like and decrements the track's likes counter in
// the same transaction. The counter never goes below zero. Returns
// model.ErrNotFound when no like exists for the pair.
func (r *mysqlEngagementRepository) DeleteLike(ctx context.Context, userID, trackID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin unlike transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM likes WHERE user_id = ? AND track_id = ?", userID, trackID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read unlike rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, "UPDATE tracks SET likes = GREATEST(likes - 1, 0), updated_at = ? WHERE id = ?",
		time.Now(), trackID)
	if err != nil {
		return fmt.Errorf("failed to decrement likes counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unlike transaction: %w", err)
	}
	return nil
}

func (r *mysqlEngagementRepository) getLike(ctx context.Context, userID, trackID string) (*model.Like, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, track_id, created_at FROM likes WHERE user_id = ? AND track_id = ?",
		userID, trackID)

	like := &model.Like{}
	err := row.Scan(&like.ID, &like.UserID, &like.TrackID, &like.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan like: %w", err)
	}
	return like, nil
}

// HasLiked reports whether the user has liked the track.
func (r *mysqlEngagementRepository) HasLiked(ctx context.Context, userID, trackID string) (bool, error) {
	like, err := r.getLike(ctx, userID, trackID)
	if err != nil {
		return false, err
	}
	return like != nil, nil
}

// GetLikesByUserID returns all likes created by a user, newest first.
func (r *mysqlEngagementRepository) GetLikesByUserID(ctx context.Context, userID string) ([]*model.Like, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, track_id, created_at FROM likes WHERE user_id = ? ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes for user %s: %w", userID, err)
	}
	defer rows.Close()

	likes := make([]*model.Like, 0)
	for rows.Next() {
		like := &model.Like{}
		if err := rows.Scan(&like.ID, &like.UserID, &like.TrackID, &like.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan like row: %w", err)
		}
		likes = append(likes, like)
	}
	return likes, rows.Err()
}

// GetOrCreateFollow inserts the follow edge idempotently. No counter is
// maintained for follows; follower/following totals are computed live.
func (r *mysqlEngagementRepository) GetOrCreateFollow(ctx context.Context, followerID, followingID string) (*model.Follow, bool, error) {
	follow := &model.Follow{
		ID:          uuid.NewString(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO follows (id, follower_id, following_id, created_at) VALUES (?, ?, ?, ?)",
		follow.ID, follow.FollowerID, follow.FollowingID, follow.CreatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			existing, ferr := r.getFollow(ctx, followerID, followingID)
			if ferr != nil {
				return nil, false, ferr
			}
			if existing == nil {
				return nil, false, fmt.Errorf("follow %s -> %s vanished after duplicate insert", followerID, followingID)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to insert follow: %w", err)
	}
	return follow, true, nil
}

// DeleteFollow removes the follow edge. Returns model.ErrNotFound when no
// edge exists for the pair.
func (r *mysqlEngagementRepository) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id = ? AND following_id = ?", followerID, followingID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read unfollow rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *mysqlEngagementRepository) getFollow(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, follower_id, following_id, created_at FROM follows WHERE follower_id = ? AND following_id = ?",
		followerID, followingID)

	follow := &model.Follow{}
	err := row.Scan(&follow.ID, &follow.FollowerID, &follow.FollowingID, &follow.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan follow: %w", err)
	}
	return follow, nil
}

// IsFollowing reports whether follower follows following.
func (r *mysqlEngagementRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	follow, err := r.getFollow(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return follow != nil, nil
}

func (r *mysqlEngagementRepository) queryFollows(ctx context.Context, query, id string) ([]*model.Follow, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query follows: %w", err)
	}
	defer rows.Close()

	follows := make([]*model.Follow, 0)
	for rows.Next() {
		follow := &model.Follow{}
		if err := rows.Scan(&follow.ID, &follow.FollowerID, &follow.FollowingID, &follow.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan follow row: %w", err)
		}
		follows = append(follows, follow)
	}
	return follows, rows.Err()
}

// GetFollowers returns the follow edges pointing at the user.
func (r *mysqlEngagementRepository) GetFollowers(ctx context.Context, userID string) ([]*model.Follow, error) {
	return r.queryFollows(ctx,
		"SELECT id, follower_id, following_id, created_at FROM follows WHERE following_id = ? ORDER BY created_at DESC",
		userID)
}

// GetFollowing returns the follow edges created by the user.
func (r *mysqlEngagementRepository) GetFollowing(ctx context.Context, userID string) ([]*model.Follow, error) {
	return r.queryFollows(ctx,
		"SELECT id, follower_id, following_id, created_at FROM follows WHERE follower_id = ? ORDER BY created_at DESC",
		userID)
}

// CountFollowers counts the user's followers live.
func (r *mysqlEngagementRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM follows WHERE following_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count followers for user %s: %w", userID, err)
	}
	return count, nil
}

// CountFollowing counts how many users the user follows.
func (r *mysqlEngagementRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM follows WHERE follower_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count following for user %s: %w", userID, err)
	}
	return count, nil
}

// CreatePlay appends the play event and increments the track's plays
// counter in one transaction. Events are never deduplicated.
func (r *mysqlEngagementRepository) CreatePlay(ctx context.Context, play *model.Play) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin play transaction: %w", err)
	}
	defer tx.Rollback()

	if play.ID == "" {
		play.ID = uuid.NewString()
	}
	if play.CreatedAt.IsZero() {
		play.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO plays (id, user_id, track_id, duration, completed, ip_address, user_agent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		play.ID, play.UserID, play.TrackID, play.Duration, play.Completed, play.IPAddress, play.UserAgent, play.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE tracks SET plays = plays + 1, updated_at = ? WHERE id = ?",
		time.Now(), play.TrackID)
	if err != nil {
		return fmt.Errorf("failed to increment plays counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit play transaction: %w", err)
	}
	return nil
}

func (r *mysqlEngagementRepository) queryPlays(ctx context.Context, query, id string) ([]*model.Play, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	plays := make([]*model.Play, 0)
	for rows.Next() {
		play := &model.Play{}
		if err := rows.Scan(&play.ID, &play.UserID, &play.TrackID, &play.Duration, &play.Completed,
			&play.IPAddress, &play.UserAgent, &play.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan play row: %w", err)
		}
		plays = append(plays, play)
	}
	return plays, rows.Err()
}

// GetPlaysByTrackID returns all play events for a track, newest first.
func (r *mysqlEngagementRepository) GetPlaysByTrackID(ctx context.Context, trackID string) ([]*model.Play, error) {
	return r.queryPlays(ctx,
		"SELECT id, user_id, track_id, duration, completed, ip_address, user_agent, created_at FROM plays WHERE track_id = ? ORDER BY created_at DESC",
		trackID)
}

// GetPlaysByUserID returns all play events created by a user, newest first.
func (r *mysqlEngagementRepository) GetPlaysByUserID(ctx context.Context, userID string) ([]*model.Play, error) {
	return r.queryPlays(ctx,
		"SELECT id, user_id, track_id, duration, completed, ip_address, user_agent, created_at FROM plays WHERE user_id = ? ORDER BY created_at DESC",
		userID)
}

// CountDistinctListeners counts distinct play users across the given tracks
// since the cutoff. Anonymous plays count together as a single listener.
func (r *mysqlEngagementRepository) CountDistinctListeners(ctx context.Context, trackIDs []string, since time.Time) (int64, error) {
	if len(trackIDs) == 0 {
		return 0, nil
	}

	placeholders := make([]byte, 0, len(trackIDs)*2)
	args := make([]interface{}, 0, len(trackIDs)+1)
	for i, id := range trackIDs {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
		args = append(args, id)
	}
	args = append(args, since)

	query := fmt.Sprintf(
		"SELECT COUNT(DISTINCT COALESCE(user_id, '')) FROM plays WHERE track_id IN (%s) AND created_at >= ?",
		placeholders)

	var count int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct listeners: %w", err)
	}
	return count, nil
}

// CreateDownload appends the download event and increments the track's
// downloads counter in one transaction.
func (r *mysqlEngagementRepository) CreateDownload(ctx context.Context, download *model.Download) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin download transaction: %w", err)
	}
	defer tx.Rollback()

	if download.ID == "" {
		download.ID = uuid.NewString()
	}
	if download.CreatedAt.IsZero() {
		download.CreatedAt = time.Now()
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO downloads (id, user_id, track_id, ip_address, user_agent, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		download.ID, download.UserID, download.TrackID, download.IPAddress, download.UserAgent, download.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert download: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE tracks SET downloads = downloads + 1, updated_at = ? WHERE id = ?",
		time.Now(), download.TrackID)
	if err != nil {
		return fmt.Errorf("failed to increment downloads counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit download transaction: %w", err)
	}
	return nil
}

// GetDownloadsByTrackID returns all download events for a track, newest first.
func (r *mysqlEngagementRepository) GetDownloadsByTrackID(ctx context.Context, trackID string) ([]*model.Download, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, user_id, track_id, ip_address, user_agent, created_at FROM downloads WHERE track_id = ? ORDER BY created_at DESC",
		trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads for track %s: %w", trackID, err)
	}
	defer rows.Close()

	downloads := make([]*model.Download, 0)
	for rows.Next() {
		download := &model.Download{}
		if err := rows.Scan(&download.ID, &download.UserID, &download.TrackID,
			&download.IPAddress, &download.UserAgent, &download.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		downloads = append(downloads, download)
	}
	return downloads, rows.Err()
}
