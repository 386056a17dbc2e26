package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"musewave/core/catalog"
	"musewave/model"

	"github.com/google/uuid"
)

// TrackRepository defines the interface for track data operations.
type TrackRepository interface {
	CreateTrack(ctx context.Context, track *model.Track) error
	GetTrackByID(ctx context.Context, id string) (*model.Track, error)
	GetTracksByUserID(ctx context.Context, userID string) ([]*model.Track, error)
	GetTracksByAlbumID(ctx context.Context, albumID string) ([]*model.Track, error)
	UpdateTrack(ctx context.Context, track *model.Track) error
	DeleteTrack(ctx context.Context, id string) error
	ListTracks(ctx context.Context, filter catalog.TrackFilter) ([]*model.Track, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]*model.Track, error)
}

// mysqlTrackRepository implements TrackRepository for MySQL.
type mysqlTrackRepository struct {
	db *sql.DB
}

// NewMySQLTrackRepository creates a new mysqlTrackRepository.
func NewMySQLTrackRepository(db *sql.DB) TrackRepository {
	return &mysqlTrackRepository{db: db}
}

// CreateTrack adds a new track to the catalog.
func (r *mysqlTrackRepository) CreateTrack(ctx context.Context, track *model.Track) error {
	if track.ID == "" {
		track.ID = uuid.NewString()
	}
	now := time.Now()
	track.CreatedAt = now
	track.UpdatedAt = now
	if track.Published && track.PublishedAt == nil {
		track.PublishedAt = &now
	}
	if track.Tags == nil {
		track.Tags = model.Tags{}
	}

	query := `INSERT INTO tracks (` + catalog.TrackColumns + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		track.ID, track.UserID, track.AlbumID, track.Title, track.Artist, track.ArtistSlug,
		track.Description, track.Genre, track.Mood, track.Tags,
		track.AudioURL, track.AudioFileSize, track.AudioDuration, track.AudioFormat,
		track.CoverURL, track.CoverGradient, track.WaveformData, track.BPM, track.Key,
		track.Plays, track.Likes, track.Downloads, track.Shares,
		track.Published, track.PublishedAt, track.CreatedAt, track.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert track: %w", err)
	}
	return nil
}

func scanTrack(scanner interface{ Scan(...interface{}) error }) (*model.Track, error) {
	track := &model.Track{}
	err := scanner.Scan(
		&track.ID, &track.UserID, &track.AlbumID, &track.Title, &track.Artist, &track.ArtistSlug,
		&track.Description, &track.Genre, &track.Mood, &track.Tags,
		&track.AudioURL, &track.AudioFileSize, &track.AudioDuration, &track.AudioFormat,
		&track.CoverURL, &track.CoverGradient, &track.WaveformData, &track.BPM, &track.Key,
		&track.Plays, &track.Likes, &track.Downloads, &track.Shares,
		&track.Published, &track.PublishedAt, &track.CreatedAt, &track.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return track, nil
}

// GetTrackByID retrieves a track by its ID. Returns (nil, nil) when the
// track does not exist.
func (r *mysqlTrackRepository) GetTrackByID(ctx context.Context, id string) (*model.Track, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+catalog.TrackColumns+" FROM tracks WHERE id = ?", id)

	track, err := scanTrack(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan track by ID %s: %w", id, err)
	}
	return track, nil
}

func (r *mysqlTrackRepository) queryTracks(ctx context.Context, query string, args ...interface{}) ([]*model.Track, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := make([]*model.Track, 0)
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track row: %w", err)
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// GetTracksByUserID retrieves all tracks owned by a user, newest first.
func (r *mysqlTrackRepository) GetTracksByUserID(ctx context.Context, userID string) ([]*model.Track, error) {
	return r.queryTracks(ctx,
		"SELECT "+catalog.TrackColumns+" FROM tracks WHERE user_id = ? ORDER BY created_at DESC", userID)
}

// GetTracksByAlbumID retrieves all tracks attached to an album.
func (r *mysqlTrackRepository) GetTracksByAlbumID(ctx context.Context, albumID string) ([]*model.Track, error) {
	return r.queryTracks(ctx,
		"SELECT "+catalog.TrackColumns+" FROM tracks WHERE album_id = ? ORDER BY created_at DESC", albumID)
}

// UpdateTrack persists the track's mutable fields. Counters are not
// written here: they belong to the engagement repository's transactions.
func (r *mysqlTrackRepository) UpdateTrack(ctx context.Context, track *model.Track) error {
	track.UpdatedAt = time.Now()

	query := `UPDATE tracks SET album_id = ?, title = ?, artist = ?, artist_slug = ?, description = ?,
	           genre = ?, mood = ?, tags = ?, audio_url = ?, audio_file_size = ?, audio_duration = ?,
	           audio_format = ?, cover_url = ?, cover_gradient = ?, waveform_data = ?, bpm = ?, track_key = ?,
	           published = ?, published_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		track.AlbumID, track.Title, track.Artist, track.ArtistSlug, track.Description,
		track.Genre, track.Mood, track.Tags, track.AudioURL, track.AudioFileSize, track.AudioDuration,
		track.AudioFormat, track.CoverURL, track.CoverGradient, track.WaveformData, track.BPM, track.Key,
		track.Published, track.PublishedAt, track.UpdatedAt, track.ID)
	if err != nil {
		return fmt.Errorf("failed to update track %s: %w", track.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteTrack removes the track and cascades to its likes, plays,
// downloads, comments and playlist memberships in one transaction.
func (r *mysqlTrackRepository) DeleteTrack(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete track transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteTrackChildren(ctx, tx, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM tracks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete track %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete track transaction: %w", err)
	}
	return nil
}

// deleteTrackChildren removes every row referencing the track. Shared with
// the user cascade, which deletes tracks in bulk inside its own transaction.
func deleteTrackChildren(ctx context.Context, tx *sql.Tx, trackID string) error {
	statements := []string{
		"DELETE FROM likes WHERE track_id = ?",
		"DELETE FROM plays WHERE track_id = ?",
		"DELETE FROM downloads WHERE track_id = ?",
		"DELETE FROM comments WHERE track_id = ?",
		"DELETE FROM playlist_tracks WHERE track_id = ?",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt, trackID); err != nil {
			return fmt.Errorf("failed to cascade track %s delete: %w", trackID, err)
		}
	}
	return nil
}

// ListTracks runs a catalog filter query.
func (r *mysqlTrackRepository) ListTracks(ctx context.Context, filter catalog.TrackFilter) ([]*model.Track, error) {
	clause, args, err := catalog.BuildTrackListQuery(filter)
	if err != nil {
		return nil, err
	}
	return r.queryTracks(ctx, "SELECT "+catalog.TrackColumns+" FROM tracks "+clause, args...)
}

// SearchTracks runs a substring search over published tracks.
func (r *mysqlTrackRepository) SearchTracks(ctx context.Context, query string, limit int) ([]*model.Track, error) {
	clause, args := catalog.BuildTrackSearchQuery(query, limit)
	return r.queryTracks(ctx, "SELECT "+catalog.TrackColumns+" FROM tracks "+clause, args...)
}
