package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"musewave/model"

	"github.com/google/uuid"
)

const playlistColumns = "id, user_id, name, description, cover_url, public, created_at, updated_at"

// PlaylistRepository defines the interface for playlist data operations.
type PlaylistRepository interface {
	CreatePlaylist(ctx context.Context, playlist *model.Playlist) error
	GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error)
	GetPlaylistsByUserID(ctx context.Context, userID string) ([]*model.Playlist, error)
	DeletePlaylist(ctx context.Context, id string) error
	AddTrackToPlaylist(ctx context.Context, playlistID, trackID string) error
	RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID string) error
	GetPlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error)
}

// mysqlPlaylistRepository implements PlaylistRepository for MySQL.
type mysqlPlaylistRepository struct {
	db *sql.DB
}

// NewMySQLPlaylistRepository creates a new mysqlPlaylistRepository.
func NewMySQLPlaylistRepository(db *sql.DB) PlaylistRepository {
	return &mysqlPlaylistRepository{db: db}
}

// CreatePlaylist adds a new playlist.
func (r *mysqlPlaylistRepository) CreatePlaylist(ctx context.Context, playlist *model.Playlist) error {
	if playlist.ID == "" {
		playlist.ID = uuid.NewString()
	}
	now := time.Now()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now

	query := `INSERT INTO playlists (` + playlistColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		playlist.ID, playlist.UserID, playlist.Name, playlist.Description, playlist.CoverURL,
		playlist.Public, playlist.CreatedAt, playlist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}
	return nil
}

// GetPlaylistByID retrieves a playlist by ID. Returns (nil, nil) when absent.
func (r *mysqlPlaylistRepository) GetPlaylistByID(ctx context.Context, id string) (*model.Playlist, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+playlistColumns+" FROM playlists WHERE id = ?", id)

	playlist := &model.Playlist{}
	err := row.Scan(&playlist.ID, &playlist.UserID, &playlist.Name, &playlist.Description,
		&playlist.CoverURL, &playlist.Public, &playlist.CreatedAt, &playlist.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan playlist by ID %s: %w", id, err)
	}
	return playlist, nil
}

// GetPlaylistsByUserID retrieves all playlists owned by a user.
func (r *mysqlPlaylistRepository) GetPlaylistsByUserID(ctx context.Context, userID string) ([]*model.Playlist, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+playlistColumns+" FROM playlists WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for user %s: %w", userID, err)
	}
	defer rows.Close()

	playlists := make([]*model.Playlist, 0)
	for rows.Next() {
		playlist := &model.Playlist{}
		if err := rows.Scan(&playlist.ID, &playlist.UserID, &playlist.Name, &playlist.Description,
			&playlist.CoverURL, &playlist.Public, &playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist row: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	return playlists, rows.Err()
}

// DeletePlaylist removes the playlist and its track memberships.
func (r *mysqlPlaylistRepository) DeletePlaylist(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete playlist transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM playlist_tracks WHERE playlist_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete playlist %s tracks: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete playlist transaction: %w", err)
	}
	return nil
}

// AddTrackToPlaylist adds the track to the playlist. Adding a track that
// is already present is a no-op.
func (r *mysqlPlaylistRepository) AddTrackToPlaylist(ctx context.Context, playlistID, trackID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO playlist_tracks (playlist_id, track_id, added_at) VALUES (?, ?, ?)",
		playlistID, trackID, time.Now())
	if err != nil {
		if isDuplicateEntry(err) {
			return nil
		}
		return fmt.Errorf("failed to add track %s to playlist %s: %w", trackID, playlistID, err)
	}
	return nil
}

// RemoveTrackFromPlaylist removes the track from the playlist. Returns
// model.ErrNotFound when the track is not in the playlist.
func (r *mysqlPlaylistRepository) RemoveTrackFromPlaylist(ctx context.Context, playlistID, trackID string) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?", playlistID, trackID)
	if err != nil {
		return fmt.Errorf("failed to remove track %s from playlist %s: %w", trackID, playlistID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}
	return nil
}

// GetPlaylistTrackIDs returns the IDs of the playlist's tracks in the
// order they were added.
func (r *mysqlPlaylistRepository) GetPlaylistTrackIDs(ctx context.Context, playlistID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT track_id FROM playlist_tracks WHERE playlist_id = ? ORDER BY added_at ASC", playlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist %s tracks: %w", playlistID, err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan playlist track row: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
