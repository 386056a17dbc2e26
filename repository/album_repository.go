package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"musewave/model"

	"github.com/google/uuid"
)

const albumColumns = "id, user_id, title, artist, description, cover_url, cover_gradient, release_date, genre, published, created_at, updated_at"

// AlbumRepository defines the interface for album data operations.
type AlbumRepository interface {
	CreateAlbum(ctx context.Context, album *model.Album) error
	GetAlbumByID(ctx context.Context, id string) (*model.Album, error)
	GetAlbumsByUserID(ctx context.Context, userID string) ([]*model.Album, error)
	UpdateAlbum(ctx context.Context, album *model.Album) error
	DeleteAlbum(ctx context.Context, id string) error
}

// mysqlAlbumRepository implements AlbumRepository for MySQL.
type mysqlAlbumRepository struct {
	db *sql.DB
}

// NewMySQLAlbumRepository creates a new mysqlAlbumRepository.
func NewMySQLAlbumRepository(db *sql.DB) AlbumRepository {
	return &mysqlAlbumRepository{db: db}
}

// CreateAlbum adds a new album.
func (r *mysqlAlbumRepository) CreateAlbum(ctx context.Context, album *model.Album) error {
	if album.ID == "" {
		album.ID = uuid.NewString()
	}
	now := time.Now()
	album.CreatedAt = now
	album.UpdatedAt = now

	query := `INSERT INTO albums (` + albumColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		album.ID, album.UserID, album.Title, album.Artist, album.Description,
		album.CoverURL, album.CoverGradient, album.ReleaseDate, album.Genre, album.Published,
		album.CreatedAt, album.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}
	return nil
}

func scanAlbum(scanner interface{ Scan(...interface{}) error }) (*model.Album, error) {
	album := &model.Album{}
	err := scanner.Scan(
		&album.ID, &album.UserID, &album.Title, &album.Artist, &album.Description,
		&album.CoverURL, &album.CoverGradient, &album.ReleaseDate, &album.Genre, &album.Published,
		&album.CreatedAt, &album.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return album, nil
}

// GetAlbumByID retrieves an album by ID. Returns (nil, nil) when absent.
func (r *mysqlAlbumRepository) GetAlbumByID(ctx context.Context, id string) (*model.Album, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+albumColumns+" FROM albums WHERE id = ?", id)

	album, err := scanAlbum(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan album by ID %s: %w", id, err)
	}
	return album, nil
}

// GetAlbumsByUserID retrieves all albums owned by a user, newest first.
func (r *mysqlAlbumRepository) GetAlbumsByUserID(ctx context.Context, userID string) ([]*model.Album, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+albumColumns+" FROM albums WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query albums for user %s: %w", userID, err)
	}
	defer rows.Close()

	albums := make([]*model.Album, 0)
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan album row: %w", err)
		}
		albums = append(albums, album)
	}
	return albums, rows.Err()
}

// UpdateAlbum persists the album's mutable fields.
func (r *mysqlAlbumRepository) UpdateAlbum(ctx context.Context, album *model.Album) error {
	album.UpdatedAt = time.Now()

	query := `UPDATE albums SET title = ?, artist = ?, description = ?, cover_url = ?, cover_gradient = ?,
	           release_date = ?, genre = ?, published = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		album.Title, album.Artist, album.Description, album.CoverURL, album.CoverGradient,
		album.ReleaseDate, album.Genre, album.Published, album.UpdatedAt, album.ID)
	if err != nil {
		return fmt.Errorf("failed to update album %s: %w", album.ID, err)
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

// DeleteAlbum removes the album and detaches its tracks: the tracks
// survive with their album reference set to null.
func (r *mysqlAlbumRepository) DeleteAlbum(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete album transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "UPDATE tracks SET album_id = NULL, updated_at = ? WHERE album_id = ?",
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to detach tracks from album %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM albums WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete album %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete album transaction: %w", err)
	}
	return nil
}
