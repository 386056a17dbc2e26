package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"musewave/core/catalog"
	"musewave/model"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error)
	ListArtists(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
	SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error)
}

// mysqlUserRepository implements UserRepository for MySQL.
type mysqlUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new mysqlUserRepository.
func NewMySQLUserRepository(db *sql.DB) UserRepository {
	return &mysqlUserRepository{db: db}
}

// CreateUser adds a new user. Username and email uniqueness conflicts come
// back as ValidationErrors naming the offending field.
func (r *mysqlUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `INSERT INTO users (` + catalog.UserColumns + `)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.DisplayName, user.Bio,
		user.AvatarURL, user.HeaderURL, user.Location, user.Website,
		user.Twitter, user.Instagram, user.Spotify, user.Soundcloud,
		user.Verified, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicateEntry(err) {
			if strings.Contains(err.Error(), "email") {
				return model.NewValidationError("email", "email already in use")
			}
			return model.NewValidationError("username", "username already taken")
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func scanUser(scanner interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	err := scanner.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.DisplayName, &user.Bio,
		&user.AvatarURL, &user.HeaderURL, &user.Location, &user.Website,
		&user.Twitter, &user.Instagram, &user.Spotify, &user.Soundcloud,
		&user.Verified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *mysqlUserRepository) getUser(ctx context.Context, where string, arg interface{}) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+catalog.UserColumns+" FROM users WHERE "+where, arg)

	user, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID. Returns (nil, nil) when absent.
func (r *mysqlUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.getUser(ctx, "id = ?", id)
}

// GetUserByUsername retrieves a user by username.
func (r *mysqlUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getUser(ctx, "username = ?", username)
}

// GetUserByEmail retrieves a user by email.
func (r *mysqlUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getUser(ctx, "email = ?", email)
}

func (r *mysqlUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ListUsers pages through all users, newest first.
func (r *mysqlUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if limit <= 0 {
		limit = catalog.DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return r.queryUsers(ctx,
		"SELECT "+catalog.UserColumns+" FROM users ORDER BY created_at DESC LIMIT ? OFFSET ?",
		limit, offset)
}

// ListArtists returns users who own at least one track.
func (r *mysqlUserRepository) ListArtists(ctx context.Context) ([]*model.User, error) {
	return r.queryUsers(ctx,
		"SELECT "+catalog.UserColumns+" FROM users WHERE id IN (SELECT DISTINCT user_id FROM tracks) ORDER BY created_at DESC")
}

// UpdateUser persists the user's mutable profile fields.
func (r *mysqlUserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	query := `UPDATE users SET username = ?, email = ?, display_name = ?, bio = ?, avatar_url = ?,
	           header_url = ?, location = ?, website = ?, twitter = ?, instagram = ?, spotify = ?,
	           soundcloud = ?, verified = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.Email, user.DisplayName, user.Bio, user.AvatarURL,
		user.HeaderURL, user.Location, user.Website, user.Twitter, user.Instagram, user.Spotify,
		user.Soundcloud, user.Verified, user.UpdatedAt, user.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			if strings.Contains(err.Error(), "email") {
				return model.NewValidationError("email", "email already in use")
			}
			return model.NewValidationError("username", "username already taken")
		}
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
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

// DeleteUser removes the user and cascades: their tracks (with each
// track's own cascade), albums, likes, follows in both directions,
// comments and playlists are deleted; their plays and downloads are kept
// with the user reference set to null.
func (r *mysqlUserRepository) DeleteUser(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete user transaction: %w", err)
	}
	defer tx.Rollback()

	// Likes the user placed on other users' tracks take those tracks'
	// counters down with them. Tracks owned by the user are deleted below,
	// so their counters do not matter.
	_, err = tx.ExecContext(ctx,
		`UPDATE tracks t JOIN likes l ON l.track_id = t.id
		  SET t.likes = GREATEST(t.likes - 1, 0), t.updated_at = ?
		  WHERE l.user_id = ? AND t.user_id <> ?`, time.Now(), id, id)
	if err != nil {
		return fmt.Errorf("failed to adjust like counters for user %s: %w", id, err)
	}

	// Cascade each owned track's children, then the tracks themselves.
	childTables := []string{"likes", "plays", "downloads", "comments", "playlist_tracks"}
	for _, table := range childTables {
		_, err = tx.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE track_id IN (SELECT id FROM tracks WHERE user_id = ?)", table), id)
		if err != nil {
			return fmt.Errorf("failed to cascade user %s track children (%s): %w", id, table, err)
		}
	}

	statements := []struct {
		query string
		args  []interface{}
	}{
		{"DELETE FROM tracks WHERE user_id = ?", []interface{}{id}},
		{"DELETE FROM albums WHERE user_id = ?", []interface{}{id}},
		{"DELETE FROM likes WHERE user_id = ?", []interface{}{id}},
		{"DELETE FROM follows WHERE follower_id = ? OR following_id = ?", []interface{}{id, id}},
		{"DELETE FROM comments WHERE user_id = ?", []interface{}{id}},
		{"DELETE FROM playlist_tracks WHERE playlist_id IN (SELECT id FROM playlists WHERE user_id = ?)", []interface{}{id}},
		{"DELETE FROM playlists WHERE user_id = ?", []interface{}{id}},
		// Plays and downloads are append-only analytics rows: detach, keep.
		{"UPDATE plays SET user_id = NULL WHERE user_id = ?", []interface{}{id}},
		{"UPDATE downloads SET user_id = NULL WHERE user_id = ?", []interface{}{id}},
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("failed to cascade user %s delete: %w", id, err)
		}
	}

	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete rows affected: %w", err)
	}
	if affected == 0 {
		return model.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete user transaction: %w", err)
	}
	return nil
}

// SearchUsers runs a substring search over username, display name and bio.
func (r *mysqlUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error) {
	clause, args := catalog.BuildUserSearchQuery(query, limit)
	return r.queryUsers(ctx, "SELECT "+catalog.UserColumns+" FROM users "+clause, args...)
}
