package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"musewave/model"

	"github.com/google/uuid"
)

const commentColumns = "id, user_id, track_id, content, timestamp, likes, created_at, updated_at"

// CommentRepository defines the interface for comment data operations.
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetCommentByID(ctx context.Context, id string) (*model.Comment, error)
	GetCommentsByTrackID(ctx context.Context, trackID string) ([]*model.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

// mysqlCommentRepository implements CommentRepository for MySQL.
type mysqlCommentRepository struct {
	db *sql.DB
}

// NewMySQLCommentRepository creates a new mysqlCommentRepository.
func NewMySQLCommentRepository(db *sql.DB) CommentRepository {
	return &mysqlCommentRepository{db: db}
}

// CreateComment adds a comment to a track.
func (r *mysqlCommentRepository) CreateComment(ctx context.Context, comment *model.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	query := `INSERT INTO comments (` + commentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.UserID, comment.TrackID, comment.Content, comment.Timestamp,
		comment.Likes, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetCommentByID retrieves a comment by ID. Returns (nil, nil) when absent.
func (r *mysqlCommentRepository) GetCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE id = ?", id)

	comment := &model.Comment{}
	err := row.Scan(&comment.ID, &comment.UserID, &comment.TrackID, &comment.Content,
		&comment.Timestamp, &comment.Likes, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan comment by ID %s: %w", id, err)
	}
	return comment, nil
}

// GetCommentsByTrackID retrieves a track's comments, newest first.
func (r *mysqlCommentRepository) GetCommentsByTrackID(ctx context.Context, trackID string) ([]*model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+commentColumns+" FROM comments WHERE track_id = ? ORDER BY created_at DESC", trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments for track %s: %w", trackID, err)
	}
	defer rows.Close()

	comments := make([]*model.Comment, 0)
	for rows.Next() {
		comment := &model.Comment{}
		if err := rows.Scan(&comment.ID, &comment.UserID, &comment.TrackID, &comment.Content,
			&comment.Timestamp, &comment.Likes, &comment.CreatedAt, &comment.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment. Returns model.ErrNotFound when absent.
func (r *mysqlCommentRepository) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM comments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", id, err)
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
