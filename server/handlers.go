package server

import (
	"musewave/core/engagement"
	"musewave/core/stats"
	"musewave/repository"
)

// APIHandler handles all API requests.
type APIHandler struct {
	userRepo     repository.UserRepository
	trackRepo    repository.TrackRepository
	albumRepo    repository.AlbumRepository
	commentRepo  repository.CommentRepository
	playlistRepo repository.PlaylistRepository
	engRepo      repository.EngagementRepository
	engine       *engagement.Engine
	aggregator   *stats.Aggregator
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	userRepo repository.UserRepository,
	trackRepo repository.TrackRepository,
	albumRepo repository.AlbumRepository,
	commentRepo repository.CommentRepository,
	playlistRepo repository.PlaylistRepository,
	engRepo repository.EngagementRepository,
	engine *engagement.Engine,
	aggregator *stats.Aggregator,
) *APIHandler {
	return &APIHandler{
		userRepo:     userRepo,
		trackRepo:    trackRepo,
		albumRepo:    albumRepo,
		commentRepo:  commentRepo,
		playlistRepo: playlistRepo,
		engRepo:      engRepo,
		engine:       engine,
		aggregator:   aggregator,
	}
}
