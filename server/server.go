package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musewave/cache"
	"musewave/config"
	"musewave/core/engagement"
	"musewave/core/stats"
	"musewave/db"
	"musewave/logger"
	"musewave/repository"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until a
// termination signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogOutputPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	defer db.CloseDB()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.MigrateSchema(); err != nil {
		logger.Fatal("failed to migrate schema", logger.ErrorField(err))
	}

	if err := cache.ConnectRedis(cfg); err != nil {
		// The stats cache is an optimization; the server runs without it.
		logger.Warn("failed to connect to Redis, stats caching disabled", logger.ErrorField(err))
	} else {
		defer cache.CloseRedis()
		logger.Info("connected to Redis")
	}

	userRepo := repository.NewMySQLUserRepository(db.DB)
	trackRepo := repository.NewMySQLTrackRepository(db.DB)
	albumRepo := repository.NewMySQLAlbumRepository(db.DB)
	commentRepo := repository.NewMySQLCommentRepository(db.DB)
	playlistRepo := repository.NewMySQLPlaylistRepository(db.DB)
	engRepo := repository.NewMySQLEngagementRepository(db.DB)

	engine := engagement.NewEngine(userRepo, trackRepo, engRepo)
	aggregator := stats.NewAggregator(userRepo, trackRepo, engRepo,
		time.Duration(cfg.StatsCacheTTL)*time.Second)

	apiHandler := NewAPIHandler(userRepo, trackRepo, albumRepo, commentRepo, playlistRepo, engRepo, engine, aggregator)

	router := NewRouter(apiHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("server stopped")
}

// NewRouter builds the route table.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)
	router.Use(loggingMiddleware)

	// Users.
	router.HandleFunc("/users", h.GetUsersHandler).Methods(http.MethodGet)
	router.HandleFunc("/users", h.CreateUserHandler).Methods(http.MethodPost)
	router.HandleFunc("/users/username/{username}", h.GetUserByUsernameHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.GetUserHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", h.UpdateUserHandler).Methods(http.MethodPatch)
	router.HandleFunc("/users/{id}", h.DeleteUserHandler).Methods(http.MethodDelete)
	router.HandleFunc("/users/{id}/stats", h.GetUserStatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/follow", h.FollowUserHandler).Methods(http.MethodPost)
	router.HandleFunc("/users/{id}/follow", h.UnfollowUserHandler).Methods(http.MethodDelete)
	router.HandleFunc("/users/{id}/follow/{followerId}", h.CheckFollowHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/followers", h.GetFollowersHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/following", h.GetFollowingHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/likes", h.GetUserLikesHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/plays", h.GetUserPlaysHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/albums", h.GetUserAlbumsHandler).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}/playlists", h.GetUserPlaylistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/artists", h.GetArtistsHandler).Methods(http.MethodGet)

	// Tracks.
	router.HandleFunc("/tracks", h.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks", h.CreateTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/tracks/{id}", h.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}", h.UpdateTrackHandler).Methods(http.MethodPatch)
	router.HandleFunc("/tracks/{id}", h.DeleteTrackHandler).Methods(http.MethodDelete)
	router.HandleFunc("/tracks/{id}/stats", h.GetTrackStatsHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}/like", h.LikeTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/tracks/{id}/like", h.UnlikeTrackHandler).Methods(http.MethodDelete)
	router.HandleFunc("/tracks/{id}/like/{userId}", h.CheckLikeHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}/play", h.RecordPlayHandler).Methods(http.MethodPost)
	router.HandleFunc("/tracks/{id}/plays", h.GetTrackPlaysHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}/download", h.RecordDownloadHandler).Methods(http.MethodPost)
	router.HandleFunc("/tracks/{id}/downloads", h.GetTrackDownloadsHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}/comments", h.GetTrackCommentsHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id}/comments", h.CreateCommentHandler).Methods(http.MethodPost)
	router.HandleFunc("/comments/{id}", h.DeleteCommentHandler).Methods(http.MethodDelete)

	// Albums.
	router.HandleFunc("/albums", h.CreateAlbumHandler).Methods(http.MethodPost)
	router.HandleFunc("/albums/{id}", h.GetAlbumHandler).Methods(http.MethodGet)
	router.HandleFunc("/albums/{id}", h.UpdateAlbumHandler).Methods(http.MethodPatch)
	router.HandleFunc("/albums/{id}", h.DeleteAlbumHandler).Methods(http.MethodDelete)

	// Playlists.
	router.HandleFunc("/playlists", h.CreatePlaylistHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id}", h.GetPlaylistHandler).Methods(http.MethodGet)
	router.HandleFunc("/playlists/{id}", h.DeletePlaylistHandler).Methods(http.MethodDelete)
	router.HandleFunc("/playlists/{id}/tracks/{trackId}", h.AddPlaylistTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id}/tracks/{trackId}", h.RemovePlaylistTrackHandler).Methods(http.MethodDelete)

	// Search.
	router.HandleFunc("/search", h.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/search/reindex", h.RebuildSearchIndexHandler).Methods(http.MethodPost)

	return router
}
