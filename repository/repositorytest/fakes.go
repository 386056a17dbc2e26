// Package repositorytest provides in-memory repository implementations for
// tests that exercise the engagement engine, the stats aggregator and the
// HTTP handlers without a database.
package repositorytest

import (
	"context"
	"strings"
	"time"

	"musewave/core/catalog"
	"musewave/model"

	"github.com/google/uuid"
)

// FakeUserRepository keeps users in a map keyed by ID.
type FakeUserRepository struct {
	Users map[string]*model.User
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make(map[string]*model.User)}
}

// Add seeds a user, assigning an ID when missing, and returns it.
func (r *FakeUserRepository) Add(user *model.User) *model.User {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	r.Users[user.ID] = user
	return user
}

func (r *FakeUserRepository) CreateUser(ctx context.Context, user *model.User) error {
	for _, existing := range r.Users {
		if existing.Username == user.Username {
			return model.NewValidationError("username", "username already taken")
		}
		if existing.Email == user.Email {
			return model.NewValidationError("email", "email already registered")
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.Users[user.ID] = user
	return nil
}

func (r *FakeUserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	return r.Users[id], nil
}

func (r *FakeUserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range r.Users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range r.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (r *FakeUserRepository) ListUsers(ctx context.Context, limit, offset int) ([]*model.User, error) {
	users := make([]*model.User, 0, len(r.Users))
	for _, user := range r.Users {
		users = append(users, user)
	}
	return users, nil
}

func (r *FakeUserRepository) ListArtists(ctx context.Context) ([]*model.User, error) {
	return r.ListUsers(ctx, 0, 0)
}

func (r *FakeUserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	if _, ok := r.Users[user.ID]; !ok {
		return model.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.Users[user.ID] = user
	return nil
}

func (r *FakeUserRepository) DeleteUser(ctx context.Context, id string) error {
	if _, ok := r.Users[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.Users, id)
	return nil
}

func (r *FakeUserRepository) SearchUsers(ctx context.Context, query string, limit int) ([]*model.User, error) {
	if limit <= 0 {
		limit = catalog.DefaultSearchLimit
	}
	needle := strings.ToLower(query)
	var results []*model.User
	for _, user := range r.Users {
		haystack := strings.ToLower(user.Username + " " + user.DisplayName + " " + user.Bio)
		if strings.Contains(haystack, needle) {
			results = append(results, user)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// FakeTrackRepository keeps tracks in a map keyed by ID. The engagement fake
// mutates the stored tracks' counters directly, the same way the SQL
// implementation updates the tracks table in the event transaction.
type FakeTrackRepository struct {
	Tracks map[string]*model.Track
}

func NewFakeTrackRepository() *FakeTrackRepository {
	return &FakeTrackRepository{Tracks: make(map[string]*model.Track)}
}

// Add seeds a track, assigning an ID when missing, and returns it.
func (r *FakeTrackRepository) Add(track *model.Track) *model.Track {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	if track.Tags == nil {
		track.Tags = model.Tags{}
	}
	r.Tracks[track.ID] = track
	return track
}

func (r *FakeTrackRepository) CreateTrack(ctx context.Context, track *model.Track) error {
	if track.ID == "" {
		track.ID = uuid.New().String()
	}
	if track.Tags == nil {
		track.Tags = model.Tags{}
	}
	now := time.Now()
	track.CreatedAt = now
	track.UpdatedAt = now
	if track.Published && track.PublishedAt == nil {
		track.PublishedAt = &now
	}
	r.Tracks[track.ID] = track
	return nil
}

func (r *FakeTrackRepository) GetTrackByID(ctx context.Context, id string) (*model.Track, error) {
	return r.Tracks[id], nil
}

func (r *FakeTrackRepository) GetTracksByUserID(ctx context.Context, userID string) ([]*model.Track, error) {
	var tracks []*model.Track
	for _, track := range r.Tracks {
		if track.UserID == userID {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

func (r *FakeTrackRepository) GetTracksByAlbumID(ctx context.Context, albumID string) ([]*model.Track, error) {
	var tracks []*model.Track
	for _, track := range r.Tracks {
		if track.AlbumID != nil && *track.AlbumID == albumID {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

func (r *FakeTrackRepository) UpdateTrack(ctx context.Context, track *model.Track) error {
	if _, ok := r.Tracks[track.ID]; !ok {
		return model.ErrNotFound
	}
	track.UpdatedAt = time.Now()
	r.Tracks[track.ID] = track
	return nil
}

func (r *FakeTrackRepository) DeleteTrack(ctx context.Context, id string) error {
	if _, ok := r.Tracks[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.Tracks, id)
	return nil
}

func (r *FakeTrackRepository) ListTracks(ctx context.Context, filter catalog.TrackFilter) ([]*model.Track, error) {
	// Validate the sort field the way the SQL builder does.
	if _, _, err := catalog.BuildTrackListQuery(filter); err != nil {
		return nil, err
	}
	var tracks []*model.Track
	for _, track := range r.Tracks {
		if filter.UserID != "" && track.UserID != filter.UserID {
			continue
		}
		if filter.Genre != "" && !strings.EqualFold(track.Genre, filter.Genre) {
			continue
		}
		if filter.Mood != "" && !strings.EqualFold(track.Mood, filter.Mood) {
			continue
		}
		if filter.Published != nil && track.Published != *filter.Published {
			continue
		}
		if !hasAllTags(track.Tags, filter.Tags) {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func hasAllTags(have model.Tags, want []string) bool {
	for _, tag := range want {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		found := false
		for _, t := range have {
			if t == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (r *FakeTrackRepository) SearchTracks(ctx context.Context, query string, limit int) ([]*model.Track, error) {
	if limit <= 0 {
		limit = catalog.DefaultSearchLimit
	}
	needle := strings.ToLower(query)
	var results []*model.Track
	for _, track := range r.Tracks {
		if !track.Published {
			continue
		}
		haystack := strings.ToLower(track.Title + " " + track.Artist + " " + track.Genre + " " +
			track.Mood + " " + strings.Join(track.Tags, " "))
		if strings.Contains(haystack, needle) {
			results = append(results, track)
			if len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// FakeEngagementRepository keeps engagement rows in memory and mirrors the
// SQL implementation's counter semantics: event and counter change together,
// and the like counter never drops below zero.
type FakeEngagementRepository struct {
	TrackRepo *FakeTrackRepository

	Likes     []*model.Like
	Follows   []*model.Follow
	Plays     []*model.Play
	Downloads []*model.Download
}

func NewFakeEngagementRepository(tracks *FakeTrackRepository) *FakeEngagementRepository {
	return &FakeEngagementRepository{TrackRepo: tracks}
}

func (r *FakeEngagementRepository) GetOrCreateLike(ctx context.Context, userID, trackID string) (*model.Like, bool, error) {
	for _, like := range r.Likes {
		if like.UserID == userID && like.TrackID == trackID {
			return like, false, nil
		}
	}
	like := &model.Like{
		ID:        uuid.New().String(),
		UserID:    userID,
		TrackID:   trackID,
		CreatedAt: time.Now(),
	}
	r.Likes = append(r.Likes, like)
	if track := r.TrackRepo.Tracks[trackID]; track != nil {
		track.Likes++
	}
	return like, true, nil
}

func (r *FakeEngagementRepository) DeleteLike(ctx context.Context, userID, trackID string) error {
	for i, like := range r.Likes {
		if like.UserID == userID && like.TrackID == trackID {
			r.Likes = append(r.Likes[:i], r.Likes[i+1:]...)
			if track := r.TrackRepo.Tracks[trackID]; track != nil && track.Likes > 0 {
				track.Likes--
			}
			return nil
		}
	}
	return model.ErrNotFound
}

func (r *FakeEngagementRepository) HasLiked(ctx context.Context, userID, trackID string) (bool, error) {
	for _, like := range r.Likes {
		if like.UserID == userID && like.TrackID == trackID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeEngagementRepository) GetLikesByUserID(ctx context.Context, userID string) ([]*model.Like, error) {
	var likes []*model.Like
	for _, like := range r.Likes {
		if like.UserID == userID {
			likes = append(likes, like)
		}
	}
	return likes, nil
}

func (r *FakeEngagementRepository) GetOrCreateFollow(ctx context.Context, followerID, followingID string) (*model.Follow, bool, error) {
	for _, follow := range r.Follows {
		if follow.FollowerID == followerID && follow.FollowingID == followingID {
			return follow, false, nil
		}
	}
	follow := &model.Follow{
		ID:          uuid.New().String(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
	r.Follows = append(r.Follows, follow)
	return follow, true, nil
}

func (r *FakeEngagementRepository) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	for i, follow := range r.Follows {
		if follow.FollowerID == followerID && follow.FollowingID == followingID {
			r.Follows = append(r.Follows[:i], r.Follows[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (r *FakeEngagementRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	for _, follow := range r.Follows {
		if follow.FollowerID == followerID && follow.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *FakeEngagementRepository) GetFollowers(ctx context.Context, userID string) ([]*model.Follow, error) {
	var follows []*model.Follow
	for _, follow := range r.Follows {
		if follow.FollowingID == userID {
			follows = append(follows, follow)
		}
	}
	return follows, nil
}

func (r *FakeEngagementRepository) GetFollowing(ctx context.Context, userID string) ([]*model.Follow, error) {
	var follows []*model.Follow
	for _, follow := range r.Follows {
		if follow.FollowerID == userID {
			follows = append(follows, follow)
		}
	}
	return follows, nil
}

func (r *FakeEngagementRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	follows, _ := r.GetFollowers(ctx, userID)
	return int64(len(follows)), nil
}

func (r *FakeEngagementRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	follows, _ := r.GetFollowing(ctx, userID)
	return int64(len(follows)), nil
}

func (r *FakeEngagementRepository) CreatePlay(ctx context.Context, play *model.Play) error {
	if play.ID == "" {
		play.ID = uuid.New().String()
	}
	if play.CreatedAt.IsZero() {
		play.CreatedAt = time.Now()
	}
	r.Plays = append(r.Plays, play)
	if track := r.TrackRepo.Tracks[play.TrackID]; track != nil {
		track.Plays++
	}
	return nil
}

func (r *FakeEngagementRepository) GetPlaysByTrackID(ctx context.Context, trackID string) ([]*model.Play, error) {
	var plays []*model.Play
	for _, play := range r.Plays {
		if play.TrackID == trackID {
			plays = append(plays, play)
		}
	}
	return plays, nil
}

func (r *FakeEngagementRepository) GetPlaysByUserID(ctx context.Context, userID string) ([]*model.Play, error) {
	var plays []*model.Play
	for _, play := range r.Plays {
		if play.UserID != nil && *play.UserID == userID {
			plays = append(plays, play)
		}
	}
	return plays, nil
}

func (r *FakeEngagementRepository) CountDistinctListeners(ctx context.Context, trackIDs []string, since time.Time) (int64, error) {
	ids := make(map[string]struct{}, len(trackIDs))
	for _, id := range trackIDs {
		ids[id] = struct{}{}
	}
	listeners := make(map[string]struct{})
	for _, play := range r.Plays {
		if _, ok := ids[play.TrackID]; !ok {
			continue
		}
		if play.CreatedAt.Before(since) {
			continue
		}
		listener := ""
		if play.UserID != nil {
			listener = *play.UserID
		}
		listeners[listener] = struct{}{}
	}
	return int64(len(listeners)), nil
}

func (r *FakeEngagementRepository) CreateDownload(ctx context.Context, download *model.Download) error {
	if download.ID == "" {
		download.ID = uuid.New().String()
	}
	if download.CreatedAt.IsZero() {
		download.CreatedAt = time.Now()
	}
	r.Downloads = append(r.Downloads, download)
	if track := r.TrackRepo.Tracks[download.TrackID]; track != nil {
		track.Downloads++
	}
	return nil
}

func (r *FakeEngagementRepository) GetDownloadsByTrackID(ctx context.Context, trackID string) ([]*model.Download, error) {
	var downloads []*model.Download
	for _, download := range r.Downloads {
		if download.TrackID == trackID {
			downloads = append(downloads, download)
		}
	}
	return downloads, nil
}
