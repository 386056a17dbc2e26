package engagement

import (
	"context"
	"errors"
	"testing"

	"musewave/model"
	"musewave/repository/repositorytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	engine *Engine
	users  *repositorytest.FakeUserRepository
	tracks *repositorytest.FakeTrackRepository
	eng    *repositorytest.FakeEngagementRepository

	owner    *model.User
	listener *model.User
	track    *model.Track
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	users := repositorytest.NewFakeUserRepository()
	tracks := repositorytest.NewFakeTrackRepository()
	eng := repositorytest.NewFakeEngagementRepository(tracks)

	owner := users.Add(&model.User{Username: "producer"})
	listener := users.Add(&model.User{Username: "listener"})
	track := tracks.Add(&model.Track{UserID: owner.ID, Title: "Night Drive", Published: true})

	return &engineFixture{
		engine:   NewEngine(users, tracks, eng),
		users:    users,
		tracks:   tracks,
		eng:      eng,
		owner:    owner,
		listener: listener,
		track:    track,
	}
}

func TestLikeIncrementsCounterOnce(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	like, created, err := f.engine.Like(ctx, f.listener.ID, f.track.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, like)
	assert.Equal(t, int64(1), f.track.Likes)

	// Repeat like is a no-op that returns the existing row.
	again, created, err := f.engine.Like(ctx, f.listener.ID, f.track.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, like.ID, again.ID)
	assert.Equal(t, int64(1), f.track.Likes)
}

func TestLikeCounterMatchesDistinctLikers(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	third := f.users.Add(&model.User{Username: "third"})

	for _, userID := range []string{f.listener.ID, f.owner.ID, third.ID} {
		_, _, err := f.engine.Like(ctx, userID, f.track.ID)
		require.NoError(t, err)
	}
	require.NoError(t, f.engine.Unlike(ctx, f.owner.ID, f.track.ID))

	assert.Equal(t, int64(2), f.track.Likes)
	assert.Len(t, f.eng.Likes, 2)
}

func TestUnlikeWithoutLike(t *testing.T) {
	f := newEngineFixture(t)

	err := f.engine.Unlike(context.Background(), f.listener.ID, f.track.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, int64(0), f.track.Likes)
}

func TestUnlikeAfterUnlike(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, _, err := f.engine.Like(ctx, f.listener.ID, f.track.ID)
	require.NoError(t, err)
	require.NoError(t, f.engine.Unlike(ctx, f.listener.ID, f.track.ID))

	err = f.engine.Unlike(ctx, f.listener.ID, f.track.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, int64(0), f.track.Likes)
}

func TestLikeUnknownTrack(t *testing.T) {
	f := newEngineFixture(t)

	_, _, err := f.engine.Like(context.Background(), f.listener.ID, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestLikeUnknownUser(t *testing.T) {
	f := newEngineFixture(t)

	_, _, err := f.engine.Like(context.Background(), "missing", f.track.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, int64(0), f.track.Likes)
}

func TestFollowIsIdempotent(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	follow, created, err := f.engine.Follow(ctx, f.listener.ID, f.owner.ID)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := f.engine.Follow(ctx, f.listener.ID, f.owner.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, follow.ID, again.ID)
	assert.Len(t, f.eng.Follows, 1)
}

func TestFollowIsDirectional(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, _, err := f.engine.Follow(ctx, f.listener.ID, f.owner.ID)
	require.NoError(t, err)

	following, err := f.engine.IsFollowing(ctx, f.listener.ID, f.owner.ID)
	require.NoError(t, err)
	assert.True(t, following)

	reverse, err := f.engine.IsFollowing(ctx, f.owner.ID, f.listener.ID)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestSelfFollowAllowed(t *testing.T) {
	f := newEngineFixture(t)

	_, created, err := f.engine.Follow(context.Background(), f.owner.ID, f.owner.ID)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestUnfollowWithoutFollow(t *testing.T) {
	f := newEngineFixture(t)

	err := f.engine.Unfollow(context.Background(), f.listener.ID, f.owner.ID)
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestFollowUnknownUser(t *testing.T) {
	f := newEngineFixture(t)

	_, _, err := f.engine.Follow(context.Background(), f.listener.ID, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRecordPlayCountsEveryEvent(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.engine.RecordPlay(ctx, f.track.ID, &f.listener.ID, 120, true, ClientMeta{})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(3), f.track.Plays)
	assert.Len(t, f.eng.Plays, 3)
}

func TestRecordPlayAnonymous(t *testing.T) {
	f := newEngineFixture(t)

	play, err := f.engine.RecordPlay(context.Background(), f.track.ID, nil, 30, false,
		ClientMeta{IPAddress: "203.0.113.9", UserAgent: "musewave-test"})
	require.NoError(t, err)
	assert.Nil(t, play.UserID)
	assert.Equal(t, "203.0.113.9", play.IPAddress)
	assert.Equal(t, int64(1), f.track.Plays)
}

func TestRecordPlayUnknownUser(t *testing.T) {
	f := newEngineFixture(t)

	missing := "missing"
	_, err := f.engine.RecordPlay(context.Background(), f.track.ID, &missing, 10, false, ClientMeta{})
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.Equal(t, int64(0), f.track.Plays)
}

func TestRecordDownloadIncrementsCounter(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	_, err := f.engine.RecordDownload(ctx, f.track.ID, &f.listener.ID, ClientMeta{})
	require.NoError(t, err)
	_, err = f.engine.RecordDownload(ctx, f.track.ID, nil, ClientMeta{})
	require.NoError(t, err)

	assert.Equal(t, int64(2), f.track.Downloads)
	assert.Len(t, f.eng.Downloads, 2)
}

func TestHasLiked(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()

	liked, err := f.engine.HasLiked(ctx, f.listener.ID, f.track.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	_, _, err = f.engine.Like(ctx, f.listener.ID, f.track.ID)
	require.NoError(t, err)

	liked, err = f.engine.HasLiked(ctx, f.listener.ID, f.track.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}
