package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"musewave/model"
	"musewave/repository/repositorytest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playAt(userID *string, created time.Time, duration float64, completed bool) *model.Play {
	return &model.Play{
		UserID:    userID,
		CreatedAt: created,
		Duration:  duration,
		Completed: completed,
	}
}

func TestAggregatePlaysEmpty(t *testing.T) {
	stats := aggregatePlays("track-1", nil)

	assert.Equal(t, "track-1", stats.TrackID)
	assert.Empty(t, stats.DailyPlays)
	assert.Equal(t, int64(0), stats.TotalUniqueListeners)
	assert.Equal(t, 0.0, stats.AvgListenDuration)
	assert.Equal(t, 0.0, stats.CompletionRate)
}

func TestAggregatePlaysCompletionRate(t *testing.T) {
	u := "user-1"
	day := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	plays := []*model.Play{
		playAt(&u, day, 100, true),
		playAt(&u, day, 50, true),
		playAt(&u, day, 30, false),
		playAt(&u, day, 10, false),
		playAt(&u, day, 10, false),
	}
	stats := aggregatePlays("track-1", plays)

	assert.Equal(t, 40.0, stats.CompletionRate)
	assert.Equal(t, 40.0, stats.AvgListenDuration)
	assert.Equal(t, int64(5), stats.DailyPlays["2026-08-10"])
}

func TestAggregatePlaysDailyBucketsUseUTC(t *testing.T) {
	u := "user-1"
	est := time.FixedZone("EST", -5*60*60)

	plays := []*model.Play{
		// 23:30 EST on Aug 9 is 04:30 UTC on Aug 10.
		playAt(&u, time.Date(2026, 8, 9, 23, 30, 0, 0, est), 60, true),
		playAt(&u, time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC), 60, true),
	}
	stats := aggregatePlays("track-1", plays)

	assert.Equal(t, int64(2), stats.DailyPlays["2026-08-10"])
	assert.NotContains(t, stats.DailyPlays, "2026-08-09")
}

func TestAggregatePlaysAnonymousListenersCountOnce(t *testing.T) {
	u1, u2 := "user-1", "user-2"
	day := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)

	plays := []*model.Play{
		playAt(&u1, day, 60, true),
		playAt(&u2, day, 60, true),
		playAt(nil, day, 60, false),
		playAt(nil, day, 60, false),
	}
	stats := aggregatePlays("track-1", plays)

	// Two known users plus all anonymous plays as a single listener.
	assert.Equal(t, int64(3), stats.TotalUniqueListeners)
}

type aggregatorFixture struct {
	agg    *Aggregator
	users  *repositorytest.FakeUserRepository
	tracks *repositorytest.FakeTrackRepository
	eng    *repositorytest.FakeEngagementRepository
	now    time.Time
}

func newAggregatorFixture(t *testing.T) *aggregatorFixture {
	t.Helper()

	users := repositorytest.NewFakeUserRepository()
	tracks := repositorytest.NewFakeTrackRepository()
	eng := repositorytest.NewFakeEngagementRepository(tracks)

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	agg := NewAggregator(users, tracks, eng, 0)
	agg.now = func() time.Time { return now }

	return &aggregatorFixture{agg: agg, users: users, tracks: tracks, eng: eng, now: now}
}

func TestUserStatsSumsTrackCounters(t *testing.T) {
	f := newAggregatorFixture(t)
	ctx := context.Background()

	owner := f.users.Add(&model.User{Username: "producer"})
	fan := f.users.Add(&model.User{Username: "fan"})
	f.tracks.Add(&model.Track{UserID: owner.ID, Plays: 100, Likes: 10, Downloads: 4})
	f.tracks.Add(&model.Track{UserID: owner.ID, Plays: 50, Likes: 5, Downloads: 1})
	f.tracks.Add(&model.Track{UserID: fan.ID, Plays: 999, Likes: 999, Downloads: 999})

	_, _, err := f.eng.GetOrCreateFollow(ctx, fan.ID, owner.ID)
	require.NoError(t, err)

	stats, err := f.agg.UserStats(ctx, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalTracks)
	assert.Equal(t, int64(150), stats.TotalPlays)
	assert.Equal(t, int64(15), stats.TotalLikes)
	assert.Equal(t, int64(5), stats.TotalDownloads)
	assert.Equal(t, int64(1), stats.TotalFollowers)
	assert.Equal(t, int64(0), stats.TotalFollowing)
	assert.Equal(t, f.now, stats.UpdatedAt)
}

func TestUserStatsMonthlyListenersWindow(t *testing.T) {
	f := newAggregatorFixture(t)
	ctx := context.Background()

	owner := f.users.Add(&model.User{Username: "producer"})
	track := f.tracks.Add(&model.Track{UserID: owner.ID})

	recent, stale := "recent-user", "stale-user"
	require.NoError(t, f.eng.CreatePlay(ctx, &model.Play{
		TrackID: track.ID, UserID: &recent, CreatedAt: f.now.AddDate(0, 0, -10),
	}))
	require.NoError(t, f.eng.CreatePlay(ctx, &model.Play{
		TrackID: track.ID, UserID: nil, CreatedAt: f.now.AddDate(0, 0, -1),
	}))
	require.NoError(t, f.eng.CreatePlay(ctx, &model.Play{
		TrackID: track.ID, UserID: &stale, CreatedAt: f.now.AddDate(0, 0, -40),
	}))

	stats, err := f.agg.UserStats(ctx, owner.ID)
	require.NoError(t, err)

	// One recent user and the anonymous bucket; the 40-day-old play is out
	// of the trailing window.
	assert.Equal(t, int64(2), stats.MonthlyListeners)
}

func TestUserStatsUnknownUser(t *testing.T) {
	f := newAggregatorFixture(t)

	_, err := f.agg.UserStats(context.Background(), "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestUserStatsNoTracks(t *testing.T) {
	f := newAggregatorFixture(t)

	user := f.users.Add(&model.User{Username: "lurker"})

	stats, err := f.agg.UserStats(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalTracks)
	assert.Equal(t, int64(0), stats.TotalPlays)
	assert.Equal(t, int64(0), stats.MonthlyListeners)
}

func TestTrackStatsFromPlays(t *testing.T) {
	f := newAggregatorFixture(t)
	ctx := context.Background()

	owner := f.users.Add(&model.User{Username: "producer"})
	track := f.tracks.Add(&model.Track{UserID: owner.ID})

	listener := "listener-1"
	require.NoError(t, f.eng.CreatePlay(ctx, &model.Play{
		TrackID: track.ID, UserID: &listener, CreatedAt: f.now.Add(-time.Hour), Duration: 180, Completed: true,
	}))
	require.NoError(t, f.eng.CreatePlay(ctx, &model.Play{
		TrackID: track.ID, UserID: &listener, CreatedAt: f.now.Add(-2 * time.Hour), Duration: 60, Completed: false,
	}))

	stats, err := f.agg.TrackStats(ctx, track.ID)
	require.NoError(t, err)

	assert.Equal(t, track.ID, stats.TrackID)
	assert.Equal(t, int64(1), stats.TotalUniqueListeners)
	assert.Equal(t, 120.0, stats.AvgListenDuration)
	assert.Equal(t, 50.0, stats.CompletionRate)
	assert.Equal(t, int64(2), stats.DailyPlays["2026-09-01"])
	assert.Equal(t, f.now, stats.UpdatedAt)
}

func TestTrackStatsNoPlays(t *testing.T) {
	f := newAggregatorFixture(t)

	owner := f.users.Add(&model.User{Username: "producer"})
	track := f.tracks.Add(&model.Track{UserID: owner.ID})

	stats, err := f.agg.TrackStats(context.Background(), track.ID)
	require.NoError(t, err)

	assert.Empty(t, stats.DailyPlays)
	assert.Equal(t, 0.0, stats.CompletionRate)
	assert.Equal(t, 0.0, stats.AvgListenDuration)
	assert.Equal(t, int64(0), stats.TotalUniqueListeners)
}

func TestTrackStatsUnknownTrack(t *testing.T) {
	f := newAggregatorFixture(t)

	_, err := f.agg.TrackStats(context.Background(), "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}
