package server

import (
	"net/http"
	"testing"

	"musewave/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeTrack(t *testing.T) {
	f := newAPIFixture(t)
	path := "/tracks/" + f.track.ID + "/like"
	body := map[string]string{"userId": f.listener.ID}

	rec := f.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var like model.Like
	decodeBody(t, rec, &like)
	assert.Equal(t, f.listener.ID, like.UserID)
	assert.Equal(t, f.track.ID, like.TrackID)
	assert.Equal(t, int64(1), f.track.Likes)

	// Liking again returns the existing like with 200.
	rec = f.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var again model.Like
	decodeBody(t, rec, &again)
	assert.Equal(t, like.ID, again.ID)
	assert.Equal(t, int64(1), f.track.Likes)
}

func TestLikeTrackRequiresUserID(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/tracks/"+f.track.ID+"/like", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp["error"], "userId")
}

func TestLikeUnknownTrackReturns404(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/tracks/missing/like", map[string]string{"userId": f.listener.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnlikeTrack(t *testing.T) {
	f := newAPIFixture(t)
	path := "/tracks/" + f.track.ID + "/like"
	body := map[string]string{"userId": f.listener.ID}

	rec := f.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodDelete, path, body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	decodeBody(t, rec, &resp)
	assert.True(t, resp["success"])
	assert.Equal(t, int64(0), f.track.Likes)

	// Unliking again is a 404; the counter stays at zero.
	rec = f.do(t, http.MethodDelete, path, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, int64(0), f.track.Likes)
}

func TestCheckLike(t *testing.T) {
	f := newAPIFixture(t)
	path := "/tracks/" + f.track.ID + "/like/" + f.listener.ID

	rec := f.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	decodeBody(t, rec, &resp)
	assert.False(t, resp["hasLiked"])

	f.do(t, http.MethodPost, "/tracks/"+f.track.ID+"/like", map[string]string{"userId": f.listener.ID})

	rec = f.do(t, http.MethodGet, path, nil)
	decodeBody(t, rec, &resp)
	assert.True(t, resp["hasLiked"])
}

func TestFollowUser(t *testing.T) {
	f := newAPIFixture(t)
	path := "/users/" + f.owner.ID + "/follow"
	body := map[string]string{"followerId": f.listener.ID}

	rec := f.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var follow model.Follow
	decodeBody(t, rec, &follow)
	assert.Equal(t, f.listener.ID, follow.FollowerID)
	assert.Equal(t, f.owner.ID, follow.FollowingID)

	rec = f.do(t, http.MethodPost, path, body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFollowRequiresFollowerID(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/users/"+f.owner.ID+"/follow", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnfollowUser(t *testing.T) {
	f := newAPIFixture(t)
	path := "/users/" + f.owner.ID + "/follow"
	body := map[string]string{"followerId": f.listener.ID}

	f.do(t, http.MethodPost, path, body)

	rec := f.do(t, http.MethodDelete, path, body)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, path, body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckFollow(t *testing.T) {
	f := newAPIFixture(t)
	path := "/users/" + f.owner.ID + "/follow/" + f.listener.ID

	rec := f.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	decodeBody(t, rec, &resp)
	assert.False(t, resp["isFollowing"])

	f.do(t, http.MethodPost, "/users/"+f.owner.ID+"/follow", map[string]string{"followerId": f.listener.ID})

	rec = f.do(t, http.MethodGet, path, nil)
	decodeBody(t, rec, &resp)
	assert.True(t, resp["isFollowing"])
}

func TestRecordPlay(t *testing.T) {
	f := newAPIFixture(t)
	path := "/tracks/" + f.track.ID + "/play"
	body := map[string]interface{}{"userId": f.listener.ID, "duration": 185.5, "completed": true}

	// Plays are events: each request counts, including repeats.
	for i := 1; i <= 3; i++ {
		rec := f.do(t, http.MethodPost, path, body)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int64(i), f.track.Plays)
	}

	var play model.Play
	decodeBody(t, f.do(t, http.MethodPost, path, body), &play)
	require.NotNil(t, play.UserID)
	assert.Equal(t, f.listener.ID, *play.UserID)
	assert.Equal(t, 185.5, play.Duration)
	assert.True(t, play.Completed)
}

func TestRecordPlayAnonymousEmptyBody(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/tracks/"+f.track.ID+"/play", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var play model.Play
	decodeBody(t, rec, &play)
	assert.Nil(t, play.UserID)
	assert.Equal(t, int64(1), f.track.Plays)
}

func TestRecordPlayUnknownTrack(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/tracks/missing/play", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordDownload(t *testing.T) {
	f := newAPIFixture(t)
	path := "/tracks/" + f.track.ID + "/download"

	rec := f.do(t, http.MethodPost, path, map[string]string{"userId": f.listener.ID})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), f.track.Downloads)

	// The body is optional; a bare request records an anonymous download.
	rec = f.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var download model.Download
	decodeBody(t, rec, &download)
	assert.Nil(t, download.UserID)
	assert.Equal(t, int64(2), f.track.Downloads)
}
