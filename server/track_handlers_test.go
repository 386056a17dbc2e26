package server

import (
	"net/http"
	"testing"
	"time"

	"musewave/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTrack(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/tracks", map[string]interface{}{
		"userId": f.owner.ID,
		"title":  "Midnight Run",
		"artist": "Producer",
		"genre":  "synthwave",
		"tags":   []string{"retro", "night"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var track model.Track
	decodeBody(t, rec, &track)
	assert.NotEmpty(t, track.ID)
	assert.Equal(t, "Midnight Run", track.Title)
	assert.Equal(t, int64(0), track.Plays)
	assert.Equal(t, int64(0), track.Likes)
}

func TestCreateTrackValidation(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/tracks", map[string]string{"title": "No Owner"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/tracks", map[string]string{"userId": f.owner.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/tracks", map[string]string{"userId": "missing", "title": "Orphan"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetTrack(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/tracks/"+f.track.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var track model.Track
	decodeBody(t, rec, &track)
	assert.Equal(t, f.track.ID, track.ID)

	rec = f.do(t, http.MethodGet, "/tracks/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTracksFilters(t *testing.T) {
	f := newAPIFixture(t)

	f.tracks.Add(&model.Track{
		UserID: f.owner.ID, Title: "Draft", Genre: "synthwave", Published: false, CreatedAt: time.Now(),
	})
	f.tracks.Add(&model.Track{
		UserID: f.listener.ID, Title: "Other Genre", Genre: "ambient", Published: true, CreatedAt: time.Now(),
	})

	rec := f.do(t, http.MethodGet, "/tracks?published=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var tracks []*model.Track
	decodeBody(t, rec, &tracks)
	assert.Len(t, tracks, 2)

	rec = f.do(t, http.MethodGet, "/tracks?genre=SYNTHWAVE&published=true", nil)
	decodeBody(t, rec, &tracks)
	require.Len(t, tracks, 1)
	assert.Equal(t, f.track.ID, tracks[0].ID)

	rec = f.do(t, http.MethodGet, "/tracks?userId="+f.listener.ID, nil)
	decodeBody(t, rec, &tracks)
	require.Len(t, tracks, 1)
	assert.Equal(t, "Other Genre", tracks[0].Title)
}

func TestListTracksRejectsUnknownSortField(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/tracks?sortBy=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTrackStampsPublishedAtOnce(t *testing.T) {
	f := newAPIFixture(t)

	draft := f.tracks.Add(&model.Track{UserID: f.owner.ID, Title: "Draft", Published: false})
	path := "/tracks/" + draft.ID

	rec := f.do(t, http.MethodPatch, path, map[string]interface{}{"published": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var track model.Track
	decodeBody(t, rec, &track)
	require.NotNil(t, track.PublishedAt)
	firstPublished := *track.PublishedAt

	// Unpublish and republish: the original timestamp survives.
	f.do(t, http.MethodPatch, path, map[string]interface{}{"published": false})
	rec = f.do(t, http.MethodPatch, path, map[string]interface{}{"published": true})
	decodeBody(t, rec, &track)
	require.NotNil(t, track.PublishedAt)
	assert.True(t, track.PublishedAt.Equal(firstPublished))
}

func TestUpdateTrackPartialPatch(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPatch, "/tracks/"+f.track.ID, map[string]interface{}{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)

	var track model.Track
	decodeBody(t, rec, &track)
	assert.Equal(t, "Renamed", track.Title)
	assert.Equal(t, "synthwave", track.Genre)
}

func TestDeleteTrack(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodDelete, "/tracks/"+f.track.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	decodeBody(t, rec, &resp)
	assert.True(t, resp["success"])

	rec = f.do(t, http.MethodGet, "/tracks/"+f.track.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
