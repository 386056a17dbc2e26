package server

import (
	"net/http"
	"testing"
	"time"

	"musewave/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequiresQuery(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/search?q=%20", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchExcludesUnpublishedTracks(t *testing.T) {
	f := newAPIFixture(t)

	f.tracks.Add(&model.Track{
		UserID: f.owner.ID, Title: "Night Draft", Published: false, CreatedAt: time.Now(),
	})

	rec := f.do(t, http.MethodGet, "/search?q=night&type=tracks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var results searchResults
	decodeBody(t, rec, &results)
	require.Len(t, results.Tracks, 1)
	assert.Equal(t, f.track.ID, results.Tracks[0].ID)
	assert.Empty(t, results.Users)
}

func TestSearchUsers(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/search?q=listener&type=users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var results searchResults
	decodeBody(t, rec, &results)
	require.Len(t, results.Users, 1)
	assert.Equal(t, f.listener.ID, results.Users[0].ID)
	assert.Empty(t, results.Tracks)
}

func TestSearchAllByDefault(t *testing.T) {
	f := newAPIFixture(t)

	f.users.Add(&model.User{Username: "nightowl"})

	rec := f.do(t, http.MethodGet, "/search?q=night", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var results searchResults
	decodeBody(t, rec, &results)
	assert.Len(t, results.Tracks, 1)
	assert.Len(t, results.Users, 1)
}

func TestRebuildSearchIndex(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/search/reindex", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	decodeBody(t, rec, &resp)
	assert.True(t, resp["success"])
}
