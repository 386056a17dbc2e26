package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"musewave/core/engagement"
	"musewave/core/stats"
	"musewave/model"
	"musewave/repository/repositorytest"

	"github.com/stretchr/testify/require"
)

// apiFixture wires the handlers against in-memory repositories.
type apiFixture struct {
	router http.Handler
	users  *repositorytest.FakeUserRepository
	tracks *repositorytest.FakeTrackRepository
	eng    *repositorytest.FakeEngagementRepository

	owner    *model.User
	listener *model.User
	track    *model.Track
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	users := repositorytest.NewFakeUserRepository()
	tracks := repositorytest.NewFakeTrackRepository()
	eng := repositorytest.NewFakeEngagementRepository(tracks)

	engine := engagement.NewEngine(users, tracks, eng)
	aggregator := stats.NewAggregator(users, tracks, eng, 0)

	handler := NewAPIHandler(users, tracks, nil, nil, nil, eng, engine, aggregator)

	owner := users.Add(&model.User{Username: "producer", DisplayName: "Producer"})
	listener := users.Add(&model.User{Username: "listener", DisplayName: "Listener"})
	track := tracks.Add(&model.Track{
		UserID:    owner.ID,
		Title:     "Night Drive",
		Artist:    "Producer",
		Genre:     "synthwave",
		Published: true,
		CreatedAt: time.Now(),
	})

	return &apiFixture{
		router:   NewRouter(handler),
		users:    users,
		tracks:   tracks,
		eng:      eng,
		owner:    owner,
		listener: listener,
		track:    track,
	}
}

// do runs a request through the router. A nil body sends an empty request.
func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
