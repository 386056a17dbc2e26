package catalog

import (
	"testing"

	"musewave/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrackListQueryDefaults(t *testing.T) {
	clause, args, err := BuildTrackListQuery(TrackFilter{})
	require.NoError(t, err)

	assert.Equal(t, "ORDER BY created_at DESC LIMIT ? OFFSET ?", clause)
	assert.Equal(t, []interface{}{DefaultListLimit, 0}, args)
}

func TestBuildTrackListQueryFilters(t *testing.T) {
	published := true
	clause, args, err := BuildTrackListQuery(TrackFilter{
		UserID:    "user-1",
		Genre:     "House",
		Mood:      "Chill",
		Published: &published,
		Limit:     10,
		Offset:    20,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"WHERE user_id = ? AND LOWER(genre) = LOWER(?) AND LOWER(mood) = LOWER(?) AND published = ? "+
			"ORDER BY created_at DESC LIMIT ? OFFSET ?",
		clause)
	assert.Equal(t, []interface{}{"user-1", "House", "Chill", true, 10, 20}, args)
}

func TestBuildTrackListQueryTagsRequireAll(t *testing.T) {
	clause, args, err := BuildTrackListQuery(TrackFilter{
		Tags: []string{"lofi", "study", " ", ""},
	})
	require.NoError(t, err)

	assert.Equal(t,
		"WHERE JSON_CONTAINS(tags, JSON_QUOTE(?)) AND JSON_CONTAINS(tags, JSON_QUOTE(?)) "+
			"ORDER BY created_at DESC LIMIT ? OFFSET ?",
		clause)
	assert.Equal(t, []interface{}{"lofi", "study", DefaultListLimit, 0}, args)
}

func TestBuildTrackListQueryPublishedFalse(t *testing.T) {
	published := false
	clause, args, err := BuildTrackListQuery(TrackFilter{Published: &published})
	require.NoError(t, err)

	assert.Contains(t, clause, "published = ?")
	assert.Equal(t, []interface{}{false, DefaultListLimit, 0}, args)
}

func TestBuildTrackListQuerySorting(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"default descending", "", "", "ORDER BY created_at DESC"},
		{"explicit ascending", "plays", "asc", "ORDER BY plays ASC"},
		{"explicit descending", "likes", "desc", "ORDER BY likes DESC"},
		{"camel case field", "publishedAt", "", "ORDER BY published_at DESC"},
		{"snake case field", "published_at", "", "ORDER BY published_at DESC"},
		{"dash prefix overrides asc", "-likes", "asc", "ORDER BY likes DESC"},
		{"duration maps to audio column", "duration", "asc", "ORDER BY audio_duration ASC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, _, err := BuildTrackListQuery(TrackFilter{SortBy: tt.sortBy, SortOrder: tt.sortOrder})
			require.NoError(t, err)
			assert.Contains(t, clause, tt.want)
		})
	}
}

func TestBuildTrackListQueryRejectsUnknownSortField(t *testing.T) {
	_, _, err := BuildTrackListQuery(TrackFilter{SortBy: "password_hash"})
	require.Error(t, err)
	assert.True(t, model.IsValidation(err))
}

func TestBuildTrackListQueryNegativeOffset(t *testing.T) {
	_, args, err := BuildTrackListQuery(TrackFilter{Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{DefaultListLimit, 0}, args)
}

func TestBuildTrackSearchQuery(t *testing.T) {
	clause, args := BuildTrackSearchQuery("Lo-Fi", 0)

	assert.Contains(t, clause, "published = TRUE")
	assert.Contains(t, clause, "LOWER(title) LIKE ?")
	assert.Contains(t, clause, "LOWER(tags) LIKE ?")
	assert.Equal(t, []interface{}{"%lo-fi%", "%lo-fi%", "%lo-fi%", "%lo-fi%", "%lo-fi%", DefaultSearchLimit}, args)
}

func TestBuildTrackSearchQueryCustomLimit(t *testing.T) {
	_, args := BuildTrackSearchQuery("beat", 5)
	assert.Equal(t, 5, args[len(args)-1])
}

func TestBuildUserSearchQuery(t *testing.T) {
	clause, args := BuildUserSearchQuery("Ava", 0)

	assert.Contains(t, clause, "LOWER(username) LIKE ?")
	assert.Contains(t, clause, "LOWER(display_name) LIKE ?")
	assert.Contains(t, clause, "LOWER(bio) LIKE ?")
	assert.Equal(t, []interface{}{"%ava%", "%ava%", "%ava%", DefaultSearchLimit}, args)
}
