// Package catalog builds the filtering, sorting, pagination and search
// queries that the track and user repositories execute. The builders are
// pure functions over filter values so the generated SQL can be tested
// without a database.
package catalog

import (
	"fmt"
	"strings"

	"musewave/model"
)

// TrackColumns is the column list every track query selects, in the order
// the repositories scan them.
const TrackColumns = "id, user_id, album_id, title, artist, artist_slug, description, genre, mood, tags, " +
	"audio_url, audio_file_size, audio_duration, audio_format, cover_url, cover_gradient, waveform_data, " +
	"bpm, track_key, plays, likes, downloads, shares, published, published_at, created_at, updated_at"

// UserColumns is the column list every user query selects.
const UserColumns = "id, username, email, password_hash, display_name, bio, avatar_url, header_url, " +
	"location, website, twitter, instagram, spotify, soundcloud, verified, created_at, updated_at"

const (
	// DefaultListLimit caps track listings when the client sends none.
	DefaultListLimit = 50
	// DefaultSearchLimit caps each search result set when the client sends none.
	DefaultSearchLimit = 20
)

// TrackFilter holds the catalog listing parameters.
type TrackFilter struct {
	UserID    string
	Genre     string // case-insensitive exact match
	Mood      string // case-insensitive exact match
	Tags      []string
	Published *bool // nil means unfiltered
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// sortColumns whitelists the sortable fields, keyed by both the API name
// and the column name.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"created_at":  "created_at",
	"updatedAt":   "updated_at",
	"updated_at":  "updated_at",
	"publishedAt": "published_at",
	"published_at": "published_at",
	"plays":     "plays",
	"likes":     "likes",
	"downloads": "downloads",
	"shares":    "shares",
	"title":     "title",
	"artist":    "artist",
	"duration":  "audio_duration",
}

// BuildTrackListQuery renders the filter into the clause that follows
// "SELECT <TrackColumns> FROM tracks" plus its bind arguments.
//
// Tags combine with AND semantics: every listed tag must be present on the
// track. Sorting defaults to created_at descending; a leading '-' on the
// sort field forces descending regardless of SortOrder.
func BuildTrackListQuery(f TrackFilter) (string, []interface{}, error) {
	var conds []string
	var args []interface{}

	if f.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Genre != "" {
		conds = append(conds, "LOWER(genre) = LOWER(?)")
		args = append(args, f.Genre)
	}
	if f.Mood != "" {
		conds = append(conds, "LOWER(mood) = LOWER(?)")
		args = append(args, f.Mood)
	}
	for _, tag := range f.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		conds = append(conds, "JSON_CONTAINS(tags, JSON_QUOTE(?))")
		args = append(args, tag)
	}
	if f.Published != nil {
		conds = append(conds, "published = ?")
		args = append(args, *f.Published)
	}

	var sb strings.Builder
	if len(conds) > 0 {
		sb.WriteString("WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
		sb.WriteString(" ")
	}

	orderClause, err := buildOrderClause(f.SortBy, f.SortOrder)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(orderClause)

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	sb.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	return sb.String(), args, nil
}

func buildOrderClause(sortBy, sortOrder string) (string, error) {
	desc := true
	if strings.EqualFold(sortOrder, "asc") {
		desc = false
	}
	if strings.HasPrefix(sortBy, "-") {
		sortBy = strings.TrimPrefix(sortBy, "-")
		desc = true
	}
	if sortBy == "" {
		sortBy = "created_at"
	}

	column, ok := sortColumns[sortBy]
	if !ok {
		return "", model.NewValidationError("sortBy", fmt.Sprintf("unsupported sort field %q", sortBy))
	}

	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction), nil
}

// BuildTrackSearchQuery renders a case-insensitive substring search over
// title, artist, genre, mood and tags. Only published tracks are returned.
func BuildTrackSearchQuery(query string, limit int) (string, []interface{}) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + strings.ToLower(query) + "%"

	clause := "WHERE published = TRUE AND (" +
		"LOWER(title) LIKE ? OR LOWER(artist) LIKE ? OR LOWER(genre) LIKE ? OR " +
		"LOWER(mood) LIKE ? OR LOWER(tags) LIKE ?) " +
		"ORDER BY created_at DESC LIMIT ?"
	args := []interface{}{pattern, pattern, pattern, pattern, pattern, limit}
	return clause, args
}

// BuildUserSearchQuery renders a case-insensitive substring search over
// username, display name and bio.
func BuildUserSearchQuery(query string, limit int) (string, []interface{}) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + strings.ToLower(query) + "%"

	clause := "WHERE LOWER(username) LIKE ? OR LOWER(display_name) LIKE ? OR LOWER(bio) LIKE ? " +
		"ORDER BY created_at DESC LIMIT ?"
	args := []interface{}{pattern, pattern, pattern, limit}
	return clause, args
}
