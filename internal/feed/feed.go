// Package feed holds the pure filtering and pagination steps of the geofenced feed.
// Callers pass candidates already ordered by creation time, newest first.
package feed

import (
	"strings"
	"time"

	"github.com/localfeat/backend/internal/geo"
	"github.com/localfeat/backend/internal/models"
)

// Query describes one feed read
type Query struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Hashtag   string
	Search    string
	Limit     int
	Offset    int
}

// Visible reports whether a post is inside the radius and not yet expired
func Visible(p *models.Post, lat, lng, radiusKm float64, now time.Time) bool {
	if !now.Before(p.ExpiresAt) {
		return false
	}
	return geo.DistanceKm(lat, lng, p.Latitude, p.Longitude) <= radiusKm
}

// MatchesHashtag compares hashtags case-insensitively; an empty tag matches everything
func MatchesHashtag(p *models.Post, tag string) bool {
	if tag == "" {
		return true
	}
	for _, h := range p.Hashtags {
		if strings.EqualFold(h, tag) {
			return true
		}
	}
	return false
}

// MatchesSearch looks for term as a case-insensitive substring of the content or any hashtag
func MatchesSearch(p *models.Post, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Content), needle) {
		return true
	}
	for _, h := range p.Hashtags {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

// Filter keeps order and applies distance, expiry, hashtag and search in that order
func Filter(posts []models.Post, q Query, now time.Time) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		if !Visible(p, q.Latitude, q.Longitude, q.RadiusKm, now) {
			continue
		}
		if !MatchesHashtag(p, q.Hashtag) || !MatchesSearch(p, q.Search) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

// Paginate returns posts[offset:offset+limit], clamped; out of range yields an empty slice
func Paginate(posts []models.Post, limit, offset int) []models.Post {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= len(posts) {
		return []models.Post{}
	}
	end := offset + limit
	if end > len(posts) || end < offset {
		end = len(posts)
	}
	return posts[offset:end]
}
