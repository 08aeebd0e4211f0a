package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	viewerLat = 28.6139
	viewerLng = 77.2090
)

func feedPath(query string) string {
	return fmt.Sprintf("/api/posts?latitude=%v&longitude=%v%s", viewerLat, viewerLng, query)
}

func (suite *HandlersTestSuite) getFeed(query string) []models.Post {
	w := suite.request(http.MethodGet, feedPath(query), nil)
	require.Equal(suite.T(), http.StatusOK, w.Code, w.Body.String())
	var posts []models.Post
	suite.decode(w, &posts)
	return posts
}

func postIDs(posts []models.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func (suite *HandlersTestSuite) TestGetPosts_RequiresCoordinates() {
	t := suite.T()

	for _, path := range []string{"/api/posts", "/api/posts?latitude=28.6", "/api/posts?longitude=77.2"} {
		w := suite.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "Latitude and longitude are required", suite.errorBody(w).Message, path)
	}

	w := suite.request(http.MethodGet, "/api/posts?latitude=north&longitude=77.2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid latitude or longitude", suite.errorBody(w).Message)
}

func (suite *HandlersTestSuite) TestGetPosts_Geofence() {
	t := suite.T()
	near := suite.createPostAt(suite.alice, 28.6145, 77.2095, "Anyone up for chai near Connaught Place?")
	far := suite.createPostAt(suite.alice, 28.7000, 77.3000, "Cricket in Rohini this evening")

	ids := postIDs(suite.getFeed(""))
	assert.Contains(t, ids, near.ID)
	assert.NotContains(t, ids, far.ID)
}

func (suite *HandlersTestSuite) TestGetPosts_ExpiredPostExcludedAndSwept() {
	t := suite.T()
	now := time.Now().UTC()
	expired := &models.Post{
		Content:        "Lost keys, check the bench",
		AuthorID:       suite.alice.ID,
		AuthorName:     "alice",
		AuthorInitials: "A",
		Latitude:       28.6140,
		Longitude:      77.2091,
		CreatedAt:      now.Add(-time.Hour),
		ExpiresAt:      now.Add(-time.Second),
	}
	require.NoError(t, suite.repos.Posts.Create(context.Background(), expired))

	assert.Empty(t, suite.getFeed(""))

	_, err := suite.repos.Posts.GetByID(context.Background(), expired.ID)
	assert.Error(t, err, "the inline sweep should have removed the expired post")
}

func (suite *HandlersTestSuite) TestGetPosts_HashtagAndSearch() {
	t := suite.T()
	food := suite.createPostAt(suite.alice, 28.6141, 77.2092, "Best momos on this street", "Food", "delhi")
	lost := suite.createPostAt(suite.bob, 28.6142, 77.2093, "Found a black umbrella at the metro gate", "lostfound")

	byTag := postIDs(suite.getFeed("&hashtag=food"))
	assert.Equal(t, []string{food.ID}, byTag)

	assert.Empty(t, suite.getFeed("&hashtag=%23FOOD"), "a # in the query is part of the tag")

	byContent := postIDs(suite.getFeed("&search=UMBRELLA"))
	assert.Equal(t, []string{lost.ID}, byContent)

	byTagSubstring := postIDs(suite.getFeed("&search=lost"))
	assert.Equal(t, []string{lost.ID}, byTagSubstring)

	assert.Empty(t, suite.getFeed("&hashtag=food&search=umbrella"))
}

func (suite *HandlersTestSuite) TestGetPosts_Pagination() {
	t := suite.T()
	base := time.Now().UTC().Add(-time.Hour)
	var created []string
	for i := 0; i < 12; i++ {
		post := &models.Post{
			Content:        fmt.Sprintf("post %d", i),
			AuthorID:       suite.alice.ID,
			AuthorName:     "alice",
			AuthorInitials: "A",
			Latitude:       viewerLat,
			Longitude:      viewerLng,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, suite.repos.Posts.Create(context.Background(), post))
		created = append(created, post.ID)
	}
	// newest first
	all := make([]string, 0, len(created))
	for i := len(created) - 1; i >= 0; i-- {
		all = append(all, created[i])
	}

	assert.Equal(t, all[:10], postIDs(suite.getFeed("")), "default limit is 10")
	assert.Equal(t, all[3:8], postIDs(suite.getFeed("&limit=5&offset=3")))
	assert.Equal(t, all[10:], postIDs(suite.getFeed("&limit=5&offset=10")))
	assert.Empty(t, suite.getFeed("&limit=5&offset=40"))
	assert.Equal(t, all[:10], postIDs(suite.getFeed("&limit=abc&offset=-4")), "bad values fall back to defaults")
	assert.Len(t, suite.getFeed("&limit=100"), 12)
	assert.Equal(t, all[:10], postIDs(suite.getFeed("&limit=0")), "zero limit falls back to the default")
	assert.Equal(t, all[:10], postIDs(suite.getFeed("&limit=0&offset=0")))
}

func (suite *HandlersTestSuite) TestGetPosts_RadiusIsOneKilometer() {
	t := suite.T()
	suite.handlers.SetFeedSettings(FeedSettings{DefaultLimit: 50})

	inside := suite.createPostAt(suite.alice, viewerLat+0.0085, viewerLng, "about 950m north")
	outside := suite.createPostAt(suite.bob, viewerLat+0.011, viewerLng, "about 1.2km north")

	ids := postIDs(suite.getFeed(""))
	assert.Contains(t, ids, inside.ID)
	assert.NotContains(t, ids, outside.ID)
}

func (suite *HandlersTestSuite) TestGetPosts_HashPrefixedTag() {
	t := suite.T()
	var plain []string
	for i := 0; i < 3; i++ {
		plain = append(plain, suite.createPostAt(suite.alice, 28.6141, 77.2092, fmt.Sprintf("leg day %d", i), "gym").ID)
	}
	prefixed := suite.createPostAt(suite.bob, 28.6142, 77.2093, "New climbing wall opened", "#gym")

	assert.Equal(t, []string{prefixed.ID}, postIDs(suite.getFeed("&hashtag=%23gym")))
	assert.Equal(t, []string{prefixed.ID}, postIDs(suite.getFeed("&hashtag=%23GYM")))
	assert.ElementsMatch(t, plain, postIDs(suite.getFeed("&hashtag=gym")))
}

func (suite *HandlersTestSuite) TestCreatePost_HashtagsStoredVerbatim() {
	t := suite.T()
	w := suite.request(http.MethodPost, "/api/posts", map[string]interface{}{
		"content":        "Morning run by the lake",
		"authorName":     "Alice",
		"authorInitials": "A",
		"latitude":       viewerLat,
		"longitude":      viewerLng,
		"hashtags":       []string{"#Gym", " ", "run"},
	}, asUser(suite.alice))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.Post
	suite.decode(w, &post)
	assert.Equal(t, models.StringList{"#Gym", " ", "run"}, post.Hashtags)

	stored, err := suite.repos.Posts.GetByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"#Gym", " ", "run"}, stored.Hashtags)
}

func (suite *HandlersTestSuite) TestCreatePost() {
	t := suite.T()
	body := map[string]interface{}{
		"content":        "Street food festival this weekend #food #weekend",
		"authorName":     "Alice Sharma",
		"authorInitials": "AS",
		"latitude":       28.6139,
		"longitude":      77.2090,
		"locationName":   "Connaught Place",
		"hashtags":       []string{"#food", "weekend"},
	}

	w := suite.request(http.MethodPost, "/api/posts", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/api/posts", body, asUser(suite.alice))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var post models.Post
	suite.decode(w, &post)
	assert.NotEmpty(t, post.ID)
	assert.Equal(t, suite.alice.ID, post.AuthorID)
	assert.Equal(t, models.StringList{"#food", "weekend"}, post.Hashtags)
	assert.Equal(t, 0, post.Likes)
	assert.Empty(t, post.Reactions)
	assert.WithinDuration(t, post.CreatedAt.Add(models.DefaultPostTTL), post.ExpiresAt, time.Second)

	assert.Contains(t, postIDs(suite.getFeed("")), post.ID)
}

func (suite *HandlersTestSuite) TestCreatePost_Validation() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/posts", map[string]interface{}{
		"authorName":     "Alice",
		"authorInitials": "A",
		"latitude":       28.6,
		"longitude":      77.2,
	}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "content", suite.errorBody(w).Field)

	w = suite.request(http.MethodPost, "/api/posts", map[string]interface{}{
		"content":        "Hello",
		"authorName":     "Alice",
		"authorInitials": "A",
		"latitude":       128.6,
		"longitude":      77.2,
	}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "latitude", suite.errorBody(w).Field)

	w = suite.request(http.MethodPost, "/api/posts", map[string]interface{}{
		"content":        "This is a SCAM, avoid",
		"authorName":     "Alice",
		"authorInitials": "A",
		"latitude":       28.6,
		"longitude":      77.2,
	}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, validation.InappropriateContentMessage, suite.errorBody(w).Message)
}

func (suite *HandlersTestSuite) TestLikePost() {
	t := suite.T()
	post := suite.createPostAt(suite.alice, viewerLat, viewerLng, "Sunset from the rooftop")

	for i := 1; i <= 2; i++ {
		w := suite.request(http.MethodPost, "/api/posts/"+post.ID+"/like", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var liked models.Post
		suite.decode(w, &liked)
		assert.Equal(t, i, liked.Likes)
	}

	w := suite.request(http.MethodPost, "/api/posts/missing/like", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", suite.errorBody(w).Message)
}

func (suite *HandlersTestSuite) TestPostReactions() {
	t := suite.T()
	post := suite.createPostAt(suite.alice, viewerLat, viewerLng, "Puppy adoption drive at the park")
	path := "/api/posts/" + post.ID + "/reactions"
	thumbs := map[string]string{"emoji": "👍"}

	w := suite.request(http.MethodPost, path, thumbs)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	suite.request(http.MethodPost, path, thumbs, asUser(suite.bob))
	suite.request(http.MethodPost, path, thumbs, asUser(suite.bob))
	w = suite.request(http.MethodDelete, path, thumbs, asUser(suite.bob))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Post
	suite.decode(w, &updated)
	assert.Equal(t, models.Reactions{"👍": 1}, updated.Reactions)

	w = suite.request(http.MethodDelete, path, map[string]string{"emoji": "🔥"}, asUser(suite.bob))
	require.Equal(t, http.StatusOK, w.Code, "removing an absent emoji still returns the post")
	suite.decode(w, &updated)
	assert.Equal(t, models.Reactions{"👍": 1}, updated.Reactions)

	w = suite.request(http.MethodDelete, path, thumbs, asUser(suite.bob))
	suite.decode(w, &updated)
	assert.NotContains(t, updated.Reactions, "👍")

	w = suite.request(http.MethodPost, path, map[string]string{"emoji": " "}, asUser(suite.bob))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Valid emoji is required", suite.errorBody(w).Message)

	w = suite.request(http.MethodPost, "/api/posts/missing/reactions", thumbs, asUser(suite.bob))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestDeletePost() {
	t := suite.T()
	post := suite.createPostAt(suite.alice, viewerLat, viewerLng, "Garage sale, Saturday")
	for i := 0; i < 3; i++ {
		require.NoError(t, suite.repos.Comments.Create(context.Background(), &models.Comment{
			PostID:         post.ID,
			Content:        fmt.Sprintf("comment %d", i),
			AuthorID:       suite.bob.ID,
			AuthorName:     "bob",
			AuthorInitials: "B",
		}))
	}

	w := suite.request(http.MethodDelete, "/api/posts/"+post.ID, nil, asUser(suite.bob))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You can only delete your own posts", suite.errorBody(w).Message)

	w = suite.request(http.MethodDelete, "/api/posts/"+post.ID, nil, asUser(suite.alice))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Post deleted successfully"}`, w.Body.String())

	w = suite.request(http.MethodGet, "/api/posts/"+post.ID+"/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = suite.request(http.MethodDelete, "/api/posts/"+post.ID, nil, asUser(suite.alice))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
