package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/localfeat/backend/internal/feed"
	"github.com/localfeat/backend/internal/middleware"
	"github.com/localfeat/backend/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asAdmin() requestOption {
	return withHeader(middleware.AdminSecretHeader, testAdminSecret)
}

func (suite *HandlersTestSuite) TestAdminRoutes_RequireSecret() {
	t := suite.T()

	w := suite.request(http.MethodGet, "/api/admin/bot-status", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodGet, "/api/admin/bot-status", nil, withHeader(middleware.AdminSecretHeader, "guess"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", suite.errorBody(w).Message)
}

func (suite *HandlersTestSuite) TestCreateBots_StreamsProgress() {
	t := suite.T()

	w := suite.request(http.MethodGet, "/api/admin/bot-status", nil, asAdmin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"botUsers":0,"botPosts":0,"ready":false}`, w.Body.String())

	w = suite.request(http.MethodPost, "/api/admin/create-bots", map[string]int{"count": 5, "batchSize": 2}, asAdmin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	out := w.Body.String()
	assert.Contains(t, out, "Starting bot creation: 5 bots in 3 batches")
	assert.Contains(t, out, "Batch 3/3: Creating 1 bots...")
	assert.Contains(t, out, "SUCCESS! Created:")

	w = suite.request(http.MethodGet, "/api/admin/bot-status", nil, asAdmin())
	require.Equal(t, http.StatusOK, w.Code)
	var status seed.Status
	suite.decode(w, &status)
	assert.Equal(t, int64(5), status.BotUsers)
	assert.GreaterOrEqual(t, status.BotPosts, int64(5))
	assert.True(t, status.Ready)
}

func (suite *HandlersTestSuite) TestBotPost_AtRequestedLocation() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/admin/bot-post", map[string]float64{"latitude": 19.0760, "longitude": 72.8777}, asAdmin())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Bot post created successfully"}`, w.Body.String())

	lat, lng := suite.bot.Location()
	assert.Equal(t, 19.0760, lat)
	assert.Equal(t, 72.8777, lng)

	posts, err := suite.repos.Posts.ListNearby(context.Background(), feed.Query{
		Latitude: 19.0760, Longitude: 72.8777, RadiusKm: 5, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, strings.HasPrefix(posts[0].AuthorID, "bot_"))

	w = suite.request(http.MethodPost, "/api/admin/bot-post", map[string]float64{"latitude": 120, "longitude": 0}, asAdmin())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestSeedActivity_RunsInBackground() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/admin/seed-activity", nil, asAdmin())
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Activity seeding started"}`, w.Body.String())

	assert.Eventually(t, func() bool {
		count, err := suite.repos.Posts.CountByAuthorPrefix(context.Background(), "bot_")
		return err == nil && count >= 2 && !suite.bot.Running()
	}, 5*time.Second, 20*time.Millisecond)
}
