package handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/localfeat/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) TestConversations() {
	t := suite.T()
	carol := suite.createUser("carol")

	w := suite.request(http.MethodPost, "/api/conversations", map[string]string{"participantId": suite.bob.ID}, asUser(suite.alice))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var conv models.Conversation
	suite.decode(w, &conv)

	w = suite.request(http.MethodPost, "/api/conversations", map[string]string{"participantId": suite.alice.ID}, asUser(suite.bob))
	require.Equal(t, http.StatusOK, w.Code)
	var again models.Conversation
	suite.decode(w, &again)
	assert.Equal(t, conv.ID, again.ID, "either participant order finds the same conversation")

	w = suite.request(http.MethodPost, "/api/conversations", map[string]string{}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Participant ID is required", suite.errorBody(w).Message)

	w = suite.request(http.MethodPost, "/api/messages", map[string]string{"conversationId": conv.ID, "content": "Is the bike still for sale?"}, asUser(suite.bob))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = suite.request(http.MethodPost, "/api/messages", map[string]string{"conversationId": conv.ID, "content": "Yes, come by after 6"}, asUser(suite.alice))
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, "/api/messages", map[string]string{"conversationId": conv.ID, "content": "hi"}, asUser(carol))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request(http.MethodPost, "/api/messages", map[string]string{"conversationId": conv.ID, "content": "send me your drugs"}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/messages", map[string]string{"conversationId": "missing", "content": "hi"}, asUser(suite.alice))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/conversations/"+conv.ID+"/messages", nil, asUser(suite.alice))
	require.Equal(t, http.StatusOK, w.Code)
	var messages []models.Message
	suite.decode(w, &messages)
	require.Len(t, messages, 2)
	assert.Equal(t, "Is the bike still for sale?", messages[0].Content)
	assert.Equal(t, suite.bob.ID, messages[0].SenderID)

	w = suite.request(http.MethodGet, "/api/conversations/"+conv.ID+"/messages", nil, asUser(carol))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = suite.request(http.MethodGet, "/api/conversations", nil, asUser(suite.bob))
	require.Equal(t, http.StatusOK, w.Code)
	var convs []models.Conversation
	suite.decode(w, &convs)
	assert.Len(t, convs, 1)

	w = suite.request(http.MethodGet, "/api/conversations", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestSubmitFeedback() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/feedback", map[string]string{"type": "bug", "content": "Map does not load on refresh"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Feedback submitted successfully")

	w = suite.request(http.MethodPost, "/api/feedback", map[string]string{"type": "feature", "content": "Dark mode please"}, asUser(suite.alice))
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ID string `json:"id"`
	}
	suite.decode(w, &resp)

	var stored models.Feedback
	require.NoError(t, suite.db.First(&stored, "id = ?", resp.ID).Error)
	require.NotNil(t, stored.UserInfo)
	assert.Equal(t, "alice (alice@example.com)", *stored.UserInfo)
	assert.Equal(t, models.FeedbackStatusOpen, stored.Status)

	w = suite.request(http.MethodPost, "/api/feedback", map[string]string{"type": "praise", "content": "nice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "type", suite.errorBody(w).Field)
}

func (suite *HandlersTestSuite) TestDailyQuestionResponses() {
	t := suite.T()

	body := map[string]string{"question": "  Favorite chai spot?  ", "response": " The stall by the metro "}
	w := suite.request(http.MethodPost, "/api/daily-question/responses", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/api/daily-question/responses", body, asUser(suite.alice))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp models.DailyQuestionResponse
	suite.decode(w, &resp)
	assert.Equal(t, "Favorite chai spot?", resp.Question)
	assert.Equal(t, "The stall by the metro", resp.Response)
	assert.Equal(t, "alice", resp.AuthorName)
	require.NotNil(t, resp.Location)
	assert.Equal(t, "Unknown", *resp.Location)

	w = suite.request(http.MethodPost, "/api/daily-question/responses", map[string]string{"question": "Q", "response": "   "}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Question and response are required", suite.errorBody(w).Message)

	w = suite.request(http.MethodGet, "/api/daily-question/responses", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var today []models.DailyQuestionResponse
	suite.decode(w, &today)
	require.Len(t, today, 1)
	assert.Equal(t, resp.ID, today[0].ID)
}

func (suite *HandlersTestSuite) TestProfiles() {
	t := suite.T()

	w := suite.request(http.MethodGet, "/api/profile/"+suite.alice.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Profile not found", suite.errorBody(w).Message)

	w = suite.request(http.MethodPost, "/api/profile", map[string]string{"displayName": "Alice S", "bio": "Dog person"}, asUser(suite.alice))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = suite.request(http.MethodPost, "/api/profile", map[string]string{"displayName": "Alice S"}, asUser(suite.alice))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = suite.request(http.MethodPost, "/api/profile", map[string]string{"bio": strings.Repeat("x", 101)}, asUser(suite.bob))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bio", suite.errorBody(w).Field)

	w = suite.request(http.MethodPut, "/api/profile/"+suite.alice.ID, map[string]string{"bio": "Cat person"}, asUser(suite.bob))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", suite.errorBody(w).Message)

	w = suite.request(http.MethodPut, "/api/profile/"+suite.alice.ID, map[string]string{"bio": "Cat person"}, asUser(suite.alice))
	require.Equal(t, http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, "/api/profile/"+suite.alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile models.UserProfile
	suite.decode(w, &profile)
	require.NotNil(t, profile.DisplayName)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "Alice S", *profile.DisplayName)
	assert.Equal(t, "Cat person", *profile.Bio)
}

func (suite *HandlersTestSuite) TestProfileImageInline() {
	t := suite.T()
	pixel := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}
	data := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pixel)

	w := suite.request(http.MethodPost, "/api/upload/profile-image", map[string]string{"imageData": data}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image data and type are required", suite.errorBody(w).Message)

	w = suite.request(http.MethodPost, "/api/upload/profile-image", map[string]string{"imageData": data, "imageType": "text/plain"}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid image type", suite.errorBody(w).Message)

	huge := strings.Repeat("A", 8*1024*1024)
	w = suite.request(http.MethodPost, "/api/upload/profile-image", map[string]string{"imageData": huge, "imageType": "image/png"}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Image too large. Maximum size is 5MB", suite.errorBody(w).Message)

	w = suite.request(http.MethodPost, "/api/upload/profile-image", map[string]string{"imageData": data, "imageType": "image/png"}, asUser(suite.alice))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		ImageURL string `json:"imageUrl"`
	}
	suite.decode(w, &resp)
	assert.True(t, strings.HasPrefix(resp.ImageURL, "/api/profile/image/profile-"+suite.alice.ID+"-"), resp.ImageURL)

	w = suite.request(http.MethodGet, resp.ImageURL, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, pixel, w.Body.Bytes())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))

	w = suite.request(http.MethodGet, "/api/profile/image/not-an-id", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = suite.request(http.MethodGet, "/api/profile/image/profile-"+suite.bob.ID+"-1700000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestBlog() {
	t := suite.T()
	post := map[string]interface{}{
		"adminKey": testAdminKey,
		"title":    "Five quiet parks in South Delhi",
		"slug":     "quiet-parks-south-delhi",
		"content":  "Lodhi Garden tops the list.",
		"tags":     []string{"parks", "delhi"},
		"featured": true,
	}

	wrongKey := map[string]interface{}{"adminKey": "nope", "title": "x", "slug": "x", "content": "x"}
	w := suite.request(http.MethodPost, "/api/blog/posts", wrongKey)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Unauthorized", suite.errorBody(w).Message)

	w = suite.request(http.MethodPost, "/api/blog/posts", post)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.BlogPost
	suite.decode(w, &created)
	assert.True(t, created.Published)

	draft := map[string]interface{}{
		"adminKey": testAdminKey, "title": "Draft", "slug": "draft", "content": "wip", "published": false,
	}
	w = suite.request(http.MethodPost, "/api/blog/posts", draft)
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request(http.MethodGet, "/api/blog/posts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []models.BlogPost
	suite.decode(w, &list)
	require.Len(t, list, 1, "drafts are hidden")

	w = suite.request(http.MethodGet, "/api/blog/posts?tag=parks", nil)
	suite.decode(w, &list)
	assert.Len(t, list, 1)
	w = suite.request(http.MethodGet, "/api/blog/posts?tag=food", nil)
	suite.decode(w, &list)
	assert.Empty(t, list)

	w = suite.request(http.MethodGet, "/api/blog/posts/featured", nil)
	suite.decode(w, &list)
	assert.Len(t, list, 1)

	for i := 1; i <= 2; i++ {
		w = suite.request(http.MethodGet, "/api/blog/posts/quiet-parks-south-delhi", nil)
		require.Equal(t, http.StatusOK, w.Code)
	}
	var viewed models.BlogPost
	require.NoError(t, suite.db.WithContext(context.Background()).First(&viewed, "slug = ?", "quiet-parks-south-delhi").Error)
	assert.Equal(t, 2, viewed.ViewCount)

	w = suite.request(http.MethodGet, "/api/blog/posts/draft", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blog post not found", suite.errorBody(w).Message)
}
