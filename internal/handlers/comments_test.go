package handlers

import (
	"net/http"

	"github.com/localfeat/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *HandlersTestSuite) commentBody(postID, content string) map[string]string {
	return map[string]string{
		"postId":         postID,
		"content":        content,
		"authorName":     "Bob Verma",
		"authorInitials": "BV",
	}
}

func (suite *HandlersTestSuite) TestCreateComment() {
	t := suite.T()
	post := suite.createPostAt(suite.alice, viewerLat, viewerLng, "Need a plumber recommendation")

	w := suite.request(http.MethodPost, "/api/comments", suite.commentBody(post.ID, "Try Raju, very reliable"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/api/comments", suite.commentBody(post.ID, "Try Raju, very reliable"), asUser(suite.bob))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var comment models.Comment
	suite.decode(w, &comment)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, suite.bob.ID, comment.AuthorID)

	w = suite.request(http.MethodPost, "/api/comments", suite.commentBody("missing", "hello"), asUser(suite.bob))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Post not found", suite.errorBody(w).Message)

	w = suite.request(http.MethodPost, "/api/comments", suite.commentBody(post.ID, "total fraud"), asUser(suite.bob))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = suite.request(http.MethodPost, "/api/comments", map[string]string{"content": "no post"}, asUser(suite.bob))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "postId", suite.errorBody(w).Field)
}

func (suite *HandlersTestSuite) TestGetComments_OldestFirst() {
	t := suite.T()
	post := suite.createPostAt(suite.alice, viewerLat, viewerLng, "Power cut in sector 4?")

	for _, content := range []string{"Yes here too", "Back now", "Still out on our lane"} {
		w := suite.request(http.MethodPost, "/api/comments", suite.commentBody(post.ID, content), asUser(suite.bob))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := suite.request(http.MethodGet, "/api/posts/"+post.ID+"/comments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var comments []models.Comment
	suite.decode(w, &comments)
	require.Len(t, comments, 3)
	assert.Equal(t, "Yes here too", comments[0].Content)
	assert.Equal(t, "Still out on our lane", comments[2].Content)
}

func (suite *HandlersTestSuite) TestCommentLikesAndReactions() {
	t := suite.T()
	post := suite.createPostAt(suite.alice, viewerLat, viewerLng, "Yoga in the park at 7am")
	w := suite.request(http.MethodPost, "/api/comments", suite.commentBody(post.ID, "Count me in"), asUser(suite.bob))
	require.Equal(t, http.StatusCreated, w.Code)
	var comment models.Comment
	suite.decode(w, &comment)

	w = suite.request(http.MethodPost, "/api/comments/"+comment.ID+"/like", nil)
	require.Equal(t, http.StatusOK, w.Code)
	suite.decode(w, &comment)
	assert.Equal(t, 1, comment.Likes)

	w = suite.request(http.MethodPost, "/api/comments/missing/like", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Comment not found", suite.errorBody(w).Message)

	path := "/api/comments/" + comment.ID + "/reactions"
	suite.request(http.MethodPost, path, map[string]string{"emoji": "❤️"}, asUser(suite.alice))
	w = suite.request(http.MethodPost, path, map[string]string{"emoji": "❤️"}, asUser(suite.alice))
	require.Equal(t, http.StatusOK, w.Code)
	suite.decode(w, &comment)
	assert.Equal(t, models.Reactions{"❤️": 2}, comment.Reactions)

	w = suite.request(http.MethodDelete, path, map[string]string{"emoji": "❤️"}, asUser(suite.alice))
	require.Equal(t, http.StatusOK, w.Code)
	suite.decode(w, &comment)
	assert.Equal(t, models.Reactions{"❤️": 1}, comment.Reactions)

	w = suite.request(http.MethodPost, path, map[string]string{}, asUser(suite.alice))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Valid emoji is required", suite.errorBody(w).Message)
}
