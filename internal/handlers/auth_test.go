package handlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/localfeat/backend/internal/middleware"
	"github.com/localfeat/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.DefaultSessionCookie {
			return c
		}
	}
	return nil
}

func registerBody(username string) map[string]string {
	return map[string]string{
		"username": username,
		"email":    username + "@localfeat.test",
		"phone":    "9876543210",
		"password": "hunter22",
	}
}

func (suite *HandlersTestSuite) TestRegisterLoginLogout() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/auth/register", registerBody("carol"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var registered models.PublicUser
	suite.decode(w, &registered)
	assert.Equal(t, "carol", registered.Username)
	assert.NotContains(t, w.Body.String(), "password")
	cookie := sessionCookie(w)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	w = suite.request(http.MethodGet, "/api/auth/user", nil, withCookie(cookie))
	require.Equal(t, http.StatusOK, w.Code)
	var current models.PublicUser
	suite.decode(w, &current)
	assert.Equal(t, registered.ID, current.ID)

	w = suite.request(http.MethodPost, "/api/auth/logout", nil, withCookie(cookie))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logged out successfully"}`, w.Body.String())

	w = suite.request(http.MethodGet, "/api/auth/user", nil, withCookie(cookie))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = suite.request(http.MethodPost, "/api/auth/login", map[string]string{"identifier": "carol@localfeat.test", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, sessionCookie(w))

	w = suite.request(http.MethodPost, "/api/auth/login", map[string]string{"identifier": "carol", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email/username or password", suite.errorBody(w).Message)
}

func (suite *HandlersTestSuite) TestRegister_Validation() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/auth/register", registerBody("dave"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, "/api/auth/register", registerBody("dave"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User with this email or username already exists", suite.errorBody(w).Message)

	body := registerBody("ed")
	w = suite.request(http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username", suite.errorBody(w).Field)

	body = registerBody("frank")
	body["email"] = "not-an-email"
	w = suite.request(http.MethodPost, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", suite.errorBody(w).Field)
}

func (suite *HandlersTestSuite) TestGetUser_PublicFields() {
	t := suite.T()

	w := suite.request(http.MethodGet, "/api/users/"+suite.alice.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "alice@example.com")
	var summary models.UserSummary
	suite.decode(w, &summary)
	assert.Equal(t, "alice", summary.Username)

	w = suite.request(http.MethodGet, "/api/users/nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", suite.errorBody(w).Message)
}

func (suite *HandlersTestSuite) TestPasswordResetFlow() {
	t := suite.T()

	w := suite.request(http.MethodPost, "/api/auth/register", registerBody("gita"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "nobody@localfeat.test"})
	require.Equal(t, http.StatusOK, w.Code)
	unknownBody := w.Body.String()
	assert.Empty(t, suite.mailer.token)

	w = suite.request(http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": "gita@localfeat.test"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, unknownBody, w.Body.String(), "known and unknown emails get the same answer")
	require.Len(t, suite.mailer.token, 1)
	token := suite.mailer.token[0]

	w = suite.request(http.MethodGet, "/api/auth/validate-reset-token/"+token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"valid":true}`, w.Body.String())

	w = suite.request(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token": token, "password": "newpass1", "confirmPassword": "newpass2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "confirmPassword", suite.errorBody(w).Field)

	w = suite.request(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token": token, "password": "newpass1", "confirmPassword": "newpass1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Password has been reset successfully"}`, w.Body.String())

	w = suite.request(http.MethodPost, "/api/auth/reset-password", map[string]string{
		"token": token, "password": "again1", "confirmPassword": "again1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid or expired reset token", suite.errorBody(w).Message)

	w = suite.request(http.MethodGet, "/api/auth/validate-reset-token/"+token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)

	w = suite.request(http.MethodPost, "/api/auth/login", map[string]string{"identifier": "gita", "password": "newpass1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func (suite *HandlersTestSuite) TestGoogleAuth_NotConfigured() {
	t := suite.T()

	for _, path := range []string{"/api/auth/google", "/api/auth/google/callback?code=x&state=y"} {
		w := suite.request(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}
