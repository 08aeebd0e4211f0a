package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testProvider(endpoint string) *GoogleProvider {
	return NewGoogleProvider(&oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8787/api/auth/google/callback",
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  endpoint + "/auth",
			TokenURL: endpoint + "/token",
		},
	}, "state-secret")
}

func TestNewGoogleProvider_NilConfig(t *testing.T) {
	assert.Nil(t, NewGoogleProvider(nil, "x"))
}

func TestGoogleProvider_StateRoundTrip(t *testing.T) {
	p := testProvider("https://accounts.example.com")

	authURL, err := p.AuthCodeURL()
	require.NoError(t, err)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)

	assert.NoError(t, p.VerifyState(state))
	assert.ErrorIs(t, p.VerifyState(state+"x"), ErrInvalidState)
	assert.ErrorIs(t, p.VerifyState("not-a-jwt"), ErrInvalidState)

	other := testProvider("https://accounts.example.com")
	other.stateSecret = []byte("different")
	assert.ErrorIs(t, other.VerifyState(state), ErrInvalidState)
}

func TestGoogleProvider_ExpiredState(t *testing.T) {
	p := testProvider("https://accounts.example.com")
	state, err := p.signState(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.ErrorIs(t, p.VerifyState(state), ErrInvalidState)
}

func TestGoogleProvider_Exchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(GoogleUserInfo{Sub: "g-1", Email: "lee@example.com", GivenName: "Lee"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := testProvider(srv.URL)
	p.userInfoURL = srv.URL + "/userinfo"

	info, err := p.Exchange(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.Sub)
	assert.Equal(t, "lee@example.com", info.Email)
}
