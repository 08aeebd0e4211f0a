package config

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleOAuthConfig builds the oauth2 config for Google sign-in.
// Returns nil when GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET is unset, which disables the routes.
func (c *Config) GoogleOAuthConfig() *oauth2.Config {
	if c.OAuth.ClientID == "" || c.OAuth.ClientSecret == "" {
		return nil
	}

	return &oauth2.Config{
		ClientID:     c.OAuth.ClientID,
		ClientSecret: c.OAuth.ClientSecret,
		RedirectURL:  c.OAuth.RedirectURL,
		Scopes:       []string{"openid", "profile", "email"},
		Endpoint:     google.Endpoint,
	}
}
