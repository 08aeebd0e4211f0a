package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/localfeat/backend/internal/telemetry"
	"golang.org/x/oauth2"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	stateTTL          = 10 * time.Minute
)

var ErrInvalidState = errors.New("invalid oauth state")

// GoogleUserInfo is the OpenID userinfo payload
type GoogleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleProvider runs the authorization code flow with a signed, short-lived state
type GoogleProvider struct {
	config      *oauth2.Config
	stateSecret []byte
	httpClient  *http.Client
	userInfoURL string
}

// NewGoogleProvider returns nil when cfg is nil, which callers treat as "not configured"
func NewGoogleProvider(cfg *oauth2.Config, stateSecret string) *GoogleProvider {
	if cfg == nil {
		return nil
	}
	return &GoogleProvider{
		config:      cfg,
		stateSecret: []byte(stateSecret),
		httpClient: telemetry.NewInstrumentedHTTPClient(telemetry.HTTPClientConfig{
			ServiceName: "google-oauth",
			Timeout:     10 * time.Second,
		}),
		userInfoURL: googleUserInfoURL,
	}
}

type stateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// AuthCodeURL builds the redirect URL with a freshly signed state
func (p *GoogleProvider) AuthCodeURL() (string, error) {
	state, err := p.signState(time.Now())
	if err != nil {
		return "", err
	}
	return p.config.AuthCodeURL(state), nil
}

func (p *GoogleProvider) signState(now time.Time) (string, error) {
	claims := stateClaims{
		Nonce: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
			Issuer:    "localfeat",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.stateSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign state: %w", err)
	}
	return signed, nil
}

// VerifyState checks the signature and expiry of a state returned by Google
func (p *GoogleProvider) VerifyState(state string) error {
	token, err := jwt.ParseWithClaims(state, &stateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.stateSecret, nil
	}, jwt.WithIssuer("localfeat"))
	if err != nil || !token.Valid {
		return ErrInvalidState
	}
	return nil
}

// Exchange trades the code for a token and fetches the user's profile
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUserInfo, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	client := p.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var info GoogleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	return &info, nil
}
