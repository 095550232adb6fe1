package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	defaultUserInfoURL  = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleUser is the identity asserted by a verified Google credential.
type GoogleUser struct {
	Sub     string `json:"sub"` // Google's stable account id
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleProvider handles both ways the app signs users in with Google:
//
//   - VerifyIDToken: the SPA obtains an ID token client-side and POSTs it to
//     /api/auth/google. We verify it against Google's tokeninfo endpoint and
//     check the audience is our client id.
//   - AuthURL/Exchange: the classic server-side authorization-code flow for
//     clients without the Google SDK loaded.
type GoogleProvider struct {
	config   *oauth2.Config
	clientID string
	client   *http.Client

	// overridable in tests to point at an httptest server
	tokenInfoURL string
	userInfoURL  string
}

// NewGoogleProvider creates a GoogleProvider for the given OAuth client.
// callbackURL must match an authorized redirect URI of the Google OAuth
// client exactly.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientID:     clientID,
		client:       &http.Client{Timeout: 10 * time.Second},
		tokenInfoURL: defaultTokenInfoURL,
		userInfoURL:  defaultUserInfoURL,
	}
}

// NewGoogleProviderForTest returns a provider whose verification endpoints
// point at the given URLs instead of Google's. Test use only.
func NewGoogleProviderForTest(clientID, tokenInfoURL, userInfoURL string) *GoogleProvider {
	p := NewGoogleProvider(clientID, "test-secret", "http://localhost/callback")
	p.tokenInfoURL = tokenInfoURL
	p.userInfoURL = userInfoURL
	return p
}

// AuthURL returns the Google consent page URL for the code flow. The state
// value is verified on callback against a cookie to prevent CSRF.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange completes the authorization-code flow: it trades the code for an
// access token, then fetches the user's profile from the userinfo endpoint.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	oauthToken, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	// oauth2.Config.Client attaches the bearer token to every request.
	client := p.config.Client(ctx, oauthToken)

	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google userinfo returned status %d", resp.StatusCode)
	}

	var gUser GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&gUser); err != nil {
		return nil, fmt.Errorf("auth: decoding Google userinfo: %w", err)
	}

	if gUser.Sub == "" || gUser.Email == "" {
		return nil, fmt.Errorf("auth: Google returned an incomplete profile")
	}

	return &gUser, nil
}

// tokenInfo is the tokeninfo endpoint's response. Numeric fields arrive as
// strings.
type tokenInfo struct {
	Aud     string `json:"aud"`
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Exp     string `json:"exp"`
}

// VerifyIDToken verifies a Google ID token and returns the identity it
// asserts.
//
// The tokeninfo endpoint checks the token's signature against Google's
// published keys and rejects expired tokens with a non-200 status. The
// audience check is ours: a signature-valid token minted for some other
// application must not log anyone in here.
func (p *GoogleProvider) VerifyIDToken(ctx context.Context, idToken string) (*GoogleUser, error) {
	if idToken == "" {
		return nil, fmt.Errorf("auth: empty ID token")
	}

	endpoint := p.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building tokeninfo request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth: calling Google tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth: Google rejected the ID token (status %d)", resp.StatusCode)
	}

	var info tokenInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("auth: decoding tokeninfo response: %w", err)
	}

	if info.Aud != p.clientID {
		return nil, fmt.Errorf("auth: ID token audience mismatch")
	}

	if exp, err := strconv.ParseInt(info.Exp, 10, 64); err != nil || time.Now().Unix() >= exp {
		return nil, fmt.Errorf("auth: ID token expired")
	}

	if info.Sub == "" || info.Email == "" {
		return nil, fmt.Errorf("auth: ID token missing identity claims")
	}

	return &GoogleUser{
		Sub:     info.Sub,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
