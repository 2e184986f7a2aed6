package ssosvc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	"github.com/darasahub/darasa/core"
	"github.com/darasahub/darasa/core/user"
)

const (
	defaultAuthURL     = "https://accounts.google.com/o/oauth2/auth"
	defaultTokenURL    = "https://oauth2.googleapis.com/token"
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
)

// GoogleProvider exchanges OAuth2 authorization codes for Google profiles.
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	userInfoURL  string
}

func NewGoogleProvider(conf *core.Config) *GoogleProvider {
	authURL := conf.Google.AuthURL
	if authURL == "" {
		authURL = defaultAuthURL
	}
	tokenURL := conf.Google.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	userInfoURL := conf.Google.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     conf.Google.ClientID,
			ClientSecret: conf.Google.ClientSecret,
			RedirectURL:  conf.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
			},
		},
		userInfoURL: userInfoURL,
	}
}

// LoginURL returns the Google consent page URL for the given CSRF state.
func (p *GoogleProvider) LoginURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// Exchange swaps an authorization code for a token and fetches the user's profile.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (user.FederatedProfile, error) {
	var profile user.FederatedProfile

	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return profile, errors.Wrap(err, "exchanging authorization code")
	}

	info, err := p.fetchUserInfo(ctx, token)
	if err != nil {
		return profile, err
	}
	if info.Sub == "" {
		return profile, errors.New("user info response missing subject")
	}

	profile = user.FederatedProfile{
		ExternalID: info.Sub,
		Name:       info.Name,
		Email:      info.Email,
		Avatar:     info.Picture,
	}
	return profile, nil
}

func (p *GoogleProvider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	var info googleUserInfo

	client := p.oauth2Config.Client(ctx, token)
	resp, err := client.Get(p.userInfoURL)
	if err != nil {
		return info, errors.Wrap(err, "fetching user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return info, errors.Errorf("user info request failed with status %d: %s", resp.StatusCode, body)
	}

	if err = json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return info, errors.Wrap(err, "decoding user info")
	}
	return info, nil
}
