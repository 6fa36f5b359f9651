package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"matrimony-backend/internal/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	EmailVerified  bool
}

type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUserInfo, error)
}

type GoogleOAuthProvider struct {
	cfg *oauth2.Config
}

func NewGoogleOAuthProvider(cfg *config.Config) *GoogleOAuthProvider {
	return &GoogleOAuthProvider{cfg: &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}}
}

func (p *GoogleOAuthProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state)
}

func (p *GoogleOAuthProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.cfg.Exchange(ctx, code)
}

func (p *GoogleOAuthProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*OAuthUserInfo, error) {
	client := p.cfg.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://openidconnect.googleapis.com/v1/userinfo", nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status: %d", resp.StatusCode)
	}
	var body struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Sub == "" {
		return nil, fmt.Errorf("missing required userinfo fields")
	}
	return &OAuthUserInfo{
		ProviderUserID: body.Sub,
		Email:          strings.ToLower(body.Email),
		Name:           body.Name,
		EmailVerified:  body.EmailVerified,
	}, nil
}

// OAuthService runs the server-side authorization-code flow and hands the
// resulting provider assertion to the federated login strategy.
type OAuthService struct {
	enabled  bool
	provider OAuthProvider
	authSvc  *AuthService
}

func NewOAuthService(cfg *config.Config, provider OAuthProvider, authSvc *AuthService) *OAuthService {
	return &OAuthService{enabled: cfg.AuthGoogleEnabled, provider: provider, authSvc: authSvc}
}

func (s *OAuthService) LoginURL(state string) (string, error) {
	if !s.enabled {
		return "", ErrGoogleAuthDisabled
	}
	return s.provider.AuthCodeURL(state), nil
}

func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*AuthResult, error) {
	if !s.enabled {
		return nil, ErrGoogleAuthDisabled
	}
	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	info, err := s.provider.FetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if !info.EmailVerified {
		info.Email = ""
	}
	return s.authSvc.LoginWithGoogle(info.ProviderUserID, info.Email, info.Name)
}
