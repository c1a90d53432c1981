// Package oauth implements the external identity provider collaborators.
// Providers are consumed as two plain HTTP operations: exchange the
// authorization code, then fetch the identity behind it.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chirpnet/social-api/internal/core/ports"
)

const (
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserinfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"

	requestTimeout = 10 * time.Second
)

// GoogleConfig carries the OAuth client registration values.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// GoogleProvider exchanges authorization codes against Google's OAuth
// endpoints.
type GoogleProvider struct {
	cfg    GoogleConfig
	client *http.Client
}

func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// ExchangeCode trades an authorization code for the provider's token pair.
func (p *GoogleProvider) ExchangeCode(ctx context.Context, code string) (*ports.OAuthTokens, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {p.cfg.ClientID},
		"client_secret": {p.cfg.ClientSecret},
		"redirect_uri":  {p.cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google token endpoint: status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		IDToken     string `json:"id_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("google token endpoint: decode: %w", err)
	}

	return &ports.OAuthTokens{AccessToken: body.AccessToken, IDToken: body.IDToken}, nil
}

// FetchIdentity resolves the federated identity behind the token pair.
func (p *GoogleProvider) FetchIdentity(ctx context.Context, tokens *ports.OAuthTokens) (*ports.OAuthIdentity, error) {
	u := fmt.Sprintf("%s?access_token=%s&alt=json", googleUserinfoURL, url.QueryEscape(tokens.AccessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tokens.IDToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo endpoint: status %d", resp.StatusCode)
	}

	var body struct {
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("google userinfo endpoint: decode: %w", err)
	}

	return &ports.OAuthIdentity{
		Email:         body.Email,
		EmailVerified: body.VerifiedEmail,
		Name:          body.Name,
	}, nil
}
