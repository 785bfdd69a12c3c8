package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"crewdeck/internal/errs"
	"crewdeck/internal/logger"
	"crewdeck/internal/models"
)

// Credentials identify this client to the identity provider.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Audience     string
	Scopes       []string
}

// Cache stores bearer tokens between acquisitions.
type Cache interface {
	GetToken(ctx context.Context) (*TokenCache, error)
	SetToken(ctx context.Context, token string, expiresIn int) error
}

// Provider acquires bearer tokens from an OAuth token endpoint and hands
// them to the API client. A nil cache means every call hits the endpoint.
type Provider struct {
	domain   string
	creds    Credentials
	client   *http.Client
	cache    Cache
	log      *logger.Logger
	verifier *oidc.IDTokenVerifier
}

func NewProvider(domain string, creds Credentials, client *http.Client, cache Cache, log *logger.Logger) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{
		domain: strings.TrimSuffix(domain, "/"),
		creds:  creds,
		client: client,
		cache:  cache,
		log:    log,
	}
}

// IsAuthenticated reports whether the provider holds credentials at all.
// Token acquisition can still fail afterwards, which callers see as an
// unauthenticated error too.
func (p *Provider) IsAuthenticated() bool {
	return p.creds.ClientID != "" && p.creds.ClientSecret != ""
}

// Token returns a valid bearer token, from cache when possible. Any
// failure to produce one is an unauthenticated condition: the caller never
// reaches the backend without a token.
func (p *Provider) Token(ctx context.Context) (string, error) {
	if !p.IsAuthenticated() {
		return "", errs.ErrUnauthenticated
	}

	if p.cache != nil {
		cached, err := p.cache.GetToken(ctx)
		if err != nil && p.log != nil {
			p.log.Warn("AUTH", fmt.Sprintf("Token cache read failed: %v", err))
		}
		if cached.IsValid() {
			return cached.Token, nil
		}
	}

	tokenResp, err := p.fetchToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrUnauthenticated, err)
	}

	if p.cache != nil {
		if err := p.cache.SetToken(ctx, tokenResp.AccessToken, tokenResp.ExpiresIn); err != nil && p.log != nil {
			p.log.Warn("AUTH", fmt.Sprintf("Token cache write failed: %v", err))
		}
	}

	return tokenResp.AccessToken, nil
}

func (p *Provider) fetchToken(ctx context.Context) (*models.TokenResponse, error) {
	tokenURL := p.domain + "/oauth/token"

	data := url.Values{}
	data.Set("grant_type", "client_credentials")
	data.Set("client_id", p.creds.ClientID)
	data.Set("client_secret", p.creds.ClientSecret)
	data.Set("audience", p.creds.Audience)
	data.Set("scope", strings.Join(p.creds.Scopes, " "))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && p.log != nil {
			p.log.Warn("AUTH", fmt.Sprintf("Error closing token response body: %v", cerr))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get token, status %s: %s", resp.Status, string(bodyBytes))
	}

	var tokenResp models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}

	if p.log != nil {
		p.log.Info("AUTH", "Acquired access token from identity provider")
	}
	return &tokenResp, nil
}

// ConfigureVerifier wires OIDC discovery so ResolveIdentity can verify ID
// token signatures instead of trusting claims blindly.
func (p *Provider) ConfigureVerifier(ctx context.Context, issuer string) error {
	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return fmt.Errorf("oidc discovery for %s: %w", issuer, err)
	}
	p.verifier = oidcProvider.Verifier(&oidc.Config{ClientID: p.creds.ClientID})
	return nil
}
