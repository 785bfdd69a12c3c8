package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"crewdeck/internal/errs"
	"crewdeck/internal/logger"
)

// TokenSource produces bearer tokens for outbound requests.
type TokenSource interface {
	IsAuthenticated() bool
	Token(ctx context.Context) (string, error)
}

// RequestOption customizes a single request. Caller headers merge over the
// client defaults, but the Authorization header is always the client's own.
type RequestOption func(*requestOptions)

type requestOptions struct {
	headers http.Header
}

func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		o.headers.Set(key, value)
	}
}

// Client is the authenticated HTTP client every resource service talks
// through. It never issues a request without a bearer token.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logger.Logger
}

func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client, log *logger.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     log,
	}
}

func (c *Client) IsAuthenticated() bool {
	return c.tokens.IsAuthenticated()
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts []RequestOption) (*http.Response, error) {
	if !c.tokens.IsAuthenticated() {
		return nil, errs.ErrUnauthenticated
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	var reqBody *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", method, path, err)
		}
		reqBody = bytes.NewBuffer(payload)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	options := requestOptions{headers: http.Header{}}
	for _, opt := range opts {
		opt(&options)
	}
	for key, values := range options.headers {
		if http.CanonicalHeaderKey(key) == "Authorization" {
			continue
		}
		req.Header[http.CanonicalHeaderKey(key)] = values
	}

	// Authorization goes on last so no option can shadow it.
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if c.log != nil {
			c.log.Error("API", fmt.Sprintf("%s %s failed: %v", method, path, err))
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if c.log != nil {
		c.log.LogAPI(method, path, resp.Status, time.Since(start).Round(time.Millisecond).String())
	}
	return resp, nil
}
