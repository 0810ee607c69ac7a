package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
)

const (
	defaultRequestTimeout = 20 * time.Second
	maxResponseBytes      = 1 << 20

	loginPath   = "/api/login"
	serversPath = "/api/servers"
)

// Provider talks to the hosting panel's JSON API.
type Provider struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Now            func() time.Time
}

// Session is an authenticated account handle. It is safe for concurrent use.
type Session struct {
	provider *Provider
	username string
	token    string
	issuedAt time.Time
}

var (
	_ ports.HostingProvider = (*Provider)(nil)
	_ ports.HostingSession  = (*Session)(nil)
)

type sessionBlob struct {
	Username string    `json:"username"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type serverPayload struct {
	ID      string `json:"id"`
	Address string `json:"address"`
	Domain  string `json:"domain"`
	Version string `json:"version"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func (p *Provider) Authenticate(ctx context.Context, username, password string) (ports.HostingSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	resp, err := p.do(ctx, http.MethodPost, loginPath, "", body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrInvalidCredentials
	case !isSuccess(resp.StatusCode):
		return nil, providerError(resp)
	}

	var payload loginResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %w", domain.ErrMalformedResponse, err)
	}
	if payload.Token == "" {
		return nil, fmt.Errorf("%w: login response missing token", domain.ErrMalformedResponse)
	}

	return &Session{provider: p, username: username, token: payload.Token, issuedAt: p.now()}, nil
}

// Restore rebuilds a session from a persisted blob without contacting the
// panel; an invalid token surfaces on the first authenticated call.
func (p *Provider) Restore(ctx context.Context, username, blob string) (ports.HostingSession, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var stored sessionBlob
	if err := json.Unmarshal([]byte(blob), &stored); err != nil {
		return nil, fmt.Errorf("%w: decode session blob: %w", domain.ErrSessionExpired, err)
	}
	if stored.Token == "" {
		return nil, fmt.Errorf("%w: session blob has no token", domain.ErrSessionExpired)
	}
	if stored.Username != "" && stored.Username != username {
		return nil, fmt.Errorf("%w: session blob belongs to %q", domain.ErrSessionExpired, stored.Username)
	}

	return &Session{provider: p, username: username, token: stored.Token, issuedAt: stored.IssuedAt}, nil
}

func (s *Session) Username() string {
	return s.username
}

func (s *Session) ListServers(ctx context.Context) ([]domain.Server, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := s.provider.do(ctx, http.MethodGet, serversPath, s.token, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkAuthorized(resp); err != nil {
		return nil, err
	}

	var payload []serverPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode server list: %w", domain.ErrMalformedResponse, err)
	}

	servers := make([]domain.Server, 0, len(payload))
	for _, item := range payload {
		servers = append(servers, domain.Server{
			ID:      item.ID,
			Address: item.Address,
			Domain:  item.Domain,
			Version: item.Version,
		})
	}
	return servers, nil
}

func (s *Session) Start(ctx context.Context, server domain.Server) error {
	return s.action(ctx, server, "start")
}

func (s *Session) Stop(ctx context.Context, server domain.Server) error {
	return s.action(ctx, server, "stop")
}

func (s *Session) Persist() (string, error) {
	data, err := json.Marshal(sessionBlob{Username: s.username, Token: s.token, IssuedAt: s.issuedAt})
	if err != nil {
		return "", fmt.Errorf("encode session blob: %w", err)
	}
	return string(data), nil
}

func (s *Session) action(ctx context.Context, server domain.Server, verb string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if server.ID == "" {
		return domain.NewProviderError(fmt.Sprintf("server %s has no id", server.DisplayName()), nil)
	}

	path := serversPath + "/" + url.PathEscape(server.ID) + "/" + verb
	resp, err := s.provider.do(ctx, http.MethodPost, path, s.token, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return checkAuthorized(resp)
}

func (p *Provider) do(ctx context.Context, method, path, token string, body []byte) (*http.Response, error) {
	endpoint, err := buildURL(p.BaseURL, path)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := p.requestContext(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, reader)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.httpClient().Do(req)
	if err != nil {
		cancel()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s %s: %w", domain.ErrTransport, method, path, err)
	}

	resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

func checkAuthorized(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrSessionExpired
	case !isSuccess(resp.StatusCode):
		return providerError(resp)
	}
	return nil
}

func providerError(resp *http.Response) error {
	var payload errorPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil || payload.Error == "" {
		return domain.NewProviderError(resp.Status, nil)
	}
	return domain.NewProviderError(payload.Error, nil)
}

func isSuccess(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

func buildURL(baseURL, path string) (string, error) {
	if strings.TrimSpace(baseURL) == "" {
		return "", errors.New("hosting base url is required")
	}

	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse hosting base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("hosting base url %q must be absolute", baseURL)
	}

	return parsed.String() + path, nil
}

func (p *Provider) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := p.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (p *Provider) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return http.DefaultClient
}

func (p *Provider) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

// cancelOnClose releases the request timeout once the body is consumed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
