package statusapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bnema/acs/internal/domain"
	"github.com/bnema/acs/internal/ports"
	"github.com/cenkalti/backoff"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL        = "https://mcapi.us/server/status"
	defaultRequestTimeout = 10 * time.Second
	defaultRetryInterval  = 500 * time.Millisecond
	maxStatusResponseSize = 1 << 20
	statusSuccess         = "success"
)

// Client queries a remote Minecraft status endpoint. Transport failures are
// retried up to Retries extra times; decoded responses are never retried.
type Client struct {
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	Retries        uint64
	RetryInterval  time.Duration
	Limiter        *rate.Limiter
}

var _ ports.StatusAPI = (*Client)(nil)

// NewLimiter returns a limiter allowing perSecond requests with a burst of
// one. A non-positive rate disables limiting.
func NewLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

type statusResponse struct {
	Status      string       `json:"status"`
	Error       string       `json:"error"`
	LastUpdated epochSeconds `json:"last_updated"`
	Online      bool         `json:"online"`
	MOTD        string       `json:"motd"`
	Players     struct {
		Now int `json:"now"`
		Max int `json:"max"`
	} `json:"players"`
	Server struct {
		Name string `json:"name"`
	} `json:"server"`
}

// epochSeconds accepts both 1700000000 and "1700000000".
type epochSeconds int64

func (e *epochSeconds) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = 0
		return nil
	}

	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if raw == "" {
			*e = 0
			return nil
		}
		data = []byte(raw)
	}

	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse last_updated %q: %w", data, err)
	}
	*e = epochSeconds(value)
	return nil
}

func (e epochSeconds) Time() time.Time {
	if e <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(e), 0).UTC()
}

func (c *Client) Fetch(ctx context.Context, address string, port int) (domain.StatusSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.StatusSnapshot{}, err
	}
	if address == "" {
		return domain.StatusSnapshot{}, errors.New("status address is required")
	}

	endpoint, err := c.endpoint(address, port)
	if err != nil {
		return domain.StatusSnapshot{}, err
	}

	var snapshot domain.StatusSnapshot
	operation := func() error {
		result, err := c.fetchOnce(ctx, endpoint)
		if err != nil {
			if errors.Is(err, domain.ErrTransport) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		snapshot = result
		return nil
	}

	if err := backoff.Retry(operation, c.retryPolicy(ctx)); err != nil {
		return domain.StatusSnapshot{}, err
	}

	return snapshot, nil
}

func (c *Client) fetchOnce(ctx context.Context, endpoint string) (domain.StatusSnapshot, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return domain.StatusSnapshot{}, fmt.Errorf("%w: wait for status rate limit: %w", domain.ErrTransport, err)
		}
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.StatusSnapshot{}, fmt.Errorf("create status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return domain.StatusSnapshot{}, fmt.Errorf("%w: request status: %w", domain.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxStatusResponseSize))
		return domain.StatusSnapshot{}, fmt.Errorf("%w: status endpoint returned %s", domain.ErrTransport, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStatusResponseSize))
	if err != nil {
		return domain.StatusSnapshot{}, fmt.Errorf("%w: read status response: %w", domain.ErrTransport, err)
	}

	var payload statusResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.StatusSnapshot{}, fmt.Errorf("%w: decode status response: %w", domain.ErrMalformedResponse, err)
	}
	if payload.Status == "" {
		return domain.StatusSnapshot{}, fmt.Errorf("%w: status response missing status field", domain.ErrMalformedResponse)
	}

	return domain.StatusSnapshot{
		Success:     payload.Status == statusSuccess,
		Online:      payload.Online,
		MOTD:        payload.MOTD,
		Players:     domain.Players{Now: payload.Players.Now, Max: payload.Players.Max},
		ServerName:  payload.Server.Name,
		LastUpdated: payload.LastUpdated.Time(),
		Error:       payload.Error,
	}, nil
}

func (c *Client) endpoint(address string, port int) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse status base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("status base url %q must be absolute", base)
	}

	query := parsed.Query()
	query.Set("ip", address)
	query.Set("port", strconv.Itoa(port))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.RetryInterval
	if policy.InitialInterval <= 0 {
		policy.InitialInterval = defaultRetryInterval
	}
	policy.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(policy, c.Retries), ctx)
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(ctx, timeout)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}
