// Package telegraph is a client for the Telegraph publishing API
// (https://telegra.ph/api). It creates and edits accounts and pages and
// retrieves view statistics; the content subpackage converts Markdown and
// HTML into the node tree the API accepts, and the upload subpackage
// pushes media files.
package telegraph

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// DefaultDomain is the domain the client talks to unless overridden with
// WithDomain.
const DefaultDomain = "telegra.ph"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client talks to the Telegraph HTTP API. A zero number of options gives
// an anonymous client against telegra.ph; most calls require an access
// token obtained from CreateAccount or passed with WithAccessToken.
//
// Methods are safe to call concurrently except where they replace the
// stored access token (CreateAccount, RevokeAccessToken).
type Client struct {
	accessToken string
	domain      string
	apiBase     string
	httpClient  *http.Client
	timeout     time.Duration
	maxRetries  int
}

type Option func(*Client)

// WithAccessToken sets the token attached to authorized calls.
func WithAccessToken(token string) Option {
	return func(c *Client) { c.accessToken = token }
}

// WithDomain points the client at a different Telegraph domain, e.g.
// graph.org.
func WithDomain(domain string) Option {
	return func(c *Client) { c.domain = domain }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
// Ignored if WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithMaxRetries sets how many times transient failures (network errors,
// FLOOD_WAIT responses) are retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		domain:     DefaultDomain,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
	}
	defaultClient := c.httpClient
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.httpClient == defaultClient {
		c.httpClient.Timeout = c.timeout
	}
	if c.apiBase == "" {
		c.apiBase = "https://api." + c.domain
	}
	return c
}

// AccessToken returns the token currently attached to authorized calls.
func (c *Client) AccessToken() string { return c.accessToken }

// Domain returns the Telegraph domain this client talks to.
func (c *Client) Domain() string { return c.domain }

type apiResponse struct {
	OK     bool                `json:"ok"`
	Result jsoniter.RawMessage `json:"result"`
	Error  string              `json:"error"`
}

// api posts a form request to the given API method and decodes the result
// into out. Network failures are retried with exponential backoff and
// FLOOD_WAIT responses are honored by waiting the requested number of
// seconds, up to maxRetries attempts either way.
func (c *Client) api(ctx context.Context, method string, params url.Values, out any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.accessToken != "" && !params.Has("access_token") {
		params.Set("access_token", c.accessToken)
	}
	endpoint := c.apiBase + "/" + method

	for attempt := 0; ; attempt++ {
		resp, err := c.post(ctx, endpoint, params)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if attempt >= c.maxRetries {
				return fmt.Errorf("telegraph: %s failed after %d retries: %w", method, c.maxRetries, err)
			}
			DebugLogger.Printf("%s failed (%v), retrying", method, err)
			if err := sleep(ctx, time.Duration(1<<attempt)*time.Second); err != nil {
				return err
			}
			continue
		}

		if !resp.OK {
			if wait, ok := floodWait(resp.Error); ok && attempt < c.maxRetries {
				InfoLogger.Printf("flood wait on %s, sleeping %s", method, wait)
				if err := sleep(ctx, wait); err != nil {
					return err
				}
				continue
			}
			return &APIError{Method: method, Message: resp.Error}
		}

		if out == nil {
			return nil
		}
		if err := json.Unmarshal(resp.Result, out); err != nil {
			return fmt.Errorf("telegraph: failed to decode %s result: %w", method, err)
		}
		return nil
	}
}

func (c *Client) post(ctx context.Context, endpoint string, params url.Values) (*apiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode json response: %w", err)
	}
	return &resp, nil
}

// floodWait parses the API's FLOOD_WAIT_<seconds> error message.
func floodWait(msg string) (time.Duration, bool) {
	const prefix = "FLOOD_WAIT_"
	if !strings.HasPrefix(msg, prefix) {
		return 0, false
	}
	secs, err := strconv.Atoi(msg[len(prefix):])
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
