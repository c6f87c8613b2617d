// Package authority implements the HTTP client for the desktop authority
// process, which classifies navigation targets and returns enforcement
// decisions. Every failure mode (connection refused, non-success status,
// malformed payload) surfaces as ErrUnreachable so callers apply one
// fail-open policy.
package authority

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

	"github.com/haukened/focusgate/internal/guard/domain"
)

// ErrUnreachable wraps any transport, status, or payload failure from the
// authority. The interceptor treats it as "allow" and never caches it.
var ErrUnreachable = errors.New("authority unreachable")

const (
	pathCheckBlock = "/api/check-block"
	pathStatus     = "/api/status"
	pathOverride   = "/api/override"
	pathRules      = "/api/rules"
	pathStatsToday = "/api/stats/today"
	pathHealth     = "/health"
)

// checkBlockRequest is the body of POST /api/check-block.
type checkBlockRequest struct {
	URL string `json:"url"`
}

// checkBlockResponse mirrors the authority's decision payload.
type checkBlockResponse struct {
	ShouldBlock        bool   `json:"should_block"`
	Action             string `json:"action"`
	DelaySeconds       *int   `json:"delay_seconds"`
	ReminderMessage    string `json:"reminder_message"`
	RemainingFocusTime *int   `json:"remaining_focus_time"`
}

// overrideReport is the body of POST /api/override.
type overrideReport struct {
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"`
}

// Client issues decision queries and reports to the desktop authority over
// its loopback HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Options configures an authority Client.
type Options struct {
	// BaseURL is the authority's base URL, e.g. "http://127.0.0.1:8321".
	BaseURL string
	// Timeout bounds each call. Defaults to 5 seconds.
	Timeout time.Duration
	// Transport is injectable for tests. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// New creates an authority client from the given options.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("invalid authority base URL %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
	}, nil
}

// CheckBlock asks the authority how to treat a navigation target.
func (c *Client) CheckBlock(ctx context.Context, target domain.Target) (domain.Decision, error) {
	var resp checkBlockResponse
	err := c.postJSON(ctx, pathCheckBlock, checkBlockRequest{URL: target.Raw}, &resp)
	if err != nil {
		return domain.Decision{}, err
	}
	return decisionFrom(resp)
}

// decisionFrom converts the wire payload into a Decision. A payload that
// does not block maps to ActionNone regardless of its action field; an
// unknown action on a blocking payload is malformed.
func decisionFrom(resp checkBlockResponse) (domain.Decision, error) {
	if !resp.ShouldBlock {
		return domain.AllowDecision(), nil
	}
	action := domain.Action(resp.Action)
	if !action.IsValid() || action == domain.ActionNone {
		return domain.Decision{}, fmt.Errorf("%w: unknown action %q", ErrUnreachable, resp.Action)
	}
	d := domain.Decision{
		Action:          action,
		ReminderMessage: resp.ReminderMessage,
	}
	if resp.DelaySeconds != nil {
		d.DelaySeconds = *resp.DelaySeconds
	}
	if resp.RemainingFocusTime != nil {
		d.RemainingFocusSeconds = *resp.RemainingFocusTime
	}
	if err := d.Validate(); err != nil {
		return domain.Decision{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return d, nil
}

// Status fetches the authority's current activity snapshot.
func (c *Client) Status(ctx context.Context) (domain.AuthorityStatus, error) {
	var status domain.AuthorityStatus
	if err := c.getJSON(ctx, pathStatus, &status); err != nil {
		return domain.AuthorityStatus{}, err
	}
	return status, nil
}

// ReportOverride tells the authority the user bypassed an enforcement.
// Callers treat this as fire-and-forget; the returned error is for logging
// only and must never block the local override.
func (c *Client) ReportOverride(ctx context.Context, target domain.Target, at time.Time) error {
	return c.postJSON(ctx, pathOverride, overrideReport{
		URL:       target.Raw,
		Timestamp: at.UTC().Format(time.RFC3339),
	}, nil)
}

// Rules fetches the configured blocking rules as raw JSON for the UI layer.
func (c *Client) Rules(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, pathRules)
}

// TodayStats fetches today's focus statistics as raw JSON for the UI layer.
func (c *Client) TodayStats(ctx context.Context) (json.RawMessage, error) {
	return c.getRaw(ctx, pathStatsToday)
}

// Health probes the authority's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.getRaw(ctx, pathHealth)
	return err
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrUnreachable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnreachable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnreachable, err)
	}
	return c.do(req, out)
}

func (c *Client) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: unexpected status %d", ErrUnreachable, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnreachable, err)
	}
	return nil
}
