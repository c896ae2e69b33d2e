package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/promomark/website/core/logger"
	"github.com/promomark/website/core/metrics"
)

// maxResponseSize caps how much of the siteverify body is read.
const maxResponseSize = 64 << 10

// Verifier decides whether a bot-mitigation token belongs to a human.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) bool
}

// Client verifies reCAPTCHA v3 tokens against the siteverify API.
// It never returns an error: every failure is a failed verification.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

var _ Verifier = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for siteverify calls.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		if l != nil {
			cl.logger = l
		}
	}
}

// WithMetrics records every verification outcome on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(cl *Client) {
		cl.metrics = m
	}
}

// New creates a Client. Zero-valued config fields take their defaults.
func New(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("recaptcha"))
	return c
}

// SiteKey returns the public key rendered into the form.
func (c *Client) SiteKey() string {
	return c.cfg.SiteKey
}

// Verify reports whether token passes verification.
//
// Without a secret Verify passes unless RequireSecret is set.
// With a secret, a blank token fails without a network call. Transport
// errors, non-2xx statuses and undecodable bodies fail closed.
func (c *Client) Verify(ctx context.Context, token, remoteIP string) bool {
	if strings.TrimSpace(c.cfg.SecretKey) == "" {
		if !c.cfg.RequireSecret {
			c.metrics.Verification(metrics.VerificationBypassed)
			c.logger.DebugContext(ctx, "recaptcha not configured, verification bypassed")
			return true
		}
		c.metrics.Verification(metrics.VerificationFailed)
		c.logger.WarnContext(ctx, "recaptcha not configured, verification refused")
		return false
	}

	if strings.TrimSpace(token) == "" {
		c.metrics.Verification(metrics.VerificationFailed)
		c.logger.InfoContext(ctx, "recaptcha token missing")
		return false
	}

	res, err := c.siteverify(ctx, token, remoteIP)
	if err != nil {
		c.metrics.Verification(metrics.VerificationError)
		c.logger.WarnContext(ctx, "recaptcha verification request failed", logger.Error(err))
		return false
	}

	if !res.Passed(c.cfg.MinScore) {
		c.metrics.Verification(metrics.VerificationFailed)
		c.logger.InfoContext(ctx, "recaptcha verification rejected",
			slog.Bool("success", res.Success),
			slog.Float64("score", res.Score),
			slog.String("action", res.Action),
			slog.Any("error_codes", res.ErrorCodes),
		)
		return false
	}

	c.metrics.Verification(metrics.VerificationPassed)
	c.logger.DebugContext(ctx, "recaptcha verification passed",
		slog.Float64("score", res.Score),
		slog.String("hostname", res.Hostname),
	)
	return true
}

func (c *Client) siteverify(ctx context.Context, token, remoteIP string) (Result, error) {
	form := url.Values{
		"secret":   {c.cfg.SecretKey},
		"response": {token},
	}
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("create siteverify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("siteverify request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return Result{}, fmt.Errorf("read siteverify response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("siteverify returned %d", resp.StatusCode)
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, fmt.Errorf("parse siteverify response: %w", err)
	}
	return res, nil
}
