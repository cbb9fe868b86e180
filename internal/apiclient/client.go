package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-portal/internal/api/dto"
	"github.com/spec-kit/ticket-portal/internal/observability"
	apperrors "github.com/spec-kit/ticket-portal/pkg/util/errorutil"
)

// Session is the part of the session store the client needs.
type Session interface {
	AuthHeader() map[string]string
	SetToken(token string) error
	Invalidate() error
}

// Config bundles client dependencies.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	// OnUnauthorized runs after the session was invalidated by a 401,
	// typically to send the user to the login view.
	OnUnauthorized func()
}

// Client is the single funnel for ticket API calls. It attaches the bearer
// header and turns any 401 on an authenticated call into a session
// invalidation plus the OnUnauthorized hook.
type Client struct {
	baseURL        string
	http           *http.Client
	session        Session
	logger         *zap.Logger
	metrics        *observability.Metrics
	onUnauthorized func()
}

// New builds a client.
func New(session Session, cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		http:           httpClient,
		session:        session,
		logger:         logger,
		metrics:        cfg.Metrics,
		onUnauthorized: cfg.OnUnauthorized,
	}
}

type request struct {
	method string
	path   string
	// route is the path template used as a metrics label.
	route string
	query url.Values
	body  any
	// public calls never touch the session on 401.
	public bool
	// keepSession lets a caller decide that a 401 is not a session failure.
	keepSession func(*apperrors.DomainError) bool
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.route, err)
		}
		body = bytes.NewReader(raw)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", r.route, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	if !r.public {
		for k, v := range c.session.AuthHeader() {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordUpstream(r.method, r.route, 0, time.Since(start))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s %s: %w", r.method, r.route, ctxErr)
		}
		return apperrors.NewUpstreamUnavailable(err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstream(r.method, r.route, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.NewInternalError(fmt.Errorf("decode %s response: %w", r.route, err))
		}
		return nil
	}

	domainErr := decodeError(resp)
	c.logger.Debug("ticket api error",
		zap.String("request_id", requestID),
		zap.String("route", r.route),
		zap.Int("status", resp.StatusCode),
		zap.String("message", domainErr.Message),
	)
	if resp.StatusCode == http.StatusUnauthorized && !r.public {
		if r.keepSession == nil || !r.keepSession(domainErr) {
			c.handleUnauthorized()
		}
	}
	return domainErr
}

func (c *Client) handleUnauthorized() {
	if err := c.session.Invalidate(); err != nil {
		c.logger.Warn("failed to clear rejected session", zap.Error(err))
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

func decodeError(resp *http.Response) *apperrors.DomainError {
	var body dto.MessageResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body.Message = strings.TrimSpace(string(raw))
		}
	}
	var details map[string]any
	if len(body.Errors) > 0 {
		details = make(map[string]any, len(body.Errors))
		for field, msg := range body.Errors {
			details[field] = msg
		}
	}
	return apperrors.FromStatus(resp.StatusCode, body.Message, details)
}
