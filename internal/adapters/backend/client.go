// Package backend implements ports.Backend and ports.AuthProvider against the
// airport REST backend and its {success, data, message, error} envelope.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	domainauth "github.com/airportmgmt/airport-web/internal/domain/auth"
	apperrors "github.com/airportmgmt/airport-web/internal/errors"
	"github.com/airportmgmt/airport-web/internal/observability/metrics"
	"github.com/airportmgmt/airport-web/internal/ports"
)

const maxResponseBytes = 4 << 20

var (
	// ErrTransport marks failures to reach the backend at all.
	ErrTransport = errors.New("backend unreachable")
	// ErrInvalidResponse marks responses that are not a decodable envelope.
	ErrInvalidResponse = errors.New("invalid backend response")
)

// Config configures a Client.
type Config struct {
	// BaseURL is prepended verbatim to every request path.
	BaseURL string
	// Timeout bounds each call; zero means no timeout.
	Timeout time.Duration
	// HTTPClient overrides the transport; nil uses a fresh client.
	HTTPClient *http.Client
	Metrics    *metrics.Registry
	Logger     *slog.Logger
}

// Client is the single gateway to the REST backend.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	metrics *metrics.Registry
	logger  *slog.Logger
}

var _ ports.Backend = (*Client)(nil)

// NewClient validates cfg and returns a Client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("backend base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend base URL %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		timeout: cfg.Timeout,
		http:    hc,
		metrics: cfg.Metrics,
		logger:  logger.With("component", "backend"),
	}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// Call sends req and decodes the envelope. Session cookies found in ctx are attached.
func (c *Client) Call(ctx context.Context, req ports.BackendRequest) (ports.BackendResponse, error) {
	return c.do(ctx, c.http, req)
}

func (c *Client) do(ctx context.Context, hc *http.Client, req ports.BackendRequest) (ports.BackendResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.roundTrip(ctx, hc, req)
	c.metrics.ObserveBackendCall(metrics.BackendCall{
		Method:   req.Method,
		Route:    RouteLabel(req.Path),
		Duration: time.Since(start),
		Err:      err,
	})

	var appErr *apperrors.AppError
	switch {
	case err == nil:
	case errors.As(err, &appErr):
		c.logger.DebugContext(ctx, "backend reported failure",
			"method", req.Method, "path", req.Path, "status", appErr.Status, "error", appErr.Message)
	default:
		c.logger.ErrorContext(ctx, "backend call failed",
			"method", req.Method, "path", req.Path, "error", err)
	}
	return resp, err
}

func (c *Client) roundTrip(ctx context.Context, hc *http.Client, req ports.BackendRequest) (ports.BackendResponse, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return ports.BackendResponse{}, err
	}

	res, err := hc.Do(httpReq)
	if err != nil {
		return ports.BackendResponse{}, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.Path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return ports.BackendResponse{}, fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return ports.BackendResponse{}, fmt.Errorf("%w: %s %s (status %d): %w",
			ErrInvalidResponse, req.Method, req.Path, res.StatusCode, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		status := res.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadRequest
		}
		return ports.BackendResponse{}, apperrors.FromStatus(status, msg)
	}
	return ports.BackendResponse{Data: env.Data, Message: env.Message}, nil
}

func (c *Client) newRequest(ctx context.Context, req ports.BackendRequest) (*http.Request, error) {
	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	if req.Form != nil {
		buf, ct, err := encodeMultipart(req.Form)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build backend request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if sess, ok := domainauth.SessionFrom(ctx); ok {
		for _, ck := range sess.BackendCookies {
			httpReq.AddCookie(&http.Cookie{Name: ck.Name, Value: ck.Value})
		}
	}
	return httpReq, nil
}

func encodeMultipart(form url.Values) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		for _, v := range form[k] {
			if err := mw.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("encode field %s: %w", k, err)
			}
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("encode form: %w", err)
	}
	return buf, mw.FormDataContentType(), nil
}

// RouteLabel replaces numeric path segments with {id} to keep metric cardinality bounded.
func RouteLabel(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s != "" && strings.Trim(s, "0123456789") == "" {
			segs[i] = "{id}"
		}
	}
	return strings.Join(segs, "/")
}
