// Package api is the typed HTTP client for the projects backend.
package api

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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/geodev/geodev/internal/services/web/api"
	// maxErrorBody bounds how much of a failed response is read for detail.
	maxErrorBody = 64 << 10
)

// Client issues one HTTP call per operation against the projects backend.
// It never retries and sets no timeout of its own.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator

	projects *ProjectsService
	tasks    *TasksService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// WithPropagator overrides the global text map propagator used to inject
// trace context into outbound requests.
func WithPropagator(propagator propagation.TextMapPropagator) Option {
	return func(c *Client) {
		if propagator != nil {
			c.propagator = propagator
		}
	}
}

// NewClient builds a client rooted at baseURL, e.g. http://localhost:8000.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("api base url %q must include a host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: http.DefaultClient,
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.projects = &ProjectsService{client: c}
	c.tasks = &TasksService{client: c}
	return c, nil
}

// BaseURL returns the normalized backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Projects returns the project operations.
func (c *Client) Projects() *ProjectsService {
	return c.projects
}

// Tasks returns the task operations.
func (c *Client) Tasks() *TasksService {
	return c.tasks
}

type errorBody struct {
	Detail any `json:"detail"`
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	target := c.baseURL + path
	ctx, span := c.tracer.Start(ctx, "api."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.full", target),
		),
	)
	defer span.End()

	fail := func(status int, detail string, err error) error {
		reqErr := &RequestError{Op: op, Method: method, URL: target, StatusCode: status, Detail: detail, Err: err}
		span.RecordError(reqErr)
		span.SetStatus(codes.Error, reqErr.Error())
		return reqErr
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fail(0, "", fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fail(0, "", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.propagator.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(0, "", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(resp.StatusCode, errorDetail(raw), errors.New(http.StatusText(resp.StatusCode)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// errorDetail extracts a readable message from a backend error body.
func errorDetail(raw []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Detail == nil {
		return strings.TrimSpace(string(raw))
	}
	if text, ok := parsed.Detail.(string); ok {
		return text
	}
	encoded, err := json.Marshal(parsed.Detail)
	if err != nil {
		return ""
	}
	return string(encoded)
}
