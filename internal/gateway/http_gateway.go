package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"grocery-manager/internal/config"
	"grocery-manager/internal/dto"
	apierrors "grocery-manager/internal/errors"
	"grocery-manager/internal/models"
)

const (
	opList    = "list"
	opGet     = "get"
	opCreate  = "create"
	opReplace = "replace"
	opRemove  = "remove"
)

// headerTransport stamps every outgoing request with the JSON headers the
// list backend expects.
type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if traceID, ok := req.Context().Value(TraceIDKey{}).(string); ok && traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	return t.base.RoundTrip(req)
}

// TraceIDKey is the context key whose string value is forwarded as X-Trace-ID
type TraceIDKey struct{}

// HTTPGateway talks to a JSON-server style REST backend
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	breaker CircuitBreakerInterface
	logger  *slog.Logger
}

// NewHTTPGateway creates a gateway for the backend at cfg.BaseURL
func NewHTTPGateway(cfg *config.GatewayConfig, logger *slog.Logger) GatewayInterface {
	return NewHTTPGatewayWithClient(cfg, &http.Client{
		Transport: &headerTransport{base: http.DefaultTransport},
		Timeout:   cfg.Timeout,
	}, logger)
}

// NewHTTPGatewayWithClient creates a gateway around an existing client. The
// client's transport is wrapped so the JSON headers are always present.
func NewHTTPGatewayWithClient(cfg *config.GatewayConfig, client *http.Client, logger *slog.Logger) GatewayInterface {
	if logger == nil {
		logger = slog.Default()
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if _, ok := client.Transport.(*headerTransport); !ok {
		base := client.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		wrapped := *client
		wrapped.Transport = &headerTransport{base: base}
		client = &wrapped
	}

	breaker := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:     cfg.BreakerMaxFailures,
		ResetTimeout:    cfg.BreakerResetTimeout,
		HalfOpenMaxSucc: 1,
	})

	return &HTTPGateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		breaker: breaker,
		logger:  logger,
	}
}

func (g *HTTPGateway) ListItems(ctx context.Context, category models.Category, opts ListOptions) ([]dto.ItemRecord, error) {
	records := []dto.ItemRecord{}
	if err := g.call(ctx, opList, category.String(), g.collectionURL(category.String(), opts), http.MethodGet, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (g *HTTPGateway) GetItem(ctx context.Context, category models.Category, id string) (dto.ItemRecord, error) {
	var record dto.ItemRecord
	err := g.call(ctx, opGet, category.String(), g.recordURL(category.String(), id), http.MethodGet, nil, &record)
	return record, err
}

func (g *HTTPGateway) CreateItem(ctx context.Context, category models.Category, record dto.ItemRecord) (dto.ItemRecord, error) {
	record.ID = ""
	var created dto.ItemRecord
	err := g.call(ctx, opCreate, category.String(), g.collectionURL(category.String(), ListOptions{}), http.MethodPost, record, &created)
	return created, err
}

func (g *HTTPGateway) ReplaceItem(ctx context.Context, category models.Category, id string, record dto.ItemRecord) (dto.ItemRecord, error) {
	record.ID = dto.FlexString(id)
	var replaced dto.ItemRecord
	err := g.call(ctx, opReplace, category.String(), g.recordURL(category.String(), id), http.MethodPut, record, &replaced)
	return replaced, err
}

func (g *HTTPGateway) RemoveItem(ctx context.Context, category models.Category, id string) error {
	err := g.call(ctx, opRemove, category.String(), g.recordURL(category.String(), id), http.MethodDelete, nil, nil)
	if IsNotFound(err) {
		g.logger.DebugContext(ctx, "remove of missing record treated as deleted",
			slog.String("resource", category.String()),
			slog.String("id", id),
		)
		return nil
	}
	return err
}

func (g *HTTPGateway) ListTitles(ctx context.Context, opts ListOptions) ([]dto.TitleRecord, error) {
	records := []dto.TitleRecord{}
	if err := g.call(ctx, opList, models.ResourceTitles, g.collectionURL(models.ResourceTitles, opts), http.MethodGet, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (g *HTTPGateway) CreateTitle(ctx context.Context, record dto.TitleRecord) (dto.TitleRecord, error) {
	record.ID = ""
	var created dto.TitleRecord
	err := g.call(ctx, opCreate, models.ResourceTitles, g.collectionURL(models.ResourceTitles, ListOptions{}), http.MethodPost, record, &created)
	return created, err
}

func (g *HTTPGateway) ReplaceTitle(ctx context.Context, id string, record dto.TitleRecord) (dto.TitleRecord, error) {
	record.ID = dto.FlexString(id)
	var replaced dto.TitleRecord
	err := g.call(ctx, opReplace, models.ResourceTitles, g.recordURL(models.ResourceTitles, id), http.MethodPut, record, &replaced)
	return replaced, err
}

func (g *HTTPGateway) collectionURL(resource string, opts ListOptions) string {
	u := g.baseURL + "/" + url.PathEscape(resource)

	params := url.Values{}
	if opts.UserID != "" {
		params.Set("userId", opts.UserID)
	}
	if opts.Query != "" {
		params.Set("q", opts.Query)
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (g *HTTPGateway) recordURL(resource, id string) string {
	return g.baseURL + "/" + url.PathEscape(resource) + "/" + url.PathEscape(id)
}

// call performs one request and decodes a success body into out. It never
// retries; the first failure is returned to the caller.
func (g *HTTPGateway) call(ctx context.Context, op, resource, target, method string, body, out any) error {
	if g.breaker.IsOpen() {
		return &TransportError{Op: op, Resource: resource, Err: ErrCircuitOpen}
	}

	req, err := g.buildRequest(ctx, method, target, body)
	if err != nil {
		return &TransportError{Op: op, Resource: resource, Err: err}
	}

	start := time.Now()
	resp, respBody, err := g.do(req)
	if err != nil {
		// a caller abandoning the request says nothing about backend health
		if ctx.Err() == nil {
			g.recordFailure(ctx, resource)
		}
		return &TransportError{Op: op, Resource: resource, Err: err}
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		g.recordFailure(ctx, resource)
	} else {
		g.breaker.RecordSuccess()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		terr := g.statusError(op, resource, resp.StatusCode, respBody)
		g.logger.WarnContext(ctx, "gateway request rejected",
			slog.String("method", method),
			slog.String("resource", resource),
			slog.Int("status", resp.StatusCode),
			slog.String("code", terr.Code),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return terr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return &TransportError{Op: op, Resource: resource, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func (g *HTTPGateway) buildRequest(ctx context.Context, method, target string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

func (g *HTTPGateway) do(req *http.Request) (*http.Response, []byte, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.ErrorContext(req.Context(), "gateway request failed",
			slog.String("method", req.Method),
			slog.String("url", req.URL.String()),
			slog.String("error", err.Error()),
		)
		return nil, nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()

	if err != nil {
		return nil, nil, fmt.Errorf("read response body: %w", err)
	}

	return resp, body, nil
}

// statusError builds the TransportError for a non-2xx answer, decoding the
// backend's error envelope when present.
func (g *HTTPGateway) statusError(op, resource string, status int, body []byte) *TransportError {
	terr := &TransportError{Op: op, Resource: resource, StatusCode: status}

	var envelope apierrors.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Code != "" {
		terr.Code = envelope.Error.Code
		terr.Message = envelope.Error.Message
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		terr.Message = text
	}

	if status == http.StatusNotFound {
		terr.Err = ErrNotFound
	} else {
		terr.Err = errors.New(http.StatusText(status))
	}

	return terr
}

func (g *HTTPGateway) recordFailure(ctx context.Context, resource string) {
	before := g.breaker.GetState()
	g.breaker.RecordFailure()
	if after := g.breaker.GetState(); after != before {
		g.logger.WarnContext(ctx, "gateway circuit breaker state changed",
			slog.String("event_type", "circuit_breaker_state_change"),
			slog.String("resource", resource),
			slog.String("old_state", before.String()),
			slog.String("new_state", after.String()),
		)
	}
}
