package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/util"
)

const (
	RequestIDHeader = "X-Request-ID"

	logTypeRequest  = "request"
	logTypeResponse = "response"
	logTypeFailure  = "failure"
	redactedValue   = "[REDACTED]"
	maxLoggedBody   = 1000
	defaultTimeout  = 60 * time.Second
)

var sensitiveKeys = []string{"authorization", "password", "secret", "token", "api_key", "api-key", "cookie"}

// LoggingHTTPClient stamps every admin API request with a request id and
// logs the exchange. Metadata is logged at debug, bodies only at trace.
type LoggingHTTPClient struct {
	wrapped   *http.Client
	logger    *slog.Logger
	userAgent string
}

func NewLoggingHTTPClient(logger *slog.Logger, timeout time.Duration, userAgent string) *LoggingHTTPClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewLoggingHTTPClientWithClient(&http.Client{Timeout: timeout}, logger, userAgent)
}

func NewLoggingHTTPClientWithClient(client *http.Client, logger *slog.Logger, userAgent string) *LoggingHTTPClient {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &LoggingHTTPClient{wrapped: client, logger: logger, userAgent: userAgent}
}

func (c *LoggingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = util.NewRequestID()
		req.Header.Set(RequestIDHeader, requestID)
	}
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	ctx := req.Context()
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return c.wrapped.Do(req)
	}
	trace := c.logger.Enabled(ctx, log.LevelTrace)

	attrs := append(log.HTTPLogContextAttrs(ctx),
		slog.String("log_type", logTypeRequest),
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("route", req.URL.Path),
		slog.Any("query_params", redactQuery(req)),
		slog.Any("headers", redactHeaders(req.Header)),
	)
	if trace && req.Body != nil && req.GetBody != nil {
		if body, err := req.GetBody(); err == nil {
			raw, _ := io.ReadAll(body)
			_ = body.Close()
			if len(raw) > 0 {
				attrs = append(attrs, slog.String("request_body", redactBody(raw)))
			}
		}
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP request", attrs...)

	start := time.Now()
	resp, err := c.wrapped.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP request failed",
			slog.String("log_type", logTypeFailure),
			slog.String("request_id", requestID),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	respAttrs := []slog.Attr{
		slog.String("log_type", logTypeResponse),
		slog.String("request_id", requestID),
		slog.Int("status_code", resp.StatusCode),
		slog.Duration("duration", elapsed),
	}
	if trace || resp.StatusCode >= http.StatusBadRequest {
		if body, err := peekBody(resp); err == nil && len(body) > 0 {
			key := "response_body"
			if !trace {
				key = "error_body"
			}
			respAttrs = append(respAttrs, slog.String(key, redactBody(body)))
		}
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "HTTP response", respAttrs...)

	return resp, nil
}

func isSensitive(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

func redactHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func redactQuery(req *http.Request) map[string]string {
	q := req.URL.Query()
	out := make(map[string]string, len(q))
	for k, v := range q {
		if isSensitive(k) {
			out[k] = redactedValue
			continue
		}
		out[k] = strings.Join(v, ",")
	}
	return out
}

// redactBody masks sensitive JSON fields at any depth. Non JSON bodies are
// only truncated.
func redactBody(raw []byte) string {
	var doc any
	if err := json.Unmarshal(raw, &doc); err == nil {
		if masked, err := json.Marshal(redactValue(doc)); err == nil {
			raw = masked
		}
	}
	if len(raw) > maxLoggedBody {
		return fmt.Sprintf("%s... [truncated, total %d bytes]", raw[:maxLoggedBody], len(raw))
	}
	return string(raw)
}

func redactValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		for k, inner := range typed {
			if isSensitive(k) {
				typed[k] = redactedValue
				continue
			}
			typed[k] = redactValue(inner)
		}
		return typed
	case []any:
		for i, inner := range typed {
			typed[i] = redactValue(inner)
		}
		return typed
	default:
		return v
	}
}

func peekBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, err
}
