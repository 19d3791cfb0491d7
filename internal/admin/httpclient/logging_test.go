package httpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/castlekeep/castlectl/internal/log"
	"github.com/castlekeep/castlectl/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

func jsonResponse(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func parseJSONLogs(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var out []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func mustFindLogByType(t *testing.T, logs []map[string]any, logType string) map[string]any {
	t.Helper()
	for _, entry := range logs {
		if entry["log_type"] == logType {
			return entry
		}
	}
	t.Fatalf("no %s log entry in %v", logType, logs)
	return nil
}

func TestLoggingHTTPClient_StampsRequestIDAndUserAgent(t *testing.T) {
	var seen *http.Request
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		seen = req
		return jsonResponse(req, http.StatusOK, `{"success":true}`), nil
	})}

	logger := slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	lc := NewLoggingHTTPClientWithClient(client, logger, "castlectl/1.2.3")

	req, err := http.NewRequest(http.MethodGet, "http://admin.test/api/admin/users", nil)
	require.NoError(t, err)
	_, err = lc.Do(req)
	require.NoError(t, err)

	require.NotNil(t, seen)
	assert.True(t, util.IsValidUUID(seen.Header.Get(RequestIDHeader)))
	assert.Equal(t, "castlectl/1.2.3", seen.Header.Get("User-Agent"))
}

func TestLoggingHTTPClient_DebugLogsMetadataWithoutBodies(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusOK, `{"success":true,"users":[]}`), nil
	})}

	lc := NewLoggingHTTPClientWithClient(client, logger, "")
	ctx := log.WithHTTPLogContext(context.Background(), log.HTTPLogContext{Resource: "users", Operation: "list"})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://admin.test/api/admin/users?page=2&token=secret", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer abc")

	_, err = lc.Do(req)
	require.NoError(t, err)

	logs := parseJSONLogs(t, logOutput.String())
	require.Len(t, logs, 2)

	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	assert.Equal(t, "GET", requestLog["method"])
	assert.Equal(t, "/api/admin/users", requestLog["route"])
	assert.Equal(t, "users", requestLog["resource"])
	assert.Equal(t, "list", requestLog["operation"])

	query, ok := requestLog["query_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2", query["page"])
	assert.Equal(t, redactedValue, query["token"])

	headers, ok := requestLog["headers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, redactedValue, headers["Authorization"])

	assert.NotContains(t, responseLog, "response_body")
	assert.Equal(t, requestLog["request_id"], responseLog["request_id"])
	assert.EqualValues(t, 200, responseLog["status_code"])
}

func TestLoggingHTTPClient_TraceLogsRedactedBodies(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: log.LevelTrace}))

	var bodySeenByTransport string
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		bodySeenByTransport = string(raw)
		return jsonResponse(req, http.StatusOK, `{"success":true,"token":"server-secret"}`), nil
	})}

	lc := NewLoggingHTTPClientWithClient(client, logger, "")
	payload := `{"name":"Ada","password":"hunter2"}`
	req, err := http.NewRequest(http.MethodPut, "http://admin.test/api/admin/users/1", strings.NewReader(payload))
	require.NoError(t, err)

	resp, err := lc.Do(req)
	require.NoError(t, err)

	assert.Equal(t, payload, bodySeenByTransport)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "server-secret")

	logs := parseJSONLogs(t, logOutput.String())
	requestLog := mustFindLogByType(t, logs, logTypeRequest)
	responseLog := mustFindLogByType(t, logs, logTypeResponse)

	assert.Contains(t, requestLog["request_body"], `"name":"Ada"`)
	assert.NotContains(t, requestLog["request_body"], "hunter2")
	assert.NotContains(t, responseLog["response_body"], "server-secret")
}

func TestLoggingHTTPClient_ErrorBodyLoggedAtDebug(t *testing.T) {
	var logOutput bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(req, http.StatusInternalServerError, `{"success":false,"message":"db down"}`), nil
	})}

	lc := NewLoggingHTTPClientWithClient(client, logger, "")
	req, err := http.NewRequest(http.MethodDelete, "http://admin.test/api/admin/users/1", nil)
	require.NoError(t, err)

	_, err = lc.Do(req)
	require.NoError(t, err)

	responseLog := mustFindLogByType(t, parseJSONLogs(t, logOutput.String()), logTypeResponse)
	assert.Contains(t, responseLog["error_body"], "db down")
}

func TestRedactBodyTruncates(t *testing.T) {
	got := redactBody([]byte(strings.Repeat("x", maxLoggedBody+10)))
	assert.True(t, strings.HasSuffix(got, "[truncated, total 1010 bytes]"))
}
