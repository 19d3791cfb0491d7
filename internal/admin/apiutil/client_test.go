package apiutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestBuildsAuthenticatedJSONCall(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotAuth, gotContentType string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &gotBody)
		}
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	res, err := Request(context.Background(), srv.Client(), srv.URL+"/api/admin/", "tok", Endpoint{
		Method: http.MethodPut,
		Path:   "/users/42",
		Query:  url.Values{"page": []string{"2"}},
		Body:   map[string]any{"name": "Ada"},
	})
	require.NoError(t, err)

	require.Equal(t, http.StatusAccepted, res.StatusCode)
	require.JSONEq(t, `{"success":true}`, string(res.Body))
	require.Equal(t, "yes", res.Header.Get("X-Test"))

	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/api/admin/users/42", gotPath)
	require.Equal(t, "page=2", gotQuery)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "Ada", gotBody["name"])
}

func TestResolveEndpoint(t *testing.T) {
	got, err := resolveEndpoint("http://x/api/", "/users")
	require.NoError(t, err)
	require.Equal(t, "http://x/api/users", got)

	got, err = resolveEndpoint("", "https://other/abs")
	require.NoError(t, err)
	require.Equal(t, "https://other/abs", got)

	_, err = resolveEndpoint("", "users")
	require.Error(t, err)

	_, err = resolveEndpoint("http://x", " ")
	require.Error(t, err)
}
