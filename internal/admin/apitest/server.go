// Package apitest runs an in-memory admin API for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/castlekeep/castlectl/internal/admin/api"
	"github.com/gorilla/mux"
)

const BasePath = "/api/admin"

// Collection names and the key each list response uses for its rows.
var DataKeys = map[string]string{
	"users":          "users",
	"focus-sessions": "sessions",
	"castle-grounds": "castles",
}

type failure struct {
	status  int
	message string
	// ok200 sends a 200 with "success": false instead of status
	ok200 bool
}

// Call records one request received by the server.
type Call struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
	Auth   string
}

type Server struct {
	*httptest.Server

	mu          sync.Mutex
	collections map[string][]api.Record
	stats       map[string]any
	activity    []api.Record
	wrapStats   bool
	failures    map[string]failure
	calls       []Call
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		collections: map[string][]api.Record{},
		failures:    map[string]failure{},
		stats:       map[string]any{},
		wrapStats:   true,
	}

	r := mux.NewRouter()
	admin := r.PathPrefix(BasePath).Subrouter()
	admin.Use(s.record)
	admin.HandleFunc("/dashboard/stats", s.handleStats).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard/activity", s.handleActivity).Methods(http.MethodGet)
	admin.HandleFunc("/{resource}", s.handleList).Methods(http.MethodGet)
	admin.HandleFunc("/{resource}/{id}", s.handleUpdate).Methods(http.MethodPut)
	admin.HandleFunc("/{resource}/{id}", s.handleDelete).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the value to configure as admin.base-url.
func (s *Server) BaseURL() string { return s.URL + BasePath }

// Seed replaces the rows of a collection.
func (s *Server) Seed(resource string, recs ...api.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[resource] = append([]api.Record(nil), recs...)
}

// Records returns a copy of a collection's current rows.
func (s *Server) Records(resource string) []api.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Record, 0, len(s.collections[resource]))
	for _, rec := range s.collections[resource] {
		out = append(out, rec.Clone())
	}
	return out
}

// SetStats sets the dashboard stats. When wrapped is false the object is
// returned bare instead of under "stats".
func (s *Server) SetStats(stats map[string]any, wrapped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
	s.wrapStats = wrapped
}

func (s *Server) SetActivity(recs ...api.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = recs
}

// Fail makes every request for method on path answer with status.
// path is relative to BasePath, for example "/users" or "/users/1".
func (s *Server) Fail(method, path string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: status, message: message}
}

// Reject makes method on path answer 200 with "success": false.
func (s *Server) Reject(method, path string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = failure{status: http.StatusOK, message: message, ok200: true}
}

// Recover clears a failure registered with Fail or Reject.
func (s *Server) Recover(method, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, method+" "+path)
}

func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := Call{
			Method: r.Method,
			Path:   r.URL.Path[len(BasePath):],
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
		}
		if r.Body != nil && r.ContentLength != 0 {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				call.Body = body
			}
		}

		s.mu.Lock()
		s.calls = append(s.calls, call)
		f, failing := s.failures[r.Method+" "+call.Path]
		s.mu.Unlock()

		if failing {
			if f.ok200 {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": f.message})
				return
			}
			writeJSON(w, f.status, map[string]any{"success": false, "message": f.message})
			return
		}

		r = r.WithContext(withCall(r.Context(), call))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	resource := mux.Vars(r)["resource"]
	key, ok := DataKeys[resource]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "unknown resource " + resource})
		return
	}

	page := atoiOr(r.URL.Query().Get("page"), 1)
	limit := atoiOr(r.URL.Query().Get("limit"), 20)

	s.mu.Lock()
	all := s.collections[resource]
	total := len(all)
	start := (page - 1) * limit
	end := min(start+limit, total)
	rows := []api.Record{}
	if start < total {
		rows = append(rows, all[start:end]...)
	}
	s.mu.Unlock()

	pages := (total + limit - 1) / limit
	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		key:          rows,
		"pagination": map[string]any{"page": page, "limit": limit, "total": total, "pages": pages},
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	call := callFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.collections[vars["resource"]] {
		if rec.ID() != vars["id"] {
			continue
		}
		updated := rec.Clone()
		for k, v := range call.Body {
			updated[k] = v
		}
		s.collections[vars["resource"]][i] = updated
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": updated})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.collections[vars["resource"]]
	for i, rec := range rows {
		if rec.ID() != vars["id"] {
			continue
		}
		s.collections[vars["resource"]] = append(rows[:i:i], rows[i+1:]...)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.wrapStats {
		writeJSON(w, http.StatusOK, s.stats)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "stats": s.stats})
}

func (s *Server) handleActivity(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity := s.activity
	if activity == nil {
		activity = []api.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "activities": activity})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
