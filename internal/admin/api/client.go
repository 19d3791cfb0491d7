package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/castlekeep/castlectl/internal/admin/apiutil"
	"github.com/tidwall/gjson"
)

// ResourceAPI is the CRUD surface shared by every paginated admin resource.
type ResourceAPI interface {
	List(ctx context.Context, page, size int) (*Page, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// DashboardAPI serves the aggregate numbers shown on the dashboard.
type DashboardAPI interface {
	Stats(ctx context.Context) (Record, error)
	RecentActivity(ctx context.Context) ([]Record, error)
}

// Page is one page of records plus the server's pagination summary.
type Page struct {
	Records []Record `json:"records" yaml:"records"`
	Page    int      `json:"page" yaml:"page"`
	Pages   int      `json:"pages" yaml:"pages"`
	Total   int      `json:"total,omitempty" yaml:"total,omitempty"`
}

type Options struct {
	BaseURL string
	Token   string
	Doer    apiutil.Doer
}

// Client talks to the admin REST API.
type Client struct {
	baseURL string
	token   string
	doer    apiutil.Doer
}

func NewClient(opts Options) *Client {
	doer := opts.Doer
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
		token:   opts.Token,
		doer:    doer,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Resource returns the API for the collection mounted at path whose list
// responses carry rows under dataKey.
func (c *Client) Resource(path, dataKey string) ResourceAPI {
	return &resourceClient{client: c, path: strings.Trim(path, "/"), dataKey: dataKey}
}

func (c *Client) Users() ResourceAPI { return c.Resource("users", "users") }

func (c *Client) FocusSessions() ResourceAPI { return c.Resource("focus-sessions", "sessions") }

func (c *Client) CastleGrounds() ResourceAPI { return c.Resource("castle-grounds", "castles") }

func (c *Client) Dashboard() DashboardAPI { return &dashboardClient{client: c} }

// call executes e and returns the parsed body. Non-2xx responses and bodies
// with "success": false become *Error.
func (c *Client) call(ctx context.Context, op string, e apiutil.Endpoint) (gjson.Result, error) {
	res, err := apiutil.Request(ctx, c.doer, c.baseURL, c.token, e)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	valid := len(res.Body) == 0 || gjson.ValidBytes(res.Body)
	body := gjson.ParseBytes(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return gjson.Result{}, &Error{StatusCode: res.StatusCode, Message: errorMessage(body, res.Body, valid), Operation: op}
	}
	if !valid {
		return gjson.Result{}, fmt.Errorf("%s: response is not valid JSON", op)
	}
	if success := body.Get("success"); success.Exists() && success.Type == gjson.False {
		return gjson.Result{}, &Error{StatusCode: res.StatusCode, Message: errorMessage(body, nil, true), Operation: op}
	}
	return body, nil
}

func errorMessage(body gjson.Result, raw []byte, valid bool) string {
	if valid {
		for _, path := range []string{"message", "error", "error.message"} {
			if v := body.Get(path); v.Exists() && v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
		return ""
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200] + "..."
	}
	return text
}

// records decodes the array at key. A missing key is an empty page.
func records(body gjson.Result, key string) ([]Record, error) {
	arr := body
	if key != "" {
		arr = body.Get(key)
	}
	if !arr.Exists() || arr.Type == gjson.Null {
		return []Record{}, nil
	}
	if !arr.IsArray() {
		return nil, fmt.Errorf("expected %q to be a list", key)
	}
	out := make([]Record, 0, len(arr.Array()))
	for _, item := range arr.Array() {
		if !item.IsObject() {
			continue
		}
		if m, ok := item.Value().(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out, nil
}

type resourceClient struct {
	client  *Client
	path    string
	dataKey string
}

func (r *resourceClient) List(ctx context.Context, page, size int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if size > 0 {
		q.Set("limit", strconv.Itoa(size))
	}

	op := "list " + r.path
	body, err := r.client.call(ctx, op, apiutil.Endpoint{Method: http.MethodGet, Path: r.path, Query: q})
	if err != nil {
		return nil, err
	}
	recs, err := records(body, r.dataKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pages := int(body.Get("pagination.pages").Int())
	if pages < 1 {
		pages = 1
	}
	return &Page{
		Records: recs,
		Page:    page,
		Pages:   pages,
		Total:   int(body.Get("pagination.total").Int()),
	}, nil
}

func (r *resourceClient) Update(ctx context.Context, id string, fields map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("update %s: id is required", r.path)
	}
	_, err := r.client.call(ctx, "update "+r.path, apiutil.Endpoint{
		Method: http.MethodPut,
		Path:   r.path + "/" + url.PathEscape(id),
		Body:   fields,
	})
	return err
}

func (r *resourceClient) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("delete %s: id is required", r.path)
	}
	_, err := r.client.call(ctx, "delete "+r.path, apiutil.Endpoint{
		Method: http.MethodDelete,
		Path:   r.path + "/" + url.PathEscape(id),
	})
	return err
}

type dashboardClient struct {
	client *Client
}

// Stats accepts both {"stats": {...}} and a bare stats object.
func (d *dashboardClient) Stats(ctx context.Context) (Record, error) {
	body, err := d.client.call(ctx, "dashboard stats", apiutil.Endpoint{Method: http.MethodGet, Path: "dashboard/stats"})
	if err != nil {
		return nil, err
	}
	stats := body.Get("stats")
	if !stats.IsObject() {
		stats = body
	}
	m, ok := stats.Value().(map[string]any)
	if !ok {
		return Record{}, nil
	}
	rec := Record(m)
	delete(rec, "success")
	return rec, nil
}

// RecentActivity accepts both {"activities": [...]} and a bare list.
func (d *dashboardClient) RecentActivity(ctx context.Context) ([]Record, error) {
	body, err := d.client.call(ctx, "dashboard activity", apiutil.Endpoint{Method: http.MethodGet, Path: "dashboard/activity"})
	if err != nil {
		return nil, err
	}
	if body.IsArray() {
		return records(body, "")
	}
	recs, err := records(body, "activities")
	if err != nil {
		return nil, fmt.Errorf("dashboard activity: %w", err)
	}
	return recs, nil
}
