package client

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/forgekit/ghclient/pkg/pagination"
)

// Request describes a single API call. It is assembled once by the caller
// (or a resource service) and never mutated by the pipeline; the underlying
// *http.Request is rebuilt from it on every retry attempt.
type Request struct {
	// Method is the HTTP method (GET, POST, PATCH, PUT, DELETE).
	Method string

	// Path is the endpoint path relative to the base URL, with path
	// parameters already expanded (e.g. "/repos/octocat/hello/pulls").
	Path string

	// Query holds the query parameters.
	Query url.Values

	// Body is marshaled to JSON when non-nil.
	Body any

	// Header holds per-request header overrides applied after the defaults.
	Header map[string]string

	// Timeout overrides the client's per-attempt timeout when > 0.
	Timeout time.Duration
}

// NewRequest creates a request for the given method and path.
func NewRequest(method, path string) *Request {
	return &Request{
		Method: method,
		Path:   path,
		Query:  url.Values{},
		Header: map[string]string{},
	}
}

// SetQuery sets a string query parameter.
func (r *Request) SetQuery(key, value string) *Request {
	r.Query.Set(key, value)
	return r
}

// SetQueryInt sets an integer query parameter.
func (r *Request) SetQueryInt(key string, value int) *Request {
	r.Query.Set(key, strconv.Itoa(value))
	return r
}

// SetQueryBool sets a boolean query parameter.
func (r *Request) SetQueryBool(key string, value bool) *Request {
	r.Query.Set(key, strconv.FormatBool(value))
	return r
}

// SetHeader sets a per-request header override.
func (r *Request) SetHeader(key, value string) *Request {
	r.Header[key] = value
	return r
}

// Response is the decoded result of a successful API call. It carries the
// raw body; callers pick the representation via JSON or Text.
type Response struct {
	// StatusCode is the HTTP status code (always 2xx, or 304 served from cache).
	StatusCode int

	// Header holds the response headers.
	Header http.Header

	// Body is the raw response body. Empty for bodiless responses.
	Body []byte
}

// JSON unmarshals the response body into v. An empty body leaves v
// untouched and returns nil, matching endpoints that reply 204.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// IsJSON reports whether the response declared a JSON content type.
func (r *Response) IsJSON() bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// Links parses the response's Link header into a rel→URL map. Collection
// endpoints carry next/prev/first/last relations here.
func (r *Response) Links() map[string]string {
	return pagination.ParseLinks(r.Header.Get("Link"))
}

// LastPage returns the page number of the Link header's "last" relation,
// or 0 when the response carries none. Useful for sizing progress output
// before draining a pager.
func (r *Response) LastPage() int {
	return pagination.PageLinks(r.Header.Get("Link"))["last"]
}
