// Package adminclient talks to the storefront admin API on behalf of
// operator tooling.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/pagination"
	"github.com/angelmondragon/storefront-admin/pkg/types"
)

const defaultTimeout = 30 * time.Second

// Meta is the paging block of list responses.
type Meta = pagination.Meta

type Client struct {
	base   *url.URL
	http   *http.Client
	tokens TokenStore
}

type Option func(*Client)

// WithHTTPClient replaces the default client with a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenStore replaces the in-memory store.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) {
		if store != nil {
			c.tokens = store
		}
	}
}

// New builds a client for the backend at baseURL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: defaultTimeout},
		tokens: NewMemoryTokenStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL is the backend origin the client was built for.
func (c *Client) BaseURL() string { return c.base.String() }

// Tokens exposes the store the client reads its bearer from.
func (c *Client) Tokens() TokenStore { return c.tokens }

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload == nil {
		return req, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("encode %s body: %w", path, err)
	}
	req.body = bytes.NewReader(raw)
	req.contentType = "application/json"
	return req, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends req and decodes a 2xx body into out. Failures come back as
// *pkgerrors.Error carrying the API code; a 401 also clears the stored
// token.
func (c *Client) do(ctx context.Context, req request, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path, req.query), req.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	token, err := c.tokens.Load()
	if err != nil {
		return err
	}
	if token.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token.AccessToken)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.Clear(); err != nil {
			return err
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	var env types.ErrorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		return pkgerrors.New(codeForStatus(resp.StatusCode), http.StatusText(resp.StatusCode))
	}
	code := pkgerrors.Code(env.Error.Code)
	if fields := fieldMessages(env.Error.Details); len(fields) > 0 {
		return pkgerrors.New(code, joinFields(fields)).WithDetails(fields)
	}
	return pkgerrors.New(code, env.Error.Message).WithDetails(env.Error.Details)
}

func fieldMessages(details any) map[string]string {
	m, ok := details.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// joinFields renders a validation map as one message, ordered by field.
func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return pkgerrors.CodeNotFound
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return pkgerrors.CodeValidation
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusRequestEntityTooLarge:
		return pkgerrors.CodeTooLarge
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return pkgerrors.CodeDependency
	default:
		return pkgerrors.CodeInternal
	}
}

func listQuery(opts ListOptions) url.Values {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", fmt.Sprint(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", fmt.Sprint(opts.PerPage))
	}
	if kw := strings.TrimSpace(opts.Keyword); kw != "" {
		q.Set("keyword", kw)
	}
	for k, v := range opts.Filters {
		q.Set(k, v)
	}
	return q
}

// ListOptions are the paging and search parameters of an index call.
type ListOptions struct {
	Page    int
	PerPage int
	Keyword string
	Filters map[string]string
}

type dataEnvelope[T any] struct {
	Data T `json:"data"`
}

type pageEnvelope[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}
