package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophfeed/internal/client/models"
	"github.com/dmitrijs2005/gophfeed/internal/common"
	"github.com/dmitrijs2005/gophfeed/internal/netx"
)

// HTTPClient implements Client over the REST API and the /socket endpoint.
type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient returns a client for the server at baseURL, e.g.
// "http://127.0.0.1:8080".
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *HTTPClient) bearer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do sends a request and decodes a 2xx JSON response into out.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if tok := c.bearer(); tok != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) Signup(ctx context.Context, email, name, password string) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	err := c.doJSON(ctx, http.MethodPut, "/auth/signup",
		map[string]string{"email": email, "name": name, "password": password}, &out)
	return out.UserID, err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, string, error) {
	var out struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login",
		map[string]string{"email": email, "password": password}, &out); err != nil {
		return "", "", err
	}
	return out.Token, out.UserID, nil
}

func (c *HTTPClient) Status(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/status", nil, "", &out)
	return out.Status, err
}

func (c *HTTPClient) SetStatus(ctx context.Context, status string) error {
	return c.doJSON(ctx, http.MethodPatch, "/auth/status", map[string]string{"status": status}, nil)
}

func (c *HTTPClient) Posts(ctx context.Context, page int) (*models.FeedPage, error) {
	var out models.FeedPage
	if err := c.do(ctx, http.MethodGet, "/feed/posts?page="+strconv.Itoa(page), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Post(ctx context.Context, id string) (*models.Post, error) {
	var out struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodGet, "/feed/post/"+url.PathEscape(id), nil, "", &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *HTTPClient) sendPost(ctx context.Context, method, path string, d models.PostDraft) (*models.Post, error) {
	fields := map[string]string{"title": d.Title, "content": d.Content}
	if d.ImageURL != "" {
		fields["image"] = d.ImageURL
	}
	body, ct, err := netx.NewMultipartBody(fields, "image", d.ImagePath)
	if err != nil {
		return nil, err
	}

	var out struct {
		Post models.Post `json:"post"`
	}
	if err := c.do(ctx, method, path, body, ct, &out); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

func (c *HTTPClient) CreatePost(ctx context.Context, d models.PostDraft) (*models.Post, error) {
	return c.sendPost(ctx, http.MethodPost, "/feed/post", d)
}

func (c *HTTPClient) UpdatePost(ctx context.Context, id string, d models.PostDraft) (*models.Post, error) {
	return c.sendPost(ctx, http.MethodPut, "/feed/post/"+url.PathEscape(id), d)
}

func (c *HTTPClient) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/feed/post/"+url.PathEscape(id), nil, "", nil)
}

// IsNotFound reports whether err is the server's answer for a missing post.
// The status used for that is configurable server-side, so the message is
// checked as well.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || apiErr.Message == "Could not find post."
}
