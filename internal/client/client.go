package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"
)

// Client talks to the API under BaseURL (for example http://localhost:3001/api).
type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. It should carry a
// cookie jar, otherwise sessions are not kept between calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &e)
		return newAPIError(resp.StatusCode, e.Error)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type userEnvelope struct {
	User User `json:"user"`
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

func (c *Client) Register(ctx context.Context, r Registration) (*User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/register", r, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

func (c *Client) Login(ctx context.Context, cr Credentials) (*User, error) {
	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", cr, &env); err != nil {
		return nil, err
	}
	return &env.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var list []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int64, r Registration) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPut, "/users/"+strconv.FormatInt(id, 10), r, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	list := []Book{}
	if err := c.do(ctx, http.MethodGet, "/books", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetBook(ctx context.Context, id int64) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodGet, "/books/"+strconv.FormatInt(id, 10), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CreateBook(ctx context.Context, in BookInput) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodPost, "/books", in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) UpdateBook(ctx context.Context, id int64, in BookInput) (*Book, error) {
	var b Book
	if err := c.do(ctx, http.MethodPut, "/books/"+strconv.FormatInt(id, 10), in, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/books/"+strconv.FormatInt(id, 10), nil, nil)
}
