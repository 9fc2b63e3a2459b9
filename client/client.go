// Package client is a Go SDK for the Quorum forum API. It wraps the REST
// surface with a cookie-aware HTTP client and provides in-memory stores
// mirroring the session and content state a frontend would keep.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// User is an authenticated account as returned by the auth and profile
// endpoints. Password hashes never cross the wire.
type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicProfile is the anonymous-visible subset of a user.
type PublicProfile struct {
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// Post mirrors the server's post representation.
type Post struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	UserID    uint      `json:"user_id"`
	User      User      `json:"user"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reply mirrors the server's reply representation.
type Reply struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	UserID    uint      `json:"user_id"`
	User      User      `json:"user"`
	PostID    uint      `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate carries optional profile edits. Nil fields are left
// untouched; a non-nil empty Bio clears the bio.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Bio      *string `json:"bio,omitempty"`
}

// PostUpdate carries optional post edits.
type PostUpdate struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}

// Client talks to a Quorum API server. The underlying http.Client carries a
// cookie jar so the session cookie issued on register/login is replayed on
// subsequent requests.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A cookie jar is
// attached if the provided client has none.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:8460").
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.httpc.Jar = jar
	}
	return c, nil
}

// do issues a request and decodes the JSON response into out (when non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var envelope struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Details string `json:"details"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error != "" {
		apiErr.Message = envelope.Error
		apiErr.Code = envelope.Code
		apiErr.Details = envelope.Details
	}
	return apiErr
}

// Register creates an account and establishes a session.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Login establishes a session for an existing account.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout invalidates the current session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// GetProfile fetches the authenticated user's own profile.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies the supplied profile edits.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/api/users/profile", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// MyPosts lists the authenticated user's posts, newest first.
func (c *Client) MyPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "/api/users/my-posts", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPublicProfile fetches the public profile for a username.
func (c *Client) GetPublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	var profile PublicProfile
	if err := c.do(ctx, http.MethodGet, "/api/users/username/"+username, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// CreatePost publishes a new post in one of the fixed categories.
func (c *Client) CreatePost(ctx context.Context, title, content, category string) (*Post, error) {
	var post Post
	err := c.do(ctx, http.MethodPost, "/api/posts/", map[string]string{
		"title":    title,
		"content":  content,
		"category": category,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts fetches the newest posts. limit <= 0 uses the server default.
func (c *Client) ListPosts(ctx context.Context, limit int) ([]Post, error) {
	path := "/api/posts/"
	if limit > 0 {
		path = fmt.Sprintf("/api/posts/?limit=%d", limit)
	}
	var posts []Post
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPostsByCategory fetches posts in one category, newest first.
func (c *Client) ListPostsByCategory(ctx context.Context, category string) ([]Post, error) {
	var posts []Post
	if err := c.do(ctx, http.MethodGet, "/api/posts/category/"+category, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchPosts runs a substring search over titles, content, and categories.
func (c *Client) SearchPosts(ctx context.Context, query string) ([]Post, error) {
	var posts []Post
	path := "/api/posts/search?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches one post with its replies.
func (c *Client) GetPost(ctx context.Context, id uint) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost applies the supplied edits to an owned post.
func (c *Client) UpdatePost(ctx context.Context, id uint, update PostUpdate) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", id), update, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost removes an owned post and its replies.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil)
}

// CreateReply adds a reply to a post.
func (c *Client) CreateReply(ctx context.Context, postID uint, content string) (*Reply, error) {
	var reply Reply
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/replies", postID),
		map[string]string{"content": content}, &reply)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// UpdateReply edits an owned reply on the given post.
func (c *Client) UpdateReply(ctx context.Context, postID, replyID uint, content string) (*Reply, error) {
	var reply Reply
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d/replies/%d", postID, replyID),
		map[string]string{"content": content}, &reply)
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// DeleteReply removes an owned reply from the given post.
func (c *Client) DeleteReply(ctx context.Context, postID, replyID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d/replies/%d", postID, replyID), nil, nil)
}
