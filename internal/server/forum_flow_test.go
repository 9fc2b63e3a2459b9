package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"quorum/internal/config"
	"quorum/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupForumTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Reply{}); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}

	cfg := &config.Config{
		JWTSecret:     "test_secret_test_secret_test_secret",
		JWTExpireDays: 30,
		Env:           "test",
	}

	s, err := NewServerWithDeps(cfg, db, nil)
	if err != nil {
		t.Fatalf("build server: %v", err)
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return app, db
}

type testClient struct {
	t      *testing.T
	app    *fiber.App
	cookie *http.Cookie
}

func (c *testClient) do(method, path string, body any) (*http.Response, map[string]any) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	resp, err := c.app.Test(req, -1)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			c.cookie = cookie
		}
	}

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestForumFlow(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	app, db := setupForumTestApp(t)

	alice := &testClient{t: t, app: app}
	bob := &testClient{t: t, app: app}

	// Register both users; each receives a session cookie.
	resp, _ := alice.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "Password123!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register alice: expected 201, got %d", resp.StatusCode)
	}
	if alice.cookie == nil {
		t.Fatal("register alice: no session cookie issued")
	}

	resp, _ = bob.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "bob", "email": "bob@example.com", "password": "Password123!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register bob: expected 201, got %d", resp.StatusCode)
	}

	// Re-registering alice's email is rejected.
	anon := &testClient{t: t, app: app}
	resp, body := anon.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice2", "email": "alice@example.com", "password": "Password123!",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", resp.StatusCode)
	}

	// Wrong password never yields a session.
	resp, _ = anon.do(http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", resp.StatusCode)
	}
	if anon.cookie != nil {
		t.Fatal("bad login: session cookie should not be issued")
	}

	// Creating a post requires authentication.
	resp, _ = anon.do(http.MethodPost, "/api/posts/", map[string]string{
		"title": "nope", "content": "nope", "category": "React",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous create post: expected 401, got %d", resp.StatusCode)
	}

	// Writes accept only the canonical category spelling.
	resp, _ = alice.do(http.MethodPost, "/api/posts/", map[string]string{
		"title": "Hooks vs classes", "content": "Which do you prefer?", "category": "react",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("lowercase category: expected 400, got %d", resp.StatusCode)
	}

	resp, body = alice.do(http.MethodPost, "/api/posts/", map[string]string{
		"title": "Hooks vs classes", "content": "Which do you prefer?", "category": "React",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	if body["category"] != "React" {
		t.Fatalf("create post: expected category React, got %v", body["category"])
	}
	postID := uint(body["id"].(float64))

	// An unknown category is rejected.
	resp, _ = alice.do(http.MethodPost, "/api/posts/", map[string]string{
		"title": "title", "content": "content", "category": "Rust",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown category: expected 400, got %d", resp.StatusCode)
	}

	// Bob replies on Alice's post.
	resp, body = bob.do(http.MethodPost, fmt.Sprintf("/api/posts/%d/replies", postID), map[string]string{
		"content": "Hooks, definitely.",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create reply: expected 201, got %d (%v)", resp.StatusCode, body)
	}
	replyID := uint(body["id"].(float64))

	// The post detail includes the reply with its author.
	resp, body = anon.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get post: expected 200, got %d", resp.StatusCode)
	}
	replies, ok := body["replies"].([]any)
	if !ok || len(replies) != 1 {
		t.Fatalf("get post: expected 1 reply, got %v", body["replies"])
	}

	// Bob cannot edit Alice's post.
	resp, _ = bob.do(http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), map[string]string{
		"title": "hijacked",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign post update: expected 403, got %d", resp.StatusCode)
	}

	// Alice cannot edit Bob's reply.
	resp, _ = alice.do(http.MethodPut, fmt.Sprintf("/api/posts/%d/replies/%d", postID, replyID), map[string]string{
		"content": "hijacked",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign reply update: expected 403, got %d", resp.StatusCode)
	}

	// A reply addressed through the wrong post is not found.
	resp, _ = bob.do(http.MethodPut, fmt.Sprintf("/api/posts/%d/replies/%d", postID+1, replyID), map[string]string{
		"content": "misrouted",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("misrouted reply update: expected 404, got %d", resp.StatusCode)
	}

	// Search finds the post case-insensitively; a blank query returns nothing.
	req := httptest.NewRequest(http.MethodGet, "/api/posts/search?q=HOOKS", nil)
	searchResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var results []map[string]any
	if err := json.NewDecoder(searchResp.Body).Decode(&results); err != nil {
		t.Fatalf("decode search results: %v", err)
	}
	_ = searchResp.Body.Close()
	if len(results) != 1 {
		t.Fatalf("search: expected 1 result, got %d", len(results))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/posts/search?q=", nil)
	searchResp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("blank search: %v", err)
	}
	results = nil
	if err := json.NewDecoder(searchResp.Body).Decode(&results); err != nil {
		t.Fatalf("decode blank search results: %v", err)
	}
	_ = searchResp.Body.Close()
	if searchResp.StatusCode != http.StatusOK || len(results) != 0 {
		t.Fatalf("blank search: expected empty 200, got %d with %d results", searchResp.StatusCode, len(results))
	}

	// Category browsing: known category lists the post, unknown is 404.
	resp, _ = anon.do(http.MethodGet, "/api/posts/category/react", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("category list: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = anon.do(http.MethodGet, "/api/posts/category/Rust", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown category list: expected 404, got %d", resp.StatusCode)
	}

	// Public profile lookup by username.
	resp, body = anon.do(http.MethodGet, "/api/users/username/alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("public profile: expected 200, got %d", resp.StatusCode)
	}
	if body["username"] != "alice" {
		t.Fatalf("public profile: expected alice, got %v", body["username"])
	}
	resp, _ = anon.do(http.MethodGet, "/api/users/username/nobody", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown profile: expected 404, got %d", resp.StatusCode)
	}

	// Bob cannot delete Alice's post.
	resp, _ = bob.do(http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign post delete: expected 403, got %d", resp.StatusCode)
	}

	// Alice deletes her post; its replies go with it.
	resp, _ = alice.do(http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post delete: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = anon.do(http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted post fetch: expected 404, got %d", resp.StatusCode)
	}

	var replyCount int64
	if err := db.Model(&models.Reply{}).Where("post_id = ?", postID).Count(&replyCount).Error; err != nil {
		t.Fatalf("count replies: %v", err)
	}
	if replyCount != 0 {
		t.Fatalf("expected replies removed with post, found %d", replyCount)
	}

	// Logout clears the session; the old cookie object is now stale but the
	// server-issued replacement is empty and expired.
	resp, _ = alice.do(http.MethodPost, "/api/auth/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", resp.StatusCode)
	}
}

func TestProfileFlow(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	app, _ := setupForumTestApp(t)
	user := &testClient{t: t, app: app}

	resp, _ := user.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "Password123!",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp, body := user.do(http.MethodGet, "/api/users/profile", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get profile: expected 200, got %d", resp.StatusCode)
	}
	if body["email"] != "carol@example.com" {
		t.Fatalf("get profile: expected own email, got %v", body["email"])
	}

	resp, body = user.do(http.MethodPut, "/api/users/profile", map[string]string{
		"bio": "Gopher since 2020",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update profile: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	if body["bio"] != "Gopher since 2020" {
		t.Fatalf("update profile: expected bio persisted, got %v", body["bio"])
	}

	// Posts authored by the user show up under my-posts.
	resp, _ = user.do(http.MethodPost, "/api/posts/", map[string]string{
		"title": "Channels", "content": "Share patterns", "category": "Node.js",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create post: expected 201, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/users/my-posts", nil)
	req.AddCookie(user.cookie)
	listResp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("my-posts: %v", err)
	}
	var posts []map[string]any
	if err := json.NewDecoder(listResp.Body).Decode(&posts); err != nil {
		t.Fatalf("decode my-posts: %v", err)
	}
	_ = listResp.Body.Close()
	if len(posts) != 1 || posts[0]["title"] != "Channels" {
		t.Fatalf("my-posts: expected the created post, got %v", posts)
	}
}

func TestListPostsWithoutLimitReturnsAll(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	app, db := setupForumTestApp(t)

	author := models.User{Username: "prolific", Email: "prolific@example.com", Password: "x"}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("create author: %v", err)
	}
	for i := 0; i < 25; i++ {
		post := models.Post{
			Title:    fmt.Sprintf("Post %d", i),
			Content:  "content",
			Category: "React",
			UserID:   author.ID,
		}
		if err := db.Create(&post).Error; err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
	}

	fetch := func(path string) []map[string]any {
		t.Helper()
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
		var posts []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		return posts
	}

	// No limit means the whole listing, not a default page.
	if got := len(fetch("/api/posts/")); got != 25 {
		t.Fatalf("list without limit: expected all 25 posts, got %d", got)
	}
	if got := len(fetch("/api/posts/category/React")); got != 25 {
		t.Fatalf("category without limit: expected all 25 posts, got %d", got)
	}
	if got := len(fetch("/api/posts/search?q=post")); got != 25 {
		t.Fatalf("search without limit: expected all 25 posts, got %d", got)
	}

	// A supplied limit caps the result.
	if got := len(fetch("/api/posts/?limit=10")); got != 10 {
		t.Fatalf("list with limit=10: expected 10 posts, got %d", got)
	}
}
