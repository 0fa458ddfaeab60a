// Package servertest starts the full API on an in-memory SQLite database for
// integration tests.
package servertest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/EmpoweredVote/bookshelf/internal/config"
	"github.com/EmpoweredVote/bookshelf/internal/db"
	"github.com/EmpoweredVote/bookshelf/internal/logging"
	"github.com/EmpoweredVote/bookshelf/internal/server"
	"github.com/EmpoweredVote/bookshelf/internal/users"
)

const TestPassword = "TestPass123!"

// Env is one running API plus its database.
type Env struct {
	Server *httptest.Server
	DB     *gorm.DB
	Config *config.Config
}

// New starts a fresh server. Everything is torn down when t finishes.
func New(t testing.TB) *Env {
	t.Helper()

	users.HashCost = bcrypt.MinCost

	d, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := server.Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.JWTSecret = "integration-secret"
	cfg.SessionTTL = time.Hour
	cfg.AuthRateLimit = 0

	srv := httptest.NewServer(server.NewRouter(cfg, d, logging.Discard(), server.Options{DisableRequestLog: true}))
	t.Cleanup(func() {
		srv.Close()
		_ = db.Close(d)
	})

	return &Env{Server: srv, DB: d, Config: cfg}
}

// URL joins path onto the server base URL.
func (e *Env) URL(path string) string {
	return e.Server.URL + path
}

// NewClientWithJar returns a client that carries cookies between requests.
func NewClientWithJar(t testing.TB) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

// UniqueUsername returns a fresh username with the given prefix.
func UniqueUsername(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.New().String()[:8])
}

// Do sends a JSON request and returns the status and raw body.
func (e *Env) Do(t testing.TB, client *http.Client, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.URL(path), rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

// Register creates a user through the API, leaving the session cookie in the
// client's jar.
func (e *Env) Register(t testing.TB, client *http.Client, username string) users.User {
	t.Helper()

	status, raw := e.Do(t, client, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": TestPassword,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d; body: %s", username, status, raw)
	}

	var out struct {
		User users.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode register body: %v", err)
	}
	return out.User
}

// ErrorMessage pulls the "error" field out of a JSON error body.
func ErrorMessage(t testing.TB, raw []byte) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("invalid JSON body: %s", raw)
	}
	msg, _ := body["error"].(string)
	return msg
}
