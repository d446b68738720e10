package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/studiosvc/internal/config"
	"github.com/you/studiosvc/internal/logging"
)

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	siteverify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":` + boolJSON(r.PostForm.Get("response") == "valid") + `,"score":0.9}`))
	}))
	t.Cleanup(siteverify.Close)

	cfg, err := config.Resolve(&config.ConfigFile{
		Database:  config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"},
		Redis:     config.RedisConfig{Addr: mr.Addr()},
		Session:   config.SessionConfig{Secret: "0123456789abcdef0123456789abcdef"},
		Challenge: config.ChallengeConfig{Secret: "test", VerifyURL: siteverify.URL},
	})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	c, err := NewContainer(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func boolJSON(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func call(t *testing.T, h http.Handler, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestContainer_SeedsPolicies(t *testing.T) {
	c := newTestContainer(t)

	ok, err := c.PolicySvc.CheckPermission("EDITOR", "/admin/blog", "GET")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.PolicySvc.CheckPermission("EDITOR", "/api/admin/policies", "GET")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.PolicySvc.CheckPermission("VIEWER", "/admin", "GET")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestContainer_EndToEnd(t *testing.T) {
	c := newTestContainer(t)
	h := c.Router()

	w := call(t, h, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Owner", "email": "owner@example.com", "password": "s3cret-pass",
		"confirmPassword": "s3cret-pass", "challengeToken": "valid",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "owner@example.com", "password": "wrong-pass", "challengeToken": "valid",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, h, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "owner@example.com", "password": "s3cret-pass", "challengeToken": "valid",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == c.Config.CookieName {
			session = ck
		}
	}
	require.NotNil(t, session)

	w = call(t, h, http.MethodGet, "/api/admin/me", nil, session)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)

	published := true
	w = call(t, h, http.MethodPost, "/api/admin/portfolio", map[string]any{
		"title": "Harbor Wedding", "category": "weddings", "imageUrl": "https://cdn.example.com/h.jpg", "published": published,
	}, session)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(t, h, http.MethodGet, "/api/public/portfolio", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "harbor-wedding")

	w = call(t, h, http.MethodPost, "/api/auth/logout", nil, session)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, h, http.MethodGet, "/api/admin/me", nil, session)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(t, h, http.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestRun_StopsOnCancel(t *testing.T) {
	c := newTestContainer(t)
	cfg := *c.Config
	cfg.Port = "0"
	cfg.ShutdownTimeout = time.Second

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, &cfg, logging.Nop()) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
