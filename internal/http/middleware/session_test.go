package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
	"github.com/you/studiosvc/internal/mocks"
)

type prefixMatcher string

func (p prefixMatcher) IsProtected(path string) bool { return strings.HasPrefix(path, string(p)) }

type sessionFixture struct {
	tokens      *mocks.MockSessionTokenService
	revocations *mocks.MockSessionRevocationRepository
	users       *mocks.MockAuthService
}

func newSessionFixture() *sessionFixture {
	f := &sessionFixture{
		tokens:      mocks.NewMockSessionTokenService(),
		revocations: mocks.NewMockSessionRevocationRepository(),
		users:       mocks.NewMockAuthService(),
	}
	f.tokens.ReadFunc = func(raw string) (*domain.Principal, error) {
		if raw != "good" {
			return nil, domain.ErrTokenInvalid
		}
		return &domain.Principal{UserID: 5, Email: "ed@example.com", Role: domain.RoleEditor, SessionID: "sess-5"}, nil
	}
	return f
}

// serve runs one request through Load and returns the principal the
// handler saw.
func (f *sessionFixture) serve(t *testing.T, revalidate bool, path string, setup func(*http.Request)) *domain.Principal {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mw := NewSessionMW(f.tokens, f.revocations, f.users, prefixMatcher("/admin"),
		SessionConfig{CookieName: "session_token", RevalidateRole: revalidate}, logging.Nop())

	var seen *domain.Principal
	var client *domain.ClientContext
	r := gin.New()
	r.Use(mw.Load())
	r.GET("/*any", func(c *gin.Context) {
		seen = PrincipalFrom(c)
		client = domain.ClientContextFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "test-agent")
	if setup != nil {
		setup(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, client)
	assert.Equal(t, "test-agent", client.UserAgent)
	return seen
}

func withCookie(value string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "session_token", Value: value}) }
}

func withBearer(value string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+value) }
}

func TestSessionMW_Resolve(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*http.Request)
		want  bool
	}{
		{name: "no token", setup: nil, want: false},
		{name: "cookie", setup: withCookie("good"), want: true},
		{name: "bearer", setup: withBearer("good"), want: true},
		{name: "invalid token", setup: withCookie("forged"), want: false},
		{name: "cookie wins over bearer", setup: func(r *http.Request) {
			withCookie("forged")(r)
			withBearer("good")(r)
		}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newSessionFixture().serve(t, false, "/admin", tt.setup)
			if !tt.want {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, uint(5), p.UserID)
		})
	}
}

func TestSessionMW_Revocation(t *testing.T) {
	t.Run("revoked session is anonymous", func(t *testing.T) {
		f := newSessionFixture()
		require.NoError(t, f.revocations.Revoke(context.Background(), "sess-5", time.Now().Add(time.Hour)))
		assert.Nil(t, f.serve(t, false, "/admin", withCookie("good")))
	})

	t.Run("lookup failure is anonymous", func(t *testing.T) {
		f := newSessionFixture()
		f.revocations.IsRevokedFunc = func(ctx context.Context, id string) (bool, error) {
			return false, errors.New("redis down")
		}
		assert.Nil(t, f.serve(t, false, "/admin", withCookie("good")))
	})
}

func TestSessionMW_RevalidateRole(t *testing.T) {
	t.Run("demoted role replaces snapshot on protected path", func(t *testing.T) {
		f := newSessionFixture()
		f.users.CurrentUserFunc = func(ctx context.Context, p *domain.Principal) (*domain.User, error) {
			return &domain.User{ID: p.UserID, Role: domain.RoleViewer}, nil
		}
		p := f.serve(t, true, "/admin/blog", withCookie("good"))
		require.NotNil(t, p)
		assert.Equal(t, domain.RoleViewer, p.Role)
	})

	t.Run("public path keeps snapshot", func(t *testing.T) {
		f := newSessionFixture()
		called := false
		f.users.CurrentUserFunc = func(ctx context.Context, p *domain.Principal) (*domain.User, error) {
			called = true
			return &domain.User{ID: p.UserID, Role: domain.RoleViewer}, nil
		}
		p := f.serve(t, true, "/portfolio", withCookie("good"))
		require.NotNil(t, p)
		assert.Equal(t, domain.RoleEditor, p.Role)
		assert.False(t, called)
	})

	t.Run("deleted account is anonymous", func(t *testing.T) {
		f := newSessionFixture()
		f.users.CurrentUserFunc = func(ctx context.Context, p *domain.Principal) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		}
		assert.Nil(t, f.serve(t, true, "/admin", withCookie("good")))
	})

	t.Run("disabled keeps snapshot", func(t *testing.T) {
		f := newSessionFixture()
		f.users.CurrentUserFunc = func(ctx context.Context, p *domain.Principal) (*domain.User, error) {
			t.Fatal("store consulted with revalidation off")
			return nil, nil
		}
		p := f.serve(t, false, "/admin", withCookie("good"))
		require.NotNil(t, p)
		assert.Equal(t, domain.RoleEditor, p.Role)
	})
}
