package handlers

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/logging"
	"github.com/you/studiosvc/internal/mocks"
	"github.com/you/studiosvc/internal/services"
)

type contentFixture struct {
	portfolio *mocks.MockPortfolioRepository
	blog      *mocks.MockBlogRepository
	bookings  *mocks.MockBookingRepository
	inquiries *mocks.MockInquiryRepository
	challenge *mocks.MockChallengeVerifier
	notifier  *mocks.MockStudioNotifier
}

func newContentFixture() *contentFixture {
	return &contentFixture{
		portfolio: mocks.NewMockPortfolioRepository(),
		blog:      mocks.NewMockBlogRepository(),
		bookings:  mocks.NewMockBookingRepository(),
		inquiries: mocks.NewMockInquiryRepository(),
		challenge: mocks.NewMockChallengeVerifier(),
		notifier:  mocks.NewMockStudioNotifier(),
	}
}

func (f *contentFixture) router(p *domain.Principal) *gin.Engine {
	audit := mocks.NewMockAuditLogger()
	content := NewContentHandlers(
		services.NewPortfolioService(f.portfolio, audit),
		services.NewBlogService(f.blog, audit),
		logging.Nop(),
	)
	subs := NewSubmissionHandlers(
		services.NewBookingService(f.bookings, f.challenge, f.notifier, audit),
		services.NewInquiryService(f.inquiries, f.challenge, f.notifier, audit),
		logging.Nop(),
	)
	dash := NewDashboardHandlers(
		services.NewDashboardService(mocks.NewMockUserRepository(), f.portfolio, f.blog, f.bookings, f.inquiries),
		logging.Nop(),
	)

	r := newTestEngine(p)
	r.GET("/api/public/portfolio", content.PublicPortfolio)
	r.GET("/api/public/blog", content.PublicBlog)
	r.GET("/api/public/blog/:slug", content.PublicPost)
	r.POST("/api/public/bookings", subs.SubmitBooking)
	r.POST("/api/public/inquiries", subs.SubmitInquiry)
	r.GET("/api/admin/portfolio", content.ListPortfolio)
	r.POST("/api/admin/portfolio", content.CreatePortfolio)
	r.PUT("/api/admin/portfolio/:id", content.UpdatePortfolio)
	r.DELETE("/api/admin/portfolio/:id", content.DeletePortfolio)
	r.POST("/api/admin/blog", content.CreatePost)
	r.DELETE("/api/admin/blog/:id", content.DeletePost)
	r.PATCH("/api/admin/bookings/:id/status", subs.UpdateBookingStatus)
	r.DELETE("/api/admin/bookings/:id", subs.DeleteBooking)
	r.PATCH("/api/admin/inquiries/:id/status", subs.UpdateInquiryStatus)
	r.GET("/api/admin/dashboard/stats", dash.Stats)
	r.GET("/api/admin/dashboard/recent-bookings", dash.RecentBookings)
	return r
}

func (f *contentFixture) seedPortfolio(id, author uint, published bool, category string) {
	item := &domain.PortfolioItem{ID: id, Title: "Item", Slug: "item", Category: category, ImageURL: "https://cdn.example.com/x.jpg", AuthorID: author}
	if published {
		now := time.Now()
		item.PublishedAt = &now
	}
	f.portfolio.Items[id] = item
}

func TestContentHandlers_PublicPortfolio(t *testing.T) {
	f := newContentFixture()
	f.seedPortfolio(1, 1, true, "weddings")
	f.seedPortfolio(2, 1, false, "weddings")
	f.seedPortfolio(3, 1, true, "corporate")

	w := doJSON(f.router(nil), http.MethodGet, "/api/public/portfolio", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)

	w = doJSON(f.router(nil), http.MethodGet, "/api/public/portfolio?category=weddings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 1)
}

func TestContentHandlers_CreatePortfolio(t *testing.T) {
	valid := domain.PortfolioInput{Title: "Beach Wedding", Category: "weddings", ImageURL: "https://cdn.example.com/b.jpg"}

	tests := []struct {
		name       string
		actor      *domain.Principal
		body       any
		wantStatus int
	}{
		{name: "editor creates", actor: principal(2, domain.RoleEditor), body: valid, wantStatus: http.StatusCreated},
		{name: "anonymous", actor: nil, body: valid, wantStatus: http.StatusUnauthorized},
		{name: "viewer", actor: principal(3, domain.RoleViewer), body: valid, wantStatus: http.StatusForbidden},
		{name: "missing title", actor: principal(2, domain.RoleEditor), body: domain.PortfolioInput{Category: "x", ImageURL: "y"}, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newContentFixture()
			w := doJSON(f.router(tt.actor), http.MethodPost, "/api/admin/portfolio", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus == http.StatusCreated {
				data := dataOf(t, w)
				assert.Equal(t, "beach-wedding", data["slug"])
				assert.Equal(t, float64(2), data["authorId"])
			} else {
				assert.Empty(t, f.portfolio.Items)
			}
		})
	}
}

func TestContentHandlers_PortfolioOwnership(t *testing.T) {
	f := newContentFixture()
	f.seedPortfolio(1, 10, false, "weddings")

	w := doJSON(f.router(principal(11, domain.RoleEditor)), http.MethodDelete, "/api/admin/portfolio/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	published := true
	w = doJSON(f.router(principal(10, domain.RoleEditor)), http.MethodPut, "/api/admin/portfolio/1", domain.PortfolioInput{Published: &published})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, dataOf(t, w)["publishedAt"])

	w = doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodDelete, "/api/admin/portfolio/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodDelete, "/api/admin/portfolio/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContentHandlers_InvalidID(t *testing.T) {
	f := newContentFixture()
	for _, path := range []string{"/api/admin/portfolio/abc", "/api/admin/portfolio/0", "/api/admin/blog/-1"} {
		w := doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
}

func TestContentHandlers_Blog(t *testing.T) {
	f := newContentFixture()

	w := doJSON(f.router(principal(2, domain.RoleEditor)), http.MethodPost, "/api/admin/blog", domain.BlogInput{Title: "Draft Post", Content: "body"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(f.router(nil), http.MethodGet, "/api/public/blog/draft-post", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(f.router(nil), http.MethodGet, "/api/public/blog", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["data"])
}

func TestSubmissionHandlers_SubmitBooking(t *testing.T) {
	booking := map[string]any{
		"clientName":     "Jane Client",
		"clientEmail":    "Jane@Example.com",
		"service":        "Photography",
		"eventType":      "Wedding",
		"challengeToken": "valid",
	}

	t.Run("accepted", func(t *testing.T) {
		f := newContentFixture()
		w := doJSON(f.router(nil), http.MethodPost, "/api/public/bookings", booking)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "PENDING", dataOf(t, w)["status"])
		assert.Equal(t, []string{services.ActionBooking}, f.challenge.Actions)
		assert.Len(t, f.notifier.Bookings, 1)
	})

	t.Run("challenge failed", func(t *testing.T) {
		f := newContentFixture()
		body := map[string]any{}
		for k, v := range booking {
			body[k] = v
		}
		body["challengeToken"] = ""
		w := doJSON(f.router(nil), http.MethodPost, "/api/public/bookings", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MsgChallengeFailed, decode(t, w)["error"])
		assert.Empty(t, f.bookings.Bookings)
	})
}

func TestSubmissionHandlers_Inquiry(t *testing.T) {
	f := newContentFixture()
	w := doJSON(f.router(nil), http.MethodPost, "/api/public/inquiries", map[string]any{
		"name": "Sam", "email": "sam@example.com", "subject": "Quote", "message": "Hello", "challengeToken": "valid",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := dataOf(t, w)["id"].(float64)

	w = doJSON(f.router(principal(2, domain.RoleEditor)), http.MethodPatch, "/api/admin/inquiries/"+formatID(id)+"/status", StatusRequest{Status: "read"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "READ", dataOf(t, w)["status"])
}

func TestSubmissionHandlers_BookingStatusAndDelete(t *testing.T) {
	f := newContentFixture()
	require.NoError(t, f.bookings.Create(context.Background(), &domain.Booking{ClientName: "A", ClientEmail: "a@example.com"}))

	w := doJSON(f.router(principal(2, domain.RoleEditor)), http.MethodPatch, "/api/admin/bookings/1/status", StatusRequest{Status: "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(f.router(principal(2, domain.RoleEditor)), http.MethodPatch, "/api/admin/bookings/1/status", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(f.router(principal(2, domain.RoleEditor)), http.MethodPatch, "/api/admin/bookings/1/status", StatusRequest{Status: "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "CONFIRMED", dataOf(t, w)["status"])

	w = doJSON(f.router(principal(2, domain.RoleEditor)), http.MethodDelete, "/api/admin/bookings/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodDelete, "/api/admin/bookings/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDashboardHandlers(t *testing.T) {
	f := newContentFixture()
	for i := 0; i < 7; i++ {
		require.NoError(t, f.bookings.Create(context.Background(), &domain.Booking{ClientName: "C", ClientEmail: "c@example.com"}))
	}

	w := doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodGet, "/api/admin/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(7), dataOf(t, w)["totalBookings"])

	w = doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodGet, "/api/admin/dashboard/recent-bookings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], services.DefaultRecentBookings)

	w = doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodGet, "/api/admin/dashboard/recent-bookings?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)

	w = doJSON(f.router(principal(1, domain.RoleAdmin)), http.MethodGet, "/api/admin/dashboard/recent-bookings?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(f.router(principal(3, domain.RoleViewer)), http.MethodGet, "/api/admin/dashboard/stats", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func formatID(id float64) string {
	return strconv.FormatUint(uint64(id), 10)
}
