package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/studiosvc/domain"
	"github.com/you/studiosvc/internal/mocks"
)

func TestRoleChecks(t *testing.T) {
	tests := []struct {
		name  string
		actor *domain.Principal
		staff error
		admin error
	}{
		{name: "anonymous", actor: nil, staff: domain.ErrUnauthorized, admin: domain.ErrUnauthorized},
		{name: "admin", actor: principal(1, domain.RoleAdmin)},
		{name: "editor", actor: principal(2, domain.RoleEditor), admin: domain.ErrForbidden},
		{name: "viewer", actor: principal(3, domain.RoleViewer), staff: domain.ErrForbidden, admin: domain.ErrForbidden},
		{name: "unknown", actor: principal(4, domain.RoleUnknown), staff: domain.ErrForbidden, admin: domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.staff, requireStaff(tt.actor))
			assert.Equal(t, tt.admin, requireAdmin(tt.actor))
		})
	}
}

func TestPortfolioService(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockPortfolioRepository()
	audit := mocks.NewMockAuditLogger()
	svc := NewPortfolioService(repo, audit)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	editor := principal(2, domain.RoleEditor)
	otherEditor := principal(5, domain.RoleEditor)
	admin := principal(1, domain.RoleAdmin)

	t.Run("viewer cannot create", func(t *testing.T) {
		_, err := svc.Create(ctx, principal(3, domain.RoleViewer), domain.PortfolioInput{Title: "X", Category: "video", ImageURL: "/x.jpg"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Empty(t, repo.Items)
	})

	t.Run("missing category", func(t *testing.T) {
		_, err := svc.Create(ctx, editor, domain.PortfolioInput{Title: "X", ImageURL: "/x.jpg"})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	item, err := svc.Create(ctx, editor, domain.PortfolioInput{
		Title:     "Brand Film: Aurora",
		Category:  "video",
		ImageURL:  "/aurora.jpg",
		Tags:      []string{"film"},
		Published: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "brand-film-aurora", item.Slug)
	assert.Equal(t, uint(2), item.AuthorID)
	require.NotNil(t, item.PublishedAt)
	assert.True(t, fixed.Equal(*item.PublishedAt))

	t.Run("public listing filters by category", func(t *testing.T) {
		items, err := svc.ListPublished(ctx, "video")
		require.NoError(t, err)
		assert.Len(t, items, 1)
		items, err = svc.ListPublished(ctx, "photo")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("another editor cannot touch it", func(t *testing.T) {
		_, err := svc.Update(ctx, otherEditor, item.ID, domain.PortfolioInput{Featured: boolPtr(true)})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.ErrorIs(t, svc.Delete(ctx, otherEditor, item.ID), domain.ErrForbidden)
	})

	t.Run("admin can feature and unpublish", func(t *testing.T) {
		updated, err := svc.Update(ctx, admin, item.ID, domain.PortfolioInput{Featured: boolPtr(true), Published: boolPtr(false)})
		require.NoError(t, err)
		assert.True(t, updated.Featured)
		assert.Nil(t, updated.PublishedAt)
		assert.Equal(t, "Brand Film: Aurora", updated.Title)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, 999, domain.PortfolioInput{})
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})

	require.NoError(t, svc.Delete(ctx, editor, item.ID))
	assert.Empty(t, repo.Items)
	assert.Len(t, audit.Events, 3)
}

func TestBlogService(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockBlogRepository()
	svc := NewBlogService(repo, mocks.NewMockAuditLogger())
	editor := principal(2, domain.RoleEditor)

	draft, err := svc.Create(ctx, editor, domain.BlogInput{Title: "Lighting 101", Content: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "lighting-101", draft.Slug)

	_, err = svc.GetPublished(ctx, "lighting-101")
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)

	published, err := svc.Update(ctx, editor, draft.ID, domain.BlogInput{Published: boolPtr(true)})
	require.NoError(t, err)
	assert.NotNil(t, published.PublishedAt)

	post, err := svc.GetPublished(ctx, "lighting-101")
	require.NoError(t, err)
	assert.Equal(t, draft.ID, post.ID)

	_, err = svc.Create(ctx, editor, domain.BlogInput{Title: "!!!", Content: "Body"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.List(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, svc.Delete(ctx, principal(9, domain.RoleEditor), draft.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, principal(1, domain.RoleAdmin), draft.ID))
}

func TestBookingService_Submit(t *testing.T) {
	budget := 2500.0
	valid := func() domain.BookingRequest {
		return domain.BookingRequest{
			ClientName:     "Ada Lovelace",
			ClientEmail:    "Ada@Example.com",
			Service:        "Wedding film",
			Budget:         &budget,
			ChallengeToken: "valid",
			RemoteIP:       "203.0.113.7",
		}
	}

	tests := []struct {
		name     string
		mutate   func(*domain.BookingRequest)
		wantKind domain.ErrorKind
		wantOK   bool
		checks   int
	}{
		{name: "accepted", wantOK: true, checks: 1},
		{name: "missing name", mutate: func(r *domain.BookingRequest) { r.ClientName = "" }, wantKind: domain.KindValidation},
		{name: "bad email", mutate: func(r *domain.BookingRequest) { r.ClientEmail = "ada" }, wantKind: domain.KindValidation},
		{name: "negative budget", mutate: func(r *domain.BookingRequest) { b := -1.0; r.Budget = &b }, wantKind: domain.KindValidation},
		{name: "challenge failed", mutate: func(r *domain.BookingRequest) { r.ChallengeToken = "" }, wantKind: domain.KindChallengeFailed, checks: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockBookingRepository()
			challenge := mocks.NewMockChallengeVerifier()
			notifier := mocks.NewMockStudioNotifier()
			svc := NewBookingService(repo, challenge, notifier, mocks.NewMockAuditLogger())

			req := valid()
			if tt.mutate != nil {
				tt.mutate(&req)
			}
			b, err := svc.Submit(context.Background(), req)

			assert.Equal(t, tt.checks, challenge.Calls)
			if !tt.wantOK {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, domain.KindOf(err))
				assert.Empty(t, repo.Bookings)
				assert.Empty(t, notifier.Bookings)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.BookingPending, b.Status)
			assert.Equal(t, "ada@example.com", b.ClientEmail)
			assert.Equal(t, []string{ActionBooking}, challenge.Actions)
			assert.Len(t, notifier.Bookings, 1)
		})
	}
}

func TestBookingService_Admin(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockBookingRepository()
	svc := NewBookingService(repo, mocks.NewMockChallengeVerifier(), mocks.NewMockStudioNotifier(), mocks.NewMockAuditLogger())
	require.NoError(t, repo.Create(ctx, &domain.Booking{ClientName: "Ada", ClientEmail: "ada@example.com"}))

	editor := principal(2, domain.RoleEditor)

	updated, err := svc.UpdateStatus(ctx, editor, 1, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, updated.Status)

	_, err = svc.UpdateStatus(ctx, editor, 1, "DONE")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = svc.UpdateStatus(ctx, editor, 42, domain.BookingCompleted)
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, editor, 1), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, principal(1, domain.RoleAdmin), 1))

	_, err = svc.List(ctx, principal(3, domain.RoleViewer))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestInquiryService(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewMockInquiryRepository()
	challenge := mocks.NewMockChallengeVerifier()
	notifier := mocks.NewMockStudioNotifier()
	svc := NewInquiryService(repo, challenge, notifier, mocks.NewMockAuditLogger())

	_, err := svc.Submit(ctx, domain.InquiryRequest{Name: "Bo", Email: "bo@example.com", ChallengeToken: "valid"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Zero(t, challenge.Calls)

	inq, err := svc.Submit(ctx, domain.InquiryRequest{Name: "Bo", Email: "bo@example.com", Message: "Hi", ChallengeToken: "valid"})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryNew, inq.Status)
	assert.Equal(t, []string{ActionContact}, challenge.Actions)
	assert.Len(t, notifier.Inquiries, 1)

	read, err := svc.UpdateStatus(ctx, principal(2, domain.RoleEditor), inq.ID, domain.InquiryRead)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryRead, read.Status)

	assert.ErrorIs(t, svc.Delete(ctx, principal(2, domain.RoleEditor), inq.ID), domain.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, principal(1, domain.RoleAdmin), inq.ID))
}

func TestDashboardService(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository()
	users.CountFunc = func(ctx context.Context) (int64, error) { return 4, nil }
	portfolio := mocks.NewMockPortfolioRepository()
	blog := mocks.NewMockBlogRepository()
	bookings := mocks.NewMockBookingRepository()
	inquiries := mocks.NewMockInquiryRepository()
	svc := NewDashboardService(users, portfolio, blog, bookings, inquiries)

	now := time.Now()
	require.NoError(t, portfolio.Create(ctx, &domain.PortfolioItem{Title: "Live", PublishedAt: &now}))
	require.NoError(t, portfolio.Create(ctx, &domain.PortfolioItem{Title: "Draft"}))
	require.NoError(t, blog.Create(ctx, &domain.BlogPost{Title: "Post", Published: true}))
	for i, budget := range []float64{1000, 500, 250} {
		b := budget
		require.NoError(t, bookings.Create(ctx, &domain.Booking{ClientName: "c", Budget: &b}))
		if i < 2 {
			require.NoError(t, bookings.UpdateStatus(ctx, uint(i+1), domain.BookingCompleted))
		}
	}
	require.NoError(t, inquiries.Create(ctx, &domain.Inquiry{Name: "n"}))

	stats, err := svc.Stats(ctx, principal(2, domain.RoleEditor))
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{
		TotalBookings:   3,
		PendingBookings: 1,
		PortfolioItems:  1,
		BlogPosts:       1,
		Inquiries:       1,
		TotalUsers:      4,
		Revenue:         1500,
	}, *stats)

	recent, err := svc.RecentBookings(ctx, principal(1, domain.RoleAdmin), 0)
	require.NoError(t, err)
	assert.Len(t, recent, 3)
	assert.Equal(t, uint(3), recent[0].ID)

	recent, err = svc.RecentBookings(ctx, principal(1, domain.RoleAdmin), 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	_, err = svc.Stats(ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	users.CountFunc = func(ctx context.Context) (int64, error) { return 0, errors.New("timeout") }
	_, err = svc.Stats(ctx, principal(1, domain.RoleAdmin))
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
}
