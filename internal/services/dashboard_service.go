package services

import (
	"context"
	"fmt"

	"github.com/you/studiosvc/domain"
)

const (
	DefaultRecentBookings = 5
	MaxRecentBookings     = 50
)

// DashboardServiceImpl implements domain.DashboardService
type DashboardServiceImpl struct {
	users     domain.UserRepository
	portfolio domain.PortfolioRepository
	blog      domain.BlogRepository
	bookings  domain.BookingRepository
	inquiries domain.InquiryRepository
}

func NewDashboardService(
	users domain.UserRepository,
	portfolio domain.PortfolioRepository,
	blog domain.BlogRepository,
	bookings domain.BookingRepository,
	inquiries domain.InquiryRepository,
) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		users:     users,
		portfolio: portfolio,
		blog:      blog,
		bookings:  bookings,
		inquiries: inquiries,
	}
}

var _ domain.DashboardService = (*DashboardServiceImpl)(nil)

// Stats collects the dashboard counters. Portfolio and blog count
// published entries; inquiries count NEW ones.
func (s *DashboardServiceImpl) Stats(ctx context.Context, actor *domain.Principal) (*domain.DashboardStats, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}

	var (
		stats domain.DashboardStats
		err   error
	)
	if stats.TotalBookings, err = s.bookings.Count(ctx, ""); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}
	if stats.PendingBookings, err = s.bookings.Count(ctx, domain.BookingPending); err != nil {
		return nil, fmt.Errorf("count pending bookings: %w", err)
	}
	if stats.PortfolioItems, err = s.portfolio.CountPublished(ctx); err != nil {
		return nil, fmt.Errorf("count portfolio: %w", err)
	}
	if stats.BlogPosts, err = s.blog.CountPublished(ctx); err != nil {
		return nil, fmt.Errorf("count blog posts: %w", err)
	}
	if stats.Inquiries, err = s.inquiries.Count(ctx, domain.InquiryNew); err != nil {
		return nil, fmt.Errorf("count inquiries: %w", err)
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if stats.Revenue, err = s.bookings.CompletedRevenue(ctx); err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	return &stats, nil
}

// RecentBookings returns the newest bookings. limit defaults to 5 and is
// capped at 50.
func (s *DashboardServiceImpl) RecentBookings(ctx context.Context, actor *domain.Principal, limit int) ([]domain.Booking, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	switch {
	case limit <= 0:
		limit = DefaultRecentBookings
	case limit > MaxRecentBookings:
		limit = MaxRecentBookings
	}
	return s.bookings.List(ctx, limit)
}
