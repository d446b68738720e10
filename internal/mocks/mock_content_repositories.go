package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/you/studiosvc/domain"
)

// MockPortfolioRepository implements domain.PortfolioRepository in memory
type MockPortfolioRepository struct {
	CreateFunc func(ctx context.Context, item *domain.PortfolioItem) error

	mu     sync.Mutex
	nextID uint
	Items  map[uint]*domain.PortfolioItem
}

func NewMockPortfolioRepository() *MockPortfolioRepository {
	return &MockPortfolioRepository{Items: map[uint]*domain.PortfolioItem{}}
}

func (m *MockPortfolioRepository) List(ctx context.Context, filter domain.PortfolioFilter) ([]domain.PortfolioItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.PortfolioItem
	for _, id := range sortedKeys(m.Items) {
		item := m.Items[id]
		if filter.PublishedOnly && item.PublishedAt == nil {
			continue
		}
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (m *MockPortfolioRepository) FindByID(ctx context.Context, id uint) (*domain.PortfolioItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.Items[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *MockPortfolioRepository) Create(ctx context.Context, item *domain.PortfolioItem) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, item)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = m.nextID
	item.CreatedAt = time.Now()
	cp := *item
	m.Items[item.ID] = &cp
	return nil
}

func (m *MockPortfolioRepository) Update(ctx context.Context, item *domain.PortfolioItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[item.ID]; !ok {
		return domain.ErrResourceNotFound
	}
	cp := *item
	m.Items[item.ID] = &cp
	return nil
}

func (m *MockPortfolioRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Items[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(m.Items, id)
	return nil
}

func (m *MockPortfolioRepository) CountPublished(ctx context.Context) (int64, error) {
	items, _ := m.List(ctx, domain.PortfolioFilter{PublishedOnly: true})
	return int64(len(items)), nil
}

// MockBlogRepository implements domain.BlogRepository in memory
type MockBlogRepository struct {
	mu     sync.Mutex
	nextID uint
	Posts  map[uint]*domain.BlogPost
}

func NewMockBlogRepository() *MockBlogRepository {
	return &MockBlogRepository{Posts: map[uint]*domain.BlogPost{}}
}

func (m *MockBlogRepository) List(ctx context.Context, publishedOnly bool) ([]domain.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.BlogPost
	for _, id := range sortedKeys(m.Posts) {
		if publishedOnly && !m.Posts[id].Published {
			continue
		}
		out = append(out, *m.Posts[id])
	}
	return out, nil
}

func (m *MockBlogRepository) FindByID(ctx context.Context, id uint) (*domain.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Posts[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockBlogRepository) FindBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.Posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrResourceNotFound
}

func (m *MockBlogRepository) Create(ctx context.Context, post *domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	post.ID = m.nextID
	cp := *post
	m.Posts[post.ID] = &cp
	return nil
}

func (m *MockBlogRepository) Update(ctx context.Context, post *domain.BlogPost) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Posts[post.ID]; !ok {
		return domain.ErrResourceNotFound
	}
	cp := *post
	m.Posts[post.ID] = &cp
	return nil
}

func (m *MockBlogRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Posts[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(m.Posts, id)
	return nil
}

func (m *MockBlogRepository) CountPublished(ctx context.Context) (int64, error) {
	posts, _ := m.List(ctx, true)
	return int64(len(posts)), nil
}

// MockBookingRepository implements domain.BookingRepository in memory
type MockBookingRepository struct {
	CreateFunc func(ctx context.Context, b *domain.Booking) error

	mu       sync.Mutex
	nextID   uint
	Bookings map[uint]*domain.Booking
}

func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{Bookings: map[uint]*domain.Booking{}}
}

// List returns newest first
func (m *MockBookingRepository) List(ctx context.Context, limit int) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := sortedKeys(m.Bookings)
	var out []domain.Booking
	for i := len(keys) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, *m.Bookings[keys[i]])
	}
	return out, nil
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uint) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	b.ID = m.nextID
	if b.Status == "" {
		b.Status = domain.BookingPending
	}
	cp := *b
	m.Bookings[b.ID] = &cp
	return nil
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id uint, status domain.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Bookings[id]
	if !ok {
		return domain.ErrResourceNotFound
	}
	b.Status = status
	return nil
}

func (m *MockBookingRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Bookings[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(m.Bookings, id)
	return nil
}

func (m *MockBookingRepository) Count(ctx context.Context, status domain.BookingStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.Bookings {
		if status == "" || b.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *MockBookingRepository) CompletedRevenue(ctx context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, b := range m.Bookings {
		if b.Status == domain.BookingCompleted && b.Budget != nil {
			total += *b.Budget
		}
	}
	return total, nil
}

// MockInquiryRepository implements domain.InquiryRepository in memory
type MockInquiryRepository struct {
	mu        sync.Mutex
	nextID    uint
	Inquiries map[uint]*domain.Inquiry
}

func NewMockInquiryRepository() *MockInquiryRepository {
	return &MockInquiryRepository{Inquiries: map[uint]*domain.Inquiry{}}
}

func (m *MockInquiryRepository) List(ctx context.Context) ([]domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Inquiry
	for _, id := range sortedKeys(m.Inquiries) {
		out = append(out, *m.Inquiries[id])
	}
	return out, nil
}

func (m *MockInquiryRepository) FindByID(ctx context.Context, id uint) (*domain.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.Inquiries[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *MockInquiryRepository) Create(ctx context.Context, i *domain.Inquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	i.ID = m.nextID
	if i.Status == "" {
		i.Status = domain.InquiryNew
	}
	cp := *i
	m.Inquiries[i.ID] = &cp
	return nil
}

func (m *MockInquiryRepository) UpdateStatus(ctx context.Context, id uint, status domain.InquiryStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.Inquiries[id]
	if !ok {
		return domain.ErrResourceNotFound
	}
	i.Status = status
	return nil
}

func (m *MockInquiryRepository) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Inquiries[id]; !ok {
		return domain.ErrResourceNotFound
	}
	delete(m.Inquiries, id)
	return nil
}

func (m *MockInquiryRepository) Count(ctx context.Context, status domain.InquiryStatus) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, i := range m.Inquiries {
		if status == "" || i.Status == status {
			n++
		}
	}
	return n, nil
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Compile-time interface compliance verification
var (
	_ domain.PortfolioRepository = (*MockPortfolioRepository)(nil)
	_ domain.BlogRepository      = (*MockBlogRepository)(nil)
	_ domain.BookingRepository   = (*MockBookingRepository)(nil)
	_ domain.InquiryRepository   = (*MockInquiryRepository)(nil)
)
