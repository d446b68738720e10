package mocks

import (
	"context"
	"sync"

	"github.com/you/studiosvc/domain"
)

// MockNotificationService implements domain.NotificationService interface for testing
type MockNotificationService struct {
	SendSMSFunc func(to, message string) error
}

// NewMockNotificationService creates a new MockNotificationService with default behaviors
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

// SendSMS sends an SMS message
func (m *MockNotificationService) SendSMS(to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(to, message)
	}
	// Default behavior: success
	return nil
}

// MockStudioNotifier implements domain.StudioNotifier and records submissions
type MockStudioNotifier struct {
	mu        sync.Mutex
	Bookings  []*domain.Booking
	Inquiries []*domain.Inquiry
}

func NewMockStudioNotifier() *MockStudioNotifier {
	return &MockStudioNotifier{}
}

func (m *MockStudioNotifier) BookingReceived(ctx context.Context, b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Bookings = append(m.Bookings, b)
}

func (m *MockStudioNotifier) InquiryReceived(ctx context.Context, i *domain.Inquiry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Inquiries = append(m.Inquiries, i)
}

// Compile-time interface compliance verification
var (
	_ domain.NotificationService = (*MockNotificationService)(nil)
	_ domain.StudioNotifier      = (*MockStudioNotifier)(nil)
)
