package services

import (
	"context"
	"strings"

	"github.com/you/studiosvc/domain"
)

// Challenge actions bound to the public forms
const (
	ActionBooking = "booking"
	ActionContact = "contact"
)

// BookingServiceImpl implements domain.BookingService
type BookingServiceImpl struct {
	repo      domain.BookingRepository
	challenge domain.ChallengeVerifier
	notifier  domain.StudioNotifier
	audit     domain.AuditLogger
}

func NewBookingService(repo domain.BookingRepository, challenge domain.ChallengeVerifier, notifier domain.StudioNotifier, audit domain.AuditLogger) *BookingServiceImpl {
	return &BookingServiceImpl{repo: repo, challenge: challenge, notifier: notifier, audit: audit}
}

var _ domain.BookingService = (*BookingServiceImpl)(nil)

// Submit stores a booking from the public site as PENDING and tells the studio
func (s *BookingServiceImpl) Submit(ctx context.Context, req domain.BookingRequest) (*domain.Booking, error) {
	if err := required("clientName", req.ClientName, "Name"); err != nil {
		return nil, err
	}
	if err := validEmail("clientEmail", req.ClientEmail); err != nil {
		return nil, err
	}
	if err := required("service", req.Service, "Service"); err != nil {
		return nil, err
	}
	if req.Budget != nil && *req.Budget < 0 {
		return nil, domain.NewValidationError("budget", "Budget cannot be negative")
	}

	if !s.challenge.Verify(ctx, req.ChallengeToken, ActionBooking, req.RemoteIP) {
		return nil, domain.ErrChallengeFailed
	}

	booking := &domain.Booking{
		ClientName:  strings.TrimSpace(req.ClientName),
		ClientEmail: domain.NormalizeEmail(req.ClientEmail),
		ClientPhone: strings.TrimSpace(req.ClientPhone),
		Service:     strings.TrimSpace(req.Service),
		EventType:   strings.TrimSpace(req.EventType),
		EventDate:   req.EventDate,
		Budget:      req.Budget,
		Notes:       strings.TrimSpace(req.Notes),
		Status:      domain.BookingPending,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.notifier.BookingReceived(ctx, booking)
	return booking, nil
}

func (s *BookingServiceImpl) List(ctx context.Context, actor *domain.Principal) ([]domain.Booking, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, 0)
}

func (s *BookingServiceImpl) UpdateStatus(ctx context.Context, actor *domain.Principal, id uint, status domain.BookingStatus) (*domain.Booking, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	status = domain.BookingStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "Status must be one of PENDING, CONFIRMED, COMPLETED, CANCELLED")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	recordChange(ctx, s.audit, actor, "booking", "status:"+string(status), id)
	return s.repo.FindByID(ctx, id)
}

func (s *BookingServiceImpl) Delete(ctx context.Context, actor *domain.Principal, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordChange(ctx, s.audit, actor, "booking", "delete", id)
	return nil
}
