package services

import (
	"context"
	"strings"

	"github.com/you/studiosvc/domain"
)

// InquiryServiceImpl implements domain.InquiryService
type InquiryServiceImpl struct {
	repo      domain.InquiryRepository
	challenge domain.ChallengeVerifier
	notifier  domain.StudioNotifier
	audit     domain.AuditLogger
}

func NewInquiryService(repo domain.InquiryRepository, challenge domain.ChallengeVerifier, notifier domain.StudioNotifier, audit domain.AuditLogger) *InquiryServiceImpl {
	return &InquiryServiceImpl{repo: repo, challenge: challenge, notifier: notifier, audit: audit}
}

var _ domain.InquiryService = (*InquiryServiceImpl)(nil)

func (s *InquiryServiceImpl) Submit(ctx context.Context, req domain.InquiryRequest) (*domain.Inquiry, error) {
	if err := required("name", req.Name, "Name"); err != nil {
		return nil, err
	}
	if err := validEmail("email", req.Email); err != nil {
		return nil, err
	}
	if err := required("message", req.Message, "Message"); err != nil {
		return nil, err
	}

	if !s.challenge.Verify(ctx, req.ChallengeToken, ActionContact, req.RemoteIP) {
		return nil, domain.ErrChallengeFailed
	}

	inquiry := &domain.Inquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   domain.NormalizeEmail(req.Email),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  domain.InquiryNew,
	}
	if err := s.repo.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	s.notifier.InquiryReceived(ctx, inquiry)
	return inquiry, nil
}

func (s *InquiryServiceImpl) List(ctx context.Context, actor *domain.Principal) ([]domain.Inquiry, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *InquiryServiceImpl) UpdateStatus(ctx context.Context, actor *domain.Principal, id uint, status domain.InquiryStatus) (*domain.Inquiry, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	status = domain.InquiryStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "Status must be one of NEW, READ, RESOLVED")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	recordChange(ctx, s.audit, actor, "inquiry", "status:"+string(status), id)
	return s.repo.FindByID(ctx, id)
}

func (s *InquiryServiceImpl) Delete(ctx context.Context, actor *domain.Principal, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordChange(ctx, s.audit, actor, "inquiry", "delete", id)
	return nil
}
