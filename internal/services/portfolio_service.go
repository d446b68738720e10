package services

import (
	"context"
	"strings"
	"time"

	"github.com/you/studiosvc/domain"
)

// PortfolioServiceImpl implements domain.PortfolioService
type PortfolioServiceImpl struct {
	repo  domain.PortfolioRepository
	audit domain.AuditLogger
	now   func() time.Time
}

func NewPortfolioService(repo domain.PortfolioRepository, audit domain.AuditLogger) *PortfolioServiceImpl {
	return &PortfolioServiceImpl{repo: repo, audit: audit, now: time.Now}
}

var _ domain.PortfolioService = (*PortfolioServiceImpl)(nil)

func (s *PortfolioServiceImpl) ListPublished(ctx context.Context, category string) ([]domain.PortfolioItem, error) {
	return s.repo.List(ctx, domain.PortfolioFilter{PublishedOnly: true, Category: strings.TrimSpace(category)})
}

func (s *PortfolioServiceImpl) List(ctx context.Context, actor *domain.Principal) ([]domain.PortfolioItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, domain.PortfolioFilter{})
}

func (s *PortfolioServiceImpl) Create(ctx context.Context, actor *domain.Principal, in domain.PortfolioInput) (*domain.PortfolioItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := validatePortfolio(in); err != nil {
		return nil, err
	}

	item := &domain.PortfolioItem{AuthorID: actor.UserID}
	s.apply(item, in)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	recordChange(ctx, s.audit, actor, "portfolio", "create", item.ID)
	return item, nil
}

// Update changes the given fields. Empty strings keep the stored value.
func (s *PortfolioServiceImpl) Update(ctx context.Context, actor *domain.Principal, id uint, in domain.PortfolioInput) (*domain.PortfolioItem, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, item.AuthorID); err != nil {
		return nil, err
	}

	s.apply(item, in)
	if item.Slug == "" {
		return nil, domain.NewValidationError("title", "Title must contain letters or digits")
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	recordChange(ctx, s.audit, actor, "portfolio", "update", item.ID)
	return item, nil
}

func (s *PortfolioServiceImpl) Delete(ctx context.Context, actor *domain.Principal, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, item.AuthorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordChange(ctx, s.audit, actor, "portfolio", "delete", id)
	return nil
}

func (s *PortfolioServiceImpl) apply(item *domain.PortfolioItem, in domain.PortfolioInput) {
	if t := strings.TrimSpace(in.Title); t != "" {
		item.Title = t
		item.Slug = domain.Slugify(t)
	}
	setIfNotEmpty(&item.Description, in.Description)
	setIfNotEmpty(&item.Category, in.Category)
	setIfNotEmpty(&item.ImageURL, in.ImageURL)
	setIfNotEmpty(&item.VideoURL, in.VideoURL)
	setIfNotEmpty(&item.ThumbnailURL, in.ThumbnailURL)
	if in.Tags != nil {
		item.Tags = in.Tags
	}
	if in.Featured != nil {
		item.Featured = *in.Featured
	}
	if in.Published != nil {
		switch {
		case *in.Published && item.PublishedAt == nil:
			now := s.now()
			item.PublishedAt = &now
		case !*in.Published:
			item.PublishedAt = nil
		}
	}
}

func validatePortfolio(in domain.PortfolioInput) error {
	if err := required("title", in.Title, "Title"); err != nil {
		return err
	}
	if domain.Slugify(in.Title) == "" {
		return domain.NewValidationError("title", "Title must contain letters or digits")
	}
	if err := required("category", in.Category, "Category"); err != nil {
		return err
	}
	return required("imageUrl", in.ImageURL, "Image URL")
}

func setIfNotEmpty(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
