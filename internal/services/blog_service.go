package services

import (
	"context"
	"strings"
	"time"

	"github.com/you/studiosvc/domain"
)

// BlogServiceImpl implements domain.BlogService
type BlogServiceImpl struct {
	repo  domain.BlogRepository
	audit domain.AuditLogger
	now   func() time.Time
}

func NewBlogService(repo domain.BlogRepository, audit domain.AuditLogger) *BlogServiceImpl {
	return &BlogServiceImpl{repo: repo, audit: audit, now: time.Now}
}

var _ domain.BlogService = (*BlogServiceImpl)(nil)

func (s *BlogServiceImpl) ListPublished(ctx context.Context) ([]domain.BlogPost, error) {
	return s.repo.List(ctx, true)
}

// GetPublished hides drafts behind ErrResourceNotFound
func (s *BlogServiceImpl) GetPublished(ctx context.Context, slug string) (*domain.BlogPost, error) {
	post, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if !post.Published {
		return nil, domain.ErrResourceNotFound
	}
	return post, nil
}

func (s *BlogServiceImpl) List(ctx context.Context, actor *domain.Principal) ([]domain.BlogPost, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, false)
}

func (s *BlogServiceImpl) Create(ctx context.Context, actor *domain.Principal, in domain.BlogInput) (*domain.BlogPost, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	if err := required("title", in.Title, "Title"); err != nil {
		return nil, err
	}
	if domain.Slugify(in.Title) == "" {
		return nil, domain.NewValidationError("title", "Title must contain letters or digits")
	}
	if err := required("content", in.Content, "Content"); err != nil {
		return nil, err
	}

	post := &domain.BlogPost{AuthorID: actor.UserID}
	s.apply(post, in)
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	recordChange(ctx, s.audit, actor, "blog", "create", post.ID)
	return post, nil
}

func (s *BlogServiceImpl) Update(ctx context.Context, actor *domain.Principal, id uint, in domain.BlogInput) (*domain.BlogPost, error) {
	if err := requireStaff(actor); err != nil {
		return nil, err
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(actor, post.AuthorID); err != nil {
		return nil, err
	}

	s.apply(post, in)
	if post.Slug == "" {
		return nil, domain.NewValidationError("title", "Title must contain letters or digits")
	}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	recordChange(ctx, s.audit, actor, "blog", "update", post.ID)
	return post, nil
}

func (s *BlogServiceImpl) Delete(ctx context.Context, actor *domain.Principal, id uint) error {
	if err := requireStaff(actor); err != nil {
		return err
	}
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := requireOwner(actor, post.AuthorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	recordChange(ctx, s.audit, actor, "blog", "delete", id)
	return nil
}

func (s *BlogServiceImpl) apply(post *domain.BlogPost, in domain.BlogInput) {
	if t := strings.TrimSpace(in.Title); t != "" {
		post.Title = t
		post.Slug = domain.Slugify(t)
	}
	setIfNotEmpty(&post.Excerpt, in.Excerpt)
	if strings.TrimSpace(in.Content) != "" {
		post.Content = in.Content
	}
	setIfNotEmpty(&post.CoverImage, in.CoverImage)
	if in.Published != nil {
		post.Published = *in.Published
		switch {
		case post.Published && post.PublishedAt == nil:
			now := s.now()
			post.PublishedAt = &now
		case !post.Published:
			post.PublishedAt = nil
		}
	}
}
