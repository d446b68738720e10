package repositories

import (
	"context"

	"github.com/you/studiosvc/domain"
	"gorm.io/gorm"
)

// BlogRepositoryImpl implements domain.BlogRepository using GORM
type BlogRepositoryImpl struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) domain.BlogRepository {
	return &BlogRepositoryImpl{db: db}
}

func (r *BlogRepositoryImpl) List(ctx context.Context, publishedOnly bool) ([]domain.BlogPost, error) {
	q := r.db.WithContext(ctx).Model(&domain.BlogPost{})
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	var posts []domain.BlogPost
	err := q.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

func (r *BlogRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *BlogRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	var post domain.BlogPost
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *BlogRepositoryImpl) Create(ctx context.Context, post *domain.BlogPost) error {
	return translate(r.db.WithContext(ctx).Create(post).Error)
}

func (r *BlogRepositoryImpl) Update(ctx context.Context, post *domain.BlogPost) error {
	return translate(r.db.WithContext(ctx).Save(post).Error)
}

func (r *BlogRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.BlogPost{}, id)
}

func (r *BlogRepositoryImpl) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.BlogPost{}).Where("published = ?", true).Count(&n).Error
	return n, err
}
