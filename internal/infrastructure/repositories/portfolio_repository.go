package repositories

import (
	"context"
	"errors"

	"github.com/you/studiosvc/domain"
	"gorm.io/gorm"
)

// PortfolioRepositoryImpl implements domain.PortfolioRepository using GORM
type PortfolioRepositoryImpl struct {
	db *gorm.DB
}

// NewPortfolioRepository creates a new portfolio repository
func NewPortfolioRepository(db *gorm.DB) domain.PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

func (r *PortfolioRepositoryImpl) List(ctx context.Context, filter domain.PortfolioFilter) ([]domain.PortfolioItem, error) {
	q := r.db.WithContext(ctx).Model(&domain.PortfolioItem{})
	if filter.PublishedOnly {
		q = q.Where("published_at IS NOT NULL")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	var items []domain.PortfolioItem
	err := q.Order("featured DESC").Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *PortfolioRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.PortfolioItem, error) {
	var item domain.PortfolioItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *PortfolioRepositoryImpl) Create(ctx context.Context, item *domain.PortfolioItem) error {
	return translate(r.db.WithContext(ctx).Create(item).Error)
}

func (r *PortfolioRepositoryImpl) Update(ctx context.Context, item *domain.PortfolioItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

func (r *PortfolioRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.PortfolioItem{}, id)
}

func (r *PortfolioRepositoryImpl) CountPublished(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.PortfolioItem{}).Where("published_at IS NOT NULL").Count(&n).Error
	return n, err
}

// translate maps gorm sentinel errors onto domain errors
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrResourceNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewValidationError("slug", "An entry with this title already exists")
	default:
		return err
	}
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id uint) error {
	res := db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}
