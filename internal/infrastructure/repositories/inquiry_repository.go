package repositories

import (
	"context"

	"github.com/you/studiosvc/domain"
	"gorm.io/gorm"
)

// InquiryRepositoryImpl implements domain.InquiryRepository using GORM
type InquiryRepositoryImpl struct {
	db *gorm.DB
}

// NewInquiryRepository creates a new inquiry repository
func NewInquiryRepository(db *gorm.DB) domain.InquiryRepository {
	return &InquiryRepositoryImpl{db: db}
}

func (r *InquiryRepositoryImpl) List(ctx context.Context) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&inquiries).Error
	return inquiries, err
}

func (r *InquiryRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Inquiry, error) {
	var inq domain.Inquiry
	if err := r.db.WithContext(ctx).First(&inq, id).Error; err != nil {
		return nil, translate(err)
	}
	return &inq, nil
}

func (r *InquiryRepositoryImpl) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryNew
	}
	return translate(r.db.WithContext(ctx).Create(inquiry).Error)
}

func (r *InquiryRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status domain.InquiryStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Inquiry{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func (r *InquiryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Inquiry{}, id)
}

// Count counts inquiries with status, or all inquiries when status is empty
func (r *InquiryRepositoryImpl) Count(ctx context.Context, status domain.InquiryStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Inquiry{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
