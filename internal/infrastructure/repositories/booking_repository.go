package repositories

import (
	"context"

	"github.com/you/studiosvc/domain"
	"gorm.io/gorm"
)

// BookingRepositoryImpl implements domain.BookingRepository using GORM
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *gorm.DB) domain.BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

// List returns bookings newest first; limit <= 0 returns all
func (r *BookingRepositoryImpl) List(ctx context.Context, limit int) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var bookings []domain.Booking
	err := q.Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *BookingRepositoryImpl) Create(ctx context.Context, booking *domain.Booking) error {
	if booking.Status == "" {
		booking.Status = domain.BookingPending
	}
	return translate(r.db.WithContext(ctx).Create(booking).Error)
}

func (r *BookingRepositoryImpl) UpdateStatus(ctx context.Context, id uint, status domain.BookingStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrResourceNotFound
	}
	return nil
}

func (r *BookingRepositoryImpl) Delete(ctx context.Context, id uint) error {
	return deleteByID(ctx, r.db, &domain.Booking{}, id)
}

// Count counts bookings with status, or all bookings when status is empty
func (r *BookingRepositoryImpl) Count(ctx context.Context, status domain.BookingStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// CompletedRevenue sums the budgets of completed bookings
func (r *BookingRepositoryImpl) CompletedRevenue(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("status = ?", domain.BookingCompleted).
		Select("COALESCE(SUM(budget), 0)").
		Scan(&total).Error
	return total, err
}
