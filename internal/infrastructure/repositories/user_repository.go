package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/you/studiosvc/domain"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID              uint   `gorm:"primaryKey"`
	Email           string `gorm:"uniqueIndex;size:255;not null"`
	Name            string `gorm:"size:120"`
	PasswordHash    string `gorm:"column:password"`
	Role            string `gorm:"index;size:16;not null"`
	Image           string `gorm:"size:512"`
	EmailVerifiedAt *time.Time
	LastLoginAt     *time.Time
	CreatedAt       time.Time      `gorm:"index"`
	UpdatedAt       time.Time      `gorm:"index"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository. The email is stored normalized.
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	if !user.Role.Valid() {
		return domain.ErrUnknownRole
	}
	user.Email = domain.NormalizeEmail(user.Email)
	dbUser := r.domainToDB(user)
	if err := r.db.WithContext(ctx).Create(dbUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserAlreadyExists
		}
		return err
	}
	user.ID = dbUser.ID
	user.CreatedAt = dbUser.CreatedAt
	user.UpdatedAt = dbUser.UpdatedAt
	return nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", domain.NormalizeEmail(email)).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser)
}

// Count implements domain.UserRepository
func (r *UserRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&DBUser{}).Count(&n).Error
	return n, err
}

// UpdateLastLogin implements domain.UserRepository
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumn(ctx, id, "last_login_at", at)
}

// MarkEmailVerified implements domain.UserRepository
func (r *UserRepositoryImpl) MarkEmailVerified(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumn(ctx, id, "email_verified_at", at)
}

func (r *UserRepositoryImpl) updateColumn(ctx context.Context, id uint, column string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&DBUser{}).Where("id = ?", id).Update(column, at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// domainToDB converts domain user to database user
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.Name,
		PasswordHash:    user.PasswordHash,
		Role:            user.Role.String(),
		Image:           user.Image,
		EmailVerifiedAt: user.EmailVerifiedAt,
		LastLoginAt:     user.LastLoginAt,
	}
}

// dbToDomain converts database user to domain user. A row with a role
// outside the enum is reported rather than coerced.
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) (*domain.User, error) {
	role, err := domain.ParseRole(dbUser.Role)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:              dbUser.ID,
		Email:           dbUser.Email,
		Name:            dbUser.Name,
		PasswordHash:    dbUser.PasswordHash,
		Role:            role,
		Image:           dbUser.Image,
		EmailVerifiedAt: dbUser.EmailVerifiedAt,
		LastLoginAt:     dbUser.LastLoginAt,
		CreatedAt:       dbUser.CreatedAt,
		UpdatedAt:       dbUser.UpdatedAt,
	}, nil
}
