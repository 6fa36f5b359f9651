package repository

import (
	"errors"
	"time"

	"matrimony-backend/internal/domain"

	"gorm.io/gorm"
)

// ErrDuplicateIdentity reports a unique-index rejection on one of the identity
// uniqueness domains (email, mobile number, provider id). It is distinct from
// generic storage failure so callers can treat the race loser differently.
var ErrDuplicateIdentity = errors.New("duplicate identity")

type UserRepository interface {
	FindByID(id uint) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByMobile(mobile string) (*domain.User, error)
	FindByGoogleID(googleID string) (*domain.User, error)
	Create(user *domain.User) error
	Update(user *domain.User) error
	TouchLastLogin(userID uint, at time.Time) error
	ListOthers(excludeUserID uint) ([]domain.User, error)
}

type GormUserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &GormUserRepository{db: db} }

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	return r.findOne("email = ?", email)
}

func (r *GormUserRepository) FindByMobile(mobile string) (*domain.User, error) {
	return r.findOne("mobile_number = ?", mobile)
}

func (r *GormUserRepository) FindByGoogleID(googleID string) (*domain.User, error) {
	return r.findOne("google_id = ?", googleID)
}

func (r *GormUserRepository) findOne(query string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.db.Where(query, arg).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUserRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) Update(user *domain.User) error {
	if err := r.db.Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

func (r *GormUserRepository) TouchLastLogin(userID uint, at time.Time) error {
	return r.db.Model(&domain.User{}).Where("id = ?", userID).
		Update("last_login_at", at).Error
}

func (r *GormUserRepository) ListOthers(excludeUserID uint) ([]domain.User, error) {
	var users []domain.User
	err := r.db.Where("id <> ? AND is_active = ?", excludeUserID, true).Find(&users).Error
	return users, err
}
