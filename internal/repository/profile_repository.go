package repository

import (
	"errors"

	"matrimony-backend/internal/domain"

	"gorm.io/gorm"
)

type ProfileRepository interface {
	FindByUserID(userID uint) (*domain.Profile, error)
	Create(profile *domain.Profile) error
	Update(profile *domain.Profile) error
	DeleteByUserID(userID uint) (int64, error)
}

type GormProfileRepository struct{ db *gorm.DB }

func NewProfileRepository(db *gorm.DB) ProfileRepository { return &GormProfileRepository{db: db} }

func (r *GormProfileRepository) FindByUserID(userID uint) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProfileRepository) Create(profile *domain.Profile) error {
	if err := r.db.Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

func (r *GormProfileRepository) Update(profile *domain.Profile) error {
	return r.db.Save(profile).Error
}

func (r *GormProfileRepository) DeleteByUserID(userID uint) (int64, error) {
	res := r.db.Where("user_id = ?", userID).Delete(&domain.Profile{})
	return res.RowsAffected, res.Error
}
