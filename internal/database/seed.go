package database

import (
	"errors"
	"time"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/security"

	"gorm.io/gorm"
)

// Seed installs demo member accounts for development environments. It is
// idempotent: existing emails are left untouched.
func Seed(db *gorm.DB, demoPassword string) error {
	if demoPassword == "" {
		demoPassword = "changeme123"
	}
	hash, err := security.HashPassword(demoPassword)
	if err != nil {
		return err
	}
	demo := []domain.User{
		{
			FirstName:   "Asha",
			LastName:    "Sharma",
			Gender:      "female",
			DateOfBirth: time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC),
			Religion:    "Hindu",
			City:        "Pune",
			Country:     "India",
		},
		{
			FirstName:   "Rahul",
			LastName:    "Verma",
			Gender:      "male",
			DateOfBirth: time.Date(1992, 11, 3, 0, 0, 0, 0, time.UTC),
			Religion:    "Hindu",
			City:        "Bengaluru",
			Country:     "India",
		},
	}
	emails := []string{"asha.demo@example.com", "rahul.demo@example.com"}
	for i := range demo {
		email := emails[i]
		u := demo[i]
		u.Email = &email
		u.PasswordHash = &hash
		u.IsActive = true
		u.IsVerified = true
		if err := db.Where("email = ?", email).First(&domain.User{}).Error; err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&u).Error; err != nil {
			return err
		}
	}
	return nil
}
