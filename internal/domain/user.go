package domain

import "time"

// User is the single identity record shared by all signup paths. Email,
// MobileNumber and GoogleID are independent uniqueness domains; each is a
// pointer so absent values do not collide on the unique index.
type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	FirstName    string  `gorm:"size:255" json:"first_name"`
	LastName     string  `gorm:"size:255" json:"last_name"`
	Email        *string `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	MobileNumber *string `gorm:"uniqueIndex;size:20" json:"mobile_number,omitempty"`
	PasswordHash *string `gorm:"size:1024" json:"-"`
	GoogleID     *string `gorm:"uniqueIndex;size:255" json:"-"`

	DateOfBirth time.Time `json:"date_of_birth"`
	Gender      string    `gorm:"size:16" json:"gender"`

	Religion      string  `gorm:"size:64" json:"religion,omitempty"`
	Caste         string  `gorm:"size:64" json:"caste,omitempty"`
	MotherTongue  string  `gorm:"size:64" json:"mother_tongue,omitempty"`
	Occupation    string  `gorm:"size:128" json:"occupation,omitempty"`
	Education     string  `gorm:"size:128" json:"education,omitempty"`
	AnnualIncome  string  `gorm:"size:64" json:"annual_income,omitempty"`
	HeightValue   float64 `json:"height_value,omitempty"`
	HeightUnit    string  `gorm:"size:4" json:"height_unit,omitempty"`
	MaritalStatus string  `gorm:"size:32" json:"marital_status,omitempty"`
	AboutMe       string  `gorm:"size:1000" json:"about_me,omitempty"`

	PartnerPreferences *PartnerPreferences `gorm:"serializer:json" json:"partner_preferences,omitempty"`

	ProfilePhoto string   `gorm:"size:1024" json:"profile_photo,omitempty"`
	Photos       []string `gorm:"serializer:json" json:"photos,omitempty"`

	City    string `gorm:"size:128" json:"city,omitempty"`
	State   string `gorm:"size:128" json:"state,omitempty"`
	Country string `gorm:"size:128" json:"country,omitempty"`

	IsVerified       bool `gorm:"not null;default:false" json:"is_verified"`
	IsActive         bool `gorm:"not null;default:true" json:"is_active"`
	ProfileCompleted bool `gorm:"not null;default:false" json:"profile_completed"`
	OnboardingStep   int  `gorm:"not null;default:0" json:"onboarding_step"`
	ShowContactInfo  bool `gorm:"not null;default:false" json:"show_contact_info"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PartnerPreferences struct {
	AgeMin        int      `json:"age_min,omitempty"`
	AgeMax        int      `json:"age_max,omitempty"`
	HeightMin     float64  `json:"height_min,omitempty"`
	HeightMax     float64  `json:"height_max,omitempty"`
	HeightUnit    string   `json:"height_unit,omitempty"`
	Religion      []string `json:"religion,omitempty"`
	Caste         []string `json:"caste,omitempty"`
	MotherTongue  []string `json:"mother_tongue,omitempty"`
	Education     []string `json:"education,omitempty"`
	Occupation    []string `json:"occupation,omitempty"`
	MaritalStatus []string `json:"marital_status,omitempty"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
