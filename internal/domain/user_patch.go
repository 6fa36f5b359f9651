package domain

import "time"

// UserPatch is a partial update: only non-nil fields are applied. Keeping the
// merge in one place makes the update semantics testable instead of scattering
// field-by-field conditionals through handlers.
type UserPatch struct {
	FirstName          *string             `json:"first_name,omitempty"`
	LastName           *string             `json:"last_name,omitempty"`
	DateOfBirth        *time.Time          `json:"date_of_birth,omitempty"`
	Gender             *string             `json:"gender,omitempty"`
	Religion           *string             `json:"religion,omitempty"`
	Caste              *string             `json:"caste,omitempty"`
	MotherTongue       *string             `json:"mother_tongue,omitempty"`
	Occupation         *string             `json:"occupation,omitempty"`
	Education          *string             `json:"education,omitempty"`
	AnnualIncome       *string             `json:"annual_income,omitempty"`
	HeightValue        *float64            `json:"height_value,omitempty"`
	HeightUnit         *string             `json:"height_unit,omitempty"`
	MaritalStatus      *string             `json:"marital_status,omitempty"`
	AboutMe            *string             `json:"about_me,omitempty"`
	PartnerPreferences *PartnerPreferences `json:"partner_preferences,omitempty"`
	ProfilePhoto       *string             `json:"profile_photo,omitempty"`
	Photos             *[]string           `json:"photos,omitempty"`
	City               *string             `json:"city,omitempty"`
	State              *string             `json:"state,omitempty"`
	Country            *string             `json:"country,omitempty"`
	ShowContactInfo    *bool               `json:"show_contact_info,omitempty"`
	OnboardingStep     *int                `json:"onboarding_step,omitempty"`
	ProfileCompleted   *bool               `json:"profile_completed,omitempty"`
}

// Apply merges the patch into u. It never touches credentials or uniqueness
// keys (email, mobile, provider id); those change only through auth flows.
func (p *UserPatch) Apply(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.DateOfBirth != nil {
		u.DateOfBirth = *p.DateOfBirth
	}
	if p.Gender != nil {
		u.Gender = *p.Gender
	}
	if p.Religion != nil {
		u.Religion = *p.Religion
	}
	if p.Caste != nil {
		u.Caste = *p.Caste
	}
	if p.MotherTongue != nil {
		u.MotherTongue = *p.MotherTongue
	}
	if p.Occupation != nil {
		u.Occupation = *p.Occupation
	}
	if p.Education != nil {
		u.Education = *p.Education
	}
	if p.AnnualIncome != nil {
		u.AnnualIncome = *p.AnnualIncome
	}
	if p.HeightValue != nil {
		u.HeightValue = *p.HeightValue
	}
	if p.HeightUnit != nil {
		u.HeightUnit = *p.HeightUnit
	}
	if p.MaritalStatus != nil {
		u.MaritalStatus = *p.MaritalStatus
	}
	if p.AboutMe != nil {
		u.AboutMe = *p.AboutMe
	}
	if p.PartnerPreferences != nil {
		u.PartnerPreferences = p.PartnerPreferences
	}
	if p.ProfilePhoto != nil {
		u.ProfilePhoto = *p.ProfilePhoto
	}
	if p.Photos != nil {
		u.Photos = *p.Photos
	}
	if p.City != nil {
		u.City = *p.City
	}
	if p.State != nil {
		u.State = *p.State
	}
	if p.Country != nil {
		u.Country = *p.Country
	}
	if p.ShowContactInfo != nil {
		u.ShowContactInfo = *p.ShowContactInfo
	}
	if p.OnboardingStep != nil {
		u.OnboardingStep = *p.OnboardingStep
	}
	if p.ProfileCompleted != nil {
		u.ProfileCompleted = *p.ProfileCompleted
	}
}
