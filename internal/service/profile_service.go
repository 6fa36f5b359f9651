package service

import (
	"errors"
	"time"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists for this user")
)

type ProfileInput struct {
	FullName  string
	Age       int
	DOB       time.Time
	Location  string
	Language  string
	Religion  string
	Community string
}

// ProfileService is the secondary matchmaking-profile document store,
// one document per user.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) Get(userID uint) (*domain.Profile, error) {
	p, err := s.profileRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Create(userID uint, in ProfileInput) (*domain.Profile, error) {
	p := &domain.Profile{
		ExternalID: uuid.NewString(),
		UserID:     userID,
		FullName:   in.FullName,
		Age:        in.Age,
		DOB:        in.DOB,
		Location:   in.Location,
		Language:   in.Language,
		Religion:   in.Religion,
		Community:  in.Community,
	}
	if err := s.profileRepo.Create(p); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentity) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Update(userID uint, in ProfileInput) (*domain.Profile, error) {
	p, err := s.Get(userID)
	if err != nil {
		return nil, err
	}
	p.FullName = in.FullName
	p.Age = in.Age
	p.DOB = in.DOB
	p.Location = in.Location
	p.Language = in.Language
	p.Religion = in.Religion
	p.Community = in.Community
	if err := s.profileRepo.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) Delete(userID uint) error {
	n, err := s.profileRepo.DeleteByUserID(userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
