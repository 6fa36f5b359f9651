package service

import (
	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/repository"
)

// UserService owns the pass-through persistence around the identity record:
// fetching the caller's own document and applying partial updates.
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetByID(id uint) (*domain.User, error) {
	return s.userRepo.FindByID(id)
}

// UpdateProfile applies a partial update to the caller's record through the
// single merge function, keeping field semantics in one auditable place.
func (s *UserService) UpdateProfile(userID uint, patch *domain.UserPatch) (*domain.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	patch.Apply(user)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Browse lists other active members, for match browsing.
func (s *UserService) Browse(callerID uint) ([]domain.User, error) {
	return s.userRepo.ListOthers(callerID)
}
