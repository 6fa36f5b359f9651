package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/otp"
	"matrimony-backend/internal/repository"
	"matrimony-backend/internal/security"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidOrExpiredOTP = errors.New("invalid or expired otp")
	ErrGoogleAuthDisabled  = errors.New("google auth is disabled")
)

var mobileRe = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ValidationError marks a failure caused by the caller's input rather than
// the system. Handlers translate it to a 400 with the message verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// AuthService reconciles the three signup/login paths (password, OTP,
// federated) against a single user identity record and hands out tokens.
// Strategies never merge records across uniqueness domains: an OTP login is
// keyed by mobile only, a Google login by provider subject id only.
type AuthService struct {
	userRepo repository.UserRepository
	otpSvc   *otp.Service
	tokenSvc *TokenService
}

type AuthResult struct {
	Success   bool         `json:"success"`
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type SignUpInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	DateOfBirth time.Time
	Gender      string
}

func NewAuthService(userRepo repository.UserRepository, otpSvc *otp.Service, tokenSvc *TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, otpSvc: otpSvc, tokenSvc: tokenSvc}
}

// SendOTP generates and dispatches a fresh passcode for mobile.
func (s *AuthService) SendOTP(ctx context.Context, mobile string) error {
	normalized, err := normalizeMobile(mobile)
	if err != nil {
		return err
	}
	return s.otpSvc.Generate(ctx, normalized)
}

// SignUp establishes an email-credentialed identity. The password is hashed
// before the record is written; the uniqueness of the email rests on the
// store's unique index, not on the pre-check (which only gives a friendlier
// error in the common case).
func (s *AuthService) SignUp(in SignUpInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FirstName) == "" {
		return nil, validationf("name is required")
	}
	if len(in.Password) < 8 {
		return nil, validationf("password must be at least 8 characters")
	}
	if in.DateOfBirth.IsZero() {
		return nil, validationf("date of birth is required")
	}
	if strings.TrimSpace(in.Gender) == "" {
		return nil, validationf("gender is required")
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, repository.ErrDuplicateIdentity
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        &email,
		PasswordHash: &hash,
		DateOfBirth:  in.DateOfBirth,
		Gender:       in.Gender,
		IsActive:     true,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// LoginWithPassword resolves an identity from an email/password pair. It
// never creates a record. Unknown email and bad password both come back as
// ErrInvalidCredentials so the response does not leak which factor failed.
func (s *AuthService) LoginWithPassword(email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.HasPassword() {
		// OTP- or Google-originated record without email credentials.
		return nil, ErrInvalidCredentials
	}
	ok, err := security.VerifyPassword(*user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return s.login(user)
}

// LoginWithOTP verifies the passcode and then finds or creates the identity
// keyed by mobile number. The created record is minimal: mobile only.
func (s *AuthService) LoginWithOTP(ctx context.Context, mobile, code string) (*AuthResult, error) {
	normalized, err := normalizeMobile(mobile)
	if err != nil {
		return nil, err
	}
	ok, err := s.otpSvc.Verify(ctx, normalized, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidOrExpiredOTP
	}
	user, err := s.findOrCreate(
		func() (*domain.User, error) { return s.userRepo.FindByMobile(normalized) },
		func() *domain.User {
			return &domain.User{MobileNumber: &normalized, IsVerified: true, IsActive: true}
		},
	)
	if err != nil {
		return nil, err
	}
	return s.login(user)
}

// LoginWithGoogle resolves an identity strictly by the provider subject id.
// A matching email on a password-based account is not merged; the email
// unique index rejects the insert and the caller sees a duplicate-identity
// failure instead of a silently linked account.
func (s *AuthService) LoginWithGoogle(googleID, email, fullName string) (*AuthResult, error) {
	googleID = strings.TrimSpace(googleID)
	if googleID == "" {
		return nil, validationf("googleId is required")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	first, last := splitFullName(fullName)
	user, err := s.findOrCreate(
		func() (*domain.User, error) { return s.userRepo.FindByGoogleID(googleID) },
		func() *domain.User {
			u := &domain.User{
				GoogleID:   &googleID,
				FirstName:  first,
				LastName:   last,
				IsVerified: true,
				IsActive:   true,
			}
			if email != "" {
				u.Email = &email
			}
			return u
		},
	)
	if err != nil {
		return nil, err
	}
	return s.login(user)
}

// findOrCreate fetches by a uniqueness key and creates a fresh record when
// absent. A concurrent first-time login is decided by the unique index: the
// loser's insert fails with ErrDuplicateIdentity and it retries the find
// once. Duplicate failures on a *different* domain (e.g. email collision on
// a google-created record) re-fetch nothing and propagate.
func (s *AuthService) findOrCreate(find func() (*domain.User, error), build func() *domain.User) (*domain.User, error) {
	user, err := find()
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	fresh := build()
	if err := s.userRepo.Create(fresh); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentity) {
			if user, findErr := find(); findErr == nil {
				return user, nil
			}
			return nil, err
		}
		return nil, err
	}
	return fresh, nil
}

func (s *AuthService) login(user *domain.User) (*AuthResult, error) {
	now := time.Now().UTC()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now
	return s.issue(user)
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokenSvc.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Success: true, User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return validationf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationf("invalid email")
	}
	return nil
}

func normalizeMobile(mobile string) (string, error) {
	trimmed := strings.ReplaceAll(strings.TrimSpace(mobile), " ", "")
	if trimmed == "" {
		return "", validationf("mobile is required")
	}
	if !mobileRe.MatchString(trimmed) {
		return "", validationf("invalid mobile number")
	}
	return trimmed, nil
}

func splitFullName(fullName string) (first, last string) {
	fields := strings.Fields(fullName)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], strings.Join(fields[1:], " ")
	}
}
