package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"matrimony-backend/internal/domain"
	"matrimony-backend/internal/otp"
	"matrimony-backend/internal/repository"
	"matrimony-backend/internal/security"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type authFixture struct {
	auth     *AuthService
	userRepo *userRepoState
	sender   *captureSender
	redis    *miniredis.Miniredis
}

type captureSender struct {
	lastMobile string
	lastCode   string
}

func (s *captureSender) SendCode(_ context.Context, mobile, code string) error {
	s.lastMobile = mobile
	s.lastCode = code
	return nil
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	sender := &captureSender{}
	otpSvc := otp.NewService(otp.NewRedisStore(client, "otp", 6, 5*time.Minute), sender, 6)
	jwtMgr := security.NewJWTManager("matrimony-backend", "matrimony-clients", "test-secret-at-least-32-bytes-long!!")
	tokenSvc := NewTokenService(jwtMgr, time.Hour)
	userRepo := newUserRepoState()
	return &authFixture{
		auth:     NewAuthService(userRepo, otpSvc, tokenSvc),
		userRepo: userRepo,
		sender:   sender,
		redis:    m,
	}
}

func (fx *authFixture) sentCode(t *testing.T, mobile string) string {
	t.Helper()
	if err := fx.auth.SendOTP(context.Background(), mobile); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	return fx.sender.lastCode
}

func validSignUp() SignUpInput {
	return SignUpInput{
		FirstName:   "Asha",
		LastName:    "Sharma",
		Email:       "asha@example.com",
		Password:    "StrongPass123!",
		DateOfBirth: time.Date(1995, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:      "female",
	}
}

func TestSignUpMatrix(t *testing.T) {
	t.Run("invalid email", func(t *testing.T) {
		fx := newAuthFixture(t)
		in := validSignUp()
		in.Email = "not-an-email"
		_, err := fx.auth.SignUp(in)
		var vErr *ValidationError
		if !errors.As(err, &vErr) || !strings.Contains(err.Error(), "invalid email") {
			t.Fatalf("expected invalid email validation error, got %v", err)
		}
	})

	t.Run("missing name", func(t *testing.T) {
		fx := newAuthFixture(t)
		in := validSignUp()
		in.FirstName = "   "
		_, err := fx.auth.SignUp(in)
		if err == nil || !strings.Contains(err.Error(), "name is required") {
			t.Fatalf("expected name required error, got %v", err)
		}
	})

	t.Run("short password", func(t *testing.T) {
		fx := newAuthFixture(t)
		in := validSignUp()
		in.Password = "short"
		_, err := fx.auth.SignUp(in)
		if err == nil || !strings.Contains(err.Error(), "at least 8") {
			t.Fatalf("expected password length error, got %v", err)
		}
	})

	t.Run("missing date of birth", func(t *testing.T) {
		fx := newAuthFixture(t)
		in := validSignUp()
		in.DateOfBirth = time.Time{}
		_, err := fx.auth.SignUp(in)
		if err == nil || !strings.Contains(err.Error(), "date of birth") {
			t.Fatalf("expected dob error, got %v", err)
		}
	})

	t.Run("missing gender", func(t *testing.T) {
		fx := newAuthFixture(t)
		in := validSignUp()
		in.Gender = ""
		_, err := fx.auth.SignUp(in)
		if err == nil || !strings.Contains(err.Error(), "gender") {
			t.Fatalf("expected gender error, got %v", err)
		}
	})

	t.Run("duplicate email", func(t *testing.T) {
		fx := newAuthFixture(t)
		if _, err := fx.auth.SignUp(validSignUp()); err != nil {
			t.Fatalf("first signup: %v", err)
		}
		in := validSignUp()
		in.Email = "ASHA@example.com"
		_, err := fx.auth.SignUp(in)
		if !errors.Is(err, repository.ErrDuplicateIdentity) {
			t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
		}
	})

	t.Run("success issues token and hashes password", func(t *testing.T) {
		fx := newAuthFixture(t)
		res, err := fx.auth.SignUp(validSignUp())
		if err != nil {
			t.Fatalf("signup: %v", err)
		}
		if res.Token == "" {
			t.Fatal("expected a token")
		}
		if res.ExpiresAt.Before(time.Now()) {
			t.Fatal("expected a future expiry")
		}
		if res.User.PasswordHash == nil || *res.User.PasswordHash == "StrongPass123!" {
			t.Fatal("expected password to be stored hashed")
		}
		if res.User.LastLoginAt == nil {
			t.Fatal("expected lastLogin to be set at signup")
		}
		if res.User.Email == nil || *res.User.Email != "asha@example.com" {
			t.Fatalf("expected normalized email, got %v", res.User.Email)
		}
	})
}

func TestLoginWithPasswordMatrix(t *testing.T) {
	t.Run("unknown email", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.auth.LoginWithPassword("nobody@example.com", "whatever1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := newAuthFixture(t)
		if _, err := fx.auth.SignUp(validSignUp()); err != nil {
			t.Fatalf("signup: %v", err)
		}
		_, err := fx.auth.LoginWithPassword("asha@example.com", "WrongPass123!")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("record without password credentials", func(t *testing.T) {
		fx := newAuthFixture(t)
		email := "otp-born@example.com"
		if err := fx.userRepo.Create(&domain.User{Email: &email}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		_, err := fx.auth.LoginWithPassword(email, "whatever1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for passwordless record, got %v", err)
		}
	})

	t.Run("signup then login roundtrip touches lastLogin", func(t *testing.T) {
		fx := newAuthFixture(t)
		created, err := fx.auth.SignUp(validSignUp())
		if err != nil {
			t.Fatalf("signup: %v", err)
		}
		before := *created.User.LastLoginAt

		res, err := fx.auth.LoginWithPassword("ASHA@example.com", "StrongPass123!")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if res.User.ID != created.User.ID {
			t.Fatalf("expected same identity, got %d vs %d", res.User.ID, created.User.ID)
		}
		if res.Token == "" {
			t.Fatal("expected a token")
		}
		if res.User.LastLoginAt == nil || res.User.LastLoginAt.Before(before) {
			t.Fatal("expected lastLogin to move forward")
		}
	})
}

func TestLoginWithOTPMatrix(t *testing.T) {
	t.Run("invalid mobile", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.auth.LoginWithOTP(context.Background(), "12ab", "123456")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.sentCode(t, "+919876543210")
		_, err := fx.auth.LoginWithOTP(context.Background(), "+919876543210", "000000")
		if !errors.Is(err, ErrInvalidOrExpiredOTP) {
			t.Fatalf("expected ErrInvalidOrExpiredOTP, got %v", err)
		}
	})

	t.Run("expired code", func(t *testing.T) {
		fx := newAuthFixture(t)
		code := fx.sentCode(t, "+919876543210")
		fx.redis.FastForward(6 * time.Minute)
		_, err := fx.auth.LoginWithOTP(context.Background(), "+919876543210", code)
		if !errors.Is(err, ErrInvalidOrExpiredOTP) {
			t.Fatalf("expected ErrInvalidOrExpiredOTP after expiry, got %v", err)
		}
	})

	t.Run("first login creates minimal record", func(t *testing.T) {
		fx := newAuthFixture(t)
		code := fx.sentCode(t, "+91 98765 43210")
		res, err := fx.auth.LoginWithOTP(context.Background(), "+91 98765 43210", code)
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		u := res.User
		if u.MobileNumber == nil || *u.MobileNumber != "+919876543210" {
			t.Fatalf("expected normalized mobile, got %v", u.MobileNumber)
		}
		if u.Email != nil || u.PasswordHash != nil || u.GoogleID != nil {
			t.Fatal("expected an OTP-born record to carry mobile only")
		}
		if !u.IsVerified {
			t.Fatal("expected OTP login to mark the number verified")
		}
		if res.Token == "" {
			t.Fatal("expected a token")
		}
	})

	t.Run("code is single use", func(t *testing.T) {
		fx := newAuthFixture(t)
		code := fx.sentCode(t, "+919876543210")
		if _, err := fx.auth.LoginWithOTP(context.Background(), "+919876543210", code); err != nil {
			t.Fatalf("first login: %v", err)
		}
		_, err := fx.auth.LoginWithOTP(context.Background(), "+919876543210", code)
		if !errors.Is(err, ErrInvalidOrExpiredOTP) {
			t.Fatalf("expected replayed code to fail, got %v", err)
		}
	})

	t.Run("repeat login resolves to same record", func(t *testing.T) {
		fx := newAuthFixture(t)
		code := fx.sentCode(t, "+919876543210")
		first, err := fx.auth.LoginWithOTP(context.Background(), "+919876543210", code)
		if err != nil {
			t.Fatalf("first login: %v", err)
		}
		code = fx.sentCode(t, "+919876543210")
		second, err := fx.auth.LoginWithOTP(context.Background(), "+919876543210", code)
		if err != nil {
			t.Fatalf("second login: %v", err)
		}
		if first.User.ID != second.User.ID {
			t.Fatalf("expected one identity per mobile, got %d and %d", first.User.ID, second.User.ID)
		}
		if fx.userRepo.count() != 1 {
			t.Fatalf("expected exactly one record, got %d", fx.userRepo.count())
		}
	})

	t.Run("concurrent first login loses race and retries find", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.userRepo.missMobileFindOnce = true
		mobile := "+919876543210"
		if err := fx.userRepo.Create(&domain.User{MobileNumber: &mobile}); err != nil {
			t.Fatalf("seed racing winner: %v", err)
		}

		code := fx.sentCode(t, mobile)
		res, err := fx.auth.LoginWithOTP(context.Background(), mobile, code)
		if err != nil {
			t.Fatalf("login after lost race: %v", err)
		}
		if fx.userRepo.count() != 1 {
			t.Fatalf("expected the winner's record to be reused, got %d records", fx.userRepo.count())
		}
		if res.User.MobileNumber == nil || *res.User.MobileNumber != mobile {
			t.Fatalf("expected the existing record, got %+v", res.User)
		}
	})
}

func TestLoginWithGoogleMatrix(t *testing.T) {
	t.Run("missing provider id", func(t *testing.T) {
		fx := newAuthFixture(t)
		_, err := fx.auth.LoginWithGoogle("  ", "g@example.com", "G User")
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})

	t.Run("first login creates federated record", func(t *testing.T) {
		fx := newAuthFixture(t)
		res, err := fx.auth.LoginWithGoogle("google-sub-1", "G@Example.com", "Gina Example Person")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		u := res.User
		if u.GoogleID == nil || *u.GoogleID != "google-sub-1" {
			t.Fatalf("expected provider id to be stored, got %v", u.GoogleID)
		}
		if u.Email == nil || *u.Email != "g@example.com" {
			t.Fatalf("expected normalized email, got %v", u.Email)
		}
		if u.FirstName != "Gina" || u.LastName != "Example Person" {
			t.Fatalf("expected split name, got %q %q", u.FirstName, u.LastName)
		}
		if u.PasswordHash != nil {
			t.Fatal("expected no password credentials on a federated record")
		}
	})

	t.Run("repeat login resolves by provider id", func(t *testing.T) {
		fx := newAuthFixture(t)
		first, err := fx.auth.LoginWithGoogle("google-sub-1", "g@example.com", "G User")
		if err != nil {
			t.Fatalf("first login: %v", err)
		}
		second, err := fx.auth.LoginWithGoogle("google-sub-1", "changed@example.com", "New Name")
		if err != nil {
			t.Fatalf("second login: %v", err)
		}
		if first.User.ID != second.User.ID {
			t.Fatal("expected one identity per provider subject")
		}
		if fx.userRepo.count() != 1 {
			t.Fatalf("expected exactly one record, got %d", fx.userRepo.count())
		}
	})

	t.Run("email collision with password account is rejected, not merged", func(t *testing.T) {
		fx := newAuthFixture(t)
		if _, err := fx.auth.SignUp(validSignUp()); err != nil {
			t.Fatalf("signup: %v", err)
		}
		_, err := fx.auth.LoginWithGoogle("google-sub-2", "asha@example.com", "Asha Sharma")
		if !errors.Is(err, repository.ErrDuplicateIdentity) {
			t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
		}
		// The password account is untouched.
		if _, err := fx.auth.LoginWithPassword("asha@example.com", "StrongPass123!"); err != nil {
			t.Fatalf("password login after rejected merge: %v", err)
		}
	})
}

// userRepoState is an in-memory UserRepository with the same unique-index
// behavior as the real store.
type userRepoState struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*domain.User

	missMobileFindOnce bool
}

func newUserRepoState() *userRepoState {
	return &userRepoState{nextID: 1, byID: map[uint]*domain.User{}}
}

func (r *userRepoState) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

func clone(u *domain.User) *domain.User {
	copied := *u
	return &copied
}

func (r *userRepoState) FindByID(id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return clone(u), nil
}

func (r *userRepoState) FindByEmail(email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email != nil && *u.Email == email {
			return clone(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepoState) FindByMobile(mobile string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missMobileFindOnce {
		// Simulates the losing side of a concurrent first login: the
		// winner's insert is not yet visible to the first find.
		r.missMobileFindOnce = false
		return nil, gorm.ErrRecordNotFound
	}
	for _, u := range r.byID {
		if u.MobileNumber != nil && *u.MobileNumber == mobile {
			return clone(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepoState) FindByGoogleID(googleID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			return clone(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepoState) Create(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
			return repository.ErrDuplicateIdentity
		}
		if user.MobileNumber != nil && u.MobileNumber != nil && *u.MobileNumber == *user.MobileNumber {
			return repository.ErrDuplicateIdentity
		}
		if user.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *user.GoogleID {
			return repository.ErrDuplicateIdentity
		}
	}
	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = clone(user)
	return nil
}

func (r *userRepoState) Update(user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.byID[user.ID] = clone(user)
	return nil
}

func (r *userRepoState) TouchLastLogin(userID uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *userRepoState) ListOthers(excludeUserID uint) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.byID {
		if u.ID == excludeUserID || !u.IsActive {
			continue
		}
		out = append(out, *clone(u))
	}
	return out, nil
}
