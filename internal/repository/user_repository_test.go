package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"matrimony-backend/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.Profile{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestUserRepositoryUniqueIndexes(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))

	if err := repo.Create(&domain.User{FirstName: "A", Email: strPtr("a@example.com")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(&domain.User{FirstName: "B", Email: strPtr("a@example.com")})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity on duplicate email, got %v", err)
	}

	if err := repo.Create(&domain.User{FirstName: "C", MobileNumber: strPtr("+919876543210")}); err != nil {
		t.Fatalf("create mobile: %v", err)
	}
	err = repo.Create(&domain.User{FirstName: "D", MobileNumber: strPtr("+919876543210")})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity on duplicate mobile, got %v", err)
	}

	if err := repo.Create(&domain.User{FirstName: "E", GoogleID: strPtr("sub-1")}); err != nil {
		t.Fatalf("create google: %v", err)
	}
	err = repo.Create(&domain.User{FirstName: "F", GoogleID: strPtr("sub-1")})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity on duplicate provider id, got %v", err)
	}
}

func TestUserRepositorySparseUniquenessAllowsManyAbsentKeys(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))

	// Records without an email must not collide with each other: the
	// uniqueness domain only covers rows where the key is present.
	for i := 0; i < 3; i++ {
		mobile := fmt.Sprintf("+91987654321%d", i)
		if err := repo.Create(&domain.User{MobileNumber: &mobile}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
}

func TestUserRepositoryLookups(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))

	u := &domain.User{
		FirstName:    "Asha",
		Email:        strPtr("asha@example.com"),
		MobileNumber: strPtr("+919876543210"),
		GoogleID:     strPtr("sub-asha"),
	}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create: %v", err)
	}

	byEmail, err := repo.FindByEmail("asha@example.com")
	if err != nil || byEmail.ID != u.ID {
		t.Fatalf("find by email: id=%v err=%v", byEmail, err)
	}
	byMobile, err := repo.FindByMobile("+919876543210")
	if err != nil || byMobile.ID != u.ID {
		t.Fatalf("find by mobile: id=%v err=%v", byMobile, err)
	}
	byGoogle, err := repo.FindByGoogleID("sub-asha")
	if err != nil || byGoogle.ID != u.ID {
		t.Fatalf("find by google id: id=%v err=%v", byGoogle, err)
	}
	if _, err := repo.FindByEmail("missing@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestUserRepositoryTouchLastLogin(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))

	u := &domain.User{Email: strPtr("a@example.com")}
	if err := repo.Create(u); err != nil {
		t.Fatalf("create: %v", err)
	}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := repo.TouchLastLogin(u.ID, at); err != nil {
		t.Fatalf("touch: %v", err)
	}
	loaded, err := repo.FindByID(u.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.LastLoginAt == nil || !loaded.LastLoginAt.Equal(at) {
		t.Fatalf("expected lastLogin %v, got %v", at, loaded.LastLoginAt)
	}
}

func TestUserRepositoryListOthers(t *testing.T) {
	repo := NewUserRepository(newRepositoryDBForTest(t))

	caller := &domain.User{Email: strPtr("me@example.com"), IsActive: true}
	active := &domain.User{Email: strPtr("active@example.com"), IsActive: true}
	inactive := &domain.User{Email: strPtr("inactive@example.com"), IsActive: false}
	for _, u := range []*domain.User{caller, active, inactive} {
		if err := repo.Create(u); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	others, err := repo.ListOthers(caller.ID)
	if err != nil {
		t.Fatalf("list others: %v", err)
	}
	if len(others) != 1 || others[0].ID != active.ID {
		t.Fatalf("expected only the other active member, got %+v", others)
	}
}
