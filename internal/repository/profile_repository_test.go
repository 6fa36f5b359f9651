package repository

import (
	"errors"
	"testing"

	"matrimony-backend/internal/domain"

	"gorm.io/gorm"
)

func TestProfileRepositoryCRUD(t *testing.T) {
	repo := NewProfileRepository(newRepositoryDBForTest(t))

	p := &domain.Profile{ExternalID: "ext-1", UserID: 7, FullName: "Asha Sharma", Age: 29}
	if err := repo.Create(p); err != nil {
		t.Fatalf("create: %v", err)
	}

	loaded, err := repo.FindByUserID(7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if loaded.FullName != "Asha Sharma" || loaded.ExternalID != "ext-1" {
		t.Fatalf("unexpected profile: %+v", loaded)
	}

	loaded.Age = 30
	if err := repo.Update(loaded); err != nil {
		t.Fatalf("update: %v", err)
	}
	reloaded, err := repo.FindByUserID(7)
	if err != nil {
		t.Fatalf("find updated: %v", err)
	}
	if reloaded.Age != 30 {
		t.Fatalf("expected age 30, got %d", reloaded.Age)
	}

	n, err := repo.DeleteByUserID(7)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected one row deleted, got %d", n)
	}
	if _, err := repo.FindByUserID(7); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
}

func TestProfileRepositoryOnePerUser(t *testing.T) {
	repo := NewProfileRepository(newRepositoryDBForTest(t))

	if err := repo.Create(&domain.Profile{ExternalID: "ext-1", UserID: 7}); err != nil {
		t.Fatalf("create: %v", err)
	}
	err := repo.Create(&domain.Profile{ExternalID: "ext-2", UserID: 7})
	if !errors.Is(err, ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity for second profile, got %v", err)
	}

	n, err := repo.DeleteByUserID(999)
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected zero rows for missing user, got %d", n)
	}
}
