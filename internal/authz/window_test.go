package authz_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dulhara79/Nexora-sub000/internal/authz"
	"github.com/dulhara79/Nexora-sub000/internal/models"
)

func TestAuthorWithinWindow(t *testing.T) {
	author := uuid.New()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := authz.CanModify(author, created, author, models.RoleUser, authz.DefaultEditWindow, created.Add(23*time.Hour))
	if err != nil {
		t.Fatalf("author within window should be allowed, got %v", err)
	}
}

func TestAuthorAfterWindow(t *testing.T) {
	author := uuid.New()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	err := authz.CanModify(author, created, author, models.RoleUser, authz.DefaultEditWindow, created.Add(25*time.Hour))
	var fe *models.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if fe.Reason != models.ReasonWindowExpired {
		t.Fatalf("expected reason %q, got %q", models.ReasonWindowExpired, fe.Reason)
	}
}

func TestExactWindowBoundary(t *testing.T) {
	author := uuid.New()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// now == createdAt+window is still inside the window
	if err := authz.CanModify(author, created, author, models.RoleUser, authz.DefaultEditWindow, created.Add(24*time.Hour)); err != nil {
		t.Fatalf("boundary instant should be allowed, got %v", err)
	}
}

func TestNonAuthorDenied(t *testing.T) {
	author := uuid.New()
	other := uuid.New()
	created := time.Now()

	err := authz.CanModify(author, created, other, models.RoleUser, authz.DefaultEditWindow, created.Add(time.Minute))
	var fe *models.ForbiddenError
	if !errors.As(err, &fe) {
		t.Fatalf("expected ForbiddenError, got %v", err)
	}
	if fe.Reason != models.ReasonUnauthorized {
		t.Fatalf("expected reason %q, got %q", models.ReasonUnauthorized, fe.Reason)
	}
}

func TestElevatedBypassesWindowAndAuthorship(t *testing.T) {
	author := uuid.New()
	admin := uuid.New()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if err := authz.CanModify(author, created, admin, models.RoleAdmin, authz.DefaultEditWindow, created.Add(1000*time.Hour)); err != nil {
		t.Fatalf("admin should bypass the gate, got %v", err)
	}
}
