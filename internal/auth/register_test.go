package auth

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"github.com/sellboxapp/sellbox-backend/pkg/logger"
)

func TestRegisterRequiresEmail(t *testing.T) {
	svc := &registerService{}
	err := svc.Register(context.Background(), RegisterRequest{DisplayName: "Jane", Password: "hunter2!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterRequiresDisplayName(t *testing.T) {
	svc := &registerService{}
	err := svc.Register(context.Background(), RegisterRequest{Email: "seller@example.com", Password: "hunter2!"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAbsorbDuplicateProfileSwallowsUniqueViolation(t *testing.T) {
	svc := &registerService{logg: logger.New(logger.Options{ServiceName: "test"})}

	err := svc.absorbDuplicateProfile(context.Background(),
		errors.New(`duplicate key value violates unique constraint "idx_profiles_user_id"`))
	if err != nil {
		t.Fatalf("duplicate profile must be absorbed, got %v", err)
	}
}

func TestAbsorbDuplicateProfileSurfacesOtherErrors(t *testing.T) {
	svc := &registerService{}

	err := svc.absorbDuplicateProfile(context.Background(), errors.New("connection reset"))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
