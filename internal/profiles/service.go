package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sellboxapp/sellbox-backend/pkg/db"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"github.com/sellboxapp/sellbox-backend/pkg/logger"
	"gorm.io/gorm"
)

type profileRepository interface {
	Create(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
}

// Service exposes profile operations.
type Service interface {
	Provision(ctx context.Context, userID uuid.UUID, displayName string) (*ProfileDTO, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error)
}

type service struct {
	repo profileRepository
	logg *logger.Logger
}

// NewService builds a profile service with the provided repository.
func NewService(repo profileRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("profile repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// UpdateProfileInput captures the allowed profile fields for mutation. The
// email mirror is set at registration and never updated here.
type UpdateProfileInput struct {
	DisplayName *string
	Phone       *string
	AvatarURL   *string
	Bio         *string
}

// ProfileDTO exposes safe profile data in API responses.
type ProfileDTO struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Email       *string   `json:"email,omitempty"`
	DisplayName string    `json:"display_name"`
	Phone       *string   `json:"phone,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	Bio         *string   `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromModel maps the persisted profile into a DTO.
func FromModel(m *models.Profile) *ProfileDTO {
	if m == nil {
		return nil
	}
	return &ProfileDTO{
		ID:          m.ID,
		UserID:      m.UserID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Phone:       m.Phone,
		AvatarURL:   m.AvatarURL,
		Bio:         m.Bio,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// Provision creates the profile row for a freshly registered user. A
// concurrent duplicate insert is absorbed by reloading the existing row.
func (s *service) Provision(ctx context.Context, userID uuid.UUID, displayName string) (*ProfileDTO, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name is required")
	}

	profile, err := s.repo.Create(ctx, CreateProfileDTO{UserID: userID, DisplayName: displayName})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			if s.logg != nil {
				s.logg.Warn(ctx, "profile already provisioned, reusing existing row")
			}
			existing, findErr := s.repo.FindByUserID(ctx, userID)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load existing profile")
			}
			return FromModel(existing), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}
	return FromModel(profile), nil
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return FromModel(profile), nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	if input.DisplayName != nil {
		trimmed := strings.TrimSpace(*input.DisplayName)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "display name cannot be empty")
		}
		profile.DisplayName = trimmed
	}
	if input.Phone != nil {
		profile.Phone = cloneStringPtr(input.Phone)
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = cloneStringPtr(input.AvatarURL)
	}
	if input.Bio != nil {
		profile.Bio = cloneStringPtr(input.Bio)
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return FromModel(profile), nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
