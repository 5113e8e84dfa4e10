package profiles

import (
	"context"

	"github.com/google/uuid"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to profile operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateProfileDTO holds creation-time data for a new profile.
type CreateProfileDTO struct {
	UserID      uuid.UUID
	Email       *string
	DisplayName string
	Phone       *string
}

// Create persists a new profile row.
func (r *Repository) Create(ctx context.Context, dto CreateProfileDTO) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:      dto.UserID,
		Email:       dto.Email,
		DisplayName: dto.DisplayName,
		Phone:       dto.Phone,
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByUserID loads the profile belonging to a user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update saves the provided profile.
func (r *Repository) Update(ctx context.Context, profile *models.Profile) error {
	if profile == nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).Save(profile).Error
}
