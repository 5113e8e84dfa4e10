package sessions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository handles live session persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to session operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new live session row.
func (r *Repository) Create(ctx context.Context, session *models.LiveSession) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	return r.db.WithContext(ctx).Create(session).Error
}

// FindByID loads a session by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.LiveSession, error) {
	var session models.LiveSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByCode loads a session by its public code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.LiveSession, error) {
	var session models.LiveSession
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByStore returns sessions belonging to a store, newest first.
func (r *Repository) FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.LiveSession, error) {
	var sessions []models.LiveSession
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// CountActiveByStore returns the number of active sessions for a store.
func (r *Repository) CountActiveByStore(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LiveSession{}).
		Where("store_id = ? AND status = ?", storeID, enums.SessionStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update saves the provided session.
func (r *Repository) Update(ctx context.Context, session *models.LiveSession) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}
	return r.db.WithContext(ctx).Save(session).Error
}

// IncrementOrderCount bumps the per-session order counter atomically.
func (r *Repository) IncrementOrderCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.LiveSession{}).
		Where("id = ?", id).
		UpdateColumn("order_count", gorm.Expr("order_count + 1")).Error
}

// Delete removes the session row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.LiveSession{}, "id = ?", id).Error
}
