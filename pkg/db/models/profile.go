package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile carries the seller-facing display data attached to a user. One row
// per user, provisioned right after registration.
type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Email       *string   `gorm:"column:email"`
	DisplayName string    `gorm:"column:display_name;not null"`
	Phone       *string   `gorm:"column:phone"`
	AvatarURL   *string   `gorm:"column:avatar_url"`
	Bio         *string   `gorm:"column:bio"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
