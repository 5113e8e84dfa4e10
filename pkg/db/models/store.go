package models

import (
	"time"

	"github.com/google/uuid"
)

// Store represents a seller shop. Handles are globally unique slugs used in
// public URLs.
type Store struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	Handle      string    `gorm:"column:handle;type:text;not null;uniqueIndex"`
	Description *string   `gorm:"column:description"`
	Phone       *string   `gorm:"column:phone"`
	BankInfo    *string   `gorm:"column:bank_info"`
	LogoURL     *string   `gorm:"column:logo_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
