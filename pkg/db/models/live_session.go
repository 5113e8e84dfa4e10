package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellboxapp/sellbox-backend/pkg/enums"
)

// LiveSession represents one live selling broadcast. The Code is the short
// public identifier buyers use to reach the order form.
type LiveSession struct {
	ID         uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID    uuid.UUID           `gorm:"column:store_id;type:uuid;not null;index"`
	Code       string              `gorm:"column:code;type:text;not null;uniqueIndex"`
	Title      string              `gorm:"column:title;not null"`
	Status     enums.SessionStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Note       *string             `gorm:"column:note"`

	// Bank transfer details shown to buyers on the order form.
	BankName    *string `gorm:"column:bank_name"`
	BankAccount *string `gorm:"column:bank_account"`
	BankHolder  *string `gorm:"column:bank_holder"`

	ViewCount  int64               `gorm:"column:view_count;not null;default:0"`
	OrderCount int64               `gorm:"column:order_count;not null;default:0"`
	ClosedAt   *time.Time          `gorm:"column:closed_at"`
	CreatedAt  time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
