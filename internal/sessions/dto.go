package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
)

// SessionDTO exposes live session data to the owning seller.
type SessionDTO struct {
	ID          uuid.UUID           `json:"id"`
	StoreID     uuid.UUID           `json:"store_id"`
	Code        string              `json:"code"`
	Title       string              `json:"title"`
	Status      enums.SessionStatus `json:"status"`
	Note        *string             `json:"note,omitempty"`
	BankName    *string             `json:"bank_name,omitempty"`
	BankAccount *string             `json:"bank_account,omitempty"`
	BankHolder  *string             `json:"bank_holder,omitempty"`
	ViewCount   int64               `json:"view_count"`
	OrderCount  int64               `json:"order_count"`
	ClosedAt    *time.Time          `json:"closed_at,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// SessionListDTO is one store's sessions plus how many are currently live.
type SessionListDTO struct {
	Sessions    []SessionDTO `json:"sessions"`
	ActiveCount int64        `json:"active_count"`
}

// PublicSessionDTO is the buyer-facing view resolved from a session code.
// It intentionally omits seller-internal fields. The bank fields are shown
// to buyers as transfer instructions on the order form.
type PublicSessionDTO struct {
	Code        string              `json:"code"`
	Title       string              `json:"title"`
	Status      enums.SessionStatus `json:"status"`
	Note        *string             `json:"note,omitempty"`
	BankName    *string             `json:"bank_name,omitempty"`
	BankAccount *string             `json:"bank_account,omitempty"`
	BankHolder  *string             `json:"bank_holder,omitempty"`
	StoreName   string              `json:"store_name"`
	StoreLogo   *string             `json:"store_logo,omitempty"`
	StorePhone  *string             `json:"store_phone,omitempty"`
}

// FromModel maps the persisted session into a DTO.
func FromModel(m *models.LiveSession) *SessionDTO {
	if m == nil {
		return nil
	}
	return &SessionDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		Code:        m.Code,
		Title:       m.Title,
		Status:      m.Status,
		Note:        m.Note,
		BankName:    m.BankName,
		BankAccount: m.BankAccount,
		BankHolder:  m.BankHolder,
		ViewCount:   m.ViewCount,
		OrderCount:  m.OrderCount,
		ClosedAt:    m.ClosedAt,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
