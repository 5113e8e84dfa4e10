package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
)

// StoreDTO exposes safe store data in API responses.
type StoreDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Handle      string    `json:"handle"`
	Description *string   `json:"description,omitempty"`
	Phone       *string   `json:"phone,omitempty"`
	BankInfo    *string   `json:"bank_info,omitempty"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateStoreDTO holds creation-time data for a new store.
type CreateStoreDTO struct {
	OwnerID     uuid.UUID
	Name        string
	Handle      string
	Description *string
	Phone       *string
	BankInfo    *string
	LogoURL     *string
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	return &StoreDTO{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Handle:      m.Handle,
		Description: m.Description,
		Phone:       m.Phone,
		BankInfo:    m.BankInfo,
		LogoURL:     m.LogoURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO.
func (c CreateStoreDTO) ToModel() *models.Store {
	return &models.Store{
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Handle:      c.Handle,
		Description: c.Description,
		Phone:       c.Phone,
		BankInfo:    c.BankInfo,
		LogoURL:     c.LogoURL,
	}
}
