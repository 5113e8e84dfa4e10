package stores

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sellboxapp/sellbox-backend/pkg/db"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"gorm.io/gorm"
)

var handleStripPattern = regexp.MustCompile(`[^a-z0-9-]`)

type storeRepository interface {
	Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	FindByHandle(ctx context.Context, handle string) (*models.Store, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*StoreDTO, error)
	GetByID(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error)
	Update(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, userID, storeID uuid.UUID) error
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

// CreateStoreInput captures the fields accepted when opening a store.
type CreateStoreInput struct {
	Name        string
	Handle      string
	Description *string
	Phone       *string
	BankInfo    *string
	LogoURL     *string
}

// UpdateStoreInput captures the allowed store fields for mutation.
type UpdateStoreInput struct {
	Name        *string
	Description *string
	Phone       *string
	BankInfo    *string
	LogoURL     *string
}

// NormalizeHandle turns free-form input into a URL-safe slug: lowercase,
// spaces collapsed to single dashes, everything else stripped.
func NormalizeHandle(input string) string {
	handle := strings.ToLower(strings.TrimSpace(input))
	handle = strings.Join(strings.Fields(handle), "-")
	handle = handleStripPattern.ReplaceAllString(handle, "")
	return strings.Trim(handle, "-")
}

func (s *service) Create(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	handle := NormalizeHandle(input.Handle)
	if handle == "" {
		handle = NormalizeHandle(name)
	}
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store handle is required")
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{
		OwnerID:     ownerID,
		Name:        name,
		Handle:      handle,
		Description: input.Description,
		Phone:       input.Phone,
		BankInfo:    input.BankInfo,
		LogoURL:     input.LogoURL,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "idx_stores_handle") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "store handle already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(store), nil
}

func (s *service) GetByID(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.loadOwned(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	return FromModel(store), nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]StoreDTO, error) {
	stores, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	out := make([]StoreDTO, 0, len(stores))
	for i := range stores {
		out = append(out, *FromModel(&stores[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.loadOwned(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name cannot be empty")
		}
		store.Name = trimmed
	}
	if input.Description != nil {
		store.Description = cloneStringPtr(input.Description)
	}
	if input.Phone != nil {
		store.Phone = cloneStringPtr(input.Phone)
	}
	if input.BankInfo != nil {
		store.BankInfo = cloneStringPtr(input.BankInfo)
	}
	if input.LogoURL != nil {
		store.LogoURL = cloneStringPtr(input.LogoURL)
	}

	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) Delete(ctx context.Context, userID, storeID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, storeID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, storeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

// loadOwned fetches the store and enforces ownership.
func (s *service) loadOwned(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to user")
	}
	return store, nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
