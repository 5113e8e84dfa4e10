package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubStoreRepo struct {
	stores    map[uuid.UUID]*models.Store
	createErr error
	deleted   []uuid.UUID
}

func newStubStoreRepo() *stubStoreRepo {
	return &stubStoreRepo{stores: make(map[uuid.UUID]*models.Store)}
}

func (s *stubStoreRepo) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	store := dto.ToModel()
	store.ID = uuid.New()
	s.stores[store.ID] = store
	return store, nil
}

func (s *stubStoreRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, ok := s.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

func (s *stubStoreRepo) FindByHandle(ctx context.Context, handle string) (*models.Store, error) {
	for _, store := range s.stores {
		if store.Handle == handle {
			return store, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStoreRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Store, error) {
	var out []models.Store
	for _, store := range s.stores {
		if store.OwnerID == ownerID {
			out = append(out, *store)
		}
	}
	return out, nil
}

func (s *stubStoreRepo) Update(ctx context.Context, store *models.Store) error {
	s.stores[store.ID] = store
	return nil
}

func (s *stubStoreRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.stores, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func TestNormalizeHandle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Cool Shop", "my-cool-shop"},
		{"  spaced   out  ", "spaced-out"},
		{"Already-Slugged", "already-slugged"},
		{"symbols!@#$", "symbols"},
		{"--edges--", "edges"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeHandle(tc.in); got != tc.want {
			t.Fatalf("NormalizeHandle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCreateStoreSlugsHandle(t *testing.T) {
	repo := newStubStoreRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	ownerID := uuid.New()
	dto, err := svc.Create(context.Background(), ownerID, CreateStoreInput{
		Name:   "My Live Shop",
		Handle: "My Live Shop!",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Handle != "my-live-shop" {
		t.Fatalf("unexpected handle %q", dto.Handle)
	}
	if dto.OwnerID != ownerID {
		t.Fatalf("unexpected owner %s", dto.OwnerID)
	}
}

func TestCreateStoreFallsBackToNameForHandle(t *testing.T) {
	svc, _ := NewService(newStubStoreRepo())
	dto, err := svc.Create(context.Background(), uuid.New(), CreateStoreInput{Name: "Fresh Finds"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if dto.Handle != "fresh-finds" {
		t.Fatalf("unexpected handle %q", dto.Handle)
	}
}

func TestCreateStoreDuplicateHandle(t *testing.T) {
	repo := newStubStoreRepo()
	repo.createErr = errors.New(`duplicate key value violates unique constraint "idx_stores_handle"`)
	svc, _ := NewService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), CreateStoreInput{Name: "Shop", Handle: "shop"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	repo := newStubStoreRepo()
	svc, _ := NewService(repo)

	owner := uuid.New()
	dto, err := svc.Create(context.Background(), owner, CreateStoreInput{Name: "Shop"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(context.Background(), uuid.New(), dto.ID, UpdateStoreInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	name := "Renamed"
	updated, err := svc.Update(context.Background(), owner, dto.ID, UpdateStoreInput{Name: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("unexpected name %q", updated.Name)
	}
}

func TestDeleteStore(t *testing.T) {
	repo := newStubStoreRepo()
	svc, _ := NewService(repo)

	owner := uuid.New()
	dto, _ := svc.Create(context.Background(), owner, CreateStoreInput{Name: "Shop"})

	if err := svc.Delete(context.Background(), owner, dto.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(repo.deleted) != 1 {
		t.Fatal("expected delete call")
	}

	err := svc.Delete(context.Background(), owner, dto.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
