package sessions

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellboxapp/sellbox-backend/pkg/db"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"github.com/sellboxapp/sellbox-backend/pkg/logger"
)

const (
	// codeAlphabet avoids easily-confused characters (0/O, 1/I/L).
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeLength   = 6

	codeGenerationAttempts = 5
)

type sessionRepository interface {
	Create(ctx context.Context, session *models.LiveSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.LiveSession, error)
	FindByCode(ctx context.Context, code string) (*models.LiveSession, error)
	FindByStore(ctx context.Context, storeID uuid.UUID) ([]models.LiveSession, error)
	CountActiveByStore(ctx context.Context, storeID uuid.UUID) (int64, error)
	Update(ctx context.Context, session *models.LiveSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

// Service exposes live session operations.
type Service interface {
	Create(ctx context.Context, userID, storeID uuid.UUID, input CreateSessionInput) (*SessionDTO, error)
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDTO, error)
	ListByStore(ctx context.Context, userID, storeID uuid.UUID) (*SessionListDTO, error)
	Close(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDTO, error)
	Reopen(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDTO, error)
	Update(ctx context.Context, userID, sessionID uuid.UUID, input UpdateSessionInput) (*SessionDTO, error)
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
	ResolveCode(ctx context.Context, code string) (*PublicSessionDTO, error)
}

type service struct {
	repo   sessionRepository
	stores storeLoader
	logg   *logger.Logger
}

// ServiceParams wires the session service dependencies.
type ServiceParams struct {
	Repo   sessionRepository
	Stores storeLoader
	Logger *logger.Logger
}

// NewService validates dependencies and builds the session service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	return &service{repo: params.Repo, stores: params.Stores, logg: params.Logger}, nil
}

// CreateSessionInput captures the fields accepted when starting a session.
type CreateSessionInput struct {
	Title       string
	Note        *string
	BankName    *string
	BankAccount *string
	BankHolder  *string
}

// UpdateSessionInput captures the mutable session fields.
type UpdateSessionInput struct {
	Title       *string
	Note        *string
	BankName    *string
	BankAccount *string
	BankHolder  *string
}

func (s *service) Create(ctx context.Context, userID, storeID uuid.UUID, input CreateSessionInput) (*SessionDTO, error) {
	if _, err := s.loadOwnedStore(ctx, userID, storeID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session title is required")
	}

	var session *models.LiveSession
	for attempt := 0; attempt < codeGenerationAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate session code")
		}

		candidate := &models.LiveSession{
			StoreID:     storeID,
			Code:        code,
			Title:       title,
			Status:      enums.SessionStatusActive,
			Note:        input.Note,
			BankName:    input.BankName,
			BankAccount: input.BankAccount,
			BankHolder:  input.BankHolder,
		}
		if err := s.repo.Create(ctx, candidate); err != nil {
			if db.IsUniqueViolation(err, "idx_live_sessions_code") {
				if s.logg != nil {
					s.logg.Warn(s.logg.WithField(ctx, "code", code), "session code collision, retrying")
				}
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
		}
		session = candidate
		break
	}
	if session == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique session code")
	}
	return FromModel(session), nil
}

func (s *service) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDTO, error) {
	session, _, err := s.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return FromModel(session), nil
}

func (s *service) ListByStore(ctx context.Context, userID, storeID uuid.UUID) (*SessionListDTO, error) {
	if _, err := s.loadOwnedStore(ctx, userID, storeID); err != nil {
		return nil, err
	}
	sessions, err := s.repo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sessions")
	}
	active, err := s.repo.CountActiveByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active sessions")
	}
	out := make([]SessionDTO, 0, len(sessions))
	for i := range sessions {
		out = append(out, *FromModel(&sessions[i]))
	}
	return &SessionListDTO{Sessions: out, ActiveCount: active}, nil
}

func (s *service) Close(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDTO, error) {
	session, _, err := s.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == enums.SessionStatusClosed {
		return FromModel(session), nil
	}

	now := time.Now().UTC()
	session.Status = enums.SessionStatusClosed
	session.ClosedAt = &now
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close session")
	}
	return FromModel(session), nil
}

func (s *service) Reopen(ctx context.Context, userID, sessionID uuid.UUID) (*SessionDTO, error) {
	session, _, err := s.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == enums.SessionStatusActive {
		return FromModel(session), nil
	}

	session.Status = enums.SessionStatusActive
	session.ClosedAt = nil
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reopen session")
	}
	return FromModel(session), nil
}

func (s *service) Update(ctx context.Context, userID, sessionID uuid.UUID, input UpdateSessionInput) (*SessionDTO, error) {
	session, _, err := s.loadOwnedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "session title cannot be empty")
		}
		session.Title = trimmed
	}
	if input.Note != nil {
		note := *input.Note
		session.Note = &note
	}
	if input.BankName != nil {
		name := *input.BankName
		session.BankName = &name
	}
	if input.BankAccount != nil {
		account := *input.BankAccount
		session.BankAccount = &account
	}
	if input.BankHolder != nil {
		holder := *input.BankHolder
		session.BankHolder = &holder
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update session")
	}
	return FromModel(session), nil
}

func (s *service) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	if _, _, err := s.loadOwnedSession(ctx, userID, sessionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete session")
	}
	return nil
}

// ResolveCode is the public lookup used by buyers. Each resolution bumps the
// session view counter. The counter is advisory, so a lost increment under
// concurrent reads is acceptable.
func (s *service) ResolveCode(ctx context.Context, code string) (*PublicSessionDTO, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session code is required")
	}

	session, err := s.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve session code")
	}

	if session.Status != enums.SessionStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session is not active")
	}

	store, err := s.stores.FindByID(ctx, session.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session store")
	}

	session.ViewCount++
	if err := s.repo.Update(ctx, session); err != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "session_id", session.ID.String()), "bump session view count", err)
		}
	}

	return &PublicSessionDTO{
		Code:        session.Code,
		Title:       session.Title,
		Status:      session.Status,
		Note:        session.Note,
		BankName:    session.BankName,
		BankAccount: session.BankAccount,
		BankHolder:  session.BankHolder,
		StoreName:   store.Name,
		StoreLogo:   store.LogoURL,
		StorePhone:  store.Phone,
	}, nil
}

// NormalizeCode uppercases and trims a buyer-entered session code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) loadOwnedStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
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

func (s *service) loadOwnedSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.LiveSession, *models.Store, error) {
	session, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	store, err := s.loadOwnedStore(ctx, userID, session.StoreID)
	if err != nil {
		return nil, nil, err
	}
	return session, store, nil
}

func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, codeLength)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
