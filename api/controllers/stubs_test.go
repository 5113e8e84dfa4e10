package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sellboxapp/sellbox-backend/internal/auth"
	"github.com/sellboxapp/sellbox-backend/internal/buyercache"
	"github.com/sellboxapp/sellbox-backend/internal/orders"
	"github.com/sellboxapp/sellbox-backend/internal/sessions"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
)

// newTestRouter mounts a handler behind chi so path parameters resolve.
func newTestRouter(pattern string, h http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Handle(pattern, h)
	return r
}

type stubAuthService struct {
	loginResp   *auth.LoginResponse
	refreshResp *auth.RefreshResponse
	err         error

	loggedOut []string
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.loginResp, nil
}

func (s *stubAuthService) Refresh(_ context.Context, req auth.RefreshRequest) (*auth.RefreshResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.refreshResp, nil
}

func (s *stubAuthService) Logout(_ context.Context, accessID string) error {
	if s.err != nil {
		return s.err
	}
	s.loggedOut = append(s.loggedOut, accessID)
	return nil
}

type stubSessionService struct {
	session *sessions.SessionDTO
	public  *sessions.PublicSessionDTO
	err     error

	createdStore uuid.UUID
	createdInput sessions.CreateSessionInput
	resolvedCode string
}

func (s *stubSessionService) Create(_ context.Context, _ uuid.UUID, storeID uuid.UUID, input sessions.CreateSessionInput) (*sessions.SessionDTO, error) {
	s.createdStore = storeID
	s.createdInput = input
	return s.session, s.err
}

func (s *stubSessionService) GetByID(context.Context, uuid.UUID, uuid.UUID) (*sessions.SessionDTO, error) {
	return s.session, s.err
}

func (s *stubSessionService) ListByStore(context.Context, uuid.UUID, uuid.UUID) (*sessions.SessionListDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.session == nil {
		return &sessions.SessionListDTO{}, nil
	}
	return &sessions.SessionListDTO{Sessions: []sessions.SessionDTO{*s.session}, ActiveCount: 1}, nil
}

func (s *stubSessionService) Close(context.Context, uuid.UUID, uuid.UUID) (*sessions.SessionDTO, error) {
	return s.session, s.err
}

func (s *stubSessionService) Reopen(context.Context, uuid.UUID, uuid.UUID) (*sessions.SessionDTO, error) {
	return s.session, s.err
}

func (s *stubSessionService) Update(context.Context, uuid.UUID, uuid.UUID, sessions.UpdateSessionInput) (*sessions.SessionDTO, error) {
	return s.session, s.err
}

func (s *stubSessionService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

func (s *stubSessionService) ResolveCode(_ context.Context, code string) (*sessions.PublicSessionDTO, error) {
	s.resolvedCode = code
	return s.public, s.err
}

type stubOrderService struct {
	order  *orders.OrderDTO
	public *orders.PublicOrderDTO
	page   *orders.OrderPage
	stats  *orders.StatsDTO
	err    error

	submitCode   string
	submitInput  orders.SubmitOrderInput
	listInput    orders.ListOrdersInput
	transitionTo enums.OrderStatus
}

func (s *stubOrderService) Submit(_ context.Context, sessionCode string, input orders.SubmitOrderInput) (*orders.OrderDTO, error) {
	s.submitCode = sessionCode
	s.submitInput = input
	return s.order, s.err
}

func (s *stubOrderService) GetPublic(context.Context, uuid.UUID) (*orders.PublicOrderDTO, error) {
	return s.public, s.err
}

func (s *stubOrderService) GetByID(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) List(_ context.Context, _ uuid.UUID, input orders.ListOrdersInput) (*orders.OrderPage, error) {
	s.listInput = input
	return s.page, s.err
}

func (s *stubOrderService) Recent(context.Context, uuid.UUID, uuid.UUID, int) ([]orders.OrderDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.order == nil {
		return nil, nil
	}
	return []orders.OrderDTO{*s.order}, nil
}

func (s *stubOrderService) Stats(context.Context, uuid.UUID, uuid.UUID) (*orders.StatsDTO, error) {
	return s.stats, s.err
}

func (s *stubOrderService) Transition(_ context.Context, _, _ uuid.UUID, target enums.OrderStatus) (*orders.OrderDTO, error) {
	s.transitionTo = target
	return s.order, s.err
}

func (s *stubOrderService) UpdateShipping(context.Context, uuid.UUID, uuid.UUID, orders.ShippingInput) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) AttachPaymentProof(context.Context, uuid.UUID, uuid.UUID, string) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) UpdateSellerNote(context.Context, uuid.UUID, uuid.UUID, string) (*orders.OrderDTO, error) {
	return s.order, s.err
}

func (s *stubOrderService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return s.err
}

type stubBuyerCacheService struct {
	entry      *buyercache.Entry
	lastKey    string
	firstOrder bool
	err        error
}

func (s *stubBuyerCacheService) Lookup(context.Context, string, string, string) (*buyercache.Entry, error) {
	return s.entry, s.err
}

func (s *stubBuyerCacheService) Store(context.Context, string, string, string, buyercache.Entry) error {
	return s.err
}

func (s *stubBuyerCacheService) RememberLastBuyer(context.Context, string, string, string) error {
	return s.err
}

func (s *stubBuyerCacheService) LastBuyer(context.Context, string) (*buyercache.Entry, string, error) {
	return s.entry, s.lastKey, s.err
}

func (s *stubBuyerCacheService) IsFirstOrder(context.Context, string, string, string) (bool, error) {
	return s.firstOrder, s.err
}
