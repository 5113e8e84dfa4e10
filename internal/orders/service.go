package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellboxapp/sellbox-backend/internal/buyercache"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"github.com/sellboxapp/sellbox-backend/pkg/logger"
	"github.com/sellboxapp/sellbox-backend/pkg/metrics"
	"github.com/sellboxapp/sellbox-backend/pkg/pagination"
)

type orderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filter ListFilter, limit int) ([]models.Order, error)
	Recent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error)
	CountByStatus(ctx context.Context, storeID uuid.UUID) ([]StatusCount, error)
	SumAmountSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, decimal.Decimal, error)
	Update(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionDirectory interface {
	FindByCode(ctx context.Context, code string) (*models.LiveSession, error)
	IncrementOrderCount(ctx context.Context, id uuid.UUID) error
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type buyerCache interface {
	Lookup(ctx context.Context, sessionCode, name, nickname string) (*buyercache.Entry, error)
	Store(ctx context.Context, sessionCode, name, nickname string, entry buyercache.Entry) error
	RememberLastBuyer(ctx context.Context, sessionCode, name, nickname string) error
}

type objectUploader interface {
	Upload(ctx context.Context, bucket, object, contentType string, data []byte) error
	DeleteObject(ctx context.Context, bucket, object string) error
	PublicURL(bucket, object string) string
}

type imageProcessor interface {
	Validate(contentType string, size int64) error
	Process(contentType string, data []byte) []byte
	Ext(contentType string) string
}

// Service exposes order intake and seller-side order management.
type Service interface {
	Submit(ctx context.Context, sessionCode string, input SubmitOrderInput) (*OrderDTO, error)
	GetPublic(ctx context.Context, orderID uuid.UUID) (*PublicOrderDTO, error)
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	List(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderPage, error)
	Recent(ctx context.Context, userID, storeID uuid.UUID, limit int) ([]OrderDTO, error)
	Stats(ctx context.Context, userID, storeID uuid.UUID) (*StatsDTO, error)
	Transition(ctx context.Context, userID, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	UpdateShipping(ctx context.Context, userID, orderID uuid.UUID, input ShippingInput) (*OrderDTO, error)
	AttachPaymentProof(ctx context.Context, userID, orderID uuid.UUID, proofURL string) (*OrderDTO, error)
	UpdateSellerNote(ctx context.Context, userID, orderID uuid.UUID, note string) (*OrderDTO, error)
	Delete(ctx context.Context, userID, orderID uuid.UUID) error
}

// ListOrdersInput narrows and pages a seller order listing.
type ListOrdersInput struct {
	StoreID   uuid.UUID
	SessionID *uuid.UUID
	Status    *enums.OrderStatus
	Page      pagination.Params
}

// ShippingInput carries the shipping fields a seller can set.
type ShippingInput struct {
	Courier    *string
	TrackingNo *string
	PhotoURL   *string
}

type service struct {
	repo     orderRepository
	sessions sessionDirectory
	stores   storeLoader
	cache    buyerCache
	uploader objectUploader
	bucket   string
	images   imageProcessor
	intake   *metrics.IntakeMetrics
	logg     *logger.Logger
}

// ServiceParams wires the order service dependencies.
type ServiceParams struct {
	Repo     orderRepository
	Sessions sessionDirectory
	Stores   storeLoader
	Cache    buyerCache
	Uploader objectUploader
	Bucket   string
	Images   imageProcessor
	Metrics  *metrics.IntakeMetrics
	Logger   *logger.Logger
}

// NewService validates dependencies and builds the order service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session directory required")
	}
	if params.Stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("buyer cache required")
	}
	if params.Uploader == nil {
		return nil, fmt.Errorf("object uploader required")
	}
	if params.Bucket == "" {
		return nil, fmt.Errorf("storage bucket required")
	}
	if params.Images == nil {
		return nil, fmt.Errorf("image processor required")
	}
	return &service{
		repo:     params.Repo,
		sessions: params.Sessions,
		stores:   params.Stores,
		cache:    params.Cache,
		uploader: params.Uploader,
		bucket:   params.Bucket,
		images:   params.Images,
		intake:   params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) GetPublic(ctx context.Context, orderID uuid.UUID) (*PublicOrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return PublicFromModel(order), nil
}

func (s *service) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID, input ListOrdersInput) (*OrderPage, error) {
	if err := s.checkStoreOwner(ctx, userID, input.StoreID); err != nil {
		return nil, err
	}

	cursor, err := pagination.ParseCursor(input.Page.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Page.Limit)
	rows, err := s.repo.List(ctx, ListFilter{
		StoreID:   input.StoreID,
		SessionID: input.SessionID,
		Status:    input.Status,
		Cursor:    cursor,
	}, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &OrderPage{}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	page.Orders = make([]OrderDTO, 0, len(rows))
	for i := range rows {
		page.Orders = append(page.Orders, *FromModel(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nil
}

func (s *service) Recent(ctx context.Context, userID, storeID uuid.UUID, limit int) ([]OrderDTO, error) {
	if err := s.checkStoreOwner(ctx, userID, storeID); err != nil {
		return nil, err
	}

	rows, err := s.repo.Recent(ctx, storeID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent orders")
	}
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Stats(ctx context.Context, userID, storeID uuid.UUID) (*StatsDTO, error) {
	if err := s.checkStoreOwner(ctx, userID, storeID); err != nil {
		return nil, err
	}

	counts, err := s.repo.CountByStatus(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
	}

	stats := &StatsDTO{ByStatus: make(map[enums.OrderStatus]int64, len(counts))}
	for _, row := range counts {
		stats.ByStatus[row.Status] = row.Count
		stats.TotalOrders += row.Count
	}

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	todayCount, todayRevenue, err := s.repo.SumAmountSince(ctx, storeID, midnight)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate today's orders")
	}
	stats.TodayOrders = todayCount
	stats.TodayRevenue = todayRevenue
	return stats, nil
}

func (s *service) Transition(ctx context.Context, userID, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, target))
	}

	// Repeating the current status re-stamps its timestamp. Earlier stamps
	// are never cleared.
	now := time.Now().UTC()
	switch target {
	case enums.OrderStatusConfirmed:
		order.ConfirmedAt = &now
	case enums.OrderStatusPaid:
		order.PaidAt = &now
	case enums.OrderStatusShipped:
		order.ShippedAt = &now
	case enums.OrderStatusCompleted:
		order.CompletedAt = &now
	case enums.OrderStatusCancelled:
		order.CancelledAt = &now
	}
	order.Status = target

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return FromModel(order), nil
}

func (s *service) UpdateShipping(ctx context.Context, userID, orderID uuid.UUID, input ShippingInput) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if input.Courier != nil {
		order.ShipCourier = cloneStringPtr(input.Courier)
	}
	if input.TrackingNo != nil {
		order.ShipTrackingNo = cloneStringPtr(input.TrackingNo)
	}
	if input.PhotoURL != nil {
		order.ShipPhotoURL = cloneStringPtr(input.PhotoURL)
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shipping info")
	}
	return FromModel(order), nil
}

func (s *service) AttachPaymentProof(ctx context.Context, userID, orderID uuid.UUID, proofURL string) (*OrderDTO, error) {
	proofURL = strings.TrimSpace(proofURL)
	if proofURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment proof url is required")
	}

	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	order.PaymentProofURL = &proofURL

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "attach payment proof")
	}
	return FromModel(order), nil
}

func (s *service) UpdateSellerNote(ctx context.Context, userID, orderID uuid.UUID, note string) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(note)
	if trimmed == "" {
		order.SellerNote = nil
	} else {
		order.SellerNote = &trimmed
	}

	if err := s.repo.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update seller note")
	}
	return FromModel(order), nil
}

func (s *service) Delete(ctx context.Context, userID, orderID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, userID, orderID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

// loadOwned fetches the order and enforces store ownership.
func (s *service) loadOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.checkStoreOwner(ctx, userID, order.StoreID); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) checkStoreOwner(ctx context.Context, userID, storeID uuid.UUID) error {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if store.OwnerID != userID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "store does not belong to user")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
