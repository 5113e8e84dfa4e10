package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	"github.com/sellboxapp/sellbox-backend/pkg/pagination"
)

// ListFilter narrows an order listing. StoreID is always required, the rest
// are optional.
type ListFilter struct {
	StoreID   uuid.UUID
	SessionID *uuid.UUID
	Status    *enums.OrderStatus
	Cursor    *pagination.Cursor
}

// StatusCount is one row of the per-status aggregation.
type StatusCount struct {
	Status enums.OrderStatus
	Count  int64
}

// Repository handles order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to order operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new order row.
func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID loads an order by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders matching the filter, newest first, up to limit rows.
func (r *Repository) List(ctx context.Context, filter ListFilter, limit int) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Where("store_id = ?", filter.StoreID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if filter.SessionID != nil {
		query = query.Where("session_id = ?", *filter.SessionID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt, filter.Cursor.CreatedAt, filter.Cursor.ID,
		)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Recent returns the newest orders for a store without cursor plumbing.
func (r *Repository) Recent(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CountByStatus aggregates order counts per status for a store.
func (r *Repository) CountByStatus(ctx context.Context, storeID uuid.UUID) ([]StatusCount, error) {
	var counts []StatusCount
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, count(*) as count").
		Where("store_id = ?", storeID).
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	return counts, nil
}

// SumAmountSince totals the amounts of non-cancelled orders created at or
// after the given time, together with their count.
func (r *Repository) SumAmountSince(ctx context.Context, storeID uuid.UUID, since time.Time) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("count(*) as count, sum(amount) as total").
		Where("store_id = ? AND created_at >= ? AND status <> ?", storeID, since, enums.OrderStatusCancelled).
		Scan(&row).Error; err != nil {
		return 0, decimal.Zero, err
	}
	if !row.Total.Valid {
		return row.Count, decimal.Zero, nil
	}
	return row.Count, row.Total.Decimal, nil
}

// Update saves the provided order.
func (r *Repository) Update(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order is required")
	}
	return r.db.WithContext(ctx).Save(order).Error
}

// Delete removes the order row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Order{}, "id = ?", id).Error
}
