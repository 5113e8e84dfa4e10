package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
)

// OrderDTO is the seller-facing view of an order.
type OrderDTO struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	StoreID   uuid.UUID `json:"store_id"`
	OrderNo   string    `json:"order_no"`

	BuyerName     string  `json:"buyer_name"`
	BuyerNickname *string `json:"buyer_nickname,omitempty"`
	BuyerPhone    string  `json:"buyer_phone"`
	BuyerContact  *string `json:"buyer_contact,omitempty"`
	Zipcode      *string `json:"zipcode,omitempty"`
	Address1     string  `json:"address1"`
	Address2     *string `json:"address2,omitempty"`
	DeliveryNote *string `json:"delivery_note,omitempty"`

	ItemImageURL   string               `json:"item_image_url"`
	ProductNote    *string              `json:"product_note,omitempty"`
	BuyerPriceInfo *string              `json:"buyer_price_info,omitempty"`
	Amount         *decimal.Decimal     `json:"amount,omitempty"`
	PaymentMethod  *enums.PaymentMethod `json:"payment_method,omitempty"`

	Status enums.OrderStatus `json:"status"`

	PaymentProofURL *string `json:"payment_proof_url,omitempty"`
	ShipCourier     *string `json:"ship_courier,omitempty"`
	ShipTrackingNo  *string `json:"ship_tracking_no,omitempty"`
	ShipPhotoURL    *string `json:"ship_photo_url,omitempty"`
	SellerNote      *string `json:"seller_note,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicOrderDTO is the buyer receipt view. It omits seller-internal fields
// and the full shipping details.
type PublicOrderDTO struct {
	ID            uuid.UUID         `json:"id"`
	OrderNo       string            `json:"order_no"`
	BuyerName     string            `json:"buyer_name"`
	BuyerNickname *string           `json:"buyer_nickname,omitempty"`
	ItemImageURL  string            `json:"item_image_url"`
	Amount        *decimal.Decimal  `json:"amount,omitempty"`
	Status        enums.OrderStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

// OrderPage is one cursor page of orders.
type OrderPage struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// StatsDTO summarizes a store's order book.
type StatsDTO struct {
	TotalOrders  int64                       `json:"total_orders"`
	ByStatus     map[enums.OrderStatus]int64 `json:"by_status"`
	TodayOrders  int64                       `json:"today_orders"`
	TodayRevenue decimal.Decimal             `json:"today_revenue"`
}

// FromModel maps the persisted order into the seller-facing DTO.
func FromModel(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	return &OrderDTO{
		ID:              m.ID,
		SessionID:       m.SessionID,
		StoreID:         m.StoreID,
		OrderNo:         m.OrderNo,
		BuyerName:       m.BuyerName,
		BuyerNickname:   m.BuyerNickname,
		BuyerPhone:      m.BuyerPhone,
		BuyerContact:    m.BuyerContact,
		Zipcode:         m.Zipcode,
		Address1:        m.Address1,
		Address2:        m.Address2,
		DeliveryNote:    m.DeliveryNote,
		ItemImageURL:    m.ItemImageURL,
		ProductNote:     m.ProductNote,
		BuyerPriceInfo:  m.BuyerPriceInfo,
		Amount:          m.Amount,
		PaymentMethod:   m.PaymentMethod,
		Status:          m.Status,
		PaymentProofURL: m.PaymentProofURL,
		ShipCourier:     m.ShipCourier,
		ShipTrackingNo:  m.ShipTrackingNo,
		ShipPhotoURL:    m.ShipPhotoURL,
		SellerNote:      m.SellerNote,
		ConfirmedAt:     m.ConfirmedAt,
		PaidAt:          m.PaidAt,
		ShippedAt:       m.ShippedAt,
		CompletedAt:     m.CompletedAt,
		CancelledAt:     m.CancelledAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// PublicFromModel maps the persisted order into the buyer receipt DTO.
func PublicFromModel(m *models.Order) *PublicOrderDTO {
	if m == nil {
		return nil
	}
	return &PublicOrderDTO{
		ID:            m.ID,
		OrderNo:       m.OrderNo,
		BuyerName:     m.BuyerName,
		BuyerNickname: m.BuyerNickname,
		ItemImageURL:  m.ItemImageURL,
		Amount:        m.Amount,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
	}
}
