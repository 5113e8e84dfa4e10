package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellboxapp/sellbox-backend/pkg/enums"
)

// Order represents a buyer order captured during a live session. Buyers are
// unauthenticated, so the buyer fields are denormalized onto the row.
type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SessionID uuid.UUID `gorm:"column:session_id;type:uuid;not null;index"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	OrderNo   string    `gorm:"column:order_no;type:text;not null;uniqueIndex"`

	BuyerName     string  `gorm:"column:buyer_name;not null"`
	BuyerNickname *string `gorm:"column:buyer_nickname"`
	BuyerPhone    string  `gorm:"column:buyer_phone;not null"`
	BuyerContact  *string `gorm:"column:buyer_contact"`
	Zipcode      *string `gorm:"column:zipcode"`
	Address1     string  `gorm:"column:address1;not null"`
	Address2     *string `gorm:"column:address2"`
	DeliveryNote *string `gorm:"column:delivery_note"`

	ItemImageURL   string               `gorm:"column:item_image_url;not null"`
	ProductNote    *string              `gorm:"column:product_note"`
	BuyerPriceInfo *string              `gorm:"column:buyer_price_info"`
	Amount         *decimal.Decimal     `gorm:"column:amount;type:numeric(12,2)"`
	PaymentMethod  *enums.PaymentMethod `gorm:"column:payment_method;type:text"`

	Status enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending';index"`

	PaymentProofURL *string `gorm:"column:payment_proof_url"`
	ShipCourier     *string `gorm:"column:ship_courier"`
	ShipTrackingNo  *string `gorm:"column:ship_tracking_no"`
	ShipPhotoURL    *string `gorm:"column:ship_photo_url"`
	SellerNote      *string `gorm:"column:seller_note"`

	ConfirmedAt *time.Time `gorm:"column:confirmed_at"`
	PaidAt      *time.Time `gorm:"column:paid_at"`
	ShippedAt   *time.Time `gorm:"column:shipped_at"`
	CompletedAt *time.Time `gorm:"column:completed_at"`
	CancelledAt *time.Time `gorm:"column:cancelled_at"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
