package orders

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellboxapp/sellbox-backend/internal/buyercache"
	"github.com/sellboxapp/sellbox-backend/pkg/db"
	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
)

const (
	orderNoAlphabet = "0123456789ABCDEFGHJKMNPQRSTUVWXYZ"
	orderNoSuffix   = 5

	orderNoAttempts = 5
)

const (
	rejectReasonSession = "session"
	rejectReasonFields  = "missing_fields"
	rejectReasonImage   = "image"
	rejectReasonAddress = "address"
)

// ImageUpload carries the raw product image from the multipart request.
type ImageUpload struct {
	ContentType string
	Size        int64
	Data        []byte
}

// SubmitOrderInput is everything a buyer provides on the public order form.
type SubmitOrderInput struct {
	BuyerName     string
	BuyerNickname string
	BuyerPhone    string
	BuyerContact  string
	Zipcode       string
	Address1      string
	Address2      string
	DeliveryNote  string

	ProductNote    string
	BuyerPriceInfo string
	Amount         *decimal.Decimal
	PaymentMethod  *enums.PaymentMethod

	Image ImageUpload
}

// Submit runs the public order intake pipeline: resolve the session, validate
// and downscale the image, upload it, insert the order, then refresh the
// buyer cache. Only the upload has a compensation step: a failed insert
// deletes the just-uploaded image.
func (s *service) Submit(ctx context.Context, sessionCode string, input SubmitOrderInput) (*OrderDTO, error) {
	start := time.Now()
	dto, err := s.submit(ctx, sessionCode, input)
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	s.intake.ObserveSubmitDuration(outcome, time.Since(start))
	return dto, err
}

func (s *service) submit(ctx context.Context, sessionCode string, input SubmitOrderInput) (*OrderDTO, error) {
	session, err := s.resolveActiveSession(ctx, sessionCode)
	if err != nil {
		s.intake.IncRejected(rejectReasonSession)
		return nil, err
	}
	code := session.Code

	name := strings.TrimSpace(input.BuyerName)
	nickname := strings.TrimSpace(input.BuyerNickname)
	phone := strings.TrimSpace(input.BuyerPhone)
	if name == "" || nickname == "" || phone == "" {
		s.intake.IncRejected(rejectReasonFields)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer name, nickname and phone are required")
	}

	if len(input.Image.Data) == 0 {
		s.intake.IncRejected(rejectReasonImage)
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a product image is required")
	}
	size := input.Image.Size
	if size == 0 {
		size = int64(len(input.Image.Data))
	}
	if err := s.images.Validate(input.Image.ContentType, size); err != nil {
		s.intake.IncRejected(rejectReasonImage)
		return nil, err
	}

	address1 := strings.TrimSpace(input.Address1)
	zipcode := strings.TrimSpace(input.Zipcode)
	address2 := strings.TrimSpace(input.Address2)
	if address1 == "" {
		// A returning buyer may leave the address blank. The cached entry
		// from their earlier order fills it in.
		entry, err := s.cache.Lookup(ctx, code, name, nickname)
		if err != nil {
			return nil, err
		}
		if !entry.HasAddress() {
			s.intake.IncRejected(rejectReasonAddress)
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required for a first order")
		}
		address1 = entry.Address1
		if zipcode == "" {
			zipcode = entry.Zipcode
		}
		if address2 == "" {
			address2 = entry.Address2
		}
	}

	data := s.images.Process(input.Image.ContentType, input.Image.Data)
	object, err := s.objectName(session, input.Image.ContentType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build object name")
	}
	if err := s.uploader.Upload(ctx, s.bucket, object, input.Image.ContentType, data); err != nil {
		s.intake.IncUpload("failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeUpload, err, "upload order image")
	}
	s.intake.IncUpload("ok")
	imageURL := s.uploader.PublicURL(s.bucket, object)

	order := &models.Order{
		SessionID:      session.ID,
		StoreID:        session.StoreID,
		BuyerName:      name,
		BuyerNickname:  optionalString(nickname),
		BuyerPhone:     phone,
		BuyerContact:   optionalString(strings.TrimSpace(input.BuyerContact)),
		Zipcode:        optionalString(zipcode),
		Address1:       address1,
		Address2:       optionalString(address2),
		DeliveryNote:   optionalString(strings.TrimSpace(input.DeliveryNote)),
		ItemImageURL:   imageURL,
		ProductNote:    optionalString(strings.TrimSpace(input.ProductNote)),
		BuyerPriceInfo: optionalString(strings.TrimSpace(input.BuyerPriceInfo)),
		Amount:         input.Amount,
		PaymentMethod:  input.PaymentMethod,
		Status:         enums.OrderStatusPending,
	}

	// A create failure after the upload would orphan the stored image, so
	// the object is removed best-effort before surfacing the error.
	if err := s.createWithOrderNo(ctx, order); err != nil {
		if delErr := s.uploader.DeleteObject(ctx, s.bucket, object); delErr != nil {
			s.warn(ctx, "delete orphaned order image", delErr)
		}
		return nil, err
	}

	s.refreshBuyerCache(ctx, code, name, nickname, buyercache.Entry{
		Phone:    phone,
		Contact:  strings.TrimSpace(input.BuyerContact),
		Zipcode:  zipcode,
		Address1: address1,
		Address2: address2,
	})
	if err := s.sessions.IncrementOrderCount(ctx, session.ID); err != nil {
		s.warn(ctx, "bump session order count", err)
	}

	s.intake.IncSubmitted(code)
	return FromModel(order), nil
}

func (s *service) resolveActiveSession(ctx context.Context, sessionCode string) (*models.LiveSession, error) {
	code := strings.ToUpper(strings.TrimSpace(sessionCode))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session code is required")
	}
	session, err := s.sessions.FindByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
	}
	if session.Status != enums.SessionStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "session is not active")
	}
	return session, nil
}

// createWithOrderNo inserts the order, regenerating the order number on the
// rare unique collision.
func (s *service) createWithOrderNo(ctx context.Context, order *models.Order) error {
	for attempt := 0; attempt < orderNoAttempts; attempt++ {
		orderNo, err := generateOrderNo(time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}
		order.OrderNo = orderNo

		err = s.repo.Create(ctx, order)
		if err == nil {
			return nil
		}
		if db.IsUniqueViolation(err, "idx_orders_order_no") {
			continue
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique order number")
}

// refreshBuyerCache stores the autofill entry and the last-buyer pointer.
// Both writes are best-effort, the order already exists.
func (s *service) refreshBuyerCache(ctx context.Context, code, name, nickname string, entry buyercache.Entry) {
	if err := s.cache.Store(ctx, code, name, nickname, entry); err != nil {
		s.warn(ctx, "store buyer cache entry", err)
	}
	if err := s.cache.RememberLastBuyer(ctx, code, name, nickname); err != nil {
		s.warn(ctx, "store last buyer pointer", err)
	}
}

func (s *service) objectName(session *models.LiveSession, contentType string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return fmt.Sprintf("sessions/%s/%d-%s.%s",
		session.ID, time.Now().UnixMilli(), hex.EncodeToString(suffix), s.images.Ext(contentType)), nil
}

func (s *service) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, msg, err)
}

func generateOrderNo(now time.Time) (string, error) {
	buf := make([]byte, orderNoSuffix)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	suffix := make([]byte, orderNoSuffix)
	for i, b := range buf {
		suffix[i] = orderNoAlphabet[int(b)%len(orderNoAlphabet)]
	}
	return fmt.Sprintf("SB-%s-%s", now.Format("20060102"), string(suffix)), nil
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
