package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellboxapp/sellbox-backend/internal/buyercache"
	"github.com/sellboxapp/sellbox-backend/internal/orders"
	"github.com/sellboxapp/sellbox-backend/internal/sessions"
	"github.com/sellboxapp/sellbox-backend/pkg/config"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
)

func testMedia() config.MediaConfig {
	return config.MediaConfig{MaxUploadMB: 10, ImageMaxWidth: 1200, ImageMaxHeight: 1200, ImageQuality: 80}
}

type orderFormOptions struct {
	skipImage bool
	fields    map[string]string
}

func buildOrderForm(t *testing.T, opts orderFormOptions) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	fields := map[string]string{
		"name":     "Kim Minji",
		"nickname": "minji_k",
		"phone":    "010-1234-5678",
		"address1": "12 Mapo-daero, Seoul",
	}
	for k, v := range opts.fields {
		fields[k] = v
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}

	if !opts.skipImage {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="image"; filename="item.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create image part: %v", err)
		}
		if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return buf, writer.FormDataContentType()
}

func TestPublicOrderSubmitSuccess(t *testing.T) {
	svc := &stubOrderService{order: &orders.OrderDTO{ID: uuid.New(), OrderNo: "SB-20250101-A1B2C"}}
	router := newTestRouter("/api/public/sessions/{code}/orders", PublicOrderSubmit(svc, testMedia(), nil))

	body, contentType := buildOrderForm(t, orderFormOptions{fields: map[string]string{
		"amount":           "45000",
		"payment_method":   "transfer",
		"product_note":     "blue one, size M",
		"buyer_price_info": "two for 45,000",
		"delivery_note":    "door code 1234",
	}})
	req := httptest.NewRequest(http.MethodPost, "/api/public/sessions/K7M2XQ/orders", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.submitCode != "K7M2XQ" {
		t.Fatalf("expected session code K7M2XQ got %q", svc.submitCode)
	}
	if svc.submitInput.BuyerName != "Kim Minji" || svc.submitInput.BuyerPhone != "010-1234-5678" {
		t.Fatalf("unexpected buyer fields %+v", svc.submitInput)
	}
	if svc.submitInput.Amount == nil || !svc.submitInput.Amount.Equal(decimal.NewFromInt(45000)) {
		t.Fatalf("expected amount 45000 got %v", svc.submitInput.Amount)
	}
	if svc.submitInput.PaymentMethod == nil || *svc.submitInput.PaymentMethod != enums.PaymentMethodTransfer {
		t.Fatalf("expected transfer payment method got %v", svc.submitInput.PaymentMethod)
	}
	if svc.submitInput.Image.ContentType != "image/jpeg" || len(svc.submitInput.Image.Data) == 0 {
		t.Fatalf("expected jpeg image payload, got %+v", svc.submitInput.Image)
	}
	if svc.submitInput.ProductNote != "blue one, size M" {
		t.Fatalf("product note = %q", svc.submitInput.ProductNote)
	}
	if svc.submitInput.BuyerPriceInfo != "two for 45,000" {
		t.Fatalf("buyer price info = %q", svc.submitInput.BuyerPriceInfo)
	}
	if svc.submitInput.DeliveryNote != "door code 1234" {
		t.Fatalf("delivery note = %q", svc.submitInput.DeliveryNote)
	}
}

func TestPublicOrderSubmitRequiresImage(t *testing.T) {
	svc := &stubOrderService{}
	router := newTestRouter("/api/public/sessions/{code}/orders", PublicOrderSubmit(svc, testMedia(), nil))

	body, contentType := buildOrderForm(t, orderFormOptions{skipImage: true})
	req := httptest.NewRequest(http.MethodPost, "/api/public/sessions/K7M2XQ/orders", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.submitCode != "" {
		t.Fatal("service should not be called without an image")
	}
}

func TestPublicOrderSubmitRejectsBadAmount(t *testing.T) {
	router := newTestRouter("/api/public/sessions/{code}/orders", PublicOrderSubmit(&stubOrderService{}, testMedia(), nil))

	body, contentType := buildOrderForm(t, orderFormOptions{fields: map[string]string{"amount": "lots"}})
	req := httptest.NewRequest(http.MethodPost, "/api/public/sessions/K7M2XQ/orders", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPublicSessionResolveSuccess(t *testing.T) {
	svc := &stubSessionService{public: &sessions.PublicSessionDTO{
		Code:      "K7M2XQ",
		Title:     "Friday night live",
		Status:    enums.SessionStatusActive,
		StoreName: "Minji Mart",
	}}
	router := newTestRouter("/api/public/sessions/{code}", PublicSessionResolve(svc, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/sessions/k7m2xq", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data sessions.PublicSessionDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.StoreName != "Minji Mart" {
		t.Fatalf("expected store name, got %q", envelope.Data.StoreName)
	}
}

func TestPublicSessionResolveNotFound(t *testing.T) {
	svc := &stubSessionService{err: pkgerrors.New(pkgerrors.CodeNotFound, "session not found")}
	router := newTestRouter("/api/public/sessions/{code}", PublicSessionResolve(svc, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/sessions/ZZZZZZ", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestPublicBuyerLookupRequiresNames(t *testing.T) {
	router := newTestRouter("/api/public/sessions/{code}/buyer", PublicBuyerLookup(&stubBuyerCacheService{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/sessions/K7M2XQ/buyer?name=Kim+Minji", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestPublicBuyerLookupReturnsEntry(t *testing.T) {
	svc := &stubBuyerCacheService{
		entry:      &buyercache.Entry{Phone: "010-1234-5678", Address1: "12 Mapo-daero, Seoul"},
		firstOrder: false,
	}
	router := newTestRouter("/api/public/sessions/{code}/buyer", PublicBuyerLookup(svc, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/sessions/K7M2XQ/buyer?name=Kim+Minji&nickname=minji_k", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data struct {
			Entry        *buyercache.Entry `json:"entry"`
			IsFirstOrder bool              `json:"is_first_order"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Entry == nil || envelope.Data.Entry.Address1 != "12 Mapo-daero, Seoul" {
		t.Fatalf("expected cached entry in response, got %+v", envelope.Data.Entry)
	}
	if envelope.Data.IsFirstOrder {
		t.Fatal("expected returning buyer")
	}
}

func TestPublicOrderReceiptRejectsBadID(t *testing.T) {
	router := newTestRouter("/api/public/orders/{orderId}", PublicOrderReceipt(&stubOrderService{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/orders/not-a-uuid", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
