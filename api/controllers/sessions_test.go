package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/sellboxapp/sellbox-backend/api/middleware"
	"github.com/sellboxapp/sellbox-backend/internal/sessions"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
)

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestSessionCreateSuccess(t *testing.T) {
	storeID := uuid.New()
	svc := &stubSessionService{session: &sessions.SessionDTO{
		ID:      uuid.New(),
		StoreID: storeID,
		Code:    "K7M2XQ",
		Title:   "Friday night live",
		Status:  enums.SessionStatusActive,
	}}
	handler := SessionCreate(svc, nil)

	payload := []byte(fmt.Sprintf(`{"store_id":%q,"title":"Friday night live","bank_name":"Kakao Bank","bank_account":"3333-01-1234567"}`, storeID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sessions", payload))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.createdStore != storeID {
		t.Fatalf("expected store %s got %s", storeID, svc.createdStore)
	}
	if svc.createdInput.BankName == nil || *svc.createdInput.BankName != "Kakao Bank" {
		t.Fatalf("expected bank name forwarded, got %v", svc.createdInput.BankName)
	}
	if svc.createdInput.BankAccount == nil || *svc.createdInput.BankAccount != "3333-01-1234567" {
		t.Fatalf("expected bank account forwarded, got %v", svc.createdInput.BankAccount)
	}
	var envelope struct {
		Data sessions.SessionDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Code != "K7M2XQ" {
		t.Fatalf("expected session code in response, got %q", envelope.Data.Code)
	}
}

func TestSessionCreateRequiresAuthContext(t *testing.T) {
	handler := SessionCreate(&stubSessionService{}, nil)

	payload := []byte(fmt.Sprintf(`{"store_id":%q,"title":"untitled"}`, uuid.New()))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestSessionCreateRejectsMissingTitle(t *testing.T) {
	handler := SessionCreate(&stubSessionService{}, nil)

	payload := []byte(fmt.Sprintf(`{"store_id":%q}`, uuid.New()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sessions", payload))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSessionListIncludesActiveCount(t *testing.T) {
	svc := &stubSessionService{session: &sessions.SessionDTO{
		ID:     uuid.New(),
		Code:   "K7M2XQ",
		Title:  "Friday night live",
		Status: enums.SessionStatusActive,
	}}
	handler := SessionList(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/sessions?store_id="+uuid.NewString(), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data sessions.SessionListDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Sessions) != 1 || envelope.Data.ActiveCount != 1 {
		t.Fatalf("unexpected list payload %+v", envelope.Data)
	}
}

func TestSessionListRequiresStoreID(t *testing.T) {
	handler := SessionList(&stubSessionService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/sessions", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSessionCloseRejectsBadID(t *testing.T) {
	router := newTestRouter("/api/v1/sessions/{sessionId}/close", SessionClose(&stubSessionService{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/v1/sessions/not-a-uuid/close", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
