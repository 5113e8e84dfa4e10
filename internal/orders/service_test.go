package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellboxapp/sellbox-backend/pkg/db/models"
	"github.com/sellboxapp/sellbox-backend/pkg/enums"
	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
	"github.com/sellboxapp/sellbox-backend/pkg/pagination"
)

// seedOrder inserts an order row directly into the stub repo.
func seedOrder(t *testing.T, f *ordersFixture, storeID, sessionID uuid.UUID, status enums.OrderStatus, createdAt time.Time, amount *decimal.Decimal) *models.Order {
	t.Helper()
	order := &models.Order{
		SessionID:  sessionID,
		StoreID:    storeID,
		OrderNo:    "SB-20260831-" + uuid.NewString()[:5],
		BuyerName:  "Kim Minji",
		BuyerPhone: "010-1111-2222",
		Address1:   "Seoul",
		Status:     status,
		Amount:     amount,
		CreatedAt:  createdAt,
	}
	if err := f.repo.Create(context.Background(), order); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order
}

func TestTransitionChainStampsTimestamps(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPending, time.Now().UTC(), nil)

	confirmed, err := f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("Transition confirmed: %v", err)
	}
	if confirmed.Status != enums.OrderStatusConfirmed || confirmed.ConfirmedAt == nil {
		t.Fatalf("unexpected state %+v", confirmed)
	}

	paid, err := f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusPaid)
	if err != nil {
		t.Fatalf("Transition paid: %v", err)
	}
	if paid.PaidAt == nil || paid.ConfirmedAt == nil {
		t.Fatal("expected both stamps set")
	}
	if paid.PaidAt.Before(*paid.ConfirmedAt) {
		t.Fatal("paid_at must not precede confirmed_at")
	}
}

func TestTransitionRejectsBackwardMove(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPaid, time.Now().UTC(), nil)

	_, err := f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusConfirmed)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestTransitionRejectsSkippedStep(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPending, time.Now().UTC(), nil)

	_, err := f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusShipped)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for skipped step, got %v", err)
	}
}

func TestTransitionRestampsRepeatedStatus(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPending, time.Now().UTC(), nil)

	first, err := f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	second, err := f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("repeat Transition: %v", err)
	}
	if second.Status != enums.OrderStatusConfirmed {
		t.Fatalf("status = %s", second.Status)
	}
	if second.ConfirmedAt.Before(*first.ConfirmedAt) {
		t.Fatal("re-stamp must not move the timestamp backwards")
	}
}

func TestTransitionCancelFromNonTerminal(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusConfirmed, time.Now().UTC(), nil)

	cancelled, err := f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusCancelled)
	if err != nil {
		t.Fatalf("Transition cancelled: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("unexpected state %+v", cancelled)
	}

	_, err = f.svc.Transition(context.Background(), owner, order.ID, enums.OrderStatusConfirmed)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict from terminal status, got %v", err)
	}
}

func TestTransitionRejectsNonOwner(t *testing.T) {
	f := newOrdersFixture(t)
	store := f.stores.add(uuid.New())
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPending, time.Now().UTC(), nil)

	_, err := f.svc.Transition(context.Background(), uuid.New(), order.ID, enums.OrderStatusConfirmed)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListPaginatesNewestFirst(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	sessionID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	oldest := seedOrder(t, f, store.ID, sessionID, enums.OrderStatusPending, base, nil)
	middle := seedOrder(t, f, store.ID, sessionID, enums.OrderStatusPending, base.Add(time.Minute), nil)
	newest := seedOrder(t, f, store.ID, sessionID, enums.OrderStatusPending, base.Add(2*time.Minute), nil)

	page, err := f.svc.List(context.Background(), owner, ListOrdersInput{
		StoreID: store.ID,
		Page:    pagination.Params{Limit: 2},
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("page size = %d, want 2", len(page.Orders))
	}
	if page.Orders[0].ID != newest.ID || page.Orders[1].ID != middle.ID {
		t.Fatal("unexpected page order")
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	second, err := f.svc.List(context.Background(), owner, ListOrdersInput{
		StoreID: store.ID,
		Page:    pagination.Params{Limit: 2, Cursor: page.NextCursor},
	})
	if err != nil {
		t.Fatalf("List second page: %v", err)
	}
	if len(second.Orders) != 1 || second.Orders[0].ID != oldest.ID {
		t.Fatalf("unexpected second page %+v", second.Orders)
	}
	if second.NextCursor != "" {
		t.Fatal("expected no cursor on final page")
	}
}

func TestListFiltersByStatus(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	sessionID := uuid.New()

	now := time.Now().UTC()
	seedOrder(t, f, store.ID, sessionID, enums.OrderStatusPending, now, nil)
	paidOrder := seedOrder(t, f, store.ID, sessionID, enums.OrderStatusPaid, now.Add(time.Second), nil)

	status := enums.OrderStatusPaid
	page, err := f.svc.List(context.Background(), owner, ListOrdersInput{
		StoreID: store.ID,
		Status:  &status,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Orders) != 1 || page.Orders[0].ID != paidOrder.ID {
		t.Fatalf("unexpected filtered page %+v", page.Orders)
	}
}

func TestStatsAggregation(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	sessionID := uuid.New()

	today := time.Now().UTC()
	yesterday := today.Add(-36 * time.Hour)
	amountA := decimal.NewFromInt(10000)
	amountB := decimal.NewFromInt(5000)
	amountC := decimal.NewFromInt(70000)

	seedOrder(t, f, store.ID, sessionID, enums.OrderStatusPending, today, &amountA)
	seedOrder(t, f, store.ID, sessionID, enums.OrderStatusPaid, today, &amountB)
	seedOrder(t, f, store.ID, sessionID, enums.OrderStatusCancelled, today, &amountC)
	seedOrder(t, f, store.ID, sessionID, enums.OrderStatusCompleted, yesterday, &amountC)

	stats, err := f.svc.Stats(context.Background(), owner, store.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalOrders != 4 {
		t.Fatalf("total = %d, want 4", stats.TotalOrders)
	}
	if stats.ByStatus[enums.OrderStatusPending] != 1 || stats.ByStatus[enums.OrderStatusCancelled] != 1 {
		t.Fatalf("unexpected by-status %+v", stats.ByStatus)
	}
	if stats.TodayOrders != 2 {
		t.Fatalf("today orders = %d, want 2", stats.TodayOrders)
	}
	if !stats.TodayRevenue.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("today revenue = %s, want 15000", stats.TodayRevenue)
	}
}

func TestUpdateShippingAndNotes(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPaid, time.Now().UTC(), nil)

	courier := "CJ Logistics"
	tracking := "1234567890"
	dto, err := f.svc.UpdateShipping(context.Background(), owner, order.ID, ShippingInput{
		Courier:    &courier,
		TrackingNo: &tracking,
	})
	if err != nil {
		t.Fatalf("UpdateShipping: %v", err)
	}
	if dto.ShipCourier == nil || *dto.ShipCourier != courier {
		t.Fatalf("unexpected courier %v", dto.ShipCourier)
	}
	if dto.ShipTrackingNo == nil || *dto.ShipTrackingNo != tracking {
		t.Fatalf("unexpected tracking %v", dto.ShipTrackingNo)
	}

	dto, err = f.svc.AttachPaymentProof(context.Background(), owner, order.ID, "https://example.com/proof.jpg")
	if err != nil {
		t.Fatalf("AttachPaymentProof: %v", err)
	}
	if dto.PaymentProofURL == nil || *dto.PaymentProofURL != "https://example.com/proof.jpg" {
		t.Fatalf("unexpected proof %v", dto.PaymentProofURL)
	}

	dto, err = f.svc.UpdateSellerNote(context.Background(), owner, order.ID, "ship with extra padding")
	if err != nil {
		t.Fatalf("UpdateSellerNote: %v", err)
	}
	if dto.SellerNote == nil || *dto.SellerNote != "ship with extra padding" {
		t.Fatalf("unexpected note %v", dto.SellerNote)
	}

	dto, err = f.svc.UpdateSellerNote(context.Background(), owner, order.ID, "   ")
	if err != nil {
		t.Fatalf("clear seller note: %v", err)
	}
	if dto.SellerNote != nil {
		t.Fatal("expected note cleared")
	}
}

func TestGetPublicHidesSellerFields(t *testing.T) {
	f := newOrdersFixture(t)
	store := f.stores.add(uuid.New())
	amount := decimal.NewFromInt(25000)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPending, time.Now().UTC(), &amount)

	dto, err := f.svc.GetPublic(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("GetPublic: %v", err)
	}
	if dto.OrderNo != order.OrderNo || dto.Status != enums.OrderStatusPending {
		t.Fatalf("unexpected receipt %+v", dto)
	}
	if dto.Amount == nil || !dto.Amount.Equal(amount) {
		t.Fatalf("unexpected amount %v", dto.Amount)
	}
}

func TestDeleteOrder(t *testing.T) {
	f := newOrdersFixture(t)
	owner := uuid.New()
	store := f.stores.add(owner)
	order := seedOrder(t, f, store.ID, uuid.New(), enums.OrderStatusPending, time.Now().UTC(), nil)

	if err := f.svc.Delete(context.Background(), owner, order.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := f.svc.GetByID(context.Background(), owner, order.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
