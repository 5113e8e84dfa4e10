package buyercache

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type stubCacheStore struct {
	data map[string]string
}

func newStubCacheStore() *stubCacheStore {
	return &stubCacheStore{data: make(map[string]string)}
}

func (s *stubCacheStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	switch v := value.(type) {
	case string:
		s.data[key] = v
	case []byte:
		s.data[key] = string(v)
	default:
		s.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (s *stubCacheStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := s.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (s *stubCacheStore) BuyerInfoKey(sessionCode, buyerKey string) string {
	return "sb:buyer:info:" + sessionCode + ":" + buyerKey
}

func (s *stubCacheStore) LastBuyerKey(sessionCode string) string {
	return "sb:buyer:last:" + sessionCode
}

func newTestService(t *testing.T) (Service, *stubCacheStore) {
	t.Helper()
	store := newStubCacheStore()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func TestBuyerKey(t *testing.T) {
	cases := []struct {
		name, nickname, want string
	}{
		{"Kim Minji", "minji_k", "Kim Minji-minji_k"},
		{"  padded  ", " nick ", "padded-nick"},
		{"", "nick", ""},
		{"name", "", ""},
		{"Kim Minji", "MINJI_K", "Kim Minji-MINJI_K"},
	}
	for _, tc := range cases {
		if got := BuyerKey(tc.name, tc.nickname); got != tc.want {
			t.Fatalf("BuyerKey(%q, %q) = %q, want %q", tc.name, tc.nickname, got, tc.want)
		}
	}
}

func TestLookupMissReturnsNil(t *testing.T) {
	svc, _ := newTestService(t)

	entry, err := svc.Lookup(context.Background(), "ABC123", "Kim Minji", "minji_k")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %+v", entry)
	}
}

func TestLookupRequiresBothNameParts(t *testing.T) {
	svc, store := newTestService(t)
	store.data["sb:buyer:info:ABC123:Kim Minji-"] = `{"phone":"010"}`

	entry, err := svc.Lookup(context.Background(), "ABC123", "Kim Minji", "")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry != nil {
		t.Fatal("expected no lookup with empty nickname")
	}
}

func TestStoreThenLookupRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	err := svc.Store(ctx, "ABC123", "Kim Minji", "minji_k", Entry{
		Phone:    "010-1111-2222",
		Address1: "Seoul",
		Address2: "Apt 4",
	})
	if err != nil {
		t.Fatalf("Store: %v", err)
	}

	entry, err := svc.Lookup(ctx, "ABC123", "Kim Minji", "minji_k")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry == nil || entry.Phone != "010-1111-2222" || entry.Address1 != "Seoul" {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestStoreOverwritesOnCollision(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Store(ctx, "ABC123", "Kim", "k", Entry{Phone: "first"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := svc.Store(ctx, "ABC123", "Kim", "k", Entry{Phone: "second"}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	entry, err := svc.Lookup(ctx, "ABC123", "Kim", "k")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry.Phone != "second" {
		t.Fatalf("expected last write to win, got %q", entry.Phone)
	}
}

func TestEntriesScopedBySessionCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if err := svc.Store(ctx, "ABC123", "Kim", "k", Entry{Phone: "010"}); err != nil {
		t.Fatalf("Store: %v", err)
	}

	entry, err := svc.Lookup(ctx, "XYZ789", "Kim", "k")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry != nil {
		t.Fatal("entry leaked across session codes")
	}
}

func TestIsFirstOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.IsFirstOrder(ctx, "ABC123", "Kim Minji", "minji_k")
	if err != nil {
		t.Fatalf("IsFirstOrder: %v", err)
	}
	if !first {
		t.Fatal("expected first order with no cache entry")
	}

	// An entry without an address still counts as a first order.
	if err := svc.Store(ctx, "ABC123", "Kim Minji", "minji_k", Entry{Phone: "010"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	first, err = svc.IsFirstOrder(ctx, "ABC123", "Kim Minji", "minji_k")
	if err != nil {
		t.Fatalf("IsFirstOrder: %v", err)
	}
	if !first {
		t.Fatal("expected first order while entry has no address")
	}

	if err := svc.Store(ctx, "ABC123", "Kim Minji", "minji_k", Entry{Phone: "010", Address1: "Seoul"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	first, err = svc.IsFirstOrder(ctx, "ABC123", "Kim Minji", "minji_k")
	if err != nil {
		t.Fatalf("IsFirstOrder: %v", err)
	}
	if first {
		t.Fatal("expected repeat order once an address is cached")
	}
}

func TestLastBuyerLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	entry, key, err := svc.LastBuyer(ctx, "ABC123")
	if err != nil {
		t.Fatalf("LastBuyer: %v", err)
	}
	if entry != nil || key != "" {
		t.Fatal("expected no last buyer yet")
	}

	if err := svc.Store(ctx, "ABC123", "Kim", "k", Entry{Phone: "010", Address1: "Seoul"}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := svc.RememberLastBuyer(ctx, "ABC123", "Kim", "k"); err != nil {
		t.Fatalf("RememberLastBuyer: %v", err)
	}

	entry, key, err = svc.LastBuyer(ctx, "ABC123")
	if err != nil {
		t.Fatalf("LastBuyer: %v", err)
	}
	if key != "Kim-k" {
		t.Fatalf("unexpected last buyer key %q", key)
	}
	if entry == nil || entry.Address1 != "Seoul" {
		t.Fatalf("unexpected last buyer entry %+v", entry)
	}
}
