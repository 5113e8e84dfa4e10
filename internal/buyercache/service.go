package buyercache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pkgerrors "github.com/sellboxapp/sellbox-backend/pkg/errors"
)

// Entry holds the contact and address details remembered for a buyer key.
// Buyers who pick the same name and nickname within a session share one entry;
// the last write wins.
type Entry struct {
	Phone    string `json:"phone"`
	Contact  string `json:"contact,omitempty"`
	Zipcode  string `json:"zipcode,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
}

// HasAddress reports whether the entry carries a usable shipping address.
func (e *Entry) HasAddress() bool {
	return e != nil && strings.TrimSpace(e.Address1) != ""
}

type cacheStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	BuyerInfoKey(sessionCode, buyerKey string) string
	LastBuyerKey(sessionCode string) string
}

// Service exposes the per-session buyer autofill cache.
type Service interface {
	Lookup(ctx context.Context, sessionCode, name, nickname string) (*Entry, error)
	Store(ctx context.Context, sessionCode, name, nickname string, entry Entry) error
	RememberLastBuyer(ctx context.Context, sessionCode, name, nickname string) error
	LastBuyer(ctx context.Context, sessionCode string) (*Entry, string, error)
	IsFirstOrder(ctx context.Context, sessionCode, name, nickname string) (bool, error)
}

type service struct {
	store cacheStore
}

// NewService builds the buyer cache service on top of the shared Redis client.
func NewService(store cacheStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cache store required")
	}
	return &service{store: store}, nil
}

// BuyerKey derives the cache key component from the self-reported name and
// nickname. Case-sensitive and whitespace-trimmed. Distinct buyers who choose
// the same pair collide and overwrite each other.
func BuyerKey(name, nickname string) string {
	name = strings.TrimSpace(name)
	nickname = strings.TrimSpace(nickname)
	if name == "" || nickname == "" {
		return ""
	}
	return name + "-" + nickname
}

func (s *service) Lookup(ctx context.Context, sessionCode, name, nickname string) (*Entry, error) {
	buyerKey := BuyerKey(name, nickname)
	if buyerKey == "" {
		return nil, nil
	}
	return s.getEntry(ctx, s.store.BuyerInfoKey(sessionCode, buyerKey))
}

func (s *service) Store(ctx context.Context, sessionCode, name, nickname string, entry Entry) error {
	buyerKey := BuyerKey(name, nickname)
	if buyerKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer name and nickname are required")
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode buyer entry")
	}
	// Entries never expire. The cache is scoped per session code and bounded
	// only by how many distinct buyers a session attracts.
	if err := s.store.Set(ctx, s.store.BuyerInfoKey(sessionCode, buyerKey), payload, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store buyer entry")
	}
	return nil
}

func (s *service) RememberLastBuyer(ctx context.Context, sessionCode, name, nickname string) error {
	buyerKey := BuyerKey(name, nickname)
	if buyerKey == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "buyer name and nickname are required")
	}
	if err := s.store.Set(ctx, s.store.LastBuyerKey(sessionCode), buyerKey, 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store last buyer pointer")
	}
	return nil
}

// LastBuyer returns the most recent buyer's entry and key for the session, or
// nils when no buyer has ordered yet.
func (s *service) LastBuyer(ctx context.Context, sessionCode string) (*Entry, string, error) {
	buyerKey, err := s.store.Get(ctx, s.store.LastBuyerKey(sessionCode))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, "", nil
		}
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load last buyer pointer")
	}

	entry, err := s.getEntry(ctx, s.store.BuyerInfoKey(sessionCode, buyerKey))
	if err != nil {
		return nil, "", err
	}
	return entry, buyerKey, nil
}

// IsFirstOrder reports whether the buyer key still needs a shipping address.
// True when no cached entry exists or the entry has no address1.
func (s *service) IsFirstOrder(ctx context.Context, sessionCode, name, nickname string) (bool, error) {
	entry, err := s.Lookup(ctx, sessionCode, name, nickname)
	if err != nil {
		return false, err
	}
	return !entry.HasAddress(), nil
}

func (s *service) getEntry(ctx context.Context, key string) (*Entry, error) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load buyer entry")
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode buyer entry")
	}
	return &entry, nil
}
