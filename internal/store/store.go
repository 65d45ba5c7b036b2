// Package store persists application values as JSON under string keys.
//
// Reads never fail: a missing, unreadable or corrupt value yields the caller's
// default. Writes are synchronous and replace the previous value.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jask/cardcraft/internal/card"
	"github.com/jask/cardcraft/internal/logging"
)

const (
	KeyCards      = "business-cards"
	KeyOnboarding = "has-seen-onboarding"
)

// Backend is a byte-level key/value medium. Get returns nil, nil for an
// absent key.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Deleter is implemented by backends that can drop a key.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}

// ErrNotErasable is returned by Clear when the backend cannot delete keys.
var ErrNotErasable = errors.New("store backend cannot delete keys")

// Store wraps a Backend with JSON encoding and the default-on-corrupt policy.
type Store struct {
	backend Backend
	log     *zap.Logger
}

func New(b Backend, log *zap.Logger) *Store {
	return &Store{backend: b, log: logging.OrNop(log).Named("store")}
}

// Load decodes the value under key into T, or returns def.
func Load[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn("read failed, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	if raw == nil {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn("stored value corrupt, using default", zap.String("key", key), zap.Error(err))
		return def
	}
	return v
}

// Save encodes v and writes it under key.
func Save[T any](ctx context.Context, s *Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	s.log.Debug("saved", zap.String("key", key), zap.Int("bytes", len(raw)))
	return nil
}

// Cards loads the card collection; an absent or corrupt record is empty.
func (s *Store) Cards(ctx context.Context) []card.Card {
	cards := Load[[]card.Card](ctx, s, KeyCards, nil)
	if cards == nil {
		return []card.Card{}
	}
	return cards
}

func (s *Store) SaveCards(ctx context.Context, cards []card.Card) error {
	if cards == nil {
		cards = []card.Card{}
	}
	return Save(ctx, s, KeyCards, cards)
}

func (s *Store) HasSeenOnboarding(ctx context.Context) bool {
	return Load(ctx, s, KeyOnboarding, false)
}

func (s *Store) SetHasSeenOnboarding(ctx context.Context, seen bool) error {
	return Save(ctx, s, KeyOnboarding, seen)
}

// Clear deletes every key the application writes, so the next load sees
// defaults.
func (s *Store) Clear(ctx context.Context) error {
	d, ok := s.backend.(Deleter)
	if !ok {
		return ErrNotErasable
	}
	for _, key := range []string{KeyCards, KeyOnboarding} {
		if err := d.Delete(ctx, key); err != nil {
			return fmt.Errorf("clear %s: %w", key, err)
		}
	}
	s.log.Info("store cleared")
	return nil
}
