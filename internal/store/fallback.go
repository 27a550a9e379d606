package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vladimiradmaev/nutrition-log/internal/domain"
	apperrors "github.com/vladimiradmaev/nutrition-log/internal/errors"
	"github.com/vladimiradmaev/nutrition-log/internal/logger"
)

// FallbackStore forwards to a primary store until its first failure, then
// serves the rest of the session from memory. Errors raised after the
// caller's context ended are returned as is and do not switch backends.
type FallbackStore struct {
	primary domain.Store
	memory  *MemoryStore
	errors  *apperrors.Handler

	mu       sync.RWMutex
	degraded bool
}

func NewFallbackStore(primary domain.Store, log *slog.Logger) *FallbackStore {
	if log == nil {
		log = logger.GetLogger()
	}
	return &FallbackStore{
		primary: primary,
		memory:  NewMemoryStore(),
		errors:  apperrors.NewHandler(log),
	}
}

// Degraded reports whether the store has switched to memory
func (s *FallbackStore) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

func (s *FallbackStore) active() domain.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.degraded {
		return s.memory
	}
	return s.primary
}

func (s *FallbackStore) degrade(ctx context.Context, key string, err error) {
	s.mu.Lock()
	already := s.degraded
	s.degraded = true
	s.mu.Unlock()

	if !already {
		s.errors.Handle(ctx, apperrors.NewStorageError(err, key).
			WithContext("fallback", "memory"))
	}
}

func (s *FallbackStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	st := s.active()
	v, ok, err := st.Get(ctx, key)
	if err == nil || st == domain.Store(s.memory) || ctx.Err() != nil {
		return v, ok, err
	}
	s.degrade(ctx, key, err)
	return s.memory.Get(ctx, key)
}

func (s *FallbackStore) Set(ctx context.Context, key string, value []byte) error {
	st := s.active()
	err := st.Set(ctx, key, value)
	if err == nil || st == domain.Store(s.memory) || ctx.Err() != nil {
		return err
	}
	s.degrade(ctx, key, err)
	return s.memory.Set(ctx, key, value)
}

func (s *FallbackStore) Remove(ctx context.Context, key string) error {
	st := s.active()
	err := st.Remove(ctx, key)
	if err == nil || st == domain.Store(s.memory) || ctx.Err() != nil {
		return err
	}
	s.degrade(ctx, key, err)
	return s.memory.Remove(ctx, key)
}

// Close closes the primary store when it holds resources
func (s *FallbackStore) Close() error {
	if c, ok := s.primary.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
