package state

import (
	"context"
	"sync"

	"log/slog"

	"weatherwork/app/config"

	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

// Service persists action state per (space, user) pair. Run serializes
// concurrent load-mutate-store cycles for the same key so two events for
// the same user cannot race to overwrite each other.
type Service struct {
	backend Backend

	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	slog.Debug("Opening action state store", "uri", cfg.Store.URI)

	backend, err := Open(cfg.Store.URI)
	if err != nil {
		return nil, err
	}

	return &Service{
		backend: backend,
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// Get returns the serialized action state for a space/user, nil if none
// has been saved yet.
func (s *Service) Get(ctx context.Context, spaceID, userID string) ([]byte, error) {
	return s.backend.Load(ctx, stateKey(spaceID, userID))
}

// Put stores the action state for a space/user.
func (s *Service) Put(ctx context.Context, spaceID, userID string, value []byte) error {
	return s.backend.Save(ctx, stateKey(spaceID, userID), value)
}

// Run loads the current state, invokes fn with it and persists whatever fn
// returns. A persistence failure is logged but not surfaced; action state
// is best effort. fn returning an error aborts the cycle without a store.
func (s *Service) Run(ctx context.Context, spaceID, userID string, fn func(raw []byte) ([]byte, error)) error {
	key := stateKey(spaceID, userID)

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	raw, err := s.backend.Load(ctx, key)
	if err != nil {
		slog.Warn("Failed to load action state", "key", key, "error", err)
		raw = nil
	}

	next, err := fn(raw)
	if err != nil {
		return err
	}

	if err = s.backend.Save(ctx, key, next); err != nil {
		slog.Warn("Failed to save action state", "key", key, "error", err)
	}

	return nil
}

func (s *Service) keyLock(key string) *sync.Mutex {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}

	return lock
}

func (s *Service) Shutdown() error {
	return s.backend.Close()
}

func stateKey(spaceID, userID string) string {
	return spaceID + "-" + userID
}
