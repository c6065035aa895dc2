package powertype

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report loads. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store loads a power type document once and serves the cached Set for the
// rest of its lifetime. Concurrent callers share a single in-flight load; a
// failed load is not cached so the next call retries.
type Store struct {
	loader Loader
	source Source
	logger *zap.Logger

	mu       sync.Mutex
	set      Set
	loaded   bool
	inflight chan struct{}
	lastErr  error
}

// NewStore binds a loader to a source.
func NewStore(loader Loader, source Source, options ...StoreOption) *Store {
	s := &Store{
		loader: loader,
		source: source,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// NewStaticStore returns a Store already holding set. Useful when power
// types arrive from elsewhere (tests, embedded fixtures).
func NewStaticStore(set Set) *Store {
	return &Store{set: set, loaded: true, logger: zap.NewNop()}
}

// Get returns the cached Set, loading it on first use.
func (s *Store) Get(ctx context.Context) (Set, error) {
	if ctx == nil {
		return Set{}, errors.New("powertype: context is required")
	}

	for {
		s.mu.Lock()
		if s.loaded {
			set := s.set
			s.mu.Unlock()
			return set, nil
		}
		if wait := s.inflight; wait != nil {
			s.mu.Unlock()
			select {
			case <-wait:
				s.mu.Lock()
				err := s.lastErr
				loaded := s.loaded
				s.mu.Unlock()
				if !loaded && err != nil {
					return Set{}, err
				}
				continue
			case <-ctx.Done():
				return Set{}, ctx.Err()
			}
		}
		done := make(chan struct{})
		s.inflight = done
		s.mu.Unlock()

		set, err := s.load(ctx)

		s.mu.Lock()
		s.inflight = nil
		s.lastErr = err
		if err == nil {
			s.set = set
			s.loaded = true
		}
		s.mu.Unlock()
		close(done)

		if err != nil {
			return Set{}, err
		}
		return set, nil
	}
}

// Loaded reports whether the Set has been cached.
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *Store) load(ctx context.Context) (Set, error) {
	if s.loader == nil {
		return Set{}, errors.New("powertype: store loader is nil")
	}
	if s.source == nil {
		return Set{}, errors.New("powertype: store source is nil")
	}
	set, err := s.loader.Load(ctx, s.source)
	if err != nil {
		s.logger.Warn("power type load failed",
			zap.String("source", s.source.Location()),
			zap.Error(err),
		)
		return Set{}, fmt.Errorf("powertype: load %s: %w", s.source.Location(), err)
	}
	s.logger.Info("power types loaded",
		zap.String("source", s.source.Location()),
		zap.Int("count", set.Len()),
	)
	return set, nil
}
