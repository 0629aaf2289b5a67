// Package memory implements the in-memory backend for the Pulse observation
// store: three maps sharing the (owner, kind) key prefix, guarded by one
// RWMutex so every mutation moves the record map, the latest pointer, and
// the count together.
package memory

import (
	"sync"

	"go.uber.org/zap"

	"github.com/chain-telemetry/pulse/pkg/types"
)

// obsKey is the full identity key of an observation.
type obsKey struct {
	owner string
	ts    int64
	kind  types.Kind
}

// ownerKind prefixes the latest and count indexes.
type ownerKind struct {
	owner string
	kind  types.Kind
}

// payload holds the mutable part of an observation.
type payload struct {
	value      int64
	annotation string
}

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// Store is the in-memory observation store.
type Store struct {
	mu       sync.RWMutex
	attached bool
	clock    types.Clock
	logger   *zap.Logger

	records map[obsKey]payload
	latest  map[ownerKind]int64
	counts  map[ownerKind]int64
}

// NewStore creates a new in-memory store instance. The store is not
// attached; call Attach with a Config to initialize. A nil clock falls back
// to the system clock and a nil logger discards output.
func NewStore(clock types.Clock, logger *zap.Logger) *Store {
	if clock == nil {
		clock = types.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		clock:  clock,
		logger: logger,
	}
}

// Attach initializes the store. DataDir is ignored; nothing is persisted.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	s.records = make(map[obsKey]payload)
	s.latest = make(map[ownerKind]int64)
	s.counts = make(map[ownerKind]int64)
	s.attached = true

	s.logger.Info("observation store attached",
		zap.String("backend", types.BackendMemory))

	return nil
}

// Detach drops all state. Idempotent; after Detach all operations return
// ErrStoreDetached.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil // idempotent
	}

	s.records = nil
	s.latest = nil
	s.counts = nil
	s.attached = false

	s.logger.Info("observation store detached")

	return nil
}

// Record writes the observation at (caller, ts, kind). An existing entry at
// the exact key is silently replaced, and the count still increments. The
// latest pointer is set to ts unconditionally, even when ts is older than
// an already-recorded observation.
func (s *Store) Record(caller string, kind types.Kind, value int64, ts int64, annotation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if caller == "" {
		return types.ErrInvalidIdentity
	}
	if err := types.ValidateObservation(kind, value, annotation); err != nil {
		return err
	}
	if ts > s.clock.Now() {
		return types.ErrFutureTimestamp
	}

	s.records[obsKey{caller, ts, kind}] = payload{value: value, annotation: annotation}
	s.latest[ownerKind{caller, kind}] = ts
	s.counts[ownerKind{caller, kind}]++

	return nil
}

// Amend replaces the value and annotation at (caller, ts, kind) in place.
// The latest pointer and the count are untouched.
func (s *Store) Amend(caller string, ts int64, kind types.Kind, value int64, annotation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if caller == "" {
		return types.ErrInvalidIdentity
	}
	if err := types.ValidateObservation(kind, value, annotation); err != nil {
		return err
	}

	key := obsKey{caller, ts, kind}
	if _, ok := s.records[key]; !ok {
		return types.ErrRecordNotFound
	}
	s.records[key] = payload{value: value, annotation: annotation}

	return nil
}

// Delete removes the observation at (caller, ts, kind). The count is
// decremented with an underflow guard, and the latest pointer is cleared
// (never recomputed) when it targets the deleted time.
func (s *Store) Delete(caller string, ts int64, kind types.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return types.ErrStoreDetached
	}
	if caller == "" {
		return types.ErrInvalidIdentity
	}

	key := obsKey{caller, ts, kind}
	if _, ok := s.records[key]; !ok {
		return types.ErrRecordNotFound
	}
	delete(s.records, key)

	prefix := ownerKind{caller, kind}
	if s.counts[prefix] > 0 {
		s.counts[prefix]--
	}
	if s.counts[prefix] == 0 {
		delete(s.counts, prefix)
	}
	if latest, live := s.latest[prefix]; live && latest == ts {
		delete(s.latest, prefix)
	}

	return nil
}

// Share returns a copy of the observation at (caller, ts, kind) for delivery
// to recipient. No grant is stored; the recipient identity is informational
// and accepted unvalidated.
func (s *Store) Share(caller, recipient string, kind types.Kind, ts int64) (*types.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	if caller == "" {
		return nil, types.ErrInvalidIdentity
	}

	return s.getLocked(caller, ts, kind)
}

// Get looks up the observation at (owner, ts, kind).
func (s *Store) Get(owner string, ts int64, kind types.Kind) (*types.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	return s.getLocked(owner, ts, kind)
}

// GetLatest resolves the latest pointer for (owner, kind) and looks up the
// observation it targets. The pointer is trusted as stored.
func (s *Store) GetLatest(owner string, kind types.Kind) (*types.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	ts, ok := s.latest[ownerKind{owner, kind}]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return s.getLocked(owner, ts, kind)
}

// GetCount returns the number of live observations for (owner, kind).
func (s *Store) GetCount(owner string, kind types.Kind) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return 0, types.ErrStoreDetached
	}

	return s.counts[ownerKind{owner, kind}], nil
}

// getLocked copies the observation out of the record map. The caller must
// hold s.mu.
func (s *Store) getLocked(owner string, ts int64, kind types.Kind) (*types.Observation, error) {
	p, ok := s.records[obsKey{owner, ts, kind}]
	if !ok {
		return nil, types.ErrRecordNotFound
	}
	return &types.Observation{
		Owner:      owner,
		Timestamp:  ts,
		Kind:       kind,
		Value:      p.value,
		Annotation: p.annotation,
	}, nil
}
