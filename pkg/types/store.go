package types

import "errors"

// Store is the observation store: validated per-owner measurements indexed
// by (owner, timestamp, kind), with a latest-observation pointer and a live
// count per (owner, kind). Mutations always execute under the caller's own
// identity; there is no cross-identity mutation. The three internal tables
// (records, latest index, counts) move together atomically in every
// mutation.
//
// Implementations are safe for concurrent use.
type Store interface {
	// Attach initializes the backend described by config. Returns
	// ErrAlreadyAttached when called on an attached store.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent. After Detach all
	// operations return ErrStoreDetached.
	Detach() error

	// Record writes the observation (caller, ts, kind) = (value, annotation).
	// An existing observation at the exact key is silently replaced, and the
	// count still increments; use Amend for corrections. The latest pointer
	// for (caller, kind) is set to ts unconditionally, even when ts is older
	// than an already-recorded observation.
	Record(caller string, kind Kind, value int64, ts int64, annotation string) error

	// Amend replaces the value and annotation of the existing observation at
	// (caller, ts, kind) in place. The key, the latest pointer, and the
	// count are untouched. Returns ErrRecordNotFound when no observation
	// lives at the key.
	Amend(caller string, ts int64, kind Kind, value int64, annotation string) error

	// Delete removes the observation at (caller, ts, kind) and decrements
	// the count. When ts is the current latest pointer for (caller, kind)
	// the pointer is cleared, not recomputed; GetLatest then reports no data
	// even if older observations remain.
	Delete(caller string, ts int64, kind Kind) error

	// Share returns a copy of the observation at (caller, ts, kind) for
	// delivery to recipient. Nothing is written: no grant is stored and the
	// recipient identity is informational, accepted unvalidated.
	Share(caller, recipient string, kind Kind, ts int64) (*Observation, error)

	// Get looks up the observation at (owner, ts, kind). Absence surfaces
	// as ErrRecordNotFound; callers treat it as "no data", not failure.
	Get(owner string, ts int64, kind Kind) (*Observation, error)

	// GetLatest resolves the latest pointer for (owner, kind) and returns
	// the observation it targets, or ErrRecordNotFound when the pointer is
	// absent.
	GetLatest(owner string, kind Kind) (*Observation, error)

	// GetCount returns the number of live observations for (owner, kind),
	// zero when none have been recorded.
	GetCount(owner string, kind Kind) (int64, error)
}

// Operation errors. Every mutation either fully commits or reports exactly
// one of these with no state change.
var (
	ErrInvalidKind        = errors.New("invalid metric kind")
	ErrInvalidMeasurement = errors.New("measurement outside kind range")
	ErrFutureTimestamp    = errors.New("observation time is in the future")
	ErrRecordNotFound     = errors.New("observation not found")
	ErrInvalidAnnotation  = errors.New("annotation too long")
	ErrInvalidIdentity    = errors.New("identity must not be empty")

	// ErrUnauthorized is reserved for cross-identity mutation attempts.
	// The Store interface scopes every mutation to the caller's own key
	// space, so no current code path returns it; surfaces that accept an
	// explicit owner for mutation must.
	ErrUnauthorized = errors.New("caller does not own the observation")
)

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
