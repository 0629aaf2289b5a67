// Read-only queries. None of these mutate any table; absence surfaces as
// ErrRecordNotFound (or zero for counts), never as failure.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/chain-telemetry/pulse/pkg/types"
)

// Get looks up the observation at (owner, ts, kind).
func (b *Backend) Get(owner string, ts int64, kind types.Kind) (*types.Observation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if owner == "" {
		return nil, types.ErrRecordNotFound
	}

	return b.getObservation(owner, ts, kind)
}

// GetLatest resolves the latest pointer for (owner, kind) and looks up the
// observation at the resolved time. The pointer is trusted as stored; it is
// not cross-checked against the maximum live observation time.
func (b *Backend) GetLatest(owner string, kind types.Kind) (*types.Observation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if owner == "" {
		return nil, types.ErrRecordNotFound
	}

	var ts int64
	err := b.db.QueryRow(
		`SELECT ts FROM latest_index WHERE owner = ? AND kind = ?`,
		owner, string(kind),
	).Scan(&ts)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrRecordNotFound
		}
		return nil, fmt.Errorf("resolving latest pointer: %w", err)
	}

	return b.getObservation(owner, ts, kind)
}

// GetCount returns the number of live observations for (owner, kind),
// defaulting to zero when no entry exists.
func (b *Backend) GetCount(owner string, kind types.Kind) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return 0, types.ErrStoreDetached
	}

	var count int64
	err := b.db.QueryRow(
		`SELECT count FROM observation_counts WHERE owner = ? AND kind = ?`,
		owner, string(kind),
	).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("reading count: %w", err)
	}
	return count, nil
}
