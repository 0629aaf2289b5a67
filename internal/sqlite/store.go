// This file implements the mutating operations of the observation store.
// Each one validates first, then moves the observation table, the latest
// index, and the count table together inside a single transaction.
package sqlite

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/chain-telemetry/pulse/pkg/types"
)

// Record writes the observation at (caller, ts, kind). An existing entry at
// the exact key is silently replaced, and the count still increments. The
// latest pointer is set to ts unconditionally, regardless of whether ts is
// the maximum time among the caller's observations for that kind.
func (b *Backend) Record(caller string, kind types.Kind, value int64, ts int64, annotation string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if caller == "" {
		return types.ErrInvalidIdentity
	}
	if err := types.ValidateObservation(kind, value, annotation); err != nil {
		return err
	}
	if ts > b.clock.Now() {
		return types.ErrFutureTimestamp
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO observations (owner, ts, kind, value, annotation) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (owner, ts, kind) DO UPDATE SET value = excluded.value, annotation = excluded.annotation`,
		caller, ts, string(kind), value, annotation,
	)
	if err != nil {
		return fmt.Errorf("writing observation: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO latest_index (owner, kind, ts) VALUES (?, ?, ?)
		 ON CONFLICT (owner, kind) DO UPDATE SET ts = excluded.ts`,
		caller, string(kind), ts,
	)
	if err != nil {
		return fmt.Errorf("updating latest index: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO observation_counts (owner, kind, count) VALUES (?, ?, 1)
		 ON CONFLICT (owner, kind) DO UPDATE SET count = count + 1`,
		caller, string(kind),
	)
	if err != nil {
		return fmt.Errorf("updating count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing observation: %w", err)
	}

	b.logger.Debug("observation recorded",
		zap.String("owner", caller),
		zap.String("kind", string(kind)),
		zap.Int64("ts", ts),
		zap.Int64("value", value))

	return nil
}

// Amend replaces the value and annotation of the existing observation at
// (caller, ts, kind) in place. The key is immutable, so the latest index
// and the count are untouched.
func (b *Backend) Amend(caller string, ts int64, kind types.Kind, value int64, annotation string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if caller == "" {
		return types.ErrInvalidIdentity
	}
	if err := types.ValidateObservation(kind, value, annotation); err != nil {
		return err
	}

	res, err := b.db.Exec(
		`UPDATE observations SET value = ?, annotation = ? WHERE owner = ? AND ts = ? AND kind = ?`,
		value, annotation, caller, ts, string(kind),
	)
	if err != nil {
		return fmt.Errorf("amending observation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("amending observation: %w", err)
	}
	if n == 0 {
		return types.ErrRecordNotFound
	}

	b.logger.Debug("observation amended",
		zap.String("owner", caller),
		zap.String("kind", string(kind)),
		zap.Int64("ts", ts))

	return nil
}

// Delete removes the observation at (caller, ts, kind) and decrements the
// count, guarding against underflow. When ts is the current latest pointer
// for (caller, kind) the pointer is cleared, not recomputed.
func (b *Backend) Delete(caller string, ts int64, kind types.Kind) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	if caller == "" {
		return types.ErrInvalidIdentity
	}

	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`DELETE FROM observations WHERE owner = ? AND ts = ? AND kind = ?`,
		caller, ts, string(kind),
	)
	if err != nil {
		return fmt.Errorf("deleting observation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting observation: %w", err)
	}
	if n == 0 {
		return types.ErrRecordNotFound
	}

	_, err = tx.Exec(
		`UPDATE observation_counts SET count = count - 1 WHERE owner = ? AND kind = ? AND count > 0`,
		caller, string(kind),
	)
	if err != nil {
		return fmt.Errorf("updating count: %w", err)
	}

	// Clear the pointer only when it targets the deleted time. It is never
	// recomputed to the next-most-recent live observation.
	_, err = tx.Exec(
		`DELETE FROM latest_index WHERE owner = ? AND kind = ? AND ts = ?`,
		caller, string(kind), ts,
	)
	if err != nil {
		return fmt.Errorf("clearing latest index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing deletion: %w", err)
	}

	b.logger.Debug("observation deleted",
		zap.String("owner", caller),
		zap.String("kind", string(kind)),
		zap.Int64("ts", ts))

	return nil
}

// Share returns a copy of the observation at (caller, ts, kind) for delivery
// to recipient. No grant is stored; the recipient identity is informational
// and accepted unvalidated.
func (b *Backend) Share(caller, recipient string, kind types.Kind, ts int64) (*types.Observation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	if caller == "" {
		return nil, types.ErrInvalidIdentity
	}

	obs, err := b.getObservation(caller, ts, kind)
	if err != nil {
		return nil, err
	}

	b.logger.Debug("observation shared",
		zap.String("owner", caller),
		zap.String("recipient", recipient),
		zap.String("kind", string(kind)),
		zap.Int64("ts", ts))

	return obs, nil
}

// getObservation reads a single observation row. The caller must hold b.mu.
func (b *Backend) getObservation(owner string, ts int64, kind types.Kind) (*types.Observation, error) {
	obs := &types.Observation{
		Owner:     owner,
		Timestamp: ts,
		Kind:      kind,
	}
	err := b.db.QueryRow(
		`SELECT value, annotation FROM observations WHERE owner = ? AND ts = ? AND kind = ?`,
		owner, ts, string(kind),
	).Scan(&obs.Value, &obs.Annotation)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.ErrRecordNotFound
		}
		return nil, fmt.Errorf("reading observation: %w", err)
	}
	return obs, nil
}
