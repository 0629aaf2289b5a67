// Package storetest runs the semantic test suite shared by every Store
// backend. A backend package passes a factory returning an attached store
// wired to the given clock; the suite then checks record/amend/delete/share
// behavior, the latest-pointer and count policies, and per-owner isolation.
package storetest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chain-telemetry/pulse/pkg/types"
)

// now is the trusted current time pinned for every suite run.
const now int64 = 1_700_000_000

// Factory returns an attached store using clock as its trusted clock.
// The store is detached via t.Cleanup by the factory.
type Factory func(t *testing.T, clock types.Clock) types.Store

// Run executes the full backend-independent suite against the factory.
func Run(t *testing.T, open Factory) {
	t.Run("RecordRoundTrip", func(t *testing.T) { testRecordRoundTrip(t, open) })
	t.Run("RecordValidation", func(t *testing.T) { testRecordValidation(t, open) })
	t.Run("RecordOverwriteInflatesCount", func(t *testing.T) { testRecordOverwrite(t, open) })
	t.Run("RecordOutOfOrderMovesLatestBack", func(t *testing.T) { testRecordOutOfOrder(t, open) })
	t.Run("Amend", func(t *testing.T) { testAmend(t, open) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, open) })
	t.Run("DeleteClearsLatestWithoutRecompute", func(t *testing.T) { testDeleteClearsLatest(t, open) })
	t.Run("Share", func(t *testing.T) { testShare(t, open) })
	t.Run("OwnerIsolation", func(t *testing.T) { testOwnerIsolation(t, open) })
	t.Run("QueriesOnEmptyStore", func(t *testing.T) { testEmptyQueries(t, open) })
	t.Run("EndToEndScenario", func(t *testing.T) { testEndToEnd(t, open) })
}

func testRecordRoundTrip(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	err := s.Record("node-a", types.KindConsensusLatency, 1200, 100, "baseline")
	require.NoError(t, err)

	obs, err := s.Get("node-a", 100, types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, "node-a", obs.Owner)
	assert.Equal(t, int64(100), obs.Timestamp)
	assert.Equal(t, types.KindConsensusLatency, obs.Kind)
	assert.Equal(t, int64(1200), obs.Value)
	assert.Equal(t, "baseline", obs.Annotation)

	count, err := s.GetCount("node-a", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	latest, err := s.GetLatest("node-a", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), latest.Value)
	assert.Equal(t, "baseline", latest.Annotation)
}

func testRecordValidation(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))
	longNote := strings.Repeat("x", types.MaxAnnotationLen+1)

	tests := []struct {
		name    string
		caller  string
		kind    types.Kind
		value   int64
		ts      int64
		note    string
		wantErr error
	}{
		{"invalid kind", "node-a", "disk-usage", 50, 100, "", types.ErrInvalidKind},
		{"value below range", "node-a", types.KindConsensusLatency, 50, 100, "", types.ErrInvalidMeasurement},
		{"value above range", "node-a", types.KindConsensusLatency, 6000, 100, "", types.ErrInvalidMeasurement},
		{"future timestamp", "node-a", types.KindConsensusLatency, 1200, now + 1, "", types.ErrFutureTimestamp},
		{"timestamp at current time accepted", "node-a", types.KindConsensusLatency, 1200, now, "", nil},
		{"annotation too long", "node-a", types.KindConsensusLatency, 1200, 100, longNote, types.ErrInvalidAnnotation},
		{"empty caller", "", types.KindConsensusLatency, 1200, 100, "", types.ErrInvalidIdentity},
		// Kind is checked before the value range; a bad kind wins even
		// when the value would also be out of range.
		{"kind checked before value", "node-a", "disk-usage", -1, 100, "", types.ErrInvalidKind},
		// The range check runs before the future-time check.
		{"value checked before time", "node-a", types.KindConsensusLatency, 50, now + 1, "", types.ErrInvalidMeasurement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Record(tt.caller, tt.kind, tt.value, tt.ts, tt.note)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	// Failed records must leave no trace.
	count, err := s.GetCount("node-a", types.KindMempoolSize)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testRecordOverwrite(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindMempoolSize, 400, 100, ""))
	require.NoError(t, s.Record("node-a", types.KindMempoolSize, 900, 100, "rewrite"))

	// Exactly one live record at the key, holding the second payload.
	obs, err := s.Get("node-a", 100, types.KindMempoolSize)
	require.NoError(t, err)
	assert.Equal(t, int64(900), obs.Value)
	assert.Equal(t, "rewrite", obs.Annotation)

	// The count increments per record call, not per distinct key.
	count, err := s.GetCount("node-a", types.KindMempoolSize)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func testRecordOutOfOrder(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindPeerConnectivity, 64, 200, ""))
	require.NoError(t, s.Record("node-a", types.KindPeerConnectivity, 32, 100, ""))

	// The pointer always follows the most recent write, even when its time
	// is older than an existing observation's.
	latest, err := s.GetLatest("node-a", types.KindPeerConnectivity)
	require.NoError(t, err)
	assert.Equal(t, int64(100), latest.Timestamp)
	assert.Equal(t, int64(32), latest.Value)
}

func testAmend(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindConsensusLatency, 1200, 100, ""))
	require.NoError(t, s.Record("node-a", types.KindConsensusLatency, 1400, 200, ""))

	err := s.Amend("node-a", 100, types.KindConsensusLatency, 1600, "fixed")
	require.NoError(t, err)

	obs, err := s.Get("node-a", 100, types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(1600), obs.Value)
	assert.Equal(t, "fixed", obs.Annotation)

	// Amend never changes the count or moves the latest pointer.
	count, err := s.GetCount("node-a", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	latest, err := s.GetLatest("node-a", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(200), latest.Timestamp)

	// Validation and existence errors.
	assert.ErrorIs(t, s.Amend("node-a", 100, "disk-usage", 1600, ""), types.ErrInvalidKind)
	assert.ErrorIs(t, s.Amend("node-a", 100, types.KindConsensusLatency, 50, ""), types.ErrInvalidMeasurement)
	assert.ErrorIs(t, s.Amend("node-a", 999, types.KindConsensusLatency, 1600, ""), types.ErrRecordNotFound)
	assert.ErrorIs(t, s.Amend("node-b", 100, types.KindConsensusLatency, 1600, ""), types.ErrRecordNotFound)
	assert.ErrorIs(t, s.Amend("", 100, types.KindConsensusLatency, 1600, ""), types.ErrInvalidIdentity)
}

func testDelete(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindNodeAvailability, 99, 100, ""))
	require.NoError(t, s.Record("node-a", types.KindNodeAvailability, 97, 200, ""))

	require.NoError(t, s.Delete("node-a", 100, types.KindNodeAvailability))

	_, err := s.Get("node-a", 100, types.KindNodeAvailability)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	count, err := s.GetCount("node-a", types.KindNodeAvailability)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Deleting a non-latest time leaves the pointer alone.
	latest, err := s.GetLatest("node-a", types.KindNodeAvailability)
	require.NoError(t, err)
	assert.Equal(t, int64(200), latest.Timestamp)

	assert.ErrorIs(t, s.Delete("node-a", 100, types.KindNodeAvailability), types.ErrRecordNotFound)
	assert.ErrorIs(t, s.Delete("node-b", 200, types.KindNodeAvailability), types.ErrRecordNotFound)
	assert.ErrorIs(t, s.Delete("", 200, types.KindNodeAvailability), types.ErrInvalidIdentity)
}

func testDeleteClearsLatest(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindNetworkThroughput, 5000, 100, ""))
	require.NoError(t, s.Record("node-a", types.KindNetworkThroughput, 7000, 200, ""))

	require.NoError(t, s.Delete("node-a", 200, types.KindNetworkThroughput))

	// The pointer is cleared, not recomputed: the live observation at 100
	// does not become the latest.
	_, err := s.GetLatest("node-a", types.KindNetworkThroughput)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	obs, err := s.Get("node-a", 100, types.KindNetworkThroughput)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), obs.Value)

	count, err := s.GetCount("node-a", types.KindNetworkThroughput)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func testShare(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindStakerParticipation, 85, 100, "epoch 12"))

	obs, err := s.Share("node-a", "auditor-1", types.KindStakerParticipation, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(85), obs.Value)
	assert.Equal(t, "epoch 12", obs.Annotation)

	// The recipient is informational only; even an empty recipient works.
	_, err = s.Share("node-a", "", types.KindStakerParticipation, 100)
	assert.NoError(t, err)

	// Share stores nothing: counts and records are untouched, and the
	// recipient gains no standing access.
	count, err := s.GetCount("node-a", types.KindStakerParticipation)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = s.Get("auditor-1", 100, types.KindStakerParticipation)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	_, err = s.Share("node-a", "auditor-1", types.KindStakerParticipation, 999)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)
	_, err = s.Share("auditor-1", "node-a", types.KindStakerParticipation, 100)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)
}

func testOwnerIsolation(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindMempoolSize, 100, 50, ""))
	require.NoError(t, s.Record("node-b", types.KindMempoolSize, 200, 50, ""))

	require.NoError(t, s.Delete("node-a", 50, types.KindMempoolSize))

	// node-b's record, count, and latest pointer survive node-a's delete
	// of the same (time, kind).
	obs, err := s.Get("node-b", 50, types.KindMempoolSize)
	require.NoError(t, err)
	assert.Equal(t, int64(200), obs.Value)

	count, err := s.GetCount("node-b", types.KindMempoolSize)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	latest, err := s.GetLatest("node-b", types.KindMempoolSize)
	require.NoError(t, err)
	assert.Equal(t, int64(50), latest.Timestamp)
}

func testEmptyQueries(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	_, err := s.Get("nobody", 100, types.KindConsensusLatency)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	_, err = s.GetLatest("nobody", types.KindConsensusLatency)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)

	count, err := s.GetCount("nobody", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Out-of-set kinds yield "no data" from queries, not an error.
	_, err = s.Get("nobody", 100, "disk-usage")
	assert.ErrorIs(t, err, types.ErrRecordNotFound)
	count, err = s.GetCount("nobody", "disk-usage")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func testEndToEnd(t *testing.T, open Factory) {
	s := open(t, types.FixedClock(now))

	require.NoError(t, s.Record("node-a", types.KindConsensusLatency, 1200, 100, ""))

	obs, err := s.Get("node-a", 100, types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), obs.Value)
	assert.Empty(t, obs.Annotation)

	count, err := s.GetCount("node-a", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.Amend("node-a", 100, types.KindConsensusLatency, 1600, "fixed"))

	obs, err = s.Get("node-a", 100, types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(1600), obs.Value)
	assert.Equal(t, "fixed", obs.Annotation)

	count, err = s.GetCount("node-a", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, s.Delete("node-a", 100, types.KindConsensusLatency))

	count, err = s.GetCount("node-a", types.KindConsensusLatency)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = s.GetLatest("node-a", types.KindConsensusLatency)
	assert.ErrorIs(t, err, types.ErrRecordNotFound)
}
