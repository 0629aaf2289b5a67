// Tests for the SQLite backend lifecycle.
package sqlite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chain-telemetry/pulse/pkg/types"
)

func TestBackend_Attach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend(types.FixedClock(1000), nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, "pulse.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("pulse.db not created")
	}

	// Verify double attach fails
	err = b.Attach(config)
	if !errors.Is(err, types.ErrAlreadyAttached) {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackend_AttachRejectsBadConfig(t *testing.T) {
	b := NewBackend(nil, nil)

	err := b.Attach(types.Config{DataDir: t.TempDir()})
	if !errors.Is(err, types.ErrBackendEmpty) {
		t.Errorf("expected ErrBackendEmpty, got %v", err)
	}

	err = b.Attach(types.Config{Backend: "redis", DataDir: t.TempDir()})
	if !errors.Is(err, types.ErrBackendUnknown) {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestBackend_Detach(t *testing.T) {
	b := NewBackend(types.FixedClock(1000), nil)
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}

	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach should not error, got %v", err)
	}

	// Verify operations fail after detach
	if err := b.Record("node-a", types.KindMempoolSize, 1, 1, ""); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("Record after Detach: expected ErrStoreDetached, got %v", err)
	}
	if _, err := b.Get("node-a", 1, types.KindMempoolSize); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("Get after Detach: expected ErrStoreDetached, got %v", err)
	}
	if _, err := b.GetCount("node-a", types.KindMempoolSize); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("GetCount after Detach: expected ErrStoreDetached, got %v", err)
	}
}

func TestBackend_ReattachKeepsData(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	b := NewBackend(types.FixedClock(1000), nil)
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := b.Record("node-a", types.KindPeerConnectivity, 64, 500, "before restart"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// All three tables survive a detach/attach cycle.
	b2 := NewBackend(types.FixedClock(1000), nil)
	if err := b2.Attach(config); err != nil {
		t.Fatalf("re-Attach failed: %v", err)
	}
	defer b2.Detach()

	obs, err := b2.Get("node-a", 500, types.KindPeerConnectivity)
	if err != nil {
		t.Fatalf("Get after reattach failed: %v", err)
	}
	if obs.Value != 64 || obs.Annotation != "before restart" {
		t.Errorf("unexpected observation after reattach: %+v", obs)
	}

	latest, err := b2.GetLatest("node-a", types.KindPeerConnectivity)
	if err != nil {
		t.Fatalf("GetLatest after reattach failed: %v", err)
	}
	if latest.Timestamp != 500 {
		t.Errorf("latest timestamp = %d, want 500", latest.Timestamp)
	}

	count, err := b2.GetCount("node-a", types.KindPeerConnectivity)
	if err != nil {
		t.Fatalf("GetCount after reattach failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
