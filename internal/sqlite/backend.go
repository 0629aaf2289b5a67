package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/chain-telemetry/pulse/pkg/types"
)

// dbFileName is the SQLite database file created under Config.DataDir.
const dbFileName = "pulse.db"

// Compile-time interface check: Backend must implement Store.
var _ types.Store = (*Backend)(nil)

// Backend implements the Store interface on SQLite. The three tables are
// mutated together inside one transaction per operation; the mutex
// serializes mutations against reads of the same store.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	clock    types.Clock
	logger   *zap.Logger
}

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize. A nil clock falls back
// to the system clock and a nil logger discards output.
func NewBackend(clock types.Clock, logger *zap.Logger) *Backend {
	if clock == nil {
		clock = types.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{
		clock:  clock,
		logger: logger,
	}
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist and initializes the SQLite schema.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}

	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("init schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.attached = true

	b.logger.Info("observation store attached",
		zap.String("backend", types.BackendSQLite),
		zap.String("data_dir", dataDir))

	return nil
}

// Detach releases all resources held by the backend. After Detach, all
// operations return ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil // idempotent
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.logger.Info("observation store detached")

	return nil
}
