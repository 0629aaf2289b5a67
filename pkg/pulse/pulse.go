// Package pulse is the public entry point for the Pulse observation store.
// It selects and attaches a backend from a Config while keeping the backend
// implementations internal.
package pulse

import (
	"go.uber.org/zap"

	"github.com/chain-telemetry/pulse/internal/memory"
	"github.com/chain-telemetry/pulse/internal/sqlite"
	"github.com/chain-telemetry/pulse/pkg/types"
)

// Version is the release version of the pulse module.
const Version = "0.1.0"

// Open creates the backend named by config and attaches it. The clock is
// the trusted time source for future-timestamp rejection; nil falls back to
// the system clock. A nil logger discards output.
//
// Example:
//
//	store, err := pulse.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".pulse-db",
//	}, nil, nil)
//	defer store.Detach()
func Open(config types.Config, clock types.Clock, logger *zap.Logger) (types.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var store types.Store
	switch config.Backend {
	case types.BackendMemory:
		store = memory.NewStore(clock, logger)
	default:
		store = sqlite.NewBackend(clock, logger)
	}

	if err := store.Attach(config); err != nil {
		return nil, err
	}
	return store, nil
}
