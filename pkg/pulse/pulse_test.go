package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chain-telemetry/pulse/pkg/types"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		config  types.Config
		wantErr error
	}{
		{"sqlite backend", types.Config{Backend: types.BackendSQLite, DataDir: ""}, nil},
		{"memory backend", types.Config{Backend: types.BackendMemory}, nil},
		{"empty backend", types.Config{}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "redis"}, types.ErrBackendUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			if cfg.Backend == types.BackendSQLite {
				cfg.DataDir = t.TempDir()
			}

			store, err := Open(cfg, types.FixedClock(1000), nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer store.Detach()

			// The attached store accepts a valid observation right away.
			err = store.Record("node-a", types.KindMempoolSize, 42, 100, "")
			assert.NoError(t, err)
		})
	}
}
