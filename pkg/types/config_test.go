package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{"sqlite backend", Config{Backend: BackendSQLite, DataDir: "/tmp/pulse"}, nil},
		{"memory backend", Config{Backend: BackendMemory}, nil},
		{"empty backend", Config{DataDir: "/tmp/pulse"}, ErrBackendEmpty},
		{"unknown backend", Config{Backend: "redis"}, ErrBackendUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFixedClock(t *testing.T) {
	var c Clock = FixedClock(1700000000)
	assert.Equal(t, int64(1700000000), c.Now())
}

func TestSystemClock(t *testing.T) {
	before := SystemClock{}.Now()
	after := SystemClock{}.Now()
	assert.GreaterOrEqual(t, after, before)
	assert.Positive(t, before)
}
