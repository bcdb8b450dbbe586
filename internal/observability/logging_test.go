package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		profile string
		wantErr bool
	}{
		{"structured info", "info", "structured", false},
		{"console debug", "debug", "console", false},
		{"empty profile defaults to structured", "warn", "", false},
		{"invalid level", "loud", "structured", true},
		{"invalid profile", "info", "fancy", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.level, tt.profile)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, CLILogger)
			assert.NotNil(t, ServerLogger)
		})
	}
}

func TestSync_NoopLoggers(t *testing.T) {
	assert.NotPanics(t, Sync)
}
