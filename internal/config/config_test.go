package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edadash/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.CORSOrigins, "same origin only unless configured")
	assert.Equal(t, "data/bank.csv", cfg.Data.DefaultDatasetPath)
	assert.Equal(t, ";", cfg.Data.DefaultDatasetSeparator)
	assert.Equal(t, int64(50<<20), cfg.Data.MaxUploadBytes)
	assert.Equal(t, 5, cfg.Data.PreviewRows)
	assert.Equal(t, "eda_session", cfg.Session.CookieName)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 12, cfg.Charts.CardinalityLimit)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000")
	t.Setenv("MAX_UPLOAD_MB", "5")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("CARDINALITY_LIMIT", "20")
	t.Setenv("PPROF_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, int64(5<<20), cfg.Data.MaxUploadBytes)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, 20, cfg.Charts.CardinalityLimit)
	assert.True(t, cfg.Profiling.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"port not numeric", "PORT", "http"},
		{"separator too long", "DEFAULT_DATASET_SEPARATOR", ";;"},
		{"upload limit", "MAX_UPLOAD_MB", "0"},
		{"concurrency", "MAX_CONCURRENT_UPLOADS", "-1"},
		{"cardinality", "CARDINALITY_LIMIT", "0"},
		{"ttl", "SESSION_TTL", "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
