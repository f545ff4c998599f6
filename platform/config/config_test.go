package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeout())
	assert.Equal(t, "exact", cfg.GetMatchMode())
	assert.Equal(t, 100, cfg.GetMaxBatchSize())
	assert.Equal(t, 8, cfg.GetBatchConcurrency())
	assert.Equal(t, BlacklistSourceEmbedded, cfg.GetBlacklistSource())
	assert.False(t, cfg.IsAuthEnabled())
	assert.False(t, cfg.IsMinIOEnabled())
	assert.True(t, cfg.IsMetricsEnabled())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MATCH_MODE", "CONTAINS")
	t.Setenv("API_JWT_SECRET", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("BLACKLIST_SOURCE", "file")
	t.Setenv("BLACKLIST_PATH", "/etc/mpin/blacklist.yaml")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.GetHTTPAddr())
	assert.Equal(t, "contains", cfg.GetMatchMode())
	assert.True(t, cfg.IsAuthEnabled())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.GetCORSOrigins())
	assert.Equal(t, "/etc/mpin/blacklist.yaml", cfg.GetBlacklistPath())
}

func TestFromEnvRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown match mode", map[string]string{"MATCH_MODE": "fuzzy"}},
		{"zero batch size", map[string]string{"MAX_BATCH_SIZE": "0"}},
		{"non-numeric concurrency", map[string]string{"BATCH_CONCURRENCY": "many"}},
		{"bad shutdown timeout", map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
		{"file source without path", map[string]string{"BLACKLIST_SOURCE": "file"}},
		{"minio source without endpoint", map[string]string{"BLACKLIST_SOURCE": "minio"}},
		{"unknown source", map[string]string{"BLACKLIST_SOURCE": "redis"}},
		{"wildcard cors with credentials", map[string]string{"CORS_ORIGINS": "*", "CORS_ALLOW_CREDENTIALS": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
