package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_EmptyValues(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "MEDIA_BACKEND", "SONG_CACHE_TTL", "REDIS_DB", "MINIO_USE_SSL"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	assert.Equal(t, "", cfg.ServerAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 10*time.Minute, cfg.SongCacheTTL)
	assert.False(t, cfg.MinioUseSSL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":8081")
	t.Setenv("MEDIA_BACKEND", MediaBackendMinio)
	t.Setenv("SONG_CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("LOG_MAX_AGE", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, ":8081", cfg.ServerAddr)
	assert.Equal(t, MediaBackendMinio, cfg.MediaBackend)
	assert.Equal(t, 30*time.Second, cfg.SongCacheTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 30, cfg.LogMaxAge)
}
