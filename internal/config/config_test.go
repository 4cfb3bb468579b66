package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("IMAGE_QUALITY", "")
	t.Setenv("BASE_URL", "https://blog.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.Store)
	assert.Equal(t, "local", cfg.StorageDriver)
	assert.Equal(t, 80, cfg.ImageQuality)
	assert.Equal(t, 960, cfg.HeaderImageWidth)
	assert.Equal(t, 540, cfg.HeaderImageHeight)
	assert.Equal(t, "https://blog.example.com", cfg.BaseURL)
	assert.Equal(t, "/files", cfg.MediaURLPrefix)
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBytes())
}

func TestLoadConfigRejectsBadInt(t *testing.T) {
	t.Setenv("IMAGE_QUALITY", "high")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMAGE_QUALITY")
}

func TestValidate(t *testing.T) {
	cfg := &Config{Store: "postgres", StorageDriver: "local", StorageDir: "uploads"}
	_, err := cfg.Validate()
	require.Error(t, err, "postgres without DB settings")

	cfg = &Config{Store: "memory", StorageDriver: "gcs"}
	_, err = cfg.Validate()
	require.Error(t, err, "gcs without bucket")

	cfg = &Config{Store: "memory", StorageDriver: "local", StorageDir: "uploads", JWTSecret: "s"}
	warnings, err := cfg.Validate()
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
}

func TestGetDSNSafeHidesPassword(t *testing.T) {
	cfg := &Config{DbUser: "u", DbPass: "secret", DbHost: "h", DbPort: "5432", DbName: "d", DbSSLMode: "disable"}
	assert.Contains(t, cfg.GetDSN(), "secret")
	assert.NotContains(t, cfg.GetDSNSafe(), "secret")
}
