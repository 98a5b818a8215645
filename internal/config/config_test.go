package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MightyHelper/WSD25-Assign02/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_KIND", "")
	t.Setenv("UPLOAD_DIR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.PORT)
	assert.Equal(t, "fs", cfg.STORAGE_KIND)
	assert.Equal(t, "uploads", cfg.UPLOAD_DIR)
	assert.Equal(t, "info", cfg.LOG_LEVEL)
	assert.Equal(t, "s3cret", cfg.JWT_SECRET)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownStorageKind(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORAGE_KIND", "s3")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
