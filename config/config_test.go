package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "pantry")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "pantry_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "pantry", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "pantry_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.PostgresDSN(), "dbname=pantry_test")
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "DB_DRIVER", "DB_HOST", "DB_PORT", "JWT_SECRET", "STORAGE_BACKEND", "TOKEN_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
}

func TestLoadConfigReadsSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("pw"), 0o600))

	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "pw", cfg.DBPassword)
}

func TestValidateConfig(t *testing.T) {
	t.Run("production requires real secrets", func(t *testing.T) {
		cfg := &Config{
			Env:            Production,
			ServerPort:     "8000",
			DBDriver:       "postgres",
			DBHost:         "db",
			DBName:         "pantry",
			StorageBackend: "local",
			MediaRoot:      "media",
			TokenTTL:       time.Hour,
			JWTSecret:      defaultJWTSecret,
		}
		err := ValidateConfig(cfg)
		require.Error(t, err)

		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		fields := map[string]bool{}
		for _, e := range errs {
			fields[e.Field] = true
		}
		assert.True(t, fields["JWT_SECRET"])
		assert.True(t, fields["DB_PASSWORD"])
	})

	t.Run("unknown backends", func(t *testing.T) {
		cfg := &Config{
			Env:            Development,
			ServerPort:     "8000",
			DBDriver:       "oracle",
			StorageBackend: "ftp",
			TokenTTL:       time.Hour,
		}
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_DRIVER")
		assert.Contains(t, err.Error(), "STORAGE_BACKEND")
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		cfg := &Config{
			Env:            Development,
			ServerPort:     "8000",
			DBDriver:       "sqlite",
			DBPath:         ":memory:",
			StorageBackend: "s3",
			TokenTTL:       time.Hour,
		}
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "S3_BUCKET_NAME")
	})
}
