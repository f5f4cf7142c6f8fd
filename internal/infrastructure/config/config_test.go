package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"AMS_APP_NAME",
	"AMS_APP_ENV",
	"AMS_APP_PORT",
	"AMS_DATABASE_HOST",
	"AMS_DATABASE_PORT",
	"AMS_DATABASE_USER",
	"AMS_DATABASE_PASSWORD",
	"AMS_DATABASE_DBNAME",
	"AMS_DATABASE_SSLMODE",
	"AMS_DATABASE_MAX_OPEN_CONNS",
	"AMS_DATABASE_MAX_IDLE_CONNS",
	"AMS_JWT_SECRET",
	"AMS_JWT_ACCESS_TOKEN_EXPIRATION",
	"AMS_JWT_REFRESH_TOKEN_EXPIRATION",
	"AMS_SCHEDULER_TIMEZONE",
	"AMS_SCHEDULER_WARRANTY_WINDOW_DAYS",
	"AMS_STORAGE_PROVIDER",
	"AMS_STORAGE_BUCKET",
	"AMS_AMQP_ENABLED",
	"AMS_AMQP_URL",
	"AMS_VALUATION_SUMMARY_CACHE_TTL",
}

// withCleanEnv clears all config variables and restores them afterwards
func withCleanEnv(t *testing.T) {
	t.Helper()
	original := make(map[string]string, len(configEnvKeys))
	for _, k := range configEnvKeys {
		original[k] = os.Getenv(k)
		os.Unsetenv(k)
	}
	t.Cleanup(func() {
		for k, v := range original {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		withCleanEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "asset-register", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "assets", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 30, cfg.Scheduler.WarrantyWindowDays)
		assert.Equal(t, "[Unassigned]", cfg.Scheduler.UnassignedSubjectTag)
		assert.Equal(t, "memory", cfg.Storage.Provider)
		assert.Equal(t, "PRO_RATA_DAILY", cfg.Valuation.DefaultMethod)
		assert.Equal(t, 10*time.Minute, cfg.Valuation.SummaryCacheTTL)
		assert.Equal(t, time.Hour, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiration)
		assert.Equal(t, 30, cfg.JWT.MaxRefreshCount)
		assert.Equal(t, "0 0 * * *", cfg.Scheduler.ResetCleanupCron)
		assert.Equal(t, 5*time.Minute, cfg.Reset.CodeTTL)
		assert.Equal(t, 5, cfg.Reset.MaxAttempts)
	})

	t.Run("loads values from environment variables with AMS prefix", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_APP_NAME", "test-app")
		os.Setenv("AMS_APP_ENV", "testing")
		os.Setenv("AMS_APP_PORT", "9000")
		os.Setenv("AMS_DATABASE_HOST", "testdb.local")
		os.Setenv("AMS_DATABASE_PORT", "5433")
		os.Setenv("AMS_DATABASE_USER", "testuser")
		os.Setenv("AMS_DATABASE_PASSWORD", "testpass")
		os.Setenv("AMS_DATABASE_DBNAME", "testdb")
		os.Setenv("AMS_DATABASE_SSLMODE", "require")
		os.Setenv("AMS_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("AMS_DATABASE_MAX_IDLE_CONNS", "10")
		os.Setenv("AMS_SCHEDULER_WARRANTY_WINDOW_DAYS", "45")
		os.Setenv("AMS_VALUATION_SUMMARY_CACHE_TTL", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, 45, cfg.Scheduler.WarrantyWindowDays)
		assert.Equal(t, time.Minute, cfg.Valuation.SummaryCacheTTL)
	})

	t.Run("rejects refresh tokens that expire before access tokens", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_JWT_ACCESS_TOKEN_EXPIRATION", "2h")
		os.Setenv("AMS_JWT_REFRESH_TOKEN_EXPIRATION", "1h")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.refresh_token_expiration")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("AMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("validates MaxIdleConns cannot be negative", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_DATABASE_MAX_IDLE_CONNS", "-1")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns cannot be negative")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_SCHEDULER_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "scheduler.timezone")
	})

	t.Run("s3 storage requires a bucket", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_STORAGE_PROVIDER", "s3")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")

		os.Setenv("AMS_STORAGE_BUCKET", "bills")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "bills", cfg.Storage.Bucket)
	})

	t.Run("rejects unknown storage provider", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_STORAGE_PROVIDER", "ftp")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.provider")
	})

	t.Run("amqp requires a url when enabled", func(t *testing.T) {
		withCleanEnv(t)
		os.Setenv("AMS_AMQP_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "amqp.url")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func() {
		os.Setenv("AMS_APP_ENV", "production")
		os.Setenv("AMS_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		os.Setenv("AMS_DATABASE_PASSWORD", "secure-password")
		os.Setenv("AMS_DATABASE_SSLMODE", "require")
	}

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Unsetenv("AMS_JWT_SECRET")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("AMS_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Unsetenv("AMS_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()
		os.Setenv("AMS_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		withCleanEnv(t)
		setValidProductionBase()

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost")
		assert.Contains(t, dsn, "5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "pass@word#123",
			DBName:   "db",
			SSLMode:  "disable",
		}

		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6380}
	assert.Equal(t, "cache.local:6380", cfg.Addr())
}

func TestSchedulerConfig_Location(t *testing.T) {
	t.Run("resolves configured zone", func(t *testing.T) {
		cfg := SchedulerConfig{Timezone: "Asia/Kolkata"}
		assert.Equal(t, "Asia/Kolkata", cfg.Location().String())
	})

	t.Run("falls back to UTC", func(t *testing.T) {
		cfg := SchedulerConfig{Timezone: "Nowhere/Special"}
		assert.Equal(t, time.UTC, cfg.Location())
	})
}
