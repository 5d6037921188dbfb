package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Save original env vars and restore after tests
	originalEnv := map[string]string{
		"PIMSYNC_APP_NAME":                os.Getenv("PIMSYNC_APP_NAME"),
		"PIMSYNC_APP_ENV":                 os.Getenv("PIMSYNC_APP_ENV"),
		"PIMSYNC_DATABASE_HOST":           os.Getenv("PIMSYNC_DATABASE_HOST"),
		"PIMSYNC_DATABASE_PORT":           os.Getenv("PIMSYNC_DATABASE_PORT"),
		"PIMSYNC_DATABASE_USER":           os.Getenv("PIMSYNC_DATABASE_USER"),
		"PIMSYNC_DATABASE_PASSWORD":       os.Getenv("PIMSYNC_DATABASE_PASSWORD"),
		"PIMSYNC_DATABASE_DBNAME":         os.Getenv("PIMSYNC_DATABASE_DBNAME"),
		"PIMSYNC_DATABASE_SSLMODE":        os.Getenv("PIMSYNC_DATABASE_SSLMODE"),
		"PIMSYNC_DATABASE_MAX_OPEN_CONNS": os.Getenv("PIMSYNC_DATABASE_MAX_OPEN_CONNS"),
		"PIMSYNC_DATABASE_MAX_IDLE_CONNS": os.Getenv("PIMSYNC_DATABASE_MAX_IDLE_CONNS"),
		"PIMSYNC_MAGENTO_BASE_URL":        os.Getenv("PIMSYNC_MAGENTO_BASE_URL"),
		"PIMSYNC_MAGENTO_API_KEY":         os.Getenv("PIMSYNC_MAGENTO_API_KEY"),
		"PIMSYNC_EXPORT_CHANNEL":          os.Getenv("PIMSYNC_EXPORT_CHANNEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setRequired := func() {
		os.Setenv("PIMSYNC_MAGENTO_BASE_URL", "http://magento.local")
		os.Setenv("PIMSYNC_EXPORT_CHANNEL", "ecommerce")
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()
		setRequired()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "pimsync-connector", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "postgres", cfg.Database.User)
		assert.Equal(t, "", cfg.Database.Password)
		assert.Equal(t, "pimsync", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, "/api/soap/?wsdl", cfg.Magento.WSDLPath)
		assert.Equal(t, "en_US", cfg.Export.DefaultLocale)
		assert.Equal(t, 4, cfg.Export.Visibility)
		assert.Equal(t, 1, cfg.Export.VariantMemberVisibility)
	})

	t.Run("loads values from environment variables with PIMSYNC prefix", func(t *testing.T) {
		clearEnv()
		setRequired()
		os.Setenv("PIMSYNC_APP_NAME", "test-connector")
		os.Setenv("PIMSYNC_APP_ENV", "testing")
		os.Setenv("PIMSYNC_DATABASE_HOST", "testdb.local")
		os.Setenv("PIMSYNC_DATABASE_PORT", "5433")
		os.Setenv("PIMSYNC_DATABASE_USER", "testuser")
		os.Setenv("PIMSYNC_DATABASE_PASSWORD", "testpass")
		os.Setenv("PIMSYNC_DATABASE_DBNAME", "testdb")
		os.Setenv("PIMSYNC_DATABASE_SSLMODE", "require")
		os.Setenv("PIMSYNC_DATABASE_MAX_OPEN_CONNS", "50")
		os.Setenv("PIMSYNC_DATABASE_MAX_IDLE_CONNS", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-connector", cfg.App.Name)
		assert.Equal(t, "testing", cfg.App.Env)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.DBName)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv()
		setRequired()
		os.Setenv("PIMSYNC_DATABASE_MAX_OPEN_CONNS", "10")
		os.Setenv("PIMSYNC_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_idle_conns")
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("zero MaxOpenConns uses default", func(t *testing.T) {
		clearEnv()
		setRequired()
		os.Setenv("PIMSYNC_DATABASE_MAX_OPEN_CONNS", "0")

		cfg, err := Load()
		require.NoError(t, err)
		// 0 is treated as "not set", so default (25) is used
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	})

	t.Run("requires export channel", func(t *testing.T) {
		clearEnv()
		os.Setenv("PIMSYNC_MAGENTO_BASE_URL", "http://magento.local")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "export.channel is required")
	})

	t.Run("requires magento base url", func(t *testing.T) {
		clearEnv()
		os.Setenv("PIMSYNC_EXPORT_CHANNEL", "ecommerce")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "magento.base_url is required")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	originalEnv := map[string]string{
		"PIMSYNC_APP_ENV":           os.Getenv("PIMSYNC_APP_ENV"),
		"PIMSYNC_DATABASE_PASSWORD": os.Getenv("PIMSYNC_DATABASE_PASSWORD"),
		"PIMSYNC_DATABASE_SSLMODE":  os.Getenv("PIMSYNC_DATABASE_SSLMODE"),
		"PIMSYNC_MAGENTO_BASE_URL":  os.Getenv("PIMSYNC_MAGENTO_BASE_URL"),
		"PIMSYNC_MAGENTO_API_KEY":   os.Getenv("PIMSYNC_MAGENTO_API_KEY"),
		"PIMSYNC_EXPORT_CHANNEL":    os.Getenv("PIMSYNC_EXPORT_CHANNEL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	setValidProductionBase := func() {
		os.Setenv("PIMSYNC_APP_ENV", "production")
		os.Setenv("PIMSYNC_DATABASE_PASSWORD", "secure-password")
		os.Setenv("PIMSYNC_DATABASE_SSLMODE", "require")
		os.Setenv("PIMSYNC_MAGENTO_BASE_URL", "https://magento.example.com")
		os.Setenv("PIMSYNC_MAGENTO_API_KEY", "api-key")
		os.Setenv("PIMSYNC_EXPORT_CHANNEL", "ecommerce")
	}

	t.Run("requires database.password in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("PIMSYNC_DATABASE_PASSWORD")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Setenv("PIMSYNC_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable' in production")
	})

	t.Run("requires magento.api_key in production", func(t *testing.T) {
		clearEnv()
		setValidProductionBase()
		os.Unsetenv("PIMSYNC_MAGENTO_API_KEY")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "magento.api_key is required in production")
	})

	t.Run("passes validation with valid production config", func(t *testing.T) {
		clearEnv()
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

		dsn := cfg.DSN()
		// URL-encoded password should be in the DSN
		assert.Contains(t, dsn, "pass%40word%23123")
	})

	t.Run("handles empty password", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "user",
			Password: "",
			DBName:   "db",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.NotEmpty(t, dsn)
	})
}
