package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"APP_PORT", "LOG_LEVEL", "STORE_DRIVER", "MONGODB_URI", "MONGODB_DB_NAME", "JWT_SECRET", "JWT_TTL",
	"CHICK_UNIT_PRICE", "PHONE_REGION", "WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID",
	"WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "GOOGLE_SHEETS_CREDENTIALS_PATH",
	"GOOGLE_SHEET_DATABASE_ID", "REPORT_CRON_SCHEDULE", "TIMEZONE", "REPORT_RECIPIENT",
}

// clearEnv blanks every key for the duration of the test; empty values fall back to defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, StoreMongoDB, cfg.Store.Driver)
	require.Equal(t, "mongodb://localhost:27017", cfg.MongoDB.URI)
	require.Equal(t, "chicks", cfg.MongoDB.DBName)
	require.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	require.Equal(t, int64(1650), cfg.Workflow.ChickUnitPrice)
	require.Equal(t, "UG", cfg.Workflow.PhoneRegion)
	require.Equal(t, "0 20 * * 5", cfg.Reporting.CronSchedule)
	require.Equal(t, "Africa/Kampala", cfg.Reporting.Timezone)
	require.False(t, cfg.WhatsApp.Enabled())
	require.False(t, cfg.Sheets.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=from-file\nSTORE_DRIVER=memory\nCHICK_UNIT_PRICE=1800\nJWT_TTL=2h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// godotenv does not override variables already present, so unset the blanks first.
	for _, key := range []string{"JWT_SECRET", "STORE_DRIVER", "CHICK_UNIT_PRICE", "JWT_TTL"} {
		require.NoError(t, os.Unsetenv(key))
	}
	t.Cleanup(func() {
		for _, key := range []string{"JWT_SECRET", "STORE_DRIVER", "CHICK_UNIT_PRICE", "JWT_TTL"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.Auth.JWTSecret)
	require.Equal(t, StoreMemory, cfg.Store.Driver)
	require.Equal(t, int64(1800), cfg.Workflow.ChickUnitPrice)
	require.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret": {},
		"bad driver":     {"JWT_SECRET": "x", "STORE_DRIVER": "postgres"},
		"bad ttl":        {"JWT_SECRET": "x", "JWT_TTL": "forever"},
		"bad price":      {"JWT_SECRET": "x", "CHICK_UNIT_PRICE": "free"},
		"zero price":     {"JWT_SECRET": "x", "CHICK_UNIT_PRICE": "0"},
		"no recipient":   {"JWT_SECRET": "x", "WHATSAPP_TOKEN": "t", "WHATSAPP_PHONE_NUMBER_ID": "1"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range env {
				t.Setenv(key, value)
			}
			_, err := Load(missingEnvFile(t))
			require.Error(t, err)
		})
	}
}

func TestReportingLocation(t *testing.T) {
	loc, err := ReportingConfig{Timezone: "UTC"}.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)

	_, err = ReportingConfig{Timezone: "Mars/Olympus"}.Location()
	require.Error(t, err)
}
