package app_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/petget/internal/petget/app"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PETGET_CONFIG_FILE", "")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, app.DriverSQLite, cfg.StoreDriver)
	require.Equal(t, "petget", cfg.JWTIssuer)
	require.Equal(t, "X-Tenant-ID", cfg.TenantHeader)
	require.Equal(t, app.ReadPolicyOpen, cfg.TenantReadPolicy)
	require.Equal(t, 24*time.Hour, cfg.AccessTTL.Std())
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL.Std())
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petget.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 9090
storeDriver: postgres
postgresDsn: postgres://petget@localhost/petget
accessTtl: "15m"
tenantReadPolicy: closed
tenantHeader: X-Clinic
`), 0o600))

	t.Setenv("PETGET_CONFIG_FILE", path)
	t.Setenv("PORT", "9191")
	t.Setenv("JWT_REFRESH_TTL", "3600000")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)

	// env beats the file, the file beats defaults
	require.Equal(t, 9191, cfg.Port)
	require.Equal(t, app.DriverPostgres, cfg.StoreDriver)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL.Std())
	require.Equal(t, time.Hour, cfg.RefreshTTL.Std())
	require.Equal(t, app.ReadPolicyClosed, cfg.TenantReadPolicy)
	require.Equal(t, "X-Clinic", cfg.TenantHeader)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadConfigReadPolicyFromEnv(t *testing.T) {
	t.Setenv("PETGET_CONFIG_FILE", "")
	t.Setenv("PETGET_TENANT_READ_POLICY", "closed")

	cfg, err := app.LoadConfig()
	require.NoError(t, err)
	require.Equal(t, app.ReadPolicyClosed, cfg.TenantReadPolicy)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("PETGET_CONFIG_FILE", "")

	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("PETGET_STORE_DRIVER", "postgres")
		_, err := app.LoadConfig()
		require.ErrorContains(t, err, "postgresDsn")
	})

	t.Run("unknown read policy", func(t *testing.T) {
		t.Setenv("PETGET_TENANT_READ_POLICY", "sometimes")
		_, err := app.LoadConfig()
		require.ErrorContains(t, err, "tenantReadPolicy")
	})

	t.Run("unparseable duration", func(t *testing.T) {
		t.Setenv("JWT_ACCESS_TTL", "soon")
		_, err := app.LoadConfig()
		require.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		t.Setenv("PETGET_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
		_, err := app.LoadConfig()
		require.ErrorContains(t, err, "read config file")
	})
}

func TestDurationUnmarshalText(t *testing.T) {
	var d app.Duration

	require.NoError(t, d.UnmarshalText([]byte("90s")))
	require.Equal(t, 90*time.Second, d.Std())

	require.NoError(t, d.UnmarshalText([]byte("1500")))
	require.Equal(t, 1500*time.Millisecond, d.Std())

	require.Error(t, d.UnmarshalText([]byte("1.5 hours")))
}
