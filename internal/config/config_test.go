package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-study-client/internal/config"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("STUDY_DATA_DIR", "/tmp/studyctl-test")
	c := config.NewWithFile(noEnvFile(t))

	require.Equal(t, "Study Assistant", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, "http://localhost:8000", c.GetBaseURL())
	require.Equal(t, time.Duration(0), c.GetHTTPTimeout())
	require.True(t, c.GetCoalesceRefresh())
	require.Empty(t, c.GetUserAgent(), "callers supply their own default")
	require.Equal(t, filepath.Join("/tmp/studyctl-test", "credentials.yaml"), c.GetCredentialsFile())
	require.Equal(t, filepath.Join("/tmp/studyctl-test", "history.db"), c.GetHistoryDB())
	require.Empty(t, c.GetCredentialsKey())
	require.Equal(t, ":8000", c.GetMockAddr())
	require.NotEmpty(t, c.GetMockJWTSecret())
	require.Equal(t, 30*time.Minute, c.GetMockAccessTokenTTL())
	require.Equal(t, 7*24*time.Hour, c.GetMockRefreshTokenTTL())
}

func TestNew_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STUDY_API_BASE_URL", "https://api.example.com/")
	t.Setenv("STUDY_HTTP_TIMEOUT", "15s")
	t.Setenv("STUDY_COALESCE_REFRESH", "false")
	t.Setenv("STUDY_ENV", "prod")
	t.Setenv("STUDY_CREDENTIALS_FILE", "/tmp/creds.yaml")
	t.Setenv("STUDY_MOCK_ADDR", "9090")

	c := config.NewWithFile(noEnvFile(t))

	require.Equal(t, "https://api.example.com", c.GetBaseURL(), "trailing slash is trimmed")
	require.Equal(t, 15*time.Second, c.GetHTTPTimeout())
	require.False(t, c.GetCoalesceRefresh())
	require.Equal(t, "PROD", c.GetEnv())
	require.Equal(t, "/tmp/creds.yaml", c.GetCredentialsFile())
	require.Equal(t, ":9090", c.GetMockAddr())
}

func TestNew_DotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	err := os.WriteFile(envFile, []byte("STUDY_API_BASE_URL=http://file.example.com\nSTUDY_LOG_LEVEL=DEBUG\n"), 0600)
	require.NoError(t, err)

	c := config.NewWithFile(envFile)
	require.Equal(t, "http://file.example.com", c.GetBaseURL())
	require.Equal(t, "debug", c.GetLogLevel())

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("STUDY_API_BASE_URL", "http://env.example.com")
		c := config.NewWithFile(envFile)
		require.Equal(t, "http://env.example.com", c.GetBaseURL())
	})
}
