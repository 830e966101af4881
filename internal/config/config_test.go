package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NMHx2005/lms-frontend-sub000/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, v := range []string{
		"ENV", "APP_NAME", "LOG_LEVEL",
		"VITE_API_URL", "VITE_API_PREFIX", "VITE_API_TIMEOUT", "VITE_API_WITH_CREDENTIALS",
		"VITE_API_USE_BEARER", "VITE_API_REFRESH_PATH", "LMS_API_COALESCE_REFRESH",
		"LMS_SESSION_STORE", "LMS_SESSION_PROFILE",
	} {
		t.Setenv(v, "")
	}

	cfg := config.New()
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, "LMS Client", cfg.GetAppName())
	require.Equal(t, "info", cfg.GetLogLevel())
	require.Equal(t, config.DefaultAPIURL, cfg.GetAPIURL())
	require.Equal(t, "/api", cfg.GetAPIPrefix())
	require.Equal(t, 15*time.Second, cfg.GetAPITimeout())
	require.False(t, cfg.GetWithCredentials())
	require.True(t, cfg.GetUseBearer())
	require.Equal(t, "/auth/refresh", cfg.GetRefreshPath())
	require.False(t, cfg.GetCoalesceRefresh())
	require.Equal(t, "file", cfg.GetSessionStore())
	require.Equal(t, "default", cfg.GetSessionProfile())
}

func TestWithCredentialsDisablesBearer(t *testing.T) {
	t.Setenv("VITE_API_WITH_CREDENTIALS", "true")
	t.Setenv("VITE_API_USE_BEARER", "true")

	cfg := config.New()
	require.True(t, cfg.GetWithCredentials())
	require.False(t, cfg.GetUseBearer())
}

func TestGetBoolEnv(t *testing.T) {
	for value, want := range map[string]bool{"true": true, "FALSE": false, "1": true, "yes": true, "": true} {
		t.Setenv("LMS_TEST_BOOL", value)
		require.Equal(t, want, config.GetBoolEnv("LMS_TEST_BOOL", true), value)
	}
	t.Setenv("LMS_TEST_BOOL", "false")
	require.False(t, config.GetBoolEnv("LMS_TEST_BOOL", true))
}

func TestGetIntEnv(t *testing.T) {
	t.Setenv("VITE_API_TIMEOUT", "not-a-number")
	require.Equal(t, 15*time.Second, config.New().GetAPITimeout())

	t.Setenv("VITE_API_TIMEOUT", "-5")
	require.Equal(t, 15*time.Second, config.New().GetAPITimeout())

	t.Setenv("VITE_API_TIMEOUT", "750")
	require.Equal(t, 750*time.Millisecond, config.New().GetAPITimeout())
}

func TestSessionFile(t *testing.T) {
	t.Setenv("LMS_SESSION_FILE", "/tmp/lms/session.yaml")
	require.Equal(t, "/tmp/lms/session.yaml", config.New().GetSessionFile())

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("LMS_SESSION_FILE", "")
	require.Equal(t, filepath.Join(dir, "lms", "session.yaml"), config.New().GetSessionFile())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VITE_API_URL=https://from-dotenv.example\nAPP_NAME=from-dotenv\n"), 0o600))

	t.Setenv("VITE_API_URL", "")
	t.Setenv("APP_NAME", "from-environment")
	// godotenv only fills variables that are unset
	require.NoError(t, os.Unsetenv("VITE_API_URL"))

	cfg, err := config.Load(envFile)
	require.NoError(t, err)
	require.Equal(t, "https://from-dotenv.example", cfg.GetAPIURL())
	require.Equal(t, "from-environment", cfg.GetAppName())

	_, err = config.Load(filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
}
