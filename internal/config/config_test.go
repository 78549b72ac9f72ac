package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SEARCHBOT_CONFIG", "")
	t.Setenv("SEARCHBOT_BACKEND_URL", "")
	t.Setenv("BACKEND_URL", "")
	t.Chdir(home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, DefaultBackendURL, cfg.Backend.URL)
	require.Equal(t, 2*time.Minute, cfg.Backend.Timeout)
	require.Equal(t, "search", cfg.UI.StartTab)
	require.Equal(t, filepath.Join(home, "Pictures", "searchbot"), cfg.Images.Dir)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "searchbot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[backend]
url = "http://file.local"
timeout = "30s"

[ui]
start_tab = "Chat"
`), 0o644))
	t.Setenv("SEARCHBOT_CONFIG", path)

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "http://file.local", cfg.Backend.URL)
	require.Equal(t, 30*time.Second, cfg.Backend.Timeout)
	require.Equal(t, "chat", cfg.UI.StartTab)

	t.Setenv("BACKEND_URL", "http://env.local")
	cfg, err = Load(nil)
	require.NoError(t, err)
	require.Equal(t, "http://env.local", cfg.Backend.URL)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("backend-url", "", "")
	fs.String("tab", "", "")
	require.NoError(t, fs.Parse([]string{"--backend-url", "http://flag.local", "--tab", "pdf"}))
	cfg, err = Load(fs)
	require.NoError(t, err)
	require.Equal(t, "http://flag.local", cfg.Backend.URL)
	require.Equal(t, "pdf", cfg.UI.StartTab)
}

func TestLoad_DotEnv(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(home, ".env"), []byte("SEARCHBOT_LOG_LEVEL=debug\n"), 0o644))
	t.Cleanup(func() { _ = os.Unsetenv("SEARCHBOT_LOG_LEVEL") })

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingExplicitConfigFails(t *testing.T) {
	home := isolate(t)
	t.Setenv("SEARCHBOT_CONFIG", filepath.Join(home, "nope.toml"))

	_, err := Load(nil)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	good := Config{
		Backend: BackendConfig{URL: "https://api.example.com", Timeout: time.Second},
		Log:     LogConfig{Level: "info"},
		Images:  ImagesConfig{Dir: "/tmp"},
		UI:      UIConfig{StartTab: "ocr"},
	}
	require.NoError(t, Validate(good))

	bad := good
	bad.Backend.URL = "not a url"
	require.ErrorContains(t, Validate(bad), "config.backend.url")

	bad = good
	bad.UI.StartTab = "settings"
	require.ErrorContains(t, Validate(bad), "start_tab")

	bad = good
	bad.Backend.Timeout = -time.Second
	require.Error(t, Validate(bad))
}
