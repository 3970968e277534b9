package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"API_URL", "POLL_SECONDS", "REQUEST_TIMEOUT_SECONDS",
	"EXPORT_DIR", "EXPORT_SCHEDULE", "LOG_PATH", "DEBUG",
}

// clearEnv blanks every STOCKPILE_* override for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(envPrefix+key, "")
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"), "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Fatalf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}

	wantLog, err := expandPath(defaultLogPath)
	if err != nil {
		t.Fatalf("expandPath(defaultLogPath) returned error: %v", err)
	}
	if cfg.LogPath != wantLog {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath, wantLog)
	}
	if !strings.HasPrefix(cfg.ExportDir, home) {
		t.Fatalf("ExportDir = %q, want it under HOME %q", cfg.ExportDir, home)
	}
	if cfg.ExportSchedule != "" {
		t.Fatalf("ExportSchedule = %q, want disabled", cfg.ExportSchedule)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_url = "  http://10.0.0.5:9999/api  "
poll_seconds = 5
request_timeout_seconds = 9
export_dir = "  ~/reports  "
export_schedule = " 0 18 * * * "
log_path = "~/logs/stock.log"
debug = true
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999/api" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PollInterval != 5*time.Second || cfg.RequestTimeout != 9*time.Second {
		t.Fatalf("PollInterval=%v RequestTimeout=%v, want 5s 9s", cfg.PollInterval, cfg.RequestTimeout)
	}
	if cfg.ExportDir != filepath.Join(home, "reports") {
		t.Fatalf("ExportDir = %q, want under HOME", cfg.ExportDir)
	}
	if cfg.ExportSchedule != "0 18 * * *" {
		t.Fatalf("ExportSchedule = %q", cfg.ExportSchedule)
	}
	if cfg.LogPath != filepath.Join(home, "logs", "stock.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath)
	}
	if !cfg.Debug {
		t.Fatalf("Debug = false, want true")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = "http://file/api"`+"\npoll_seconds = 5\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("STOCKPILE_API_URL", "http://env/api")
	t.Setenv("STOCKPILE_POLL_SECONDS", "3")
	t.Setenv("STOCKPILE_DEBUG", "true")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://env/api" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
	if cfg.PollInterval != 3*time.Second {
		t.Fatalf("PollInterval = %v, want 3s", cfg.PollInterval)
	}
	if !cfg.Debug {
		t.Fatalf("Debug = false, want true from env")
	}
}

func TestLoad_InvalidEnvFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	t.Setenv("STOCKPILE_POLL_SECONDS", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"), "")
	if err == nil || !strings.Contains(err.Error(), "POLL_SECONDS") {
		t.Fatalf("Load error = %v, want POLL_SECONDS error", err)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)
	// godotenv never overrides variables that already exist, even blank ones.
	if err := os.Unsetenv("STOCKPILE_EXPORT_SCHEDULE"); err != nil {
		t.Fatalf("Unsetenv: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("STOCKPILE_EXPORT_SCHEDULE") })

	envFile := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(envFile, []byte("STOCKPILE_EXPORT_SCHEDULE=\"@daily\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), envFile)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ExportSchedule != "@daily" {
		t.Fatalf("ExportSchedule = %q, want @daily from env file", cfg.ExportSchedule)
	}
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml"), filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("Load returned error for missing env file: %v", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_url = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path, "")
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	cfg.PollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate accepted zero poll interval")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
