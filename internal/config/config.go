package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything stockpile needs to reach the Remote Store and
// where to put its own files.
type Config struct {
	APIURL         string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	ExportDir      string
	ExportSchedule string // cron expression; empty disables scheduled reports
	LogPath        string
	Debug          bool
}

const (
	defaultConfigPath     = "~/.config/stockpile/config.toml"
	defaultAPIURL         = "http://localhost:5000/api"
	defaultPollInterval   = 2 * time.Second
	defaultRequestTimeout = 5 * time.Second
	defaultExportDir      = "~/Documents/stockpile"
	defaultLogPath        = "~/.local/share/stockpile/stockpile.log"

	envPrefix = "STOCKPILE_"
)

// Default returns the configuration used when no file or environment is present.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		ExportDir:      mustExpand(defaultExportDir),
		LogPath:        mustExpand(defaultLogPath),
	}
}

type fileConfig struct {
	APIURL                string `toml:"api_url"`
	PollSeconds           int    `toml:"poll_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
	ExportDir             string `toml:"export_dir"`
	ExportSchedule        string `toml:"export_schedule"`
	LogPath               string `toml:"log_path"`
	Debug                 bool   `toml:"debug"`
}

// Load reads the TOML config at path (default ~/.config/stockpile/config.toml),
// then applies STOCKPILE_* environment overrides. envFile, when set, is loaded
// into the environment first; otherwise a .env in the working directory is
// used if present. Missing files fall back to defaults.
func Load(path, envFile string) (Config, error) {
	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	applyFile(&cfg, raw)

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures the settings are usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return errors.New("api_url must be provided")
	}
	if c.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	return nil
}

func loadEnvFile(envFile string) error {
	if strings.TrimSpace(envFile) == "" {
		// A missing .env is normal; configuration may come from the environment.
		_ = godotenv.Load()
		return nil
	}
	expanded, err := expandPath(envFile)
	if err != nil {
		return err
	}
	if err := godotenv.Load(expanded); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", envFile, err)
	}
	return nil
}

func readFile(path string) (fileConfig, error) {
	var raw fileConfig
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return raw, nil
		}
		return raw, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return raw, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return raw, fmt.Errorf("parse config: %w", err)
	}
	return raw, nil
}

func applyFile(cfg *Config, raw fileConfig) {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = v
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(raw.ExportDir); v != "" {
		cfg.ExportDir = mustExpand(v)
	}
	cfg.ExportSchedule = strings.TrimSpace(raw.ExportSchedule)
	if v := strings.TrimSpace(raw.LogPath); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	cfg.Debug = raw.Debug
}

func applyEnv(cfg *Config) error {
	if v := getenv("API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := getenv("POLL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%sPOLL_SECONDS: invalid value %q", envPrefix, v)
		}
		cfg.PollInterval = time.Duration(n) * time.Second
	}
	if v := getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%sREQUEST_TIMEOUT_SECONDS: invalid value %q", envPrefix, v)
		}
		cfg.RequestTimeout = time.Duration(n) * time.Second
	}
	if v := getenv("EXPORT_DIR"); v != "" {
		cfg.ExportDir = mustExpand(v)
	}
	if v := getenv("EXPORT_SCHEDULE"); v != "" {
		cfg.ExportSchedule = v
	}
	if v := getenv("LOG_PATH"); v != "" {
		cfg.LogPath = mustExpand(v)
	}
	if v := getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: invalid value %q", envPrefix, v)
		}
		cfg.Debug = debug
	}
	return nil
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
