package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. LECTERN_STYLE.
const EnvPrefix = "LECTERN"

// Config holds application configuration.
type Config struct {
	// Backend selects the text-generation adapter: "gemini" or "openai".
	Backend string `mapstructure:"backend" json:"backend,omitempty"`

	// Model overrides the adapter's default model.
	Model string `mapstructure:"model" json:"model,omitempty"`

	// BaseURL overrides the adapter's API endpoint.
	BaseURL string `mapstructure:"base_url" json:"base_url,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `mapstructure:"api_key_env" json:"api_key_env,omitempty"`

	// TeamEnvFile is an optional dotenv file shared by a team, read after
	// the process environment.
	TeamEnvFile string `mapstructure:"team_env_file" json:"team_env_file,omitempty"`

	// Style and Level are the defaults when a request names none.
	Style string `mapstructure:"style" json:"style,omitempty"`
	Level string `mapstructure:"level" json:"level,omitempty"`

	PacingDelayMS      int `mapstructure:"pacing_delay_ms" json:"pacing_delay_ms,omitempty"`
	RateLimitBackoffMS int `mapstructure:"rate_limit_backoff_ms" json:"rate_limit_backoff_ms,omitempty"`
	RequestTimeoutSec  int `mapstructure:"request_timeout_sec" json:"request_timeout_sec,omitempty"`

	// AbortOnAuthFailure skips the rest of a pass after an authorization error.
	AbortOnAuthFailure bool `mapstructure:"abort_on_auth_failure" json:"abort_on_auth_failure,omitempty"`

	// MaxSlides caps the number of slides in one deck.
	MaxSlides int `mapstructure:"max_slides" json:"max_slides,omitempty"`

	// MaxParallelDecks caps concurrent decks in a batch.
	MaxParallelDecks int `mapstructure:"max_parallel_decks" json:"max_parallel_decks,omitempty"`

	// RedisAddr enables the narration cache when set (host:port).
	RedisAddr     string `mapstructure:"redis_addr" json:"redis_addr,omitempty"`
	CacheTTLHours int    `mapstructure:"cache_ttl_hours" json:"cache_ttl_hours,omitempty"`

	// AllowedPaths is an allowlist of directories for export.
	// Paths outside ~/.lectern/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `mapstructure:"allowed_paths" json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `mapstructure:"allow_unsafe_paths" json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `mapstructure:"db_max_open_conns" json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `mapstructure:"db_max_idle_conns" json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `mapstructure:"disabled_tools" json:"disabled_tools,omitempty"`

	LogLevel  string `mapstructure:"log_level" json:"log_level,omitempty"`
	LogFormat string `mapstructure:"log_format" json:"log_format,omitempty"`
}

// envKeys are the keys that may be overridden from the environment.
var envKeys = []string{
	"backend", "model", "base_url", "api_key_env", "team_env_file",
	"style", "level",
	"pacing_delay_ms", "rate_limit_backoff_ms", "request_timeout_sec",
	"abort_on_auth_failure", "max_slides", "max_parallel_decks",
	"redis_addr", "cache_ttl_hours",
	"allowed_paths", "allow_unsafe_paths",
	"db_max_open_conns", "db_max_idle_conns", "disabled_tools",
	"log_level", "log_format",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend:            "gemini",
		APIKeyEnv:          "GOOGLE_API_KEY",
		Style:              "engaging",
		Level:              "normal",
		PacingDelayMS:      800,
		RateLimitBackoffMS: 5000,
		RequestTimeoutSec:  60,
		MaxSlides:          500,
		MaxParallelDecks:   4,
		CacheTTLHours:      24,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// PacingDelay is the wait after every generation attempt.
func (c *Config) PacingDelay() time.Duration {
	return time.Duration(c.PacingDelayMS) * time.Millisecond
}

// RateLimitBackoff is the wait after a rate-limited attempt.
func (c *Config) RateLimitBackoff() time.Duration {
	return time.Duration(c.RateLimitBackoffMS) * time.Millisecond
}

// Load loads configuration from baseDir/config.json, then applies
// LECTERN_* environment overrides.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.lectern.
func Load(baseDir string) (*Config, error) {
	file, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	env, err := loadEnv()
	if err != nil {
		return nil, err
	}
	return Merge(Merge(DefaultConfig(), file), env), nil
}

// LoadWithRepo loads configuration from both global (~/.lectern) and repo (.lectern) directories.
// Repo config is found by walking upward from startDir to find the nearest .lectern/config.json.
// Precedence: defaults, global, repo, environment. Arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	env, err := loadEnv()
	if err != nil {
		return nil, err
	}

	return Merge(Merge(Merge(DefaultConfig(), global), repo), env), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .lectern/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".lectern", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw reads one JSON config file.
// Returns zero-valued config if the path is empty or the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	cfg := &Config{}
	if configPath == "" {
		return cfg, nil
	}
	if _, err := os.Stat(configPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", configPath, err)
	}
	return cfg, nil
}

// loadEnv reads LECTERN_* variables into a zero-valued config.
// List values are comma-separated.
func loadEnv() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, k := range envKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode %s_* environment: %w", EnvPrefix, err)
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.Backend = pickString(base.Backend, overlay.Backend)
	result.Model = pickString(base.Model, overlay.Model)
	result.BaseURL = pickString(base.BaseURL, overlay.BaseURL)
	result.APIKeyEnv = pickString(base.APIKeyEnv, overlay.APIKeyEnv)
	result.TeamEnvFile = pickString(base.TeamEnvFile, overlay.TeamEnvFile)
	result.Style = pickString(base.Style, overlay.Style)
	result.Level = pickString(base.Level, overlay.Level)
	result.RedisAddr = pickString(base.RedisAddr, overlay.RedisAddr)
	result.LogLevel = pickString(base.LogLevel, overlay.LogLevel)
	result.LogFormat = pickString(base.LogFormat, overlay.LogFormat)

	result.PacingDelayMS = pickInt(base.PacingDelayMS, overlay.PacingDelayMS)
	result.RateLimitBackoffMS = pickInt(base.RateLimitBackoffMS, overlay.RateLimitBackoffMS)
	result.RequestTimeoutSec = pickInt(base.RequestTimeoutSec, overlay.RequestTimeoutSec)
	result.MaxSlides = pickInt(base.MaxSlides, overlay.MaxSlides)
	result.MaxParallelDecks = pickInt(base.MaxParallelDecks, overlay.MaxParallelDecks)
	result.CacheTTLHours = pickInt(base.CacheTTLHours, overlay.CacheTTLHours)
	result.DBMaxOpenConns = pickInt(base.DBMaxOpenConns, overlay.DBMaxOpenConns)
	result.DBMaxIdleConns = pickInt(base.DBMaxIdleConns, overlay.DBMaxIdleConns)

	// Booleans: overlay wins if true, else base
	result.AbortOnAuthFailure = base.AbortOnAuthFailure || overlay.AbortOnAuthFailure
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func pickString(base, overlay string) string {
	if strings.TrimSpace(overlay) != "" {
		return strings.TrimSpace(overlay)
	}
	return base
}

func pickInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
