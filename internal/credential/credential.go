// Package credential resolves the generation API key.
package credential

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/errors"
)

// Load returns the API key named by cfg.APIKeyEnv.
//
// Lookup order: the process environment, after .env files in the working
// directory and baseDir have been loaded without overriding variables that
// are already set; then cfg.TeamEnvFile, if configured.
func Load(cfg *config.Config, baseDir string) (string, error) {
	keyName := cfg.APIKeyEnv
	if keyName == "" {
		keyName = config.DefaultConfig().APIKeyEnv
	}

	loadDotEnv(".env")
	if baseDir != "" {
		loadDotEnv(filepath.Join(baseDir, ".env"))
	}

	if v := strings.TrimSpace(os.Getenv(keyName)); v != "" {
		return v, nil
	}

	if cfg.TeamEnvFile != "" {
		vals, err := godotenv.Read(cfg.TeamEnvFile)
		if err != nil {
			slog.Warn("team env file unreadable", "path", cfg.TeamEnvFile, "error", err)
		} else if v := strings.TrimSpace(vals[keyName]); v != "" {
			return v, nil
		}
	}

	return "", errors.NewMissingCredential(keyName)
}

func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := godotenv.Load(path); err != nil {
		slog.Warn("dotenv file unreadable", "path", path, "error", err)
	}
}
