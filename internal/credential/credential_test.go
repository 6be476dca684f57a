package credential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/errors"
)

const testKey = "LECTERN_TEST_API_KEY"

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.APIKeyEnv = testKey
	return cfg
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv(testKey, "  env-key \n")

	got, err := Load(testConfig(), t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "env-key" {
		t.Errorf("Load() = %q, want env-key (trimmed)", got)
	}
}

func TestLoad_FromBaseDirDotEnv(t *testing.T) {
	t.Setenv(testKey, "")
	os.Unsetenv(testKey)

	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, ".env"), []byte(testKey+"=dotenv-key\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv(testKey) })

	got, err := Load(testConfig(), base)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "dotenv-key" {
		t.Errorf("Load() = %q, want dotenv-key", got)
	}
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	t.Setenv(testKey, "real-env")

	base := t.TempDir()
	if err := os.WriteFile(filepath.Join(base, ".env"), []byte(testKey+"=dotenv-key\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := Load(testConfig(), base)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "real-env" {
		t.Errorf("Load() = %q, want real-env", got)
	}
}

func TestLoad_TeamEnvFile(t *testing.T) {
	t.Setenv(testKey, "")
	os.Unsetenv(testKey)

	team := filepath.Join(t.TempDir(), "team.env")
	if err := os.WriteFile(team, []byte(testKey+"=team-key\n"), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg := testConfig()
	cfg.TeamEnvFile = team
	got, err := Load(cfg, t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "team-key" {
		t.Errorf("Load() = %q, want team-key", got)
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Setenv(testKey, "")
	os.Unsetenv(testKey)

	_, err := Load(testConfig(), t.TempDir())
	if !errors.Is(err, errors.ErrMissingCredential) {
		t.Fatalf("Load() error = %v, want MISSING_CREDENTIAL", err)
	}
	le, _ := errors.As(err)
	if le.Details["key_name"] != testKey {
		t.Errorf("Details[key_name] = %v, want %s", le.Details["key_name"], testKey)
	}
}
