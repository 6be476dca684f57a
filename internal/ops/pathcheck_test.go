package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/errors"
)

func TestValidateExportPath_TraversalRejected(t *testing.T) {
	cfg := config.DefaultConfig()
	exportsDir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"parent traversal", "../script.md"},
		{"deep traversal", "../../etc/script.md"},
		{"mid-path traversal", "/tmp/../etc/script.md"},
		{"hidden in path", exportsDir + "/../../../etc/shadow.md"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateExportPath(tc.path, ExportMarkdown, exportsDir, cfg)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got: %v", err)
			}
		})
	}
}

func TestValidateExportPath_ExtensionMustMatchFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	dir := t.TempDir()

	tests := []struct {
		name   string
		file   string
		format ExportFormat
		ok     bool
	}{
		{"markdown", "script.md", ExportMarkdown, true},
		{"json", "run.json", ExportJSON, true},
		{"html", "script.html", ExportHTML, true},
		{"upper case", "SCRIPT.MD", ExportMarkdown, true},
		{"markdown as json", "script.md", ExportJSON, false},
		{"no extension", "script", ExportMarkdown, false},
		{"htm", "script.htm", ExportHTML, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateExportPath(filepath.Join(dir, tc.file), tc.format, "", cfg)
			if tc.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("expected ErrInvalidRequest, got: %v", err)
			}
		})
	}
}

func TestValidateExportPath_DirectoryRestriction(t *testing.T) {
	cfg := config.DefaultConfig()
	exportsDir := t.TempDir()

	if err := ValidateExportPath(filepath.Join(exportsDir, "script.md"), ExportMarkdown, exportsDir, cfg); err != nil {
		t.Errorf("file directly in exports dir should pass, got: %v", err)
	}

	err := ValidateExportPath(filepath.Join(t.TempDir(), "script.md"), ExportMarkdown, exportsDir, cfg)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("path outside allowed dirs: expected ErrInvalidRequest, got: %v", err)
	}

	err = ValidateExportPath(filepath.Join(exportsDir, "sub", "script.md"), ExportMarkdown, exportsDir, cfg)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("subdirectory: expected ErrInvalidRequest, got: %v", err)
	}
}

func TestValidateExportPath_AllowedPaths(t *testing.T) {
	extra := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{extra, "relative/ignored"}

	if err := ValidateExportPath(filepath.Join(extra, "run.json"), ExportJSON, t.TempDir(), cfg); err != nil {
		t.Errorf("allowed_paths entry should pass, got: %v", err)
	}
	if err := ValidateExportPath("relative/ignored/run.json", ExportJSON, t.TempDir(), cfg); err == nil {
		t.Error("relative allowed_paths entries must be ignored")
	}
}

func TestValidateExportPath_AllowUnsafePaths(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true

	nested := filepath.Join(t.TempDir(), "a", "b", "script.md")
	if err := ValidateExportPath(nested, ExportMarkdown, t.TempDir(), cfg); err != nil {
		t.Errorf("AllowUnsafePaths should lift directory rule, got: %v", err)
	}
}

func TestValidateExportPath_SymlinkRejected(t *testing.T) {
	cfg := config.DefaultConfig()
	exportsDir := t.TempDir()

	target := filepath.Join(t.TempDir(), "target.md")
	if err := os.WriteFile(target, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(exportsDir, "link.md")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	if err := ValidateExportPath(link, ExportMarkdown, exportsDir, cfg); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for symlink, got: %v", err)
	}

	cfg.AllowUnsafePaths = true
	if err := ValidateExportPath(link, ExportMarkdown, exportsDir, cfg); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("symlinks stay rejected with AllowUnsafePaths, got: %v", err)
	}
}

func TestValidateExportPath_Empty(t *testing.T) {
	if err := ValidateExportPath("", ExportMarkdown, t.TempDir(), nil); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got: %v", err)
	}
}

func TestSanitizeForFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"climate basics", "climate-basics"},
		{"../../etc/passwd", "etc-passwd"},
		{"a\\b/c", "a-b-c"},
		{"tab\there", "tabhere"},
		{"...", "unnamed"},
		{"", "unnamed"},
		{"café deck", "café-deck"},
	}
	for _, tc := range tests {
		if got := SanitizeForFilename(tc.in); got != tc.want {
			t.Errorf("SanitizeForFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
