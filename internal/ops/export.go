package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/db"
	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/run"
)

// ExportFormat selects the export encoding.
type ExportFormat string

const (
	ExportMarkdown ExportFormat = "markdown"
	ExportJSON     ExportFormat = "json"
	ExportHTML     ExportFormat = "html"
)

// Ext returns the file extension required for the format.
func (f ExportFormat) Ext() string {
	switch f {
	case ExportJSON:
		return ".json"
	case ExportHTML:
		return ".html"
	default:
		return ".md"
	}
}

// ParseExportFormat resolves a format name. Empty means markdown.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return ExportMarkdown, nil
	case "json":
		return ExportJSON, nil
	case "html":
		return ExportHTML, nil
	}
	return "", errors.NewInvalidRequest(fmt.Sprintf("unknown export format %q (want markdown, json or html)", s))
}

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	ID     string
	Format string // markdown (default), json, html
	Path   string // optional, default: <exports>/<title>-<timestamp>.<ext>
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	ID         string `json:"id"`
	Path       string `json:"path"`
	Format     string `json:"format"`
	Bytes      int    `json:"bytes"`
	ExportedAt int64  `json:"exported_at"`
}

// Export writes one run to a file as a presenter script, a JSON document,
// or a standalone HTML page.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, exportsDir string, input ExportInput) (*ExportOutput, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}
	format, err := ParseExportFormat(input.Format)
	if err != nil {
		return nil, err
	}

	r, err := db.GetRun(database, id, false)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}

	now := time.Now()
	exportedAt := now.Unix()

	exportPath := input.Path
	if exportPath == "" {
		exportPath = defaultExportPath(exportsDir, r.Title, format, now)
	}

	// Default paths are validated too: the title ends up in the file name.
	if err := ValidateExportPath(exportPath, format, exportsDir, cfg); err != nil {
		return nil, err
	}

	content, err := renderExport(r, format, exportedAt)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := writeAtomic(exportPath, content); err != nil {
		return nil, err
	}

	return &ExportOutput{
		ID:         r.ID,
		Path:       exportPath,
		Format:     string(format),
		Bytes:      len(content),
		ExportedAt: exportedAt,
	}, nil
}

func renderExport(r *run.Run, format ExportFormat, exportedAt int64) ([]byte, error) {
	switch format {
	case ExportJSON:
		b, err := json.MarshalIndent(run.ToExportDocument(r, exportedAt), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case ExportHTML:
		body, err := run.ScriptHTML(r)
		if err != nil {
			return nil, err
		}
		var sb strings.Builder
		sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
		fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(r.Title))
		sb.WriteString("</head>\n<body>\n")
		sb.Write(body)
		sb.WriteString("</body>\n</html>\n")
		return []byte(sb.String()), nil
	default:
		return []byte(run.Script(r)), nil
	}
}

// writeAtomic writes content to a random temp file next to path, then
// renames it into place. An existing file survives any failure.
func writeAtomic(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := openFileNoFollow(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(content); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before rename (required on Windows).
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlink at the destination.
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// On Windows, os.Rename fails if the destination exists. Fail and keep
	// the existing file rather than delete-then-rename.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}

// defaultExportPath builds <exportsDir>/<title>-<timestamp><ext>.
func defaultExportPath(exportsDir, title string, format ExportFormat, now time.Time) string {
	timestamp := now.Format("2006-01-02T150405")
	name := SanitizeForFilename(run.NormalizeKey(title))
	return filepath.Join(exportsDir, fmt.Sprintf("%s-%s%s", name, timestamp, format.Ext()))
}
