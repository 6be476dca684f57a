package ops

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/run"
)

func TestExport_MarkdownDefaultPath(t *testing.T) {
	database := openTestDB(t)
	id := storeSampleRun(t, database, "Plant Biology / Week 1")
	exportsDir := filepath.Join(t.TempDir(), "exports")

	out, err := Export(context.Background(), database, testConfig(), exportsDir, ExportInput{ID: id})
	require.NoError(t, err)
	require.Equal(t, "markdown", out.Format)
	require.Equal(t, exportsDir, filepath.Dir(out.Path))
	require.True(t, strings.HasPrefix(filepath.Base(out.Path), "plant-biology-week-1-"), out.Path)
	require.Equal(t, ".md", filepath.Ext(out.Path))

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	require.Equal(t, out.Bytes, len(data))
	require.Contains(t, string(data), "# Plant Biology / Week 1")
	require.Contains(t, string(data), "## Slide 3")

	info, err := os.Stat(out.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestExport_JSON(t *testing.T) {
	database := openTestDB(t)
	id := storeSampleRun(t, database, "Plants")
	exportsDir := t.TempDir()
	path := filepath.Join(exportsDir, "plants.json")

	out, err := Export(context.Background(), database, testConfig(), exportsDir, ExportInput{ID: id, Format: "JSON", Path: path})
	require.NoError(t, err)
	require.Equal(t, path, out.Path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc run.ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	require.True(t, doc.LecternExport)
	require.Equal(t, run.ExportSchemaVersion, doc.SchemaVersion)
	require.Equal(t, id, doc.ID)
	require.Len(t, doc.Slides, 3)
	require.Equal(t, out.ExportedAt, doc.ExportedAt)
}

func TestExport_HTML(t *testing.T) {
	database := openTestDB(t)
	id := storeSampleRun(t, database, "Plants <&> Light")
	exportsDir := t.TempDir()
	path := filepath.Join(exportsDir, "plants.html")

	_, err := Export(context.Background(), database, testConfig(), exportsDir, ExportInput{ID: id, Format: "html", Path: path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)
	require.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	require.Contains(t, page, "<title>Plants &lt;&amp;&gt; Light</title>")
	require.Contains(t, page, "<h2>Slide 1</h2>")
	require.Contains(t, page, "<blockquote>")
}

func TestExport_OverwritesExistingFile(t *testing.T) {
	database := openTestDB(t)
	id := storeSampleRun(t, database, "Plants")
	exportsDir := t.TempDir()
	path := filepath.Join(exportsDir, "script.md")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0600))

	_, err := Export(context.Background(), database, testConfig(), exportsDir, ExportInput{ID: id, Path: path})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotEqual(t, "old", string(data))

	entries, err := os.ReadDir(exportsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file left behind")
}

func TestExport_Errors(t *testing.T) {
	database := openTestDB(t)
	id := storeSampleRun(t, database, "Plants")
	exportsDir := t.TempDir()
	ctx := context.Background()
	cfg := testConfig()

	tests := []struct {
		name  string
		input ExportInput
		code  errors.ErrorCode
	}{
		{"missing id", ExportInput{}, errors.ErrInvalidRequest},
		{"unknown run", ExportInput{ID: "01NOPE"}, errors.ErrNotFound},
		{"unknown format", ExportInput{ID: id, Format: "pdf"}, errors.ErrInvalidRequest},
		{"wrong extension", ExportInput{ID: id, Format: "json", Path: filepath.Join(exportsDir, "run.md")}, errors.ErrInvalidRequest},
		{"outside exports", ExportInput{ID: id, Path: filepath.Join(t.TempDir(), "script.md")}, errors.ErrInvalidRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Export(ctx, database, cfg, exportsDir, tc.input)
			require.True(t, errors.Is(err, tc.code), "got %v, want %s", err, tc.code)
		})
	}
}

func TestExport_DeletedRunNotExported(t *testing.T) {
	database := openTestDB(t)
	id := storeSampleRun(t, database, "Plants")
	_, err := Delete(database, DeleteInput{ID: id})
	require.NoError(t, err)

	_, err = Export(context.Background(), database, testConfig(), t.TempDir(), ExportInput{ID: id})
	require.True(t, errors.Is(err, errors.ErrNotFound), "got %v", err)
}

func TestExport_Cancelled(t *testing.T) {
	database := openTestDB(t)
	id := storeSampleRun(t, database, "Plants")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Export(ctx, database, testConfig(), t.TempDir(), ExportInput{ID: id})
	require.True(t, errors.Is(err, errors.ErrCancelled), "got %v", err)
}

func TestDefaultExportPath(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	got := defaultExportPath("/x/exports", "  My   Deck ", ExportHTML, now)
	require.Equal(t, filepath.Join("/x/exports", "my-deck-2026-03-04T050607.html"), got)
}

func TestParseExportFormat(t *testing.T) {
	for in, want := range map[string]ExportFormat{"": ExportMarkdown, "md": ExportMarkdown, "Markdown": ExportMarkdown, "json": ExportJSON, " HTML ": ExportHTML} {
		got, err := ParseExportFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseExportFormat("docx")
	require.Error(t, err)
}
