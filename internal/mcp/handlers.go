package mcp

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/deck"
	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db         *sql.DB
	cfg        *config.Config
	factory    ops.BackendFactory
	exportsDir string
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, factory ops.BackendFactory, exportsDir string) *Handlers {
	return &Handlers{db: db, cfg: cfg, factory: factory, exportsDir: exportsDir}
}

// NarrateRequest represents the arguments for deck_narrate.
type NarrateRequest struct {
	Path     string       `json:"path,omitempty"`
	Paths    []string     `json:"paths,omitempty"`
	Slides   []deck.Slide `json:"slides,omitempty"`
	Title    string       `json:"title,omitempty"`
	Style    string       `json:"style,omitempty"`
	Level    string       `json:"level,omitempty"`
	DryRun   bool         `json:"dry_run,omitempty"`
	Parallel int          `json:"parallel,omitempty"`
}

// FetchRequest represents the arguments for run_fetch.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
	IncludeScript  bool   `json:"include_script,omitempty"`
}

// ListRequest represents the arguments for run_list.
type ListRequest struct {
	Style          string `json:"style,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// DeleteRequest represents the arguments for run_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// PurgeRequest represents the arguments for run_purge.
type PurgeRequest struct {
	OlderThanDays *int `json:"older_than_days,omitempty"`
}

// ExportRequest represents the arguments for run_export.
type ExportRequest struct {
	ID     string `json:"id"`
	Format string `json:"format,omitempty"`
	Path   string `json:"path,omitempty"`
}

// decode unmarshals tool arguments into a typed request.
// Unknown argument names are rejected so typos surface as INVALID_REQUEST.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("invalid arguments: %w", err)
	}
	return result, nil
}

// HandleNarrate handles deck_narrate. Several paths run as a batch.
func (h *Handlers) HandleNarrate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NarrateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	progress := progressNotifier(ctx, req)

	if len(input.Paths) > 0 {
		if input.Path != "" || input.Slides != nil {
			return errorResult(errors.NewInvalidRequest("paths cannot be combined with path or slides")), nil
		}
		inputs := make([]ops.NarrateInput, len(input.Paths))
		for i, p := range input.Paths {
			inputs[i] = ops.NarrateInput{
				Path:     p,
				Style:    input.Style,
				Level:    input.Level,
				DryRun:   input.DryRun,
				Progress: progress,
			}
		}
		result, err := ops.NarrateBatch(ctx, h.db, h.cfg, h.factory, inputs, input.Parallel)
		if err != nil {
			return errorResult(err), nil
		}
		return successResult(result)
	}

	result, err := ops.Narrate(ctx, h.db, h.cfg, h.factory, ops.NarrateInput{
		Path:     input.Path,
		Slides:   input.Slides,
		Title:    input.Title,
		Style:    input.Style,
		Level:    input.Level,
		DryRun:   input.DryRun,
		Progress: progress,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleFetch handles run_fetch.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
		IncludeScript:  input.IncludeScript,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleList handles run_list.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Style:          input.Style,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleDelete handles run_delete.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandlePurge handles run_purge.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[PurgeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Purge(h.db, ops.PurgeInput{OlderThanDays: input.OlderThanDays})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleExport handles run_export.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, h.exportsDir, ops.ExportInput{
		ID:     input.ID,
		Format: input.Format,
		Path:   input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// HandleStyles handles style_list.
func (h *Handlers) HandleStyles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Styles())
}

// HandleLevels handles level_list.
func (h *Handlers) HandleLevels(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return successResult(ops.Levels())
}

// progressNotifier forwards narration progress as MCP progress
// notifications when the client sent a progress token. Otherwise the
// messages only go to the log. Safe for the concurrent decks of a batch.
func progressNotifier(ctx context.Context, req mcp.CallToolRequest) func(string) {
	var token mcp.ProgressToken
	if req.Params.Meta != nil {
		token = req.Params.Meta.ProgressToken
	}
	srv := server.ServerFromContext(ctx)

	var step atomic.Int64
	return func(msg string) {
		n := step.Add(1)
		slog.Debug("narration progress", "message", msg)
		if token == nil || srv == nil {
			return
		}
		err := srv.SendNotificationToClient(ctx, "notifications/progress", map[string]any{
			"progressToken": token,
			"progress":      n,
			"message":       msg,
		})
		if err != nil {
			slog.Debug("progress notification failed", "error", err)
		}
	}
}

// errorResult creates an MCP error result from any error.
// INTERNAL errors keep their details out of the payload.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if lErr, ok := errors.As(err); ok {
		msg := lErr.Message
		// Keep context added by wrapping, e.g. "paths[1]: file not found: x".
		if full := err.Error(); full != lErr.Error() && lErr.Code != errors.ErrInternal {
			msg = strings.Replace(full, lErr.Error(), lErr.Message, 1)
		}
		errorObj := map[string]any{
			"code":    lErr.Code,
			"message": msg,
			"status":  lErr.Status,
		}
		if lErr.Code != errors.ErrInternal && len(lErr.Details) > 0 {
			errorObj["details"] = lErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
