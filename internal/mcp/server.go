// Package mcp exposes lectern operations as MCP tools over stdio.
package mcp

import (
	"database/sql"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/ops"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"deck_narrate": {
		def:     narrateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleNarrate },
	},
	"run_fetch": {
		def:     fetchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleFetch },
	},
	"run_list": {
		def:     listToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"run_delete": {
		def:     deleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"run_purge": {
		def:     purgeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge },
	},
	"run_export": {
		def:     exportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"style_list": {
		def:     styleListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleStyles },
	},
	"level_list": {
		def:     levelListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleLevels },
	},
}

// AllToolNames returns all tool names, sorted.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateDisabledTools returns the names in the list that are not tools.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates an MCP server with the lectern tools registered,
// minus those listed in cfg.DisabledTools.
func NewServer(db *sql.DB, cfg *config.Config, factory ops.BackendFactory, exportsDir, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"lectern",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg, factory, exportsDir)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run serves the MCP server over stdio until stdin closes.
func Run(db *sql.DB, cfg *config.Config, factory ops.BackendFactory, exportsDir, version string) error {
	s := NewServer(db, cfg, factory, exportsDir, version)
	return server.ServeStdio(s)
}
