package mcp

import "github.com/mark3labs/mcp-go/mcp"

var narrateToolDef = mcp.NewTool("deck_narrate",
	mcp.WithDescription("Generate presenter narration for a slide deck. Each slide's narration builds on the previous ones so the deck reads as one talk. "+
		"Give a deck file path (.json, .yaml, .yml, .md), several paths for a batch, or inline slides."),
	mcp.WithString("path", mcp.Description("Deck file to narrate")),
	mcp.WithArray("paths", mcp.Description("Several deck files, narrated concurrently"), mcp.Items(map[string]any{"type": "string"})),
	mcp.WithArray("slides", mcp.Description("Inline slides: [{\"slide_number\": 1, \"text\": \"...\"}]"), mcp.Items(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"slide_number": map[string]any{"type": "integer"},
			"text":         map[string]any{"type": "string"},
			"text_blocks":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	})),
	mcp.WithString("title", mcp.Description("Deck title, overrides the one in the file")),
	mcp.WithString("style", mcp.Description("Narration style key (see style_list)")),
	mcp.WithString("level", mcp.Description("Enrichment level key (see level_list)")),
	mcp.WithBoolean("dry_run", mcp.Description("Narrate without storing the run")),
	mcp.WithNumber("parallel", mcp.Description("Decks narrated at once for a batch (default: max_parallel_decks)")),
	mcp.WithDestructiveHintAnnotation(false),
	mcp.WithOpenWorldHintAnnotation(true),
)

var fetchToolDef = mcp.NewTool("run_fetch",
	mcp.WithDescription("Fetch a stored narration run with its slides and script checks."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	mcp.WithBoolean("include_deleted", mcp.Description("Also find soft-deleted runs")),
	mcp.WithBoolean("include_script", mcp.Description("Include the Markdown presenter script")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var listToolDef = mcp.NewTool("run_list",
	mcp.WithDescription("List stored narration runs, newest first."),
	mcp.WithString("style", mcp.Description("Only runs with this style")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted runs")),
	mcp.WithReadOnlyHintAnnotation(true),
)

var deleteToolDef = mcp.NewTool("run_delete",
	mcp.WithDescription("Soft-delete a narration run. run_purge removes it permanently."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	mcp.WithDestructiveHintAnnotation(true),
)

var purgeToolDef = mcp.NewTool("run_purge",
	mcp.WithDescription("Permanently remove soft-deleted runs."),
	mcp.WithNumber("older_than_days", mcp.Description("Only runs deleted more than this many days ago")),
	mcp.WithDestructiveHintAnnotation(true),
)

var exportToolDef = mcp.NewTool("run_export",
	mcp.WithDescription("Write a run to a file as a Markdown script, a JSON document, or an HTML page."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Run ID")),
	mcp.WithString("format", mcp.Description("Export format (default markdown)"), mcp.Enum("markdown", "json", "html")),
	mcp.WithString("path", mcp.Description("Destination; must sit directly in the exports directory or an allowed path")),
)

var styleListToolDef = mcp.NewTool("style_list",
	mcp.WithDescription("List the narration styles."),
	mcp.WithReadOnlyHintAnnotation(true),
)

var levelListToolDef = mcp.NewTool("level_list",
	mcp.WithDescription("List the enrichment levels."),
	mcp.WithReadOnlyHintAnnotation(true),
)
