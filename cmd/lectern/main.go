package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/credential"
	"github.com/hpungsan/lectern/internal/db"
	"github.com/hpungsan/lectern/internal/llm"
	"github.com/hpungsan/lectern/internal/logger"
	"github.com/hpungsan/lectern/internal/mcp"
	"github.com/hpungsan/lectern/internal/ops"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"narrate": true, "show": true, "runs": true, "delete": true,
	"purge": true, "export": true, "styles": true, "levels": true,
	"serve": true, "help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	if cliCommands[arg] {
		return true
	}
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

func printBanner() {
	fmt.Println(`
   _           _
  | | ___  ___| |_ ___ _ __ _ __
  | |/ _ \/ __| __/ _ \ '__| '_ \
  | |  __/ (__| ||  __/ |  | | | |
  |_|\___|\___|\__\___|_|  |_| |_|

  Context-aware slide narration

  Usage: lectern <command> [options]
         lectern --help

  MCP server mode requires piped input.`)
}

// backendFactory resolves the API key on every call, so a key added to
// .env while the MCP server runs is picked up by the next pass.
func backendFactory(cfg *config.Config, baseDir string) ops.BackendFactory {
	return func(ctx context.Context) (llm.Backend, error) {
		key, err := credential.Load(cfg, baseDir)
		if err != nil {
			return nil, err
		}
		return llm.New(ctx, cfg, key)
	}
}

func main() {
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Help and version need no database.
	if isHelpOrVersion() {
		app := newCLIApp(nil, nil, "", nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not determine home directory: %v\n", err)
		os.Exit(1)
	}
	baseDir := filepath.Join(homeDir, ".lectern")

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	database, err := db.Init(baseDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	if unknown := mcp.ValidateDisabledTools(cfg.DisabledTools); len(unknown) > 0 {
		slog.Warn("unknown tools in disabled_tools", "tools", unknown, "known", mcp.AllToolNames())
	}

	factory := backendFactory(cfg, baseDir)

	if isCLIMode() {
		app := newCLIApp(database, cfg, baseDir, factory)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			database.Close()
			os.Exit(1)
		}
		return
	}

	// Unknown argument on a terminal: don't start the MCP server.
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'lectern --help' for usage.\n")
		database.Close()
		os.Exit(1)
	}

	if err := mcp.Run(database, cfg, factory, ops.ExportsDir(baseDir), Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		database.Close()
		os.Exit(1)
	}
}
