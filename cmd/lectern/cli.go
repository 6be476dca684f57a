package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/lectern/internal/config"
	"github.com/hpungsan/lectern/internal/errors"
	"github.com/hpungsan/lectern/internal/ops"
	"github.com/hpungsan/lectern/internal/web"
)

// stdout and stderr are swapped out in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config, baseDir string, factory ops.BackendFactory) *cli.App {
	app := &cli.App{
		Name:    "lectern",
		Usage:   "Context-aware slide narration",
		Version: Version,
		Commands: []*cli.Command{
			narrateCmd(db, cfg, factory),
			showCmd(db),
			runsCmd(db),
			deleteCmd(db),
			purgeCmd(db),
			exportCmd(db, cfg, baseDir),
			stylesCmd(),
			levelsCmd(),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// narrateCmd creates the narrate command.
func narrateCmd(db *sql.DB, cfg *config.Config, factory ops.BackendFactory) *cli.Command {
	return &cli.Command{
		Name:      "narrate",
		Usage:     "Generate narration for one or more deck files (.json, .yaml, .md)",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Narration style (see 'lectern styles')"},
			&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "Enrichment level (see 'lectern levels')"},
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Deck title (single file only)"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Decks narrated at once (default: max_parallel_decks)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Print the result without storing the run"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Suppress progress messages"},
		},
		Action: func(c *cli.Context) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return outputError(errors.NewInvalidRequest("at least one deck file is required"))
			}
			if len(paths) > 1 && c.String("title") != "" {
				return outputError(errors.NewInvalidRequest("--title applies to a single deck"))
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			inputs := make([]ops.NarrateInput, len(paths))
			for i, p := range paths {
				inputs[i] = ops.NarrateInput{
					Path:   p,
					Title:  c.String("title"),
					Style:  c.String("style"),
					Level:  c.String("level"),
					DryRun: c.Bool("dry-run"),
				}
				if !c.Bool("quiet") {
					inputs[i].Progress = progressPrinter(p, len(paths) > 1)
				}
			}

			if len(inputs) == 1 {
				output, err := ops.Narrate(ctx, db, cfg, factory, inputs[0])
				if err != nil {
					return outputError(err)
				}
				return outputJSON(output)
			}

			output, err := ops.NarrateBatch(ctx, db, cfg, factory, inputs, c.Int("parallel"))
			if err != nil {
				return outputError(err)
			}
			if err := outputJSON(output); err != nil {
				return err
			}
			if output.Failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d decks failed", output.Failed, len(inputs)), 1)
			}
			return nil
		},
	}
}

// progressPrinter writes progress lines to stderr, prefixed with the deck
// path when several decks share the terminal.
func progressPrinter(path string, prefix bool) func(string) {
	return func(msg string) {
		if prefix {
			fmt.Fprintf(stderr, "[%s] %s\n", path, msg)
			return
		}
		fmt.Fprintln(stderr, msg)
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a stored run",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "script", Usage: "Print only the Markdown presenter script"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted runs"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Fetch(db, ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
				IncludeScript:  c.Bool("script"),
			})
			if err != nil {
				return outputError(err)
			}
			if c.Bool("script") {
				_, err := io.WriteString(stdout, output.Script)
				return err
			}
			return outputJSON(output)
		},
	}
}

// runsCmd creates the runs command.
func runsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List stored runs, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "style", Aliases: []string{"s"}, Usage: "Filter by style"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted runs"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Style:          c.String("style"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete a run",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted runs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			var input ops.PurgeInput
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(db, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config, baseDir string) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write a run to a file as a script, JSON document or HTML page",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "markdown", Usage: "markdown|json|html"},
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.lectern/exports/<title>-<timestamp>.<ext>)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, db, cfg, ops.ExportsDir(baseDir), ops.ExportInput{
				ID:     c.Args().First(),
				Format: c.String("format"),
				Path:   c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// stylesCmd creates the styles command.
func stylesCmd() *cli.Command {
	return &cli.Command{
		Name:  "styles",
		Usage: "List narration styles",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Styles())
		},
	}
}

// levelsCmd creates the levels command.
func levelsCmd() *cli.Command {
	return &cli.Command{
		Name:  "levels",
		Usage: "List enrichment levels",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Levels())
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Browse runs in a local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Address to bind"},
			&cli.IntFlag{Name: "port", Value: 8421, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv, err := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			if err != nil {
				return outputError(errors.NewInternal(err))
			}
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	lErr, ok := errors.As(err)
	if !ok {
		return cli.Exit(err.Error(), 1)
	}
	msg := fmt.Sprintf("[%s] %s", lErr.Code, lErr.Message)
	if id, ok := lErr.Details["run_id"].(string); ok {
		msg += " (partial run stored as " + id + ")"
	}
	return cli.Exit(msg, 1)
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}

