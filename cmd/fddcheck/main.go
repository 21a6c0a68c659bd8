// Fddcheck: FDD Document Validation MCP Server
//
// A universal MCP server that integrates with any AI coding tool
// (Claude Code, OpenCode, Gemini CLI, Codex, Cursor, VS Code Copilot)
// to validate feature-driven development documents: structure, typed
// IDs, traceability, and implementation status.
//
// Usage:
//
//	fddcheck serve               # Start MCP server (stdio transport)
//	fddcheck validate <kind>     # Validate a single document
//	fddcheck feature <slug>      # Validate a whole feature directory
//	fddcheck history             # List recent validation runs
//	fddcheck update              # Update to the latest version
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/fddtools/fddcheck/internal/config"
	"github.com/fddtools/fddcheck/internal/history"
	"github.com/fddtools/fddcheck/internal/report"
	fddserver "github.com/fddtools/fddcheck/internal/server"
	"github.com/fddtools/fddcheck/internal/updater"
	"github.com/fddtools/fddcheck/internal/validate"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "validate":
		runValidate(os.Args[2:])
	case "feature":
		runFeature(os.Args[2:])
	case "history":
		runHistory(os.Args[2:])
	case "update":
		runUpdate()
	case "--help", "-h", "help":
		printUsage()
		os.Exit(0)
	case "--version", "-v", "version":
		fmt.Printf("fddcheck v%s\n", fddserver.Version)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	cfg := loadConfig()

	s, cleanup, err := fddserver.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}
	defer cleanup()

	// Background version check — prints to stderr so it doesn't
	// interfere with MCP's stdio transport on stdout.
	go checkForUpdates()

	// Graceful shutdown on interrupt.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	_ = ctx // stdio server manages its own lifecycle

	return server.ServeStdio(s)
}

// runValidate checks a single document and prints a markdown report.
// Exit code 0 means the document passed, 1 means it failed (or the
// command itself errored).
func runValidate(args []string) {
	jsonOut, args := popFlag(args, "--json")
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: fddcheck validate <kind> [path] [--json]\n")
		fmt.Fprintf(os.Stderr, "Kinds: business, design, adr, feature, changes\n")
		os.Exit(1)
	}

	kind := artifact.Kind(args[0])
	if err := artifact.ValidateKind(kind); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path, err := resolvePath(kind, args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := loadConfig()
	runner := &report.Runner{Cfg: cfg}
	result, err := runner.ValidateArtifact(kind, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	recordRun(cfg, history.RecordParams{
		Kind:       string(kind),
		Path:       path,
		Status:     result.Status,
		IssueCount: result.IssueCount(),
		Result:     result,
	})

	if jsonOut {
		printJSON(result)
	} else {
		fmt.Print(report.Markdown(kind, path, result))
	}

	if result.Status != validate.StatusPass {
		os.Exit(1)
	}
}

// runFeature validates a feature directory plus its architecture
// documents. The argument is a feature slug (resolved under
// architecture/features/) or an explicit directory path.
func runFeature(args []string) {
	jsonOut, args := popFlag(args, "--json")
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: fddcheck feature <slug-or-dir> [--json]\n")
		os.Exit(1)
	}

	featureDir, err := resolveFeatureDir(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := loadConfig()
	runner := &report.Runner{Cfg: cfg}
	fr, err := runner.ValidateFeatureDir(featureDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	issues := 0
	for _, ar := range fr.Artifacts {
		issues += ar.Result.IssueCount()
	}
	recordRun(cfg, history.RecordParams{
		Kind:       "feature-dir",
		Path:       featureDir,
		Status:     fr.Status,
		IssueCount: issues,
		Result:     fr,
	})

	if jsonOut {
		printJSON(fr)
	} else {
		fmt.Print(report.FeatureMarkdown(fr))
	}

	if fr.Status != validate.StatusPass {
		os.Exit(1)
	}
}

// recordRun writes the run to the history database, best-effort: a
// validation result is never discarded because history is unavailable.
func recordRun(cfg *config.Config, p history.RecordParams) {
	dbPath, err := cfg.HistoryDBPath()
	if err != nil {
		return
	}
	hist, err := history.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: validation history disabled: %v\n", err)
		return
	}
	defer hist.Close()
	if _, err := hist.Record(p); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recording run: %v\n", err)
	}
}

// runHistory lists recent validation runs, or prints one run's stored
// JSON report when given a run id.
func runHistory(args []string) {
	dbPath, err := loadConfig().HistoryDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	hist, err := history.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening history: %v\n", err)
		os.Exit(1)
	}
	defer hist.Close()

	if len(args) > 0 {
		run, err := hist.Get(args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if run.Result == "" {
			fmt.Println("(no stored report for this run)")
			return
		}
		fmt.Println(run.Result)
		return
	}

	runs, err := hist.Recent("", 20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: listing runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No validation runs recorded yet.")
		return
	}
	for _, r := range runs {
		fmt.Printf("- [%s] %s %s — %s (%d issue(s))\n  id: %s\n",
			r.CreatedAt, r.Kind, r.Path, r.Status, r.IssueCount, r.ID)
	}
}

// resolvePath returns the explicit path when given, otherwise the
// canonical location of the kind under the project's architecture dir.
func resolvePath(kind artifact.Kind, rest []string) (string, error) {
	if len(rest) > 0 {
		return rest[0], nil
	}
	root, err := findProjectRoot()
	if err != nil {
		return "", err
	}
	switch kind {
	case artifact.KindBusiness, artifact.KindDesign, artifact.KindADR:
		return filepath.Join(root, "architecture", kind.FileName()), nil
	default:
		return "", fmt.Errorf("artifact kind %q has no canonical path: pass the path explicitly", kind)
	}
}

// resolveFeatureDir maps a bare slug to architecture/features/feature-<slug>
// under the project root. Anything containing a path separator or a
// "feature-" prefix is treated as a directory path.
func resolveFeatureDir(arg string) (string, error) {
	if filepath.Base(arg) != arg || strings.HasPrefix(arg, "feature-") {
		return arg, nil
	}
	root, err := findProjectRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "architecture", "features", "feature-"+arg), nil
}

// findProjectRoot walks up from the working directory looking for
// architecture/BUSINESS.md. Falls back to the working directory.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	for d := dir; ; d = filepath.Dir(d) {
		if _, err := os.Stat(filepath.Join(d, "architecture", "BUSINESS.md")); err == nil {
			return d, nil
		}
		if filepath.Dir(d) == d {
			return dir, nil
		}
	}
}

// loadConfig reads .fddcheck.yaml from the project root. Config errors
// are not fatal for the CLI — warn and fall back to defaults.
func loadConfig() *config.Config {
	root, err := findProjectRoot()
	if err != nil {
		return config.Default()
	}
	cfg, err := config.Load(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		return config.Default()
	}
	return cfg
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// popFlag removes a flag from args, reporting whether it was present.
func popFlag(args []string, flag string) (bool, []string) {
	out := args[:0:0]
	found := false
	for _, a := range args {
		if a == flag {
			found = true
			continue
		}
		out = append(out, a)
	}
	return found, out
}

// checkForUpdates runs a non-blocking version check and prints a notice
// to stderr if an update is available. This runs in a goroutine during
// "serve" and is best-effort — network failures are silently ignored.
func checkForUpdates() {
	result := updater.CheckVersion(fddserver.Version)
	if result.UpdateAvailable {
		fmt.Fprintf(os.Stderr,
			"\n  📦 Update available: v%s → v%s\n"+
				"     Run: fddcheck update\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}

// runUpdate performs a self-update to the latest version.
func runUpdate() {
	fmt.Fprintf(os.Stderr, "🔍 Checking for updates...\n")

	result := updater.CheckVersion(fddserver.Version)
	if !result.UpdateAvailable {
		fmt.Fprintf(os.Stderr, "✅ Already at the latest version (v%s)\n", result.CurrentVersion)
		return
	}

	fmt.Fprintf(os.Stderr, "📦 New version available: v%s → v%s\n", result.CurrentVersion, result.LatestVersion)
	fmt.Fprintf(os.Stderr, "⬇️  Downloading...\n")

	if err := updater.SelfUpdate(fddserver.Version); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Update failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "\n   You can download manually from:\n   %s\n", result.ReleaseURL)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "✅ Updated to v%s!\n", result.LatestVersion)
	fmt.Fprintf(os.Stderr, "   Restart fddcheck to use the new version.\n")
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Fddcheck v%s — FDD Document Validation MCP Server

Usage:
  fddcheck serve                       Start the MCP server (stdio transport)
  fddcheck validate <kind> [path]      Validate one document (kinds: business,
                                       design, adr, feature, changes)
  fddcheck feature <slug-or-dir>       Validate a feature directory and its
                                       architecture documents
  fddcheck history [run-id]            List recent validation runs, or print
                                       one run's stored report
  fddcheck update                      Update to the latest version

Flags:
  --json                               Emit the raw report as JSON

Exit codes:
  0  validation passed
  1  validation failed or command error

Configuration:
  Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "fddcheck": {
        "command": "fddcheck",
        "args": ["serve"]
      }
    }
  }

Learn more: https://github.com/fddtools/fddcheck
`, fddserver.Version)
}
