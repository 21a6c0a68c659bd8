// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools that depend on abstractions. No
// validation logic lives here — only wiring.
package server

import (
	"log"

	"github.com/fddtools/fddcheck/internal/config"
	"github.com/fddtools/fddcheck/internal/history"
	"github.com/fddtools/fddcheck/internal/prompts"
	"github.com/fddtools/fddcheck/internal/report"
	"github.com/fddtools/fddcheck/internal/resources"
	"github.com/fddtools/fddcheck/internal/tools"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all validation tools
// registered. This is the single place where dependencies are resolved.
//
// The returned cleanup function closes the history store's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if history init failed.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	if cfg == nil {
		cfg = config.Default()
	}

	runner := &report.Runner{Cfg: cfg}

	s := server.NewMCPServer(
		"fddcheck",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- History subsystem ---
	//
	// History is independent: if the store fails to open, validation
	// tools still register. We log a warning and skip the history tool —
	// the server stays fully functional for validation.

	cleanup := noop
	var hist *history.Store

	dbPath, err := cfg.HistoryDBPath()
	if err == nil {
		hist, err = history.New(dbPath)
	}
	if err != nil {
		log.Printf("WARNING: validation history disabled: %v", err)
		hist = nil
	} else {
		cleanup = func() {
			if err := hist.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}
	}

	// --- Register validation tools ---

	validateTool := tools.NewValidateTool(runner, hist)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	featureTool := tools.NewFeatureTool(runner, hist)
	s.AddTool(featureTool.Definition(), featureTool.Handle)

	if hist != nil {
		historyTool := tools.NewHistoryTool(hist)
		s.AddTool(historyTool.Definition(), historyTool.Handle)
	}

	// --- Register prompts (user-triggered workflows) ---

	validatePrompt := prompts.NewValidatePrompt()
	s.AddPrompt(validatePrompt.Definition(), validatePrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources (read-only context data) ---

	resourceHandler := resources.NewHandler(hist)
	s.AddResource(resourceHandler.FeaturesResource(), resourceHandler.HandleFeatures)
	if hist != nil {
		s.AddResource(resourceHandler.HistoryResource(), resourceHandler.HandleHistory)
	}

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when history
// is disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// when and how to run validation.
func serverInstructions() string {
	return `You have access to fddcheck, an FDD artifact validation MCP server.

## WHEN TO RUN VALIDATION

You MUST run validation when you:
- Finish editing BUSINESS.md, DESIGN.md, ADR.md, a feature DESIGN.md, or CHANGES.md
- Check off steps in a feature's scoped-instruction lists
- Add or remove fdd-begin/fdd-end markers in code
- Are about to set a feature's Status to IMPLEMENTED or COMPLETED
- Are asked whether the project's documents are consistent

## TOOLS

- fdd_validate_artifact: one document. Pass kind (business, design, adr,
  feature, changes) and optionally path; business/design/adr resolve to
  architecture/<NAME>.md under the project root.
- fdd_validate_feature: a whole feature. Pass the feature slug or the
  feature directory. Validates the architecture documents plus the
  feature design and change log, including scope coverage and the
  code-marker reconciliation in both directions.
- fdd_validation_history: recent runs, or one run's full report by run_id.

## RESOURCES

- fdd://project/features: every feature with its status and step progress
- fdd://validation/history: recent validation runs (when history is enabled)

## READING RESULTS

Results are JSON. status is PASS only when every issue list is empty.
Fix findings at their source: a traceability issue usually means an ID is
missing or misspelled in one document, not that the rule is wrong. Never
mark a feature COMPLETED while fdd_validate_feature reports FAIL.

Validation never modifies files. It is safe to run at any time.`
}
