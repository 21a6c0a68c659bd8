package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/fddtools/fddcheck/internal/history"
	"github.com/fddtools/fddcheck/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
)

// ValidateTool handles the fdd_validate_artifact MCP tool: one artifact,
// one structured result.
type ValidateTool struct {
	runner  *report.Runner
	history *history.Store
}

// NewValidateTool creates a ValidateTool. The history store may be nil;
// runs are then not recorded.
func NewValidateTool(runner *report.Runner, hist *history.Store) *ValidateTool {
	return &ValidateTool{runner: runner, history: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidateTool) Definition() mcp.Tool {
	return mcp.NewTool("fdd_validate_artifact",
		mcp.WithDescription(
			"Validate one FDD artifact (BUSINESS.md, DESIGN.md, ADR.md, a feature "+
				"DESIGN.md, or CHANGES.md) against the FDD conventions: section "+
				"structure, typed identifiers, placeholders, links, traceability, "+
				"and code-marker reconciliation for feature designs. "+
				"Returns a JSON result with status PASS or FAIL and every finding.",
		),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Artifact kind: business, design, adr, feature, or changes."),
		),
		mcp.WithString("path",
			mcp.Description("Path to the artifact. Defaults to the canonical location "+
				"under the project root for business, design, and adr."),
		),
	)
}

// Handle processes the fdd_validate_artifact tool call.
func (t *ValidateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := artifact.Kind(strings.TrimSpace(req.GetString("kind", "")))
	if err := artifact.ValidateKind(kind); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := strings.TrimSpace(req.GetString("path", ""))
	if path == "" {
		root, err := findProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("finding project root: %w", err)
		}
		path, err = defaultArtifactPath(root, kind)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := t.runner.ValidateArtifact(kind, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
	}

	if t.history != nil {
		_, err := t.history.Record(history.RecordParams{
			Kind:       string(kind),
			Path:       path,
			Status:     result.Status,
			IssueCount: result.IssueCount(),
			Result:     result,
		})
		if err != nil {
			log.Printf("WARNING: recording validation run: %v", err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
