package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/fddtools/fddcheck/internal/history"
	"github.com/fddtools/fddcheck/internal/report"
	"github.com/mark3labs/mcp-go/mcp"
)

// FeatureTool handles the fdd_validate_feature MCP tool: the aggregate
// validation of a whole feature directory plus the architecture documents
// it traces into.
type FeatureTool struct {
	runner  *report.Runner
	history *history.Store
}

// NewFeatureTool creates a FeatureTool. The history store may be nil.
func NewFeatureTool(runner *report.Runner, hist *history.Store) *FeatureTool {
	return &FeatureTool{runner: runner, history: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *FeatureTool) Definition() mcp.Tool {
	return mcp.NewTool("fdd_validate_feature",
		mcp.WithDescription(
			"Validate a whole feature: the project's BUSINESS.md, DESIGN.md and "+
				"ADR.md plus the feature's DESIGN.md and CHANGES.md, including "+
				"scope coverage and code-marker reconciliation. "+
				"Overall status is PASS only when every artifact passes. "+
				"Run this before declaring a feature IMPLEMENTED or COMPLETED.",
		),
		mcp.WithString("feature",
			mcp.Required(),
			mcp.Description("Feature slug (resolved to architecture/features/feature-<slug> "+
				"under the project root) or a path to the feature directory."),
		),
	)
}

// Handle processes the fdd_validate_feature tool call.
func (t *FeatureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	feature := strings.TrimSpace(req.GetString("feature", ""))
	if feature == "" {
		return mcp.NewToolResultError("'feature' is required — a slug or a feature directory path"), nil
	}

	dir := feature
	if !strings.Contains(feature, string(filepath.Separator)) && !strings.HasPrefix(feature, "feature-") {
		root, err := findProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("finding project root: %w", err)
		}
		dir = filepath.Join(root, "architecture", "features", "feature-"+feature)
	}

	fr, err := t.runner.ValidateFeatureDir(dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("feature validation failed: %v", err)), nil
	}

	if t.history != nil {
		issues := 0
		for _, ar := range fr.Artifacts {
			issues += ar.Result.IssueCount()
		}
		_, err := t.history.Record(history.RecordParams{
			Kind:       "feature-dir",
			Path:       dir,
			Status:     fr.Status,
			IssueCount: issues,
			Result:     fr,
		})
		if err != nil {
			log.Printf("WARNING: recording validation run: %v", err)
		}
	}

	data, err := json.MarshalIndent(fr, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
