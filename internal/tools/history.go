package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/fddtools/fddcheck/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// HistoryTool handles the fdd_validation_history MCP tool. It is only
// registered when the history store initialized successfully.
type HistoryTool struct {
	history *history.Store
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(hist *history.Store) *HistoryTool {
	return &HistoryTool{history: hist}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("fdd_validation_history",
		mcp.WithDescription(
			"List recent validation runs: what was validated, when, and whether "+
				"it passed. Pass run_id to retrieve one run's full JSON report.",
		),
		mcp.WithString("kind",
			mcp.Description("Filter by artifact kind (business, design, adr, feature, changes, feature-dir)."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max runs to list (default: 20)."),
		),
		mcp.WithString("run_id",
			mcp.Description("Return the full stored report for one run."),
		),
	)
}

// Handle processes the fdd_validation_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if runID := strings.TrimSpace(req.GetString("run_id", "")); runID != "" {
		run, err := t.history.Get(runID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if run.Result == "" {
			return mcp.NewToolResultText("(no stored report for this run)"), nil
		}
		return mcp.NewToolResultText(run.Result), nil
	}

	kind := strings.TrimSpace(req.GetString("kind", ""))
	limit := intArg(req, "limit", 20)

	runs, err := t.history.Recent(kind, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing runs: %v", err)), nil
	}
	if len(runs) == 0 {
		return mcp.NewToolResultText("No validation runs recorded yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Last %d validation run(s):\n\n", len(runs))
	for _, r := range runs {
		fmt.Fprintf(&b, "- [%s] %s %s — %s (%d issue(s))\n  id: %s\n",
			r.CreatedAt, r.Kind, r.Path, r.Status, r.IssueCount, r.ID)
	}
	return mcp.NewToolResultText(b.String()), nil
}
