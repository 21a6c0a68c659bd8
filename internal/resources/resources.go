// Package resources implements MCP resource handlers for validation data.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (fdd://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/fddtools/fddcheck/internal/fdl"
	"github.com/fddtools/fddcheck/internal/history"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handler manages validation resource endpoints.
type Handler struct {
	hist *history.Store
}

// NewHandler creates a resource Handler. hist may be nil; the history
// resource should not be registered in that case.
func NewHandler(hist *history.Store) *Handler {
	return &Handler{hist: hist}
}

// FeatureStatus summarizes one feature directory for the features resource.
type FeatureStatus struct {
	Slug       string `json:"slug"`
	Status     string `json:"status,omitempty"`
	Scopes     int    `json:"scopes"`
	Steps      int    `json:"steps"`
	StepsDone  int    `json:"steps_done"`
	HasChanges bool   `json:"has_changes"`
}

// FeaturesResource returns the MCP resource definition for the feature list.
func (h *Handler) FeaturesResource() mcp.Resource {
	return mcp.NewResource(
		"fdd://project/features",
		"FDD Feature Status",
		mcp.WithResourceDescription("All feature directories with their implementation status and FDL step progress"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleFeatures lists every feature-<slug> directory under the project's
// architecture/features dir with its status line and step counts.
func (h *Handler) HandleFeatures(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	root, err := findRoot()
	if err != nil {
		return nil, fmt.Errorf("finding project root: %w", err)
	}

	features, err := collectFeatures(root)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	return jsonResource(req.Params.URI, features)
}

// HistoryResource returns the MCP resource definition for recent runs.
func (h *Handler) HistoryResource() mcp.Resource {
	return mcp.NewResource(
		"fdd://validation/history",
		"Validation History",
		mcp.WithResourceDescription("Recent validation runs with status and issue counts"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleHistory returns the most recent validation runs as JSON.
func (h *Handler) HandleHistory(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.hist == nil {
		return errorResource(req.Params.URI, "validation history is not available"), nil
	}

	runs, err := h.hist.Recent("", 20)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	return jsonResource(req.Params.URI, runs)
}

// collectFeatures scans architecture/features for feature-* directories
// and summarizes each from its DESIGN.md and CHANGES.md.
func collectFeatures(root string) ([]FeatureStatus, error) {
	featuresDir := filepath.Join(root, "architecture", "features")
	entries, err := os.ReadDir(featuresDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FeatureStatus{}, nil
		}
		return nil, fmt.Errorf("reading features directory: %w", err)
	}

	var out []FeatureStatus
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "feature-") {
			continue
		}
		dir := filepath.Join(featuresDir, entry.Name())
		fs := FeatureStatus{Slug: strings.TrimPrefix(entry.Name(), "feature-")}

		if data, err := os.ReadFile(filepath.Join(dir, artifact.KindFeature.FileName())); err == nil {
			scopes := fdl.ExtractScopes(string(data))
			fs.Scopes = len(scopes)
			for _, sc := range scopes {
				fs.Steps += len(sc.Steps)
				fs.StepsDone += len(sc.CompletedInstructions())
			}
		}

		if data, err := os.ReadFile(filepath.Join(dir, artifact.KindChanges.FileName())); err == nil {
			fs.HasChanges = true
			if status, ok := fdl.ParseStatus(string(data)); ok {
				fs.Status = status
			}
		}

		out = append(out, fs)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

// jsonResource wraps v as a single JSON resource content.
func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
