// Package tools implements the MCP tool handlers for artifact validation.
//
// Each tool is a struct receiving its dependencies at construction and
// exposing Definition/Handle in mcp-go's shape.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on the runner and the history store, not on the
//   individual validators
package tools

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/mark3labs/mcp-go/mcp"
)

// findProjectRoot walks up from the current working directory looking for
// an architecture/BUSINESS.md. If none is found, returns cwd. This allows
// tools to work from any subdirectory of the project.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}

	current := dir
	for {
		candidate := filepath.Join(current, "architecture", "BUSINESS.md")
		if _, err := os.Stat(candidate); err == nil {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// Reached filesystem root, no FDD project found.
			// Return original cwd — the caller decides what to do.
			return dir, nil
		}
		current = parent
	}
}

// defaultArtifactPath resolves an artifact kind to its canonical location
// under the project root. Feature-level artifacts have no canonical
// location without a feature slug and must be passed explicitly.
func defaultArtifactPath(root string, kind artifact.Kind) (string, error) {
	switch kind {
	case artifact.KindBusiness, artifact.KindDesign, artifact.KindADR:
		return filepath.Join(root, "architecture", kind.FileName()), nil
	}
	return "", fmt.Errorf("artifact kind %q has no canonical path: pass 'path' explicitly", kind)
}

// intArg extracts an integer argument from a tool request.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
