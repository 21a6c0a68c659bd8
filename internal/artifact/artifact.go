// Package artifact defines the FDD artifact model: the document kinds the
// validator understands, how sibling documents are located on disk, and the
// typed identifier grammar shared by every validator.
//
// Design principles:
// - SRP: kinds, identifier extraction, and text loading in separate files
// - Artifacts are plain text; nothing here interprets markdown beyond lines
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind identifies one of the five FDD document kinds.
type Kind string

const (
	KindBusiness Kind = "business"
	KindDesign   Kind = "design"
	KindADR      Kind = "adr"
	KindFeature  Kind = "feature"
	KindChanges  Kind = "changes"
)

// validKinds is the set of allowed artifact kinds.
var validKinds = map[Kind]bool{
	KindBusiness: true,
	KindDesign:   true,
	KindADR:      true,
	KindFeature:  true,
	KindChanges:  true,
}

// ValidateKind returns an error if the kind is not recognized.
func ValidateKind(k Kind) error {
	if !validKinds[k] {
		return fmt.Errorf("invalid artifact kind %q: must be one of: business, design, adr, feature, changes", k)
	}
	return nil
}

// FileName returns the canonical file name for a kind.
// Feature designs share the DESIGN.md name — they are distinguished by
// living inside a feature-<slug> directory rather than the architecture root.
func (k Kind) FileName() string {
	switch k {
	case KindBusiness:
		return "BUSINESS.md"
	case KindADR:
		return "ADR.md"
	case KindChanges:
		return "CHANGES.md"
	default:
		return "DESIGN.md"
	}
}

// SiblingPath resolves the canonical location of another artifact kind
// relative to an artifact's own path. Siblings live in the same directory.
func SiblingPath(artifactPath string, k Kind) string {
	return filepath.Join(filepath.Dir(artifactPath), k.FileName())
}

// FeatureSlug derives the feature slug from an artifact path whose parent
// directory follows the feature-<slug> convention. Returns "" when the
// artifact does not belong to a feature directory.
func FeatureSlug(artifactPath string) string {
	parent := filepath.Base(filepath.Dir(artifactPath))
	const prefix = "feature-"
	if len(parent) > len(prefix) && parent[:len(prefix)] == prefix {
		return parent[len(prefix):]
	}
	return ""
}

// ProjectRoot ascends three levels from a feature directory
// (<root>/architecture/features/feature-<slug>) to the project root.
func ProjectRoot(featureDir string) string {
	return filepath.Dir(filepath.Dir(filepath.Dir(featureDir)))
}

// LoadText reads an artifact file in whole. A missing or unreadable file is
// returned as a descriptive message rather than an error value so callers
// can convert it into a cross-reference issue (validation never aborts on a
// missing sibling).
func LoadText(path string) (text string, loadErr string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Sprintf("required document not found: %s", path)
		}
		return "", fmt.Sprintf("failed to read %s: %v", path, err)
	}
	return string(data), ""
}
