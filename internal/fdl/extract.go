// Package fdl implements scoped-instruction tracking for feature designs:
// extracting scopes and their instruction steps from the document, scanning
// a source tree for begin/end code markers, and reconciling documented
// completion state against the markers and the change log.
package fdl

import (
	"strings"

	"github.com/fddtools/fddcheck/internal/artifact"
	"github.com/fddtools/fddcheck/internal/validate"
)

// Instruction is one step inside a scope, with its checkbox state.
type Instruction struct {
	ID   string `json:"id"`
	Done bool   `json:"done"`
}

// Scope groups the instruction steps declared under one scope ID.
// Steps are a sequence, not a set: document order and duplicates carry
// diagnostic meaning downstream.
type Scope struct {
	ID    string        `json:"id"`
	Steps []Instruction `json:"steps"`
}

// ExtractScopes folds over the feature document's lines, tracking the most
// recently seen scope declaration as the current scope. Every numbered step
// line under the current scope is recorded with its checkbox state and its
// trailing instruction token. Steps before any scope declaration are
// ignored.
func ExtractScopes(text string) []Scope {
	var scopes []Scope
	byID := make(map[string]int)
	current := -1

	for _, line := range strings.Split(text, "\n") {
		if artifact.FDLScopeLineRE.MatchString(line) {
			if ids := scopeIDOnLine(line); ids != "" {
				idx, seen := byID[ids]
				if !seen {
					idx = len(scopes)
					scopes = append(scopes, Scope{ID: ids})
					byID[ids] = idx
				}
				current = idx
			}
		}

		if current < 0 || !artifact.FDLStepLineRE.MatchString(line) {
			continue
		}
		m := artifact.FDLStepInstRE.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		done := checkboxChecked(line)
		scopes[current].Steps = append(scopes[current].Steps, Instruction{ID: m[1], Done: done})
	}

	return scopes
}

// CompletedInstructions returns the instruction IDs marked complete in a
// scope, in document order, duplicates preserved.
func (s Scope) CompletedInstructions() []string {
	var ids []string
	for _, step := range s.Steps {
		if step.Done {
			ids = append(ids, step.ID)
		}
	}
	return ids
}

// CompletedSet collects every document-complete instruction ID across all
// scopes.
func CompletedSet(scopes []Scope) map[string]bool {
	set := make(map[string]bool)
	for _, sc := range scopes {
		for _, id := range sc.CompletedInstructions() {
			set[id] = true
		}
	}
	return set
}

// ScopeRefs extracts every backticked scope ID referenced in the change
// log text.
func ScopeRefs(changesText string) map[string]bool {
	refs := make(map[string]bool)
	for _, m := range artifact.CodeSpanRE.FindAllStringSubmatch(changesText, -1) {
		tok := strings.TrimSpace(m[1])
		if artifact.ScopeIDRE.FindString(tok) == tok {
			refs[tok] = true
		}
	}
	return refs
}

// CoverageIssues reports every scope from the feature design not referenced
// verbatim in the change log.
func CoverageIssues(changesText string, scopes []Scope) []validate.Issue {
	refs := ScopeRefs(changesText)

	var issues []validate.Issue
	for _, sc := range scopes {
		if !refs[sc.ID] {
			issues = append(issues, validate.Issue{
				Type:    "fdl_coverage",
				Message: "FDL scope '" + sc.ID + "' from DESIGN.md not referenced in CHANGES.md",
				ScopeID: sc.ID,
			})
		}
	}
	return issues
}

// scopeIDOnLine returns the backticked scope identifier declared on a scope
// line, or "" when the line declares something else (a requirement ID on a
// checkbox line, for instance).
func scopeIDOnLine(line string) string {
	for _, m := range artifact.CodeSpanRE.FindAllStringSubmatch(line, -1) {
		tok := strings.TrimSpace(m[1])
		if artifact.ScopeIDRE.FindString(tok) == tok {
			return tok
		}
	}
	return ""
}

// checkboxChecked reports whether a step line's checkbox is marked.
func checkboxChecked(line string) bool {
	m := artifact.FDLStepLineRE.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	return m[1] == "x" || m[1] == "X"
}
